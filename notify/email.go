package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/linesmerrill/incident-reports-api/templates/html"
)

// MailSender is the part of the sendgrid client used here
type MailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Email mails the incident mailbox when a new incident is reported. Other
// event types are ignored.
type Email struct {
	Sender  MailSender
	From    string
	To      string
	BaseURL string
}

// NewEmail returns an Email notifier backed by the sendgrid API
func NewEmail(apiKey, from, to, baseURL string) *Email {
	return &Email{
		Sender:  sendgrid.NewSendClient(apiKey),
		From:    from,
		To:      to,
		BaseURL: baseURL,
	}
}

// Notify implements Notifier
func (e *Email) Notify(_ context.Context, ev Event) {
	if ev.Type != IncidentCreated || e.To == "" {
		return
	}

	subject := fmt.Sprintf("New incident %s at store %d", ev.CaseNumber, ev.StoreNumber)
	var body strings.Builder
	fmt.Fprintf(&body, "Case number: %s\n", ev.CaseNumber)
	fmt.Fprintf(&body, "Store: %d\n", ev.StoreNumber)
	fmt.Fprintf(&body, "Reported: %s\n", ev.At.Format("Jan 2, 2006 3:04 PM MST"))
	if e.BaseURL != "" {
		fmt.Fprintf(&body, "\nReview it at %s/incidents/%s\n", strings.TrimRight(e.BaseURL, "/"), ev.IncidentID)
	}

	from := mail.NewEmail("Incident Reports", e.From)
	to := mail.NewEmail("Incident Reports", e.To)
	message := mail.NewSingleEmail(from, subject, to, body.String(), templates.RenderIncidentEmail(subject, body.String()))

	response, err := e.Sender.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send incident email", "caseNumber", ev.CaseNumber, "error", err)
		return
	}
	if response.StatusCode >= 300 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
}

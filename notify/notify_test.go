package notify

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) Notify(_ context.Context, ev Event) {
	r.events = append(r.events, ev)
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, nil, b, Log{}, Nop{}}

	m.Notify(context.Background(), Event{Type: IncidentCreated, IncidentID: "1"})

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, "1", b.events[0].IncidentID)
}

type fakeSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestEmailSendsOnCreate(t *testing.T) {
	sender := &fakeSender{status: 202}
	e := &Email{Sender: sender, From: "noreply@example.com", To: "hse@example.com", BaseURL: "https://hse.example.com/"}

	e.Notify(context.Background(), Event{
		Type:        IncidentCreated,
		IncidentID:  "abc",
		CaseNumber:  "HSE2306150001",
		StoreNumber: 2742091,
		At:          time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC),
	})

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "New incident HSE2306150001 at store 2742091", msg.Subject)
	require.Len(t, msg.Content, 2)
	assert.True(t, strings.Contains(msg.Content[0].Value, "https://hse.example.com/incidents/abc"))
}

func TestEmailIgnoresOtherEvents(t *testing.T) {
	sender := &fakeSender{status: 202}
	e := &Email{Sender: sender, To: "hse@example.com"}

	e.Notify(context.Background(), Event{Type: IncidentDeleted})
	e.Notify(context.Background(), Event{Type: IncidentStatusUpdated})

	assert.Empty(t, sender.sent)
}

func TestEmailSendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	e := &Email{Sender: sender, To: "hse@example.com"}

	assert.NotPanics(t, func() {
		e.Notify(context.Background(), Event{Type: IncidentCreated})
	})
	assert.Len(t, sender.sent, 1)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), Event{Type: IncidentStatusUpdated, IncidentID: "42", Status: "complete"})

	var msg struct {
		Event string `json:"event"`
		Data  Event  `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, IncidentStatusUpdated, msg.Event)
	assert.Equal(t, "42", msg.Data.IncidentID)
	assert.Equal(t, "complete", msg.Data.Status)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubSlowClientDoesNotBlockNotify(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	stalled, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer stalled.Close()

	assert.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	ids := make([]string, 5000)
	for i := range ids {
		ids[i] = "64b7f0c2a1e3d4f5a6b7c8d9"
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			hub.Notify(context.Background(), Event{Type: IncidentsBulkDeleted, IDs: ids})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Notify blocked on a client that never reads")
	}
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}

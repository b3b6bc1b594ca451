// Package casenumber issues and parses the human readable identifiers given
// to incident reports: "HSE" + YYMMDD + a four digit daily sequence.
package casenumber

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/models"
)

// Prefix starts every case number
const Prefix = "HSE"

const (
	seqDigits = 4
	length    = len(Prefix) + 6 + seqDigits
)

// Finder runs a query against the incident store
type Finder interface {
	Query(ctx context.Context, q models.Query) ([]models.IncidentDocument, error)
}

// Generator hands out the next case number for the current day.
//
// Generate reads the highest case number issued today and adds one. The read
// and the caller's later write are not atomic: two reports created at the same
// moment can read the same maximum and leave with the same case number.
// Nothing here detects that; see DESIGN.md.
type Generator struct {
	Finder   Finder
	Now      func() time.Time
	Location *time.Location
}

// NewGenerator returns a Generator using the wall clock in loc (time.Local when nil)
func NewGenerator(f Finder, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	return &Generator{Finder: f, Now: time.Now, Location: loc}
}

// DayPrefix returns "HSE" followed by the two digit year, month and day of t
func DayPrefix(t time.Time) string {
	return fmt.Sprintf("%s%02d%02d%02d", Prefix, t.Year()%100, int(t.Month()), t.Day())
}

// Generate returns the next case number for today. When the store cannot be
// queried it returns a degraded identifier built from the epoch milliseconds
// so that the incident can still be written.
func (g *Generator) Generate(ctx context.Context) string {
	now := g.now()
	prefix := DayPrefix(now)

	docs, err := g.Finder.Query(ctx, models.Query{
		Constraints: []models.Constraint{
			{Field: "caseNumber", Operator: models.OpGreaterEqual, Value: prefix},
			{Field: "caseNumber", Operator: models.OpLess, Value: prefix + "9999"},
		},
		OrderBy:    "caseNumber",
		Descending: true,
		Limit:      1,
	})
	if err != nil {
		fallback := Fallback(now)
		zap.S().Errorw("failed to look up latest case number, using fallback",
			"prefix", prefix,
			"caseNumber", fallback,
			"error", err)
		return fallback
	}

	seq := 1
	if len(docs) > 0 {
		last := docs[0].CaseNumber
		n, perr := lastSequence(last)
		if perr != nil {
			zap.S().Warnw("latest case number has an unreadable sequence, restarting at 1",
				"caseNumber", last,
				"error", perr)
		} else {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, seqDigits, seq)
}

// Fallback builds the degraded identifier used when the store is unreachable
func Fallback(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return Prefix + ms
}

func (g *Generator) now() time.Time {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	loc := g.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

func lastSequence(caseNumber string) (int, error) {
	if len(caseNumber) < seqDigits {
		return 0, fmt.Errorf("case number %q too short", caseNumber)
	}
	return strconv.Atoi(caseNumber[len(caseNumber)-seqDigits:])
}

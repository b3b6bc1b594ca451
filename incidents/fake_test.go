package incidents

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/incident-reports-api/models"
	"github.com/linesmerrill/incident-reports-api/notify"
	"github.com/linesmerrill/incident-reports-api/timestamps"
)

// fakeIncidentDB is an in-memory IncidentDatabase that evaluates constraints
// the way the mongo filter would.
type fakeIncidentDB struct {
	mu        sync.Mutex
	docs      []models.IncidentDocument
	queryErr  error
	addErr    error
	writeErrs map[string]error
	manyErr   error
	writes    int
}

func (f *fakeIncidentDB) Query(ctx context.Context, q models.Query) ([]models.IncidentDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []models.IncidentDocument
	for _, d := range f.docs {
		if matchesAll(d, q.Constraints) {
			out = append(out, d)
		}
	}
	if q.OrderBy == "caseNumber" {
		sort.Slice(out, func(i, j int) bool {
			if q.Descending {
				return out[i].CaseNumber > out[j].CaseNumber
			}
			return out[i].CaseNumber < out[j].CaseNumber
		})
	}
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeIncidentDB) Count(ctx context.Context, constraints []models.Constraint) (int64, error) {
	docs, err := f.Query(ctx, models.Query{Constraints: constraints})
	return int64(len(docs)), err
}

func (f *fakeIncidentDB) Get(ctx context.Context, id string) (*models.IncidentDocument, error) {
	return f.findOne(func(d models.IncidentDocument) bool { return d.ID.Hex() == id })
}

func (f *fakeIncidentDB) FindByCaseNumber(ctx context.Context, caseNumber string) (*models.IncidentDocument, error) {
	return f.findOne(func(d models.IncidentDocument) bool { return d.CaseNumber == caseNumber })
}

func (f *fakeIncidentDB) findOne(match func(models.IncidentDocument) bool) (*models.IncidentDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	for _, d := range f.docs {
		if match(d) {
			d := d
			return &d, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeIncidentDB) Add(ctx context.Context, doc models.IncidentDocument) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	doc.ID = primitive.NewObjectID()
	doc.Timestamp = primitive.NewDateTimeFromTime(time.Now())
	f.docs = append(f.docs, doc)
	return doc.ID.Hex(), nil
}

func (f *fakeIncidentDB) Update(ctx context.Context, id string, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if err := f.writeErrs[id]; err != nil {
		return err
	}
	for i := range f.docs {
		if f.docs[i].ID.Hex() != id {
			continue
		}
		if v, ok := fields["status"].(string); ok {
			f.docs[i].Status = v
		}
		if v, ok := fields["policeReport"].(string); ok {
			f.docs[i].PoliceReport = v
		}
		f.docs[i].UpdatedAt = time.Now()
		return nil
	}
	return mongo.ErrNoDocuments
}

func (f *fakeIncidentDB) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if err := f.writeErrs[id]; err != nil {
		return err
	}
	for i := range f.docs {
		if f.docs[i].ID.Hex() == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeIncidentDB) UpdateMany(ctx context.Context, ids []string, fields bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.manyErr != nil {
		return 0, f.manyErr
	}
	var n int64
	for i := range f.docs {
		if !contains(ids, f.docs[i].ID.Hex()) {
			continue
		}
		if v, ok := fields["status"].(string); ok {
			f.docs[i].Status = v
		}
		f.docs[i].UpdatedAt = time.Now()
		n++
	}
	return n, nil
}

func (f *fakeIncidentDB) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.manyErr != nil {
		return 0, f.manyErr
	}
	kept := f.docs[:0]
	var n int64
	for _, d := range f.docs {
		if contains(ids, d.ID.Hex()) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	f.docs = kept
	return n, nil
}

func (f *fakeIncidentDB) seed(docs ...models.IncidentDocument) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.ID.IsZero() {
			d.ID = primitive.NewObjectID()
		}
		f.docs = append(f.docs, d)
		ids = append(ids, d.ID.Hex())
	}
	return ids
}

func matchesAll(d models.IncidentDocument, constraints []models.Constraint) bool {
	for _, c := range constraints {
		if !matches(d, c) {
			return false
		}
	}
	return true
}

func matches(d models.IncidentDocument, c models.Constraint) bool {
	switch c.Field {
	case "id":
		return contains(c.Value.([]string), d.ID.Hex())
	case "storeNumber":
		return d.StoreNumber == c.Value.(int)
	case "status":
		if c.Operator == models.OpIn {
			return contains(c.Value.([]string), d.Status)
		}
		return d.Status == c.Value.(string)
	case "incidentTypes":
		return contains(d.IncidentTypes, c.Value.(string))
	case "caseNumber":
		v := c.Value.(string)
		switch c.Operator {
		case models.OpGreaterEqual:
			return d.CaseNumber >= v
		case models.OpLess:
			return d.CaseNumber < v
		}
		return d.CaseNumber == v
	case "timestamp":
		t, ok := timestamps.Normalize(d.Timestamp)
		if !ok {
			return false
		}
		v := c.Value.(time.Time)
		switch c.Operator {
		case models.OpGreaterEqual:
			return !t.Before(v)
		case models.OpLessEqual:
			return !t.After(v)
		case models.OpLess:
			return t.Before(v)
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

var errStoreDown = errors.New("store unavailable")

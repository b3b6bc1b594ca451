package handlers

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/incident-reports-api/models"
)

// memIncidentDB understands the constraints the handlers can produce
type memIncidentDB struct {
	mu   sync.Mutex
	docs []models.IncidentDocument
	err  error
}

func (m *memIncidentDB) Query(ctx context.Context, q models.Query) ([]models.IncidentDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.IncidentDocument
	for _, d := range m.docs {
		if m.match(d, q.Constraints) {
			out = append(out, d)
		}
	}
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		// only the case number generator asks for a limit; it wants the highest
		best := out[0]
		for _, d := range out {
			if d.CaseNumber > best.CaseNumber {
				best = d
			}
		}
		out = []models.IncidentDocument{best}
	}
	return out, nil
}

func (m *memIncidentDB) match(d models.IncidentDocument, constraints []models.Constraint) bool {
	for _, c := range constraints {
		switch c.Field {
		case "id":
			found := false
			for _, id := range c.Value.([]string) {
				found = found || id == d.ID.Hex()
			}
			if !found {
				return false
			}
		case "storeNumber":
			if d.StoreNumber != c.Value.(int) {
				return false
			}
		case "status":
			if c.Operator == models.OpEqual && d.Status != c.Value.(string) {
				return false
			}
			if c.Operator == models.OpIn {
				ok := false
				for _, s := range c.Value.([]string) {
					ok = ok || s == d.Status
				}
				if !ok {
					return false
				}
			}
		case "caseNumber":
			v := c.Value.(string)
			if c.Operator == models.OpGreaterEqual && d.CaseNumber < v {
				return false
			}
			if c.Operator == models.OpLess && d.CaseNumber >= v {
				return false
			}
		}
	}
	return true
}

func (m *memIncidentDB) Count(ctx context.Context, constraints []models.Constraint) (int64, error) {
	docs, err := m.Query(ctx, models.Query{Constraints: constraints})
	return int64(len(docs)), err
}

func (m *memIncidentDB) Get(ctx context.Context, id string) (*models.IncidentDocument, error) {
	return m.find(func(d models.IncidentDocument) bool { return d.ID.Hex() == id })
}

func (m *memIncidentDB) FindByCaseNumber(ctx context.Context, caseNumber string) (*models.IncidentDocument, error) {
	return m.find(func(d models.IncidentDocument) bool { return d.CaseNumber == caseNumber })
}

func (m *memIncidentDB) find(match func(models.IncidentDocument) bool) (*models.IncidentDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.docs {
		if match(d) {
			d := d
			return &d, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memIncidentDB) Add(ctx context.Context, doc models.IncidentDocument) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	doc.ID = primitive.NewObjectID()
	doc.Timestamp = primitive.NewDateTimeFromTime(time.Now())
	m.docs = append(m.docs, doc)
	return doc.ID.Hex(), nil
}

func (m *memIncidentDB) Update(ctx context.Context, id string, fields bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID.Hex() != id {
			continue
		}
		if v, ok := fields["status"].(string); ok {
			m.docs[i].Status = v
		}
		if v, ok := fields["policeReport"].(string); ok {
			m.docs[i].PoliceReport = v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (m *memIncidentDB) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID.Hex() == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memIncidentDB) UpdateMany(ctx context.Context, ids []string, fields bson.M) (int64, error) {
	var n int64
	for _, id := range ids {
		if err := m.Update(ctx, id, fields); err == nil {
			n++
		}
	}
	return n, nil
}

func (m *memIncidentDB) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if err := m.Delete(ctx, id); err == nil {
			n++
		}
	}
	return n, nil
}

type memCategoryDB struct {
	items []models.Category
	err   error
}

func (m *memCategoryDB) List(ctx context.Context) ([]models.Category, error) {
	return m.items, m.err
}

func (m *memCategoryDB) Count(ctx context.Context) (int64, error) {
	return int64(len(m.items)), m.err
}

func (m *memCategoryDB) Get(ctx context.Context, id string) (*models.Category, error) {
	for _, c := range m.items {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memCategoryDB) Insert(ctx context.Context, c models.Category) error {
	m.items = append(m.items, c)
	return nil
}

func (m *memCategoryDB) InsertMany(ctx context.Context, list []models.Category) error {
	m.items = append(m.items, list...)
	return nil
}

func (m *memCategoryDB) Replace(ctx context.Context, c models.Category) error {
	for i := range m.items {
		if m.items[i].ID == c.ID {
			m.items[i] = c
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memCategoryDB) Update(ctx context.Context, id string, fields bson.M) error {
	return nil
}

func (m *memCategoryDB) Delete(ctx context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memCategoryDB) SetDisplayOrder(ctx context.Context, ids []string) error {
	for i, id := range ids {
		for j := range m.items {
			if m.items[j].ID == id {
				m.items[j].DisplayOrder = i
			}
		}
	}
	return nil
}

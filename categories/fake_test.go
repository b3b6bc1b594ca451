package categories

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/incident-reports-api/models"
	"github.com/linesmerrill/incident-reports-api/notify"
)

var errStoreDown = errors.New("store unavailable")

type fakeCategoryDB struct {
	items     map[string]models.Category
	listErr   error
	writeErr  error
	listCalls int
	inserts   int
}

func newFakeCategoryDB(seed ...models.Category) *fakeCategoryDB {
	f := &fakeCategoryDB{items: map[string]models.Category{}}
	for _, c := range seed {
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeCategoryDB) List(ctx context.Context) ([]models.Category, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Category, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeCategoryDB) Count(ctx context.Context) (int64, error) {
	if f.listErr != nil {
		return 0, f.listErr
	}
	return int64(len(f.items)), nil
}

func (f *fakeCategoryDB) Get(ctx context.Context, id string) (*models.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	c, ok := f.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &c, nil
}

func (f *fakeCategoryDB) Insert(ctx context.Context, c models.Category) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.inserts++
	f.items[c.ID] = c
	return nil
}

func (f *fakeCategoryDB) InsertMany(ctx context.Context, list []models.Category) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, c := range list {
		if _, ok := f.items[c.ID]; ok {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}
		}
	}
	for _, c := range list {
		f.inserts++
		f.items[c.ID] = c
	}
	return nil
}

func (f *fakeCategoryDB) Replace(ctx context.Context, c models.Category) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.items[c.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	f.items[c.ID] = c
	return nil
}

func (f *fakeCategoryDB) Update(ctx context.Context, id string, fields bson.M) error {
	c, ok := f.items[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := fields["label"].(string); ok {
		c.Label = v
	}
	f.items[id] = c
	return nil
}

func (f *fakeCategoryDB) Delete(ctx context.Context, id string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.items[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCategoryDB) SetDisplayOrder(ctx context.Context, ids []string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	matched := 0
	for i, id := range ids {
		if c, ok := f.items[id]; ok {
			c.DisplayOrder = i
			f.items[id] = c
			matched++
		}
	}
	if matched < len(ids) {
		return mongo.ErrNoDocuments
	}
	return nil
}

type memoryCache struct {
	list        []models.Category
	ok          bool
	invalidated int
}

func (m *memoryCache) Get(ctx context.Context) ([]models.Category, bool, error) {
	return m.list, m.ok, nil
}

func (m *memoryCache) Set(ctx context.Context, list []models.Category) error {
	m.list, m.ok = list, true
	return nil
}

func (m *memoryCache) Invalidate(ctx context.Context) error {
	m.list, m.ok = nil, false
	m.invalidated++
	return nil
}

func ids(list []models.Category) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

type recordingNotifier struct {
	types []string
}

func (r *recordingNotifier) Notify(_ context.Context, ev notify.Event) {
	r.types = append(r.types, ev.Type)
}

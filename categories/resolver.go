// Package categories decides which incident categories a store can pick
// and manages the category collection.
package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/databases"
	"github.com/linesmerrill/incident-reports-api/models"
	"github.com/linesmerrill/incident-reports-api/notify"
)

var (
	// ErrCategoryExists is returned when creating a category whose id is taken
	ErrCategoryExists = errors.New("category already exists")
	// ErrCategoryNotFound is returned when a category id is unknown
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInvalidCategory is returned when a category fails validation
	ErrInvalidCategory = errors.New("invalid category")
)

// Cache holds the full category list between reads
type Cache interface {
	Get(ctx context.Context) ([]models.Category, bool, error)
	Set(ctx context.Context, list []models.Category) error
	Invalidate(ctx context.Context) error
}

// Resolution is the set of categories offered to a store. UsingFallback is
// set when the list came from the built-in table instead of the store.
type Resolution struct {
	Categories    []models.Category `json:"categories"`
	UsingFallback bool              `json:"usingFallback"`
}

// MigrationResult reports what Migrate did
type MigrationResult struct {
	Skipped bool `json:"skipped"`
	Added   int  `json:"added"`
}

// SyncResult reports what Sync did
type SyncResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// Resolver reads and writes categories. Cache and Notifier are optional.
type Resolver struct {
	DB       databases.CategoryDatabase
	Cache    Cache
	Notifier notify.Notifier
}

// NewResolver returns a Resolver over db
func NewResolver(db databases.CategoryDatabase, cache Cache, n notify.Notifier) *Resolver {
	return &Resolver{DB: db, Cache: cache, Notifier: n}
}

// ForStore returns the categories storeNumber may select, or every category
// when storeNumber is empty. It never fails: if the store is empty or cannot
// be read the built-in table is used and UsingFallback is set.
func (r *Resolver) ForStore(ctx context.Context, storeNumber string) Resolution {
	storeNumber = strings.TrimSpace(storeNumber)

	all, err := r.load(ctx)
	if err != nil || len(all) == 0 {
		zap.S().Warnw("using built-in categories", "storeNumber", storeNumber, "error", err)
		return Resolution{Categories: Fallback(storeNumber), UsingFallback: true}
	}
	if storeNumber == "" {
		return Resolution{Categories: all}
	}

	list := make([]models.Category, 0, len(all))
	for _, c := range all {
		if c.AvailableTo(storeNumber) {
			list = append(list, c)
		}
	}
	return Resolution{Categories: list}
}

// Labels maps category ids to labels. Built-in labels fill in ids that are
// missing from the store so older incidents still display a name.
func (r *Resolver) Labels(ctx context.Context) map[string]string {
	labels := make(map[string]string)
	for _, c := range Builtin() {
		labels[c.ID] = c.Label
	}
	all, err := r.load(ctx)
	if err != nil {
		zap.S().Warnw("category labels from built-in table only", "error", err)
		return labels
	}
	for _, c := range all {
		labels[c.ID] = c.Label
	}
	return labels
}

// List returns every stored category in display order
func (r *Resolver) List(ctx context.Context) ([]models.Category, error) {
	list, err := r.DB.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return list, nil
}

// Create stores a new category. An empty id is derived from the label.
func (r *Resolver) Create(ctx context.Context, c models.Category) (models.Category, error) {
	c.Label = strings.TrimSpace(c.Label)
	if c.Label == "" {
		return c, fmt.Errorf("%w: label is required", ErrInvalidCategory)
	}
	if c.ID = strings.TrimSpace(c.ID); c.ID == "" {
		c.ID = Slug(c.Label)
	}
	if c.ID == "" {
		return c, fmt.Errorf("%w: cannot derive an id from %q", ErrInvalidCategory, c.Label)
	}

	if _, err := r.DB.Get(ctx, c.ID); err == nil {
		return c, fmt.Errorf("%w: %s", ErrCategoryExists, c.ID)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return c, fmt.Errorf("failed to check category %s: %w", c.ID, err)
	}

	if err := r.DB.Insert(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c, fmt.Errorf("%w: %s", ErrCategoryExists, c.ID)
		}
		return c, fmt.Errorf("failed to create category %s: %w", c.ID, err)
	}
	r.changed(ctx, "created", c.ID)
	return c, nil
}

// Update replaces the category with the given id, keeping its creation time
func (r *Resolver) Update(ctx context.Context, id string, c models.Category) (models.Category, error) {
	c.Label = strings.TrimSpace(c.Label)
	if c.Label == "" {
		return c, fmt.Errorf("%w: label is required", ErrInvalidCategory)
	}
	existing, err := r.DB.Get(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return c, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	if err != nil {
		return c, fmt.Errorf("failed to load category %s: %w", id, err)
	}

	c.ID = id
	c.CreatedAt = existing.CreatedAt
	if err := r.DB.Replace(ctx, c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		return c, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	r.changed(ctx, "updated", id)
	return c, nil
}

// Delete removes a category. Incidents already filed under it keep the id.
func (r *Resolver) Delete(ctx context.Context, id string) error {
	if err := r.DB.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	r.changed(ctx, "deleted", id)
	return nil
}

// Reorder sets each category's displayOrder to its index in ids, in a single
// batched write. On error the caller should reload the list rather than trust
// its local order.
func (r *Resolver) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: order is empty", ErrInvalidCategory)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			return fmt.Errorf("%w: duplicate or empty id %q in order", ErrInvalidCategory, id)
		}
		seen[id] = true
	}
	if err := r.DB.SetDisplayOrder(ctx, ids); err != nil {
		r.invalidate(ctx)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: order names a category that no longer exists", ErrCategoryNotFound)
		}
		return fmt.Errorf("failed to reorder categories: %w", err)
	}
	r.changed(ctx, "reordered", "")
	return nil
}

// Migrate seeds the store with the built-in table. It does nothing and
// reports Skipped when the store already holds any category.
func (r *Resolver) Migrate(ctx context.Context) (MigrationResult, error) {
	n, err := r.DB.Count(ctx)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("failed to count categories: %w", err)
	}
	if n > 0 {
		zap.S().Infow("category migration skipped, store not empty", "existing", n)
		return MigrationResult{Skipped: true}, nil
	}

	seed := Builtin()
	if err := r.DB.InsertMany(ctx, seed); err != nil {
		return MigrationResult{}, fmt.Errorf("failed to seed categories: %w", err)
	}
	zap.S().Infow("categories migrated", "added", len(seed))
	r.changed(ctx, "migrated", "")
	return MigrationResult{Added: len(seed)}, nil
}

// Sync adds every built-in category missing from the store. Existing ones
// are overwritten only when force is set.
func (r *Resolver) Sync(ctx context.Context, force bool) (SyncResult, error) {
	existing, err := r.DB.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to list categories: %w", err)
	}
	byID := make(map[string]models.Category, len(existing))
	for _, c := range existing {
		byID[c.ID] = c
	}

	var res SyncResult
	var missing []models.Category
	for _, c := range Builtin() {
		current, ok := byID[c.ID]
		if !ok {
			missing = append(missing, c)
			continue
		}
		if !force {
			continue
		}
		c.CreatedAt = current.CreatedAt
		if err := r.DB.Replace(ctx, c); err != nil {
			r.invalidate(ctx)
			return res, fmt.Errorf("failed to overwrite category %s: %w", c.ID, err)
		}
		res.Updated++
	}

	if err := r.DB.InsertMany(ctx, missing); err != nil {
		r.invalidate(ctx)
		return res, fmt.Errorf("failed to add categories: %w", err)
	}
	res.Added = len(missing)

	zap.S().Infow("categories synced", "added", res.Added, "updated", res.Updated, "force", force)
	if res.Added > 0 || res.Updated > 0 {
		r.changed(ctx, "synced", "")
	}
	return res, nil
}

// Slug turns a label into a category id: lower case words joined by "_"
func Slug(label string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

func (r *Resolver) load(ctx context.Context) ([]models.Category, error) {
	if r.Cache != nil {
		list, ok, err := r.Cache.Get(ctx)
		if err != nil {
			zap.S().Warnw("category cache read failed", "error", err)
		} else if ok {
			return list, nil
		}
	}

	list, err := r.DB.List(ctx)
	if err != nil {
		return nil, err
	}
	if r.Cache != nil && len(list) > 0 {
		if err := r.Cache.Set(ctx, list); err != nil {
			zap.S().Warnw("category cache write failed", "error", err)
		}
	}
	return list, nil
}

func (r *Resolver) invalidate(ctx context.Context) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Invalidate(ctx); err != nil {
		zap.S().Warnw("category cache invalidation failed", "error", err)
	}
}

func (r *Resolver) changed(ctx context.Context, action, id string) {
	r.invalidate(ctx)
	zap.S().Infow("categories changed", "action", action, "id", id)
	if r.Notifier != nil {
		ev := notify.Event{Type: notify.CategoriesChanged, Status: action, At: time.Now()}
		if id != "" {
			ev.IDs = []string{id}
		}
		r.Notifier.Notify(ctx, ev)
	}
}

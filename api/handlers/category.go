package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/incident-reports-api/api"
	"github.com/linesmerrill/incident-reports-api/categories"
	"github.com/linesmerrill/incident-reports-api/config"
	"github.com/linesmerrill/incident-reports-api/models"
)

// Category exported for testing purposes
type Category struct {
	Resolver *categories.Resolver
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// CategoriesHandler returns the categories a store may select, or all of
// them without storeNumber. usingFallback tells the form that defaults are shown.
func (c Category) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	storeNumber := r.URL.Query().Get("storeNumber")
	if storeNumber == "" {
		if claims, ok := api.ClaimsFromContext(r.Context()); ok && claims.Highest() < api.RoleAdmin {
			storeNumber = claims.StoreNumber
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	writeJSON(w, http.StatusOK, c.Resolver.ForStore(ctx, storeNumber))
}

// CreateCategoryHandler adds a category
func (c Category) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var cat models.Category
	if err := decodeBody(r, &cat); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	created, err := c.Resolver.Create(ctx, cat)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategoryHandler replaces a category
func (c Category) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["category_id"]

	var cat models.Category
	if err := decodeBody(r, &cat); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	updated, err := c.Resolver.Update(ctx, categoryID, cat)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategoryHandler removes a category
func (c Category) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["category_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.Resolver.Delete(ctx, categoryID); err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// ReorderCategoriesHandler sets the display order to the order of the given ids
func (c Category) ReorderCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.Resolver.Reorder(ctx, req.IDs); err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category order updated"})
}

// MigrateCategoriesHandler seeds an empty category store with the built-in table
func (c Category) MigrateCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := c.Resolver.Migrate(ctx)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SyncCategoriesHandler adds missing built-in categories; force=true also
// overwrites the existing ones.
func (c Category) SyncCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		var err error
		if force, err = strconv.ParseBool(v); err != nil {
			config.ErrorStatus("invalid force parameter", http.StatusBadRequest, w, err)
			return
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := c.Resolver.Sync(ctx, force)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

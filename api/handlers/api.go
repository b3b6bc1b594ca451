package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/api"
	"github.com/linesmerrill/incident-reports-api/api/scheduler"
	"github.com/linesmerrill/incident-reports-api/cache"
	"github.com/linesmerrill/incident-reports-api/categories"
	"github.com/linesmerrill/incident-reports-api/config"
	"github.com/linesmerrill/incident-reports-api/databases"
	"github.com/linesmerrill/incident-reports-api/incidents"
	"github.com/linesmerrill/incident-reports-api/notify"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router     *mux.Router
	Config     config.Config
	Incidents  *incidents.Service
	Categories *categories.Resolver
	Hub        *notify.Hub
	Metrics    *api.Metrics
	Scheduler  *scheduler.Scheduler

	dbHelper databases.DatabaseHelper
	client   databases.ClientHelper
	cache    *cache.Categories
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	auth := api.Auth{Secret: []byte(a.Config.JWTSecret)}
	if a.Metrics == nil {
		a.Metrics = api.NewMetrics()
	}
	if a.Hub == nil {
		a.Hub = notify.NewHub()
	}
	loc := a.Config.Location()

	r := mux.NewRouter()
	r.Use(api.LoggingMiddleware(a.Metrics))

	i := Incident{Service: a.Incidents, Location: loc}
	ex := Export{Service: a.Incidents, Categories: a.Categories, Location: loc, Now: time.Now}
	c := Category{Resolver: a.Categories}
	m := Metrics{Metrics: a.Metrics}

	employee := func(h http.HandlerFunc) http.Handler { return auth.RequireRole(api.RoleEmployee, h) }
	admin := func(h http.HandlerFunc) http.Handler { return auth.RequireRole(api.RoleAdmin, h) }
	superAdmin := func(h http.HandlerFunc) http.Handler { return auth.RequireRole(api.RoleSuperAdmin, h) }

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler)

	r.Handle("/ws/incidents", admin(a.Hub.ServeHTTP)).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(a.requestTimeout()))

	apiCreate.Handle("/incidents", employee(i.CreateIncidentHandler)).Methods("POST")
	apiCreate.Handle("/incidents", admin(i.IncidentsHandler)).Methods("GET")
	apiCreate.Handle("/incidents/export", admin(ex.ExportIncidentsHandler)).Methods("GET")
	apiCreate.Handle("/incidents/bulk/status", admin(i.BulkUpdateStatusHandler)).Methods("POST")
	apiCreate.Handle("/incidents/bulk/delete", superAdmin(i.BulkDeleteHandler)).Methods("POST")
	apiCreate.Handle("/incidents/case/{case_number}", employee(i.IncidentByCaseNumberHandler)).Methods("GET")
	apiCreate.Handle("/incidents/{incident_id}", employee(i.IncidentByIDHandler)).Methods("GET")
	apiCreate.Handle("/incidents/{incident_id}", superAdmin(i.DeleteIncidentHandler)).Methods("DELETE")
	apiCreate.Handle("/incidents/{incident_id}/status", admin(i.UpdateIncidentStatusHandler)).Methods("PATCH")
	apiCreate.Handle("/incidents/{incident_id}/police-report", admin(i.UpdatePoliceReportHandler)).Methods("PATCH")

	apiCreate.Handle("/categories", employee(c.CategoriesHandler)).Methods("GET")
	apiCreate.Handle("/categories", superAdmin(c.CreateCategoryHandler)).Methods("POST")
	apiCreate.Handle("/categories/order", superAdmin(c.ReorderCategoriesHandler)).Methods("PUT")
	apiCreate.Handle("/categories/migrate", superAdmin(c.MigrateCategoriesHandler)).Methods("POST")
	apiCreate.Handle("/categories/sync", superAdmin(c.SyncCategoriesHandler)).Methods("POST")
	apiCreate.Handle("/categories/{category_id}", superAdmin(c.UpdateCategoryHandler)).Methods("PUT")
	apiCreate.Handle("/categories/{category_id}", superAdmin(c.DeleteCategoryHandler)).Methods("DELETE")

	apiCreate.Handle("/case-numbers/{case_number}", employee(CaseNumberHandler)).Methods("GET")

	apiCreate.Handle("/metrics", superAdmin(m.MetricsHandler)).Methods("GET")

	return r
}

// Initialize connects to the database and redis, wires the services and
// builds the router.
func (a *App) Initialize(ctx context.Context) error {
	if a.Config.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	client, err := databases.NewClient(ctx, &a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}
	if err := client.Ping(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("incident-reports-api has connected to the database")

	api.QueryTimeout = a.Config.QueryTimeout

	var categoryCache categories.Cache
	if a.Config.RedisURL != "" {
		c, err := cache.NewCategories(a.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		if err := c.Ping(ctx); err != nil {
			zap.S().Warnw("redis unavailable, category cache disabled", "error", err)
			c.Close()
		} else {
			a.cache = c
			categoryCache = c
		}
	}

	a.Hub = notify.NewHub()
	notifiers := notify.Multi{notify.Log{}, a.Hub}
	if a.Config.SendgridAPIKey != "" && a.Config.NotifyEmail != "" {
		notifiers = append(notifiers, notify.NewEmail(a.Config.SendgridAPIKey, a.Config.NotifyFrom, a.Config.NotifyEmail, a.Config.BaseURL))
	}

	a.Incidents = incidents.NewService(databases.NewIncidentDatabase(a.dbHelper), notifiers, a.Config.Location())
	a.Categories = categories.NewResolver(databases.NewCategoryDatabase(a.dbHelper), categoryCache, notifiers)

	a.Scheduler = scheduler.NewScheduler(a.Categories, a.Config.CategorySyncSchedule, a.Config.Location())
	if err := a.Scheduler.Start(); err != nil {
		return err
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close stops background jobs and disconnects from the stores
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			zap.S().Warnw("failed to disconnect from database", "error", err)
		}
	}
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func (a *App) requestTimeout() time.Duration {
	if a.Config.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return a.Config.RequestTimeout
}

package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/AnshRaj112/contact-manager/internal/handlers"
	"github.com/AnshRaj112/contact-manager/internal/metrics"
	"github.com/AnshRaj112/contact-manager/internal/middleware"
)

// Route maps one method and chi pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Deps is everything the router needs.
type Deps struct {
	Web            *handlers.WebHandler
	API            *handlers.APIHandler
	Chains         []middleware.Chain
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
	Production     bool
	RequestTimeout time.Duration
}

// WebRoutes is the HTML route table. Paths are absolute.
func WebRoutes(h *handlers.WebHandler) []Route {
	return []Route{
		{http.MethodGet, "/", h.Home},
		{http.MethodGet, "/contactmanager", h.Welcome},
		{http.MethodGet, "/login", h.LoginPage},
		{http.MethodPost, "/login", h.Login},
		{http.MethodPost, "/logout", h.Logout},
		{http.MethodGet, "/register", h.RegisterPage},
		{http.MethodPost, "/register", h.Register},
		{http.MethodGet, "/error", h.ErrorPage},

		{http.MethodGet, "/contacts", h.ListContacts},
		{http.MethodGet, "/contacts/new", h.NewContact},
		{http.MethodPost, "/contacts", h.CreateContact},
		{http.MethodGet, "/contacts/edit/{id:[0-9]+}", h.EditContact},
		{http.MethodPost, "/contacts/edit/{id:[0-9]+}", h.UpdateContact},
		{http.MethodPost, "/contacts/delete/{id:[0-9]+}", h.DeleteContact},
	}
}

// APIRoutes is the JSON route table, relative to /api.
func APIRoutes(h *handlers.APIHandler) []Route {
	return []Route{
		{http.MethodGet, "/contacts", h.ListContacts},
		{http.MethodPost, "/contacts", h.CreateContact},
		{http.MethodGet, "/contacts/{id:[0-9]+}", h.GetContact},
		{http.MethodPut, "/contacts/{id:[0-9]+}", h.UpdateContact},
		{http.MethodDelete, "/contacts/{id:[0-9]+}", h.DeleteContact},
	}
}

// NewRouter assembles middleware, the authentication gate and both route tables.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.SecurityHeaders(d.Production))
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	// outside the gate: probes and scrapers never carry credentials
	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	gate := middleware.Gate(d.Chains, d.Metrics, d.Logger)

	r.Route(middleware.APIPrefix, func(api chi.Router) {
		api.Use(middleware.CORS(d.AllowedOrigins))
		api.Use(gate)
		mount(api, APIRoutes(d.API))
		api.NotFound(d.API.NotFound)
		api.MethodNotAllowed(d.API.MethodNotAllowed)
	})

	r.Group(func(web chi.Router) {
		web.Use(gate)
		mount(web, WebRoutes(d.Web))
	})

	r.NotFound(gate(http.HandlerFunc(d.Web.NotFound)).ServeHTTP)
	r.MethodNotAllowed(gate(http.HandlerFunc(d.Web.MethodNotAllowed)).ServeHTTP)

	return r
}

func mount(r chi.Router, routes []Route) {
	for _, rt := range routes {
		r.Method(rt.Method, rt.Pattern, rt.Handler)
	}
}

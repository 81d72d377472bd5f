package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"

	"github.com/AnshRaj112/contact-manager/internal/metrics"
	"github.com/AnshRaj112/contact-manager/internal/middleware"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/internal/services"
)

// ContactService is the guarded contact API both handler families use.
type ContactService interface {
	List(ctx context.Context, p *models.Principal) ([]models.Contact, error)
	Get(ctx context.Context, p *models.Principal, id int64) (*models.Contact, error)
	Create(ctx context.Context, p *models.Principal, form models.ContactForm) (*models.Contact, error)
	Update(ctx context.Context, p *models.Principal, id int64, form models.ContactForm) (*models.Contact, error)
	Delete(ctx context.Context, p *models.Principal, id int64) error
}

type Registrar interface {
	Register(ctx context.Context, form models.RegistrationForm) (*models.User, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Principal, error)
}

// WebConfig wires the HTML handlers.
type WebConfig struct {
	Contacts ContactService
	Users    Registrar
	Auth     Authenticator
	Sessions services.SessionStore
	Cookie   middleware.SessionCookie
	Views    *Views
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// WebHandler serves the session-authenticated HTML interface.
type WebHandler struct {
	contacts ContactService
	users    Registrar
	auth     Authenticator
	sessions services.SessionStore
	cookie   middleware.SessionCookie
	views    *Views
	decoder  *schema.Decoder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewWebHandler(cfg WebConfig) *WebHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &WebHandler{
		contacts: cfg.Contacts,
		users:    cfg.Users,
		auth:     cfg.Auth,
		sessions: cfg.Sessions,
		cookie:   cfg.Cookie,
		views:    cfg.Views,
		decoder:  decoder,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// decodeForm binds the POST body of r into dst by `schema` tags.
func (h *WebHandler) decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return h.decoder.Decode(dst, r.PostForm)
}

// fail renders the outcome of a service error. Not-found keeps status 200 and shows
// the contact error page; anything unexpected is a 500.
func (h *WebHandler) fail(w http.ResponseWriter, r *http.Request, p *models.Principal, err error) {
	var notFound *services.ContactNotFoundError
	switch {
	case errors.As(err, &notFound):
		h.views.Render(w, http.StatusOK, pageCustomError, viewData{
			Principal: p,
			Title:     "Contact Not Found",
			Message:   notFound.Error(),
		})
	case errors.Is(err, services.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.views.Render(w, http.StatusInternalServerError, pageCustomError, viewData{
			Principal: p,
			Title:     "Something Went Wrong",
			Message:   "An unexpected error occurred. Please try again later.",
		})
	}
}

// contactID parses the {id} URL parameter. Ids too large for int64 are reported
// like any other missing contact.
func contactID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// safeNext accepts only local absolute paths as a post-login target.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}

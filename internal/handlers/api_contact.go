package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/AnshRaj112/contact-manager/internal/middleware"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/internal/services"
)

// ErrorResponse represents the JSON body of every API error
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// APIHandler serves /api/contacts for HTTP Basic clients.
type APIHandler struct {
	contacts ContactService
	logger   *slog.Logger
}

func NewAPIHandler(contacts ContactService, logger *slog.Logger) *APIHandler {
	return &APIHandler{contacts: contacts, logger: logger}
}

// ListContacts returns the caller's contacts; an empty list is [] rather than null.
func (h *APIHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	render.JSON(w, r, contacts)
}

func (h *APIHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	contact, err := h.contacts.Get(r.Context(), middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, contact)
}

// CreateContact stores a contact owned by the caller. Any id or owner in the body is
// ignored.
func (h *APIHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var form models.ContactForm
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		h.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	contact, err := h.contacts.Create(r.Context(), middleware.PrincipalFrom(r.Context()), form)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", absoluteURL(r, fmt.Sprintf("/api/contacts/%d", contact.ID)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, contact)
}

// UpdateContact replaces name, email and phone. Id and owner are immutable.
func (h *APIHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	var form models.ContactForm
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		h.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	contact, err := h.contacts.Update(r.Context(), middleware.PrincipalFrom(r.Context()), id, form)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, contact)
}

// DeleteContact answers 200 with an empty body.
func (h *APIHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	if err := h.contacts.Delete(r.Context(), middleware.PrincipalFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *APIHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, ErrorResponse{Error: "Not Found"})
}

func (h *APIHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"})
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var errs models.ValidationErrors
	switch {
	case errors.As(err, &errs):
		h.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: errs.Map()})
	case errors.Is(err, services.ErrContactNotFound):
		h.writeError(w, r, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		h.writeError(w, r, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	default:
		h.logger.Error("api request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	render.Status(r, status)
	render.JSON(w, r, body)
}

// absoluteURL resolves path against the scheme and host the client used.
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host + path
}

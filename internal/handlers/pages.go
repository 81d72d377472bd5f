package handlers

import (
	"net/http"

	"github.com/AnshRaj112/contact-manager/internal/middleware"
)

const welcomeMessage = "Hello, and welcome to the future home of the contact manager app!"

func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, pageHome, viewData{
		Principal: middleware.PrincipalFrom(r.Context()),
	})
}

// Welcome answers GET /contactmanager with a plain-text greeting.
func (h *WebHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(welcomeMessage))
}

// ErrorPage is the generic error view at /error.
func (h *WebHandler) ErrorPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, pageCustomError, viewData{
		Principal: middleware.PrincipalFrom(r.Context()),
		Title:     "Error",
		Message:   "Something went wrong.",
	})
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusNotFound, pageCustomError, viewData{
		Principal: middleware.PrincipalFrom(r.Context()),
		Title:     "Page Not Found",
		Message:   "The page you are looking for does not exist.",
	})
}

func (h *WebHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusMethodNotAllowed, pageCustomError, viewData{
		Principal: middleware.PrincipalFrom(r.Context()),
		Title:     "Method Not Allowed",
		Message:   "This page does not accept " + r.Method + " requests.",
	})
}

// Health reports liveness for load balancers.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}

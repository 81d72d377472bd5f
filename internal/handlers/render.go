package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/AnshRaj112/contact-manager/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome        = "home"
	pageLogin       = "login"
	pageRegister    = "register"
	pageContactList = "contact-list"
	pageContactForm = "contact-form"
	pageCustomError = "custom-error"
)

var pageNames = []string{pageHome, pageLogin, pageRegister, pageContactList, pageContactForm, pageCustomError}

// viewData is the model passed to every page. Pages read the fields they need.
type viewData struct {
	Principal *models.Principal

	// custom-error
	Title   string
	Message string

	// login
	Error  bool
	Logout bool
	Next   string

	// register, contact-form
	Form       any
	Errors     models.ValidationErrors
	FormAction string
	FormMode   string

	// contact-list
	Contacts []models.Contact
}

// Views holds one template set per page, each combined with the shared layout.
type Views struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewViews(logger *slog.Logger) (*Views, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Views{pages: pages, logger: logger}, nil
}

// Render executes page into a buffer first so a template error never leaves a
// half-written response.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data viewData) {
	tmpl, ok := v.pages[name]
	if !ok {
		v.logger.Error("unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		v.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

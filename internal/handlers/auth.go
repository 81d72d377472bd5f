package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/AnshRaj112/contact-manager/internal/middleware"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/internal/services"
)

const contactsPath = "/contacts"

// loginForm is the body of POST /login.
type loginForm struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
	Next     string `schema:"next"`
}

// LoginPage shows the login form. ?error and ?logout switch on the banners.
func (h *WebHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, failed := q["error"]
	_, loggedOut := q["logout"]

	h.views.Render(w, http.StatusOK, pageLogin, viewData{
		Principal: middleware.PrincipalFrom(r.Context()),
		Error:     failed,
		Logout:    loggedOut,
		Next:      safeNext(q.Get("next")),
	})
}

// Login verifies the credentials, starts a new session and redirects to the page the
// user originally asked for.
func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := h.decodeForm(r, &form); err != nil {
		h.logger.Debug("unreadable login form", "error", err)
		http.Redirect(w, r, middleware.LoginPath+"?error", http.StatusFound)
		return
	}
	next := safeNext(form.Next)

	p, err := h.auth.Authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrAuthenticationFailed) {
		h.metrics.RecordAuthFailure(middleware.ChainWeb)
		target := middleware.LoginPath + "?error"
		if next != "" {
			target += "&next=" + url.QueryEscape(next)
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}

	// a fresh token on every login; the old one must not stay usable
	if old := h.cookie.Read(r); old != "" {
		if err := h.sessions.Invalidate(r.Context(), old); err != nil {
			h.logger.Warn("failed to invalidate previous session", "user_id", p.ID, "error", err)
		}
	}

	token, err := h.sessions.Create(r.Context(), p.ID)
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}
	h.cookie.Write(w, token)
	h.logger.Info("user logged in", "user_id", p.ID, "username", p.Username)

	if next == "" {
		next = contactsPath
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.cookie.Read(r); token != "" {
		if err := h.sessions.Invalidate(r.Context(), token); err != nil {
			h.logger.Warn("failed to invalidate session", "error", err)
		}
	}
	h.cookie.Clear(w)
	http.Redirect(w, r, middleware.LoginPath+"?logout", http.StatusFound)
}

func (h *WebHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, models.RegistrationForm{}, nil)
}

// Register creates the account and sends the user to the login form. Validation
// failures and taken usernames or emails re-render the form with field errors.
func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form models.RegistrationForm
	if err := h.decodeForm(r, &form); err != nil {
		h.renderRegister(w, r, form, models.ValidationErrors{{Field: "form", Message: "Invalid form submission"}})
		return
	}

	_, err := h.users.Register(r.Context(), form)
	var errs models.ValidationErrors
	switch {
	case err == nil:
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
	case errors.As(err, &errs):
		h.renderRegister(w, r, form, errs)
	case errors.Is(err, services.ErrUsernameAlreadyExists):
		h.renderRegister(w, r, form, errs.Add("username", "Username already exists"))
	case errors.Is(err, services.ErrEmailAlreadyExists):
		h.renderRegister(w, r, form, errs.Add("email", "Email already exists"))
	default:
		h.fail(w, r, nil, err)
	}
}

func (h *WebHandler) renderRegister(w http.ResponseWriter, r *http.Request, form models.RegistrationForm, errs models.ValidationErrors) {
	form.Password = ""
	h.views.Render(w, http.StatusOK, pageRegister, viewData{
		Principal:  middleware.PrincipalFrom(r.Context()),
		Form:       form,
		Errors:     errs,
		FormAction: "/register",
		FormMode:   "create",
	})
}

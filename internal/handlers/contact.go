package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AnshRaj112/contact-manager/internal/middleware"
	"github.com/AnshRaj112/contact-manager/internal/models"
)

const (
	formModeCreate = "create"
	formModeEdit   = "edit"
)

// ListContacts shows the signed-in user's contacts.
func (h *WebHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())

	contacts, err := h.contacts.List(r.Context(), p)
	if err != nil {
		h.fail(w, r, p, err)
		return
	}
	h.views.Render(w, http.StatusOK, pageContactList, viewData{Principal: p, Contacts: contacts})
}

func (h *WebHandler) NewContact(w http.ResponseWriter, r *http.Request) {
	h.renderContactForm(w, r, models.ContactForm{}, nil, contactsPath, formModeCreate)
}

func (h *WebHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFrom(r.Context())

	var form models.ContactForm
	if err := h.decodeForm(r, &form); err != nil {
		h.renderContactForm(w, r, form, models.ValidationErrors{{Field: "form", Message: "Invalid form submission"}}, contactsPath, formModeCreate)
		return
	}

	_, err := h.contacts.Create(r.Context(), p, form)
	var errs models.ValidationErrors
	switch {
	case err == nil:
		http.Redirect(w, r, contactsPath, http.StatusFound)
	case errors.As(err, &errs):
		h.renderContactForm(w, r, form, errs, contactsPath, formModeCreate)
	default:
		h.fail(w, r, p, err)
	}
}

// EditContact shows the form prefilled with an owned contact.
func (h *WebHandler) EditContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	p := middleware.PrincipalFrom(r.Context())

	contact, err := h.contacts.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, p, err)
		return
	}
	h.renderContactForm(w, r, contact.Form(), nil, editPath(id), formModeEdit)
}

func (h *WebHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	p := middleware.PrincipalFrom(r.Context())

	var form models.ContactForm
	if err := h.decodeForm(r, &form); err != nil {
		h.renderContactForm(w, r, form, models.ValidationErrors{{Field: "form", Message: "Invalid form submission"}}, editPath(id), formModeEdit)
		return
	}

	_, err := h.contacts.Update(r.Context(), p, id, form)
	var errs models.ValidationErrors
	switch {
	case err == nil:
		http.Redirect(w, r, contactsPath, http.StatusFound)
	case errors.As(err, &errs):
		h.renderContactForm(w, r, form, errs, editPath(id), formModeEdit)
	default:
		h.fail(w, r, p, err)
	}
}

// DeleteContact is POST-only: HTML forms cannot send DELETE.
func (h *WebHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	p := middleware.PrincipalFrom(r.Context())

	if err := h.contacts.Delete(r.Context(), p, id); err != nil {
		h.fail(w, r, p, err)
		return
	}
	http.Redirect(w, r, contactsPath, http.StatusFound)
}

func (h *WebHandler) renderContactForm(w http.ResponseWriter, r *http.Request, form models.ContactForm, errs models.ValidationErrors, action, mode string) {
	h.views.Render(w, http.StatusOK, pageContactForm, viewData{
		Principal:  middleware.PrincipalFrom(r.Context()),
		Form:       form,
		Errors:     errs,
		FormAction: action,
		FormMode:   mode,
	})
}

func editPath(id int64) string {
	return fmt.Sprintf("%s/edit/%d", contactsPath, id)
}

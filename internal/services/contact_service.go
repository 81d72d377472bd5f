package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/models"
)

// ErrContactNotFound matches every ContactNotFoundError.
var ErrContactNotFound = errors.New("contact not found")

// ContactNotFoundError is returned both for missing contacts and for contacts owned
// by someone else. Callers cannot tell the two apart.
type ContactNotFoundError struct {
	ID int64
}

func (e *ContactNotFoundError) Error() string {
	return fmt.Sprintf("Contact with ID %d not found.", e.ID)
}

func (e *ContactNotFoundError) Is(target error) bool {
	return target == ErrContactNotFound
}

type ContactRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Contact, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Contact, error)
	Create(ctx context.Context, c *models.Contact) error
	Update(ctx context.Context, c *models.Contact) error
	DeleteByID(ctx context.Context, id int64) error
}

// ContactService is the only way handlers reach contacts. Every operation takes the
// caller's principal and only ever touches contacts that principal owns.
type ContactService struct {
	contacts ContactRepository
	logger   *slog.Logger
}

func NewContactService(contacts ContactRepository, logger *slog.Logger) *ContactService {
	return &ContactService{contacts: contacts, logger: logger}
}

// List returns the caller's contacts ordered by id. Never nil.
func (s *ContactService) List(ctx context.Context, p *models.Principal) ([]models.Contact, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}
	contacts, err := s.contacts.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) Get(ctx context.Context, p *models.Principal, id int64) (*models.Contact, error) {
	return s.guard(ctx, p, id)
}

// Create stores a new contact owned by p. Invalid input returns models.ValidationErrors.
func (s *ContactService) Create(ctx context.Context, p *models.Principal, form models.ContactForm) (*models.Contact, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	contact := &models.Contact{OwnerID: p.ID}
	contact.Apply(form.Normalize())
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	contact.Owner = models.OwnerRef{ID: p.ID, Username: p.Username}
	return contact, nil
}

// Update replaces name, email and phone of an owned contact. Id and owner never change.
func (s *ContactService) Update(ctx context.Context, p *models.Principal, id int64, form models.ContactForm) (*models.Contact, error) {
	contact, err := s.guard(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	contact.Apply(form.Normalize())
	if err := s.contacts.Update(ctx, contact); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &ContactNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, p *models.Principal, id int64) error {
	if _, err := s.guard(ctx, p, id); err != nil {
		return err
	}
	if err := s.contacts.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// guard loads contact id on behalf of p. Absent and foreign contacts produce the
// same ContactNotFoundError.
func (s *ContactService) guard(ctx context.Context, p *models.Principal, id int64) (*models.Contact, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}

	contact, err := s.contacts.FindByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &ContactNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load contact %d: %w", id, err)
	}

	if !contact.OwnedBy(p) {
		s.logger.Debug("contact access denied", "contact_id", id, "user_id", p.ID)
		return nil, &ContactNotFoundError{ID: id}
	}
	return contact, nil
}

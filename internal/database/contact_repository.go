package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AnshRaj112/contact-manager/internal/models"
)

// ContactRepository persists contacts. It does not check ownership; callers do.
type ContactRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewContactRepository(db *sqlx.DB, logger *slog.Logger) *ContactRepository {
	return &ContactRepository{db: db, logger: logger}
}

type contactRow struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	OwnerID       int64     `db:"user_id"`
	OwnerUsername string    `db:"owner_username"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row contactRow) toModel() models.Contact {
	return models.Contact{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		OwnerID:   row.OwnerID,
		Owner:     models.OwnerRef{ID: row.OwnerID, Username: row.OwnerUsername},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// the owner is materialized by an explicit join
const selectContact = `
	SELECT c.id, c.name, c.email, c.phone, c.user_id, u.username AS owner_username, c.created_at, c.updated_at
	FROM contacts c
	JOIN users u ON u.id = c.user_id`

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*models.Contact, error) {
	var row contactRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectContact+` WHERE c.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select contact %d: %w", id, err)
	}
	contact := row.toModel()
	return &contact, nil
}

// ListByOwner returns the contacts owned by ownerID ordered by id. Never nil.
func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Contact, error) {
	var rows []contactRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(selectContact+` WHERE c.user_id = ? ORDER BY c.id`), ownerID); err != nil {
		return nil, fmt.Errorf("select contacts for user %d: %w", ownerID, err)
	}

	contacts := make([]models.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, row.toModel())
	}
	return contacts, nil
}

// Create inserts the contact and sets its ID and timestamps.
func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) error {
	start := time.Now()

	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO contacts (name, email, phone, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`), c.Name, c.Email, c.Phone, c.OwnerID, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		r.logger.Error("failed to insert contact", "user_id", c.OwnerID, "error", err)
		return fmt.Errorf("insert contact: %w", err)
	}
	c.Owner.ID = c.OwnerID

	r.logger.Info("contact created",
		"contact_id", c.ID,
		"user_id", c.OwnerID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Update writes name, email and phone. Id and owner are never changed here.
// Concurrent updates are last-write-wins.
func (r *ContactRepository) Update(ctx context.Context, c *models.Contact) error {
	start := time.Now()

	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE contacts SET name = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?
	`), c.Name, c.Email, c.Phone, c.UpdatedAt, c.ID)
	if err != nil {
		r.logger.Error("failed to update contact", "contact_id", c.ID, "error", err)
		return fmt.Errorf("update contact %d: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	r.logger.Info("contact updated",
		"contact_id", c.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteByID removes the contact. Deleting a missing id is not an error.
func (r *ContactRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM contacts WHERE id = ?`), id); err != nil {
		r.logger.Error("failed to delete contact", "contact_id", id, "error", err)
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	r.logger.Info("contact deleted", "contact_id", id)
	return nil
}

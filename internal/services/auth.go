package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/pkg/utils"
)

var (
	// ErrAuthenticationFailed covers both unknown usernames and wrong passwords.
	ErrAuthenticationFailed = errors.New("bad credentials")
	// ErrUnauthenticated means no principal is attached to the request.
	ErrUnauthenticated = errors.New("authentication required")
)

// Authenticator verifies credentials and rebuilds principals for sessions.
type Authenticator struct {
	users     UserRepository
	hasher    utils.PasswordHasher
	dummyHash string
	logger    *slog.Logger
}

func NewAuthenticator(users UserRepository, hasher utils.PasswordHasher, logger *slog.Logger) (*Authenticator, error) {
	// compared against for unknown users so response time does not reveal existence
	dummy, err := hasher.Hash("contact-manager-unknown-user")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Authenticator{users: users, hasher: hasher, dummyHash: dummy, logger: logger}, nil
}

// Authenticate returns the principal for valid credentials and ErrAuthenticationFailed
// otherwise. The reason is only logged.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.Principal, error) {
	username = utils.NormalizeUsername(username)
	if username == "" || password == "" {
		a.logger.Debug("authentication failed", "reason", "missing credentials")
		return nil, ErrAuthenticationFailed
	}

	user, err := a.users.FindByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		_, _ = a.hasher.Verify(password, a.dummyHash)
		a.logger.Debug("authentication failed", "reason", "unknown user", "username", username)
		return nil, ErrAuthenticationFailed
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Warn("stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, ErrAuthenticationFailed
	}
	if !ok {
		a.logger.Debug("authentication failed", "reason", "bad password", "username", username)
		return nil, ErrAuthenticationFailed
	}

	return models.NewPrincipal(user), nil
}

// PrincipalByID rebuilds the principal behind a session. A user deleted since the
// session was created yields ErrUnauthenticated.
func (a *Authenticator) PrincipalByID(ctx context.Context, userID int64) (*models.Principal, error) {
	user, err := a.users.FindByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return models.NewPrincipal(user), nil
}

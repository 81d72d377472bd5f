package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/metrics"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/pkg/utils"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
)

// UserRepository is the persistence the user directory needs.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// UserService registers and looks up accounts.
type UserService struct {
	users   UserRepository
	hasher  utils.PasswordHasher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewUserService(users UserRepository, hasher utils.PasswordHasher, m *metrics.Metrics, logger *slog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, metrics: m, logger: logger}
}

// Register creates an account with the default role. Username and email are stored
// lowercase; a taken username or email yields ErrUsernameAlreadyExists or
// ErrEmailAlreadyExists whether caught up front or by the store's unique constraints.
// Invalid input returns models.ValidationErrors.
func (s *UserService) Register(ctx context.Context, form models.RegistrationForm) (*models.User, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errs
	}

	username := utils.NormalizeUsername(form.Username)
	email := utils.NormalizeEmail(form.Email)

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameAlreadyExists
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{models.DefaultRole},
	}
	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateUsername):
			return nil, ErrUsernameAlreadyExists
		case errors.Is(err, database.ErrDuplicateEmail):
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.RecordRegistration()
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// FindByUsername matches the normalized username exactly. Missing users return
// database.ErrNotFound.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.FindByUsername(ctx, utils.NormalizeUsername(username))
}

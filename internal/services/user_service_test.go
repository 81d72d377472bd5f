package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/models"
)

func TestRegisterNormalizesAndHashes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, models.RegistrationForm{
		Username: "  Alice ",
		Password: "secret",
		Email:    "Alice@Example.COM",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.Equal(t, []string{"USER"}, user.Roles)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RegistrationsTotal))

	found, err := f.users.FindByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, []string{"ROLE_USER"}, found.Authorities())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.users.Register(ctx, models.RegistrationForm{
		Username: "ALICE", Password: "pw", Email: "new@example.com",
	})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)

	_, err = f.users.Register(ctx, models.RegistrationForm{
		Username: "bob", Password: "pw", Email: "ALICE@example.com",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

// raceRepo hides existing rows from the pre-checks so only the store's constraint can object.
type raceRepo struct {
	UserRepository
}

func (raceRepo) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (raceRepo) ExistsByEmail(context.Context, string) (bool, error)    { return false, nil }

func TestRegisterMapsStoreConstraintViolations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	racy := NewUserService(raceRepo{f.users.users}, f.users.hasher, nil, f.users.logger)

	_, err := racy.Register(ctx, models.RegistrationForm{
		Username: "alice", Password: "pw", Email: "other@example.com",
	})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)

	_, err = racy.Register(ctx, models.RegistrationForm{
		Username: "carol", Password: "pw", Email: "alice@example.com",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register(context.Background(), models.RegistrationForm{
		Username: " ", Password: "", Email: "nope",
	})

	var errs models.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "Username is required", errs.For("username"))
	assert.Equal(t, "Password is required", errs.For("password"))
	assert.Equal(t, "Email must be a valid email address", errs.For("email"))

	_, err = f.users.FindByUsername(context.Background(), "")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AnshRaj112/contact-manager/internal/database"
	"github.com/AnshRaj112/contact-manager/internal/logger"
	"github.com/AnshRaj112/contact-manager/internal/metrics"
	"github.com/AnshRaj112/contact-manager/internal/models"
	"github.com/AnshRaj112/contact-manager/internal/testutil"
	"github.com/AnshRaj112/contact-manager/pkg/utils"
)

type fixture struct {
	users    *UserService
	auth     *Authenticator
	contacts *ContactService
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.Discard()
	hasher := utils.NewBcryptHasher(bcrypt.MinCost)
	m := metrics.New(prometheus.NewRegistry())

	userRepo := database.NewUserRepository(db, log)
	auth, err := NewAuthenticator(userRepo, hasher, log)
	require.NoError(t, err)

	return &fixture{
		users:    NewUserService(userRepo, hasher, m, log),
		auth:     auth,
		contacts: NewContactService(database.NewContactRepository(db, log), log),
		metrics:  m,
	}
}

// register creates an account and returns its principal.
func (f *fixture) register(t *testing.T, username string) *models.Principal {
	t.Helper()
	user, err := f.users.Register(context.Background(), models.RegistrationForm{
		Username: username,
		Password: "secret",
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return models.NewPrincipal(user)
}

func (f *fixture) addContact(t *testing.T, p *models.Principal, name string) *models.Contact {
	t.Helper()
	c, err := f.contacts.Create(context.Background(), p, models.ContactForm{
		Name:  name,
		Email: "contact@example.com",
		Phone: "123-456-7890",
	})
	require.NoError(t, err)
	return c
}

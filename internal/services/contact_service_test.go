package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/contact-manager/internal/models"
)

func TestContactRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	created, err := f.contacts.Create(ctx, alice, models.ContactForm{
		Name: " Alice Example ", Email: "alice@example.com", Phone: "123-456-7890",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.OwnerRef{ID: alice.ID, Username: "alice"}, created.Owner)

	got, err := f.contacts.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "123-456-7890", got.Phone)
}

func TestContactCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.contacts.Create(ctx, alice, models.ContactForm{Name: "  ", Email: "not-an-email", Phone: ""})

	var errs models.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "Name is required", errs.For("name"))
	assert.Equal(t, "Email must be a valid email address", errs.For("email"))
	assert.Equal(t, "Phone is required", errs.For("phone"))

	list, err := f.contacts.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list, "nothing persisted")
}

func TestContactUpdateKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	c := f.addContact(t, alice, "Carol")

	updated, err := f.contacts.Update(ctx, alice, c.ID, models.ContactForm{
		Name: "Caroline", Email: "caroline@example.com", Phone: "555-0199",
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, updated.ID)

	got, err := f.contacts.Get(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, alice.ID, got.OwnerID)
	assert.Equal(t, "Caroline", got.Name)
	assert.Equal(t, "caroline@example.com", got.Email)
	assert.Equal(t, "555-0199", got.Phone)
}

func TestContactUpdateValidationLeavesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	c := f.addContact(t, alice, "Carol")

	_, err := f.contacts.Update(ctx, alice, c.ID, models.ContactForm{Name: "", Email: "x", Phone: ""})
	var errs models.ValidationErrors
	require.ErrorAs(t, err, &errs)

	got, err := f.contacts.Get(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name)
}

func TestContactDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	c := f.addContact(t, alice, "Carol")

	require.NoError(t, f.contacts.Delete(ctx, alice, c.ID))

	_, err := f.contacts.Get(ctx, alice, c.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)

	err = f.contacts.Delete(ctx, alice, c.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestContactOwnershipIsUniformNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.addContact(t, alice, "Carol")
	form := models.ContactForm{Name: "Hijack", Email: "h@example.com", Phone: "1"}

	ops := map[string]func() error{
		"get": func() error {
			_, err := f.contacts.Get(ctx, bob, c.ID)
			return err
		},
		"update": func() error {
			_, err := f.contacts.Update(ctx, bob, c.ID, form)
			return err
		},
		"delete": func() error {
			return f.contacts.Delete(ctx, bob, c.ID)
		},
	}

	missingID := c.ID + 1000
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			require.ErrorIs(t, err, ErrContactNotFound)

			var nf *ContactNotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, c.ID, nf.ID)
			assert.Equal(t, (&ContactNotFoundError{ID: c.ID}).Error(), err.Error())
		})
	}

	// a missing id reads exactly like a foreign one
	_, err := f.contacts.Get(ctx, bob, missingID)
	assert.ErrorIs(t, err, ErrContactNotFound)

	list, err := f.contacts.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := f.contacts.Get(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name, "foreign update must not apply")
}

func TestContactListScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	f.addContact(t, alice, "Carol")
	f.addContact(t, bob, "Dave")
	f.addContact(t, alice, "Erin")

	list, err := f.contacts.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Carol", list[0].Name)
	assert.Equal(t, "Erin", list[1].Name)
}

func TestContactNilPrincipal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.contacts.List(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.contacts.Get(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.contacts.Create(ctx, nil, models.ContactForm{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, f.contacts.Delete(ctx, nil, 1), ErrUnauthenticated)
}

func TestContactNotFoundMessage(t *testing.T) {
	err := &ContactNotFoundError{ID: 42}
	assert.Equal(t, "Contact with ID 42 not found.", err.Error())
	assert.True(t, errors.Is(err, ErrContactNotFound))
}

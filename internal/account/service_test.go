package account

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/logging"
)

func newTestService() Service {
	return NewService(NewMemoryRepository(), auth.NewBcryptPasswordHasher(4), logging.Discard())
}

func TestValidID(t *testing.T) {
	valid := []string{"bob.near", "borwe_near", "flats.brian-near", "a1", "villa_7.stays.testnet"}
	for _, id := range valid {
		assert.True(t, ValidID(id), id)
	}

	invalid := []string{"", "a", "Bob.near", "bob..near", ".bob", "bob.", "bob__near", "-bob", "bob near",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	for _, id := range invalid {
		assert.False(t, ValidID(id), id)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	a, err := svc.Register(ctx, "  Bob.Near ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "bob.near", a.ID)
	assert.NotEqual(t, "password123", a.PasswordHash)

	_, err = svc.Register(ctx, "bob.near", "password123")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	logged, err := svc.Login(ctx, "bob.near", "password123")
	require.NoError(t, err)
	assert.Equal(t, "bob.near", logged.ID)
	require.NotNil(t, logged.LastLoginAt)

	_, err = svc.Login(ctx, "bob.near", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "carol.near", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "no spaces allowed", "password123")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.Register(ctx, "carol.near", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, "carol.near", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)

	_, err = svc.GetByID(ctx, "carol.near")
	assert.ErrorIs(t, err, ErrNotFound)
}

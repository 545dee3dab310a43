package user

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/auth"
	"github.com/example/shopfront/internal/infrastructure/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(mem, log), mem
}

// ============================================================
// Register
// ============================================================

func TestService_Register_Success(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(context.Background(), Registration{Email: "Test@Example.com", Password: "password123", Name: "Test User"})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "test@example.com", u.Email)
	assert.Equal(t, "Test User", u.Name)
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, ThemeLight, u.Theme)
	assert.True(t, u.IsActive)

	// Password is hashed, never stored raw
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, auth.CheckPassword("password123", u.PasswordHash))
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "First"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Registration{Email: "TEST@example.com", Password: "password456", Name: "Second"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_ShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), Registration{Email: "test@example.com", Password: "short", Name: "Test"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestService_Register_WithProfileFields(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(context.Background(), Registration{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
		Phone:    "0300-1234567",
		Birthday: "1995-06-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "0300-1234567", u.Phone)
	assert.Equal(t, "1995-06-15", u.Birthday)
}

func TestService_Register_InvalidBirthday(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), Registration{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test",
		Birthday: "15/06/1995",
	})
	assert.ErrorIs(t, err, ErrInvalidBirthday)
}

func TestService_Register_InvalidEmail(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []string{"", "   ", "not-an-email"}
	for _, email := range tests {
		_, err := svc.Register(context.Background(), Registration{Email: email, Password: "password123", Name: "Test"})
		assert.Error(t, err, "email %q", email)
	}
}

// ============================================================
// Authenticate
// ============================================================

func TestService_Authenticate_Success(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "Test@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_DisabledAccount(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	u.IsActive = false
	require.NoError(t, mem.UpdateUser(ctx, u))

	_, err = svc.Authenticate(ctx, "test@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

// ============================================================
// Profile and theme
// ============================================================

func strPtr(s string) *string { return &s }

func TestService_UpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Old Name"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{
		Name:     strPtr("New Name"),
		Phone:    strPtr("0300-1234567"),
		Birthday: strPtr("1995-06-15"),
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "0300-1234567", updated.Phone)
	assert.Equal(t, "1995-06-15", updated.Birthday)
}

func TestService_UpdateProfile_PartialLeavesRest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Keep Me"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Phone: strPtr("0311-9999999")})
	require.NoError(t, err)

	assert.Equal(t, "Keep Me", updated.Name)
	assert.Equal(t, "0311-9999999", updated.Phone)
}

func TestService_UpdateProfile_BadBirthday(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Birthday: strPtr("15/06/1995")})
	assert.ErrorIs(t, err, ErrInvalidBirthday)
}

func TestService_UpdateProfile_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UpdateProfile(context.Background(), "missing", ProfileUpdate{Name: strPtr("X")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_SetTheme(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	updated, err := svc.SetTheme(ctx, u.ID, ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, updated.Theme)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got.Theme)
}

func TestService_SetTheme_Invalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, Registration{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	_, err = svc.SetTheme(ctx, u.ID, "sepia")
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

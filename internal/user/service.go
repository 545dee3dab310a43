package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/shopfront/internal/auth"
	"github.com/example/shopfront/internal/infrastructure/store"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidTheme       = errors.New("unknown theme")
	ErrInvalidBirthday    = errors.New("birthday must be YYYY-MM-DD")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Service struct {
	users store.UserStore
	log   *logrus.Entry
}

func NewService(users store.UserStore, log *logrus.Logger) *Service {
	return &Service{
		users: users,
		log:   log.WithField("component", "user"),
	}
}

// Registration carries the sign-up form fields. Phone and birthday are
// optional.
type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Birthday string // YYYY-MM-DD
}

// Register creates a new account with the user role and the light theme.
// Email comparison is case-insensitive; addresses are stored lowercased.
func (s *Service) Register(ctx context.Context, reg Registration) (*store.User, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}

	birthday := strings.TrimSpace(reg.Birthday)
	if birthday != "" {
		if _, err := time.Parse("2006-01-02", birthday); err != nil {
			return nil, ErrInvalidBirthday
		}
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	u := &store.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(reg.Name),
		Phone:        strings.TrimSpace(reg.Phone),
		Birthday:     birthday,
		Role:         RoleUser,
		Theme:        ThemeLight,
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("user registered")

	return u, nil
}

// Authenticate verifies credentials and returns the account. The same error
// comes back for an unknown email and a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*store.User, error) {
	return s.users.GetUser(ctx, id)
}

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// current value untouched.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Birthday *string `json:"birthday,omitempty"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*store.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		u.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		u.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Birthday != nil {
		b := strings.TrimSpace(*upd.Birthday)
		if b != "" {
			if _, err := time.Parse("2006-01-02", b); err != nil {
				return nil, ErrInvalidBirthday
			}
		}
		u.Birthday = b
	}

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// SetTheme persists the UI theme preference on the profile.
func (s *Service) SetTheme(ctx context.Context, userID, theme string) (*store.User, error) {
	if theme != ThemeLight && theme != ThemeDark {
		return nil, ErrInvalidTheme
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Theme = theme

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update theme: %w", err)
	}
	return u, nil
}

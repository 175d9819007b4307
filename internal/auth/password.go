package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wiselyspent/backend/internal/models"
	"github.com/wiselyspent/backend/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrCustomIDExists     = errors.New("custom id already taken")
	ErrMissingEmail       = errors.New("email is required")
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// UserStorage is the subset of storage.Store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByCustomID(ctx context.Context, customID string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: storage, cost: bcrypt.DefaultCost}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password. Emails are
// compared case-insensitively.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, customID, credential string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	if err := a.ensureFree(ctx, email, customID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, strings.TrimSpace(name), strings.TrimSpace(customID), string(hash))
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (a *PasswordAuthenticator) ensureFree(ctx context.Context, email, customID string) error {
	_, err := a.storage.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailExists
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to check email: %w", err)
	}

	customID = strings.TrimSpace(customID)
	if customID == "" {
		return nil
	}
	_, err = a.storage.GetUserByCustomID(ctx, customID)
	switch {
	case err == nil:
		return ErrCustomIDExists
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("failed to check custom id: %w", err)
	}
	return nil
}

// Authenticate verifies the email and password, returning the user if valid.
// Unknown emails and shadow accounts without a password fail the same way as
// a wrong password.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

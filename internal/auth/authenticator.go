// Package auth handles account registration, credential checks and session
// tokens.
package auth

import (
	"context"

	"github.com/wiselyspent/backend/internal/models"
)

// Authenticator registers accounts and verifies credentials. The credential
// format depends on the implementation.
type Authenticator interface {
	// Register creates an account. customID is optional.
	Register(ctx context.Context, email, name, customID, credential string) (*models.User, error)

	// Authenticate returns the user owning email when credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential reports whether credential is acceptable for a new account.
	ValidateCredential(credential string) error
}

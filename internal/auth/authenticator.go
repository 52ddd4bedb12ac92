package auth

import (
	"context"

	"github.com/mmynk/dangidongi/internal/models"
)

// Authenticator verifies who owns saved calculations.
// Implementations can swap password login for another method without
// changing the service layer.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential meets the implementation's rules.
	ValidateCredential(credential string) error
}

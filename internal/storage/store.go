// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/dangidongi/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for calculation and user storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateCalculation persists a new calculation.
	// ID, CreatedAt and Title are populated by the store when empty.
	CreateCalculation(ctx context.Context, calc *models.Calculation) error

	// GetCalculation retrieves a calculation with its expenses in entry order.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetCalculation(ctx context.Context, id string) (*models.Calculation, error)

	// ListCalculationsByOwner returns the owner's calculations, newest first.
	ListCalculationsByOwner(ctx context.Context, ownerID string) ([]*models.Calculation, error)

	// DeleteCalculation removes a calculation and its expenses.
	// Returns an error wrapping ErrNotFound if it does not exist.
	DeleteCalculation(ctx context.Context, id string) error

	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return nil, nil when no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}

// GenerateTitle creates a title from the distinct payer names of a calculation.
func GenerateTitle(expenses []models.Expense) string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range expenses {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}

	if len(names) == 0 {
		return fmt.Sprintf("Split - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}

// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/dangidongi/internal/models"
	"github.com/mmynk/dangidongi/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas are per connection; keep a single one so foreign keys stay on.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateCalculation persists a calculation and its expenses in one transaction.
func (s *SQLiteStore) CreateCalculation(ctx context.Context, calc *models.Calculation) error {
	if calc.ID == "" {
		calc.ID = uuid.New().String()
	}
	if calc.CreatedAt == 0 {
		calc.CreatedAt = time.Now().Unix()
	}
	if calc.Title == "" {
		calc.Title = storage.GenerateTitle(calc.Expenses)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO calculations (id, owner_id, title, total_people, currency, locale, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		calc.ID, calc.OwnerID, calc.Title, calc.TotalPeople, calc.Currency, calc.Locale, calc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	for i, exp := range calc.Expenses {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO calculation_expenses (calculation_id, position, name, amount) VALUES (?, ?, ?, ?)",
			calc.ID, i, exp.Name, exp.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCalculation retrieves a calculation by ID, including its expenses.
func (s *SQLiteStore) GetCalculation(ctx context.Context, id string) (*models.Calculation, error) {
	calc := &models.Calculation{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, total_people, currency, locale, created_at
		 FROM calculations WHERE id = ?`,
		id,
	).Scan(&calc.ID, &calc.OwnerID, &calc.Title, &calc.TotalPeople, &calc.Currency, &calc.Locale, &calc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("calculation %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calculation: %w", err)
	}

	calc.Expenses, err = s.getExpenses(ctx, id)
	if err != nil {
		return nil, err
	}

	return calc, nil
}

func (s *SQLiteStore) getExpenses(ctx context.Context, calculationID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, amount FROM calculation_expenses WHERE calculation_id = ? ORDER BY position",
		calculationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(&exp.Name, &exp.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ListCalculationsByOwner retrieves all calculations saved by a user.
func (s *SQLiteStore) ListCalculationsByOwner(ctx context.Context, ownerID string) ([]*models.Calculation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, total_people, currency, locale, created_at
		 FROM calculations WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}

	var calcs []*models.Calculation
	for rows.Next() {
		calc := &models.Calculation{}
		if err := rows.Scan(&calc.ID, &calc.OwnerID, &calc.Title, &calc.TotalPeople,
			&calc.Currency, &calc.Locale, &calc.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		calcs = append(calcs, calc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}

	// Expenses are loaded after the cursor is closed; the pool has one connection.
	for _, calc := range calcs {
		calc.Expenses, err = s.getExpenses(ctx, calc.ID)
		if err != nil {
			return nil, err
		}
	}

	return calcs, nil
}

// DeleteCalculation removes a calculation by ID.
func (s *SQLiteStore) DeleteCalculation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM calculations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("calculation %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

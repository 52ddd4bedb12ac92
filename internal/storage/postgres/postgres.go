// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/mmynk/dangidongi/internal/models"
	"github.com/mmynk/dangidongi/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS calculations (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    total_people INTEGER NOT NULL,
    currency TEXT NOT NULL,
    locale TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS calculation_expenses (
    calculation_id TEXT NOT NULL REFERENCES calculations(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (calculation_id, position)
);

CREATE INDEX IF NOT EXISTS idx_calculations_owner_id ON calculations(owner_id);
`

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// New connects to databaseURL, verifies the connection and runs migrations.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CreateCalculation persists a calculation and its expenses in one transaction.
func (s *PostgresStore) CreateCalculation(ctx context.Context, calc *models.Calculation) error {
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
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		calc.ID, calc.OwnerID, calc.Title, calc.TotalPeople, calc.Currency, calc.Locale, calc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	for i, exp := range calc.Expenses {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO calculation_expenses (calculation_id, position, name, amount) VALUES ($1, $2, $3, $4)",
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
func (s *PostgresStore) GetCalculation(ctx context.Context, id string) (*models.Calculation, error) {
	calc := &models.Calculation{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, total_people, currency, locale, created_at
		 FROM calculations WHERE id = $1`,
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

func (s *PostgresStore) getExpenses(ctx context.Context, calculationID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, amount FROM calculation_expenses WHERE calculation_id = $1 ORDER BY position",
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
func (s *PostgresStore) ListCalculationsByOwner(ctx context.Context, ownerID string) ([]*models.Calculation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, total_people, currency, locale, created_at
		 FROM calculations WHERE owner_id = $1 ORDER BY created_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var calcs []*models.Calculation
	for rows.Next() {
		calc := &models.Calculation{}
		if err := rows.Scan(&calc.ID, &calc.OwnerID, &calc.Title, &calc.TotalPeople,
			&calc.Currency, &calc.Locale, &calc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}

	for _, calc := range calcs {
		calc.Expenses, err = s.getExpenses(ctx, calc.ID)
		if err != nil {
			return nil, err
		}
	}

	return calcs, nil
}

// DeleteCalculation removes a calculation by ID.
func (s *PostgresStore) DeleteCalculation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM calculations WHERE id = $1", id)
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

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns nil, nil when no user has the email.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID returns nil, nil when no user has the ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// getUser looks a user up by column. column is never user input.
func (s *PostgresStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users WHERE `+column+` = $1`,
		value,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

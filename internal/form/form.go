// Package form validates and converts raw expense rows, as typed by a user,
// into input for the settlement calculator.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/dangidongi/internal/calculator"
)

var (
	ErrNoExpenses    = errors.New("add at least one expense")
	ErrIncompleteRow = errors.New("every row needs a name and an amount")
	ErrInvalidPeople = errors.New("number of people must be at least 1")
)

// Row is one expense line before parsing.
type Row struct {
	Name   string
	Amount string
}

// RowError reports the first incomplete row. Row is 1-based.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// SanitizeAmount drops every character that is not a digit or a dot.
func SanitizeAmount(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount reads the longest leading decimal number in raw, so "12.5kg"
// parses as 12.5 and "1.2.3" as 1.2.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate rejects an empty list and rows with a blank name or amount.
func Validate(rows []Row) error {
	if len(rows) == 0 {
		return ErrNoExpenses
	}
	for i, row := range rows {
		if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Amount) == "" {
			return &RowError{Row: i + 1, Err: ErrIncompleteRow}
		}
	}
	return nil
}

// ValidatePeople checks the participant count.
func ValidatePeople(n int) error {
	if n < 1 {
		return ErrInvalidPeople
	}
	return nil
}

// Expenses keeps rows that have a name and a parsable amount. Amounts are
// sanitized first, so "1,200" is 1200 and a minus sign is ignored.
func Expenses(rows []Row) []calculator.Expense {
	expenses := make([]calculator.Expense, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		amount, ok := ParseAmount(SanitizeAmount(row.Amount))
		if !ok {
			continue
		}
		expenses = append(expenses, calculator.Expense{Name: name, Amount: amount})
	}
	return expenses
}

// Parse validates the participant count and rows and returns the expenses.
func Parse(totalPeople int, rows []Row) ([]calculator.Expense, error) {
	if err := ValidatePeople(totalPeople); err != nil {
		return nil, err
	}
	if err := Validate(rows); err != nil {
		return nil, err
	}
	return Expenses(rows), nil
}

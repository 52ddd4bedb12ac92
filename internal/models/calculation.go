package models

// Calculation is a saved bill split.
type Calculation struct {
	// ID is the unique identifier for the calculation (UUID format).
	ID string

	// OwnerID is the user who saved the calculation.
	OwnerID string

	// Title is the human-readable name. Generated from payer names when empty.
	Title string

	// TotalPeople is how many people share the cost, including those who
	// paid nothing.
	TotalPeople int

	// Currency is the display currency code (e.g. "TOMAN", "USD").
	Currency string

	// Locale selects the labels used for the unpaid group ("en" or "fa").
	Locale string

	// Expenses are the payments in the order they were entered.
	Expenses []Expense

	// CreatedAt is the Unix timestamp when the calculation was saved.
	CreatedAt int64
}

// Expense is one payment made by a named participant.
type Expense struct {
	Name   string
	Amount float64
}

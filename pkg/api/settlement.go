package api

// ExpenseRow is one expense as typed into the form. Amount is kept as text
// so the server applies the same parsing rules as every other client.
type ExpenseRow struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type CalculateRequest struct {
	TotalPeople int          `json:"total_people"`
	Currency    string       `json:"currency,omitempty"` // Default TOMAN
	Locale      string       `json:"locale,omitempty"`   // "en" or "fa", default en
	Expenses    []ExpenseRow `json:"expenses"`
}

type CalculateResponse struct {
	Settlement *Settlement `json:"settlement"`
}

// Settlement is the computed outcome of a calculation. Raw amounts are
// unrounded; the *_formatted fields are rounded for display.
type Settlement struct {
	Currency                string        `json:"currency"`
	TotalCost               float64       `json:"total_cost"`
	TotalCostFormatted      string        `json:"total_cost_formatted"`
	SharePerPerson          float64       `json:"share_per_person"`
	SharePerPersonFormatted string        `json:"share_per_person_formatted"`
	Hub                     string        `json:"hub,omitempty"`
	Balances                []Balance     `json:"balances"`
	Transactions            []Transaction `json:"transactions"`
}

type Balance struct {
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	AmountFormatted string  `json:"amount_formatted"`
	Aggregate       bool    `json:"aggregate,omitempty"`
	GroupSize       int     `json:"group_size,omitempty"`
}

type Transaction struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	AmountFormatted string  `json:"amount_formatted"`
	Aggregate       bool    `json:"aggregate,omitempty"`
	GroupSize       int     `json:"group_size,omitempty"`
}

type Expense struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Calculation is a saved calculation with its settlement recomputed on read.
type Calculation struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Title       string      `json:"title"`
	TotalPeople int         `json:"total_people"`
	Currency    string      `json:"currency"`
	Locale      string      `json:"locale"`
	Expenses    []Expense   `json:"expenses"`
	CreatedAt   int64       `json:"created_at"`
	Settlement  *Settlement `json:"settlement"`
}

type SaveCalculationRequest struct {
	Title string            `json:"title,omitempty"`
	Input *CalculateRequest `json:"input"`
}

type SaveCalculationResponse struct {
	Calculation *Calculation `json:"calculation"`
}

type GetCalculationRequest struct {
	ID string `json:"id"`
}

type GetCalculationResponse struct {
	Calculation *Calculation `json:"calculation"`
}

type ListCalculationsRequest struct{}

type ListCalculationsResponse struct {
	Calculations []*Calculation `json:"calculations"`
}

type DeleteCalculationRequest struct {
	ID string `json:"id"`
}

type DeleteCalculationResponse struct{}

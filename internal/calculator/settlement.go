package calculator

import (
	"math"
	"sort"
)

// Expense is one payment made by a named participant.
// Several expenses with the same name accumulate.
type Expense struct {
	Name   string
	Amount float64
}

// Balance is one participant's position relative to the equal share.
type Balance struct {
	Name   string
	Amount float64 // Positive = is owed money, Negative = owes money

	// Aggregate marks the synthetic entry that stands for every participant
	// without a recorded payment. GroupSize is how many people it covers.
	Aggregate bool
	GroupSize int
}

// Transaction is a payment From must make To.
type Transaction struct {
	From      string
	To        string
	Amount    float64 // Always positive
	Aggregate bool    // From is the unpaid group; Amount is owed by each of them
	GroupSize int
}

// Result is the outcome of a settlement calculation.
type Result struct {
	TotalCost      float64
	SharePerPerson float64
	Hub            string // Creditor every payment is routed through, "" if none
	Balances       []Balance
	Transactions   []Transaction
}

// ComputeSettlement splits the total cost equally between totalPeople and
// routes every debt through a single hub creditor.
//
// Algorithm:
//   - share = total / totalPeople (0 when totalPeople <= 0)
//   - balance(name) = sum paid by name - share, in encounter order
//   - people without a payment form one debtor entry owing a single share
//   - the creditor with the largest balance becomes the hub
//   - every debtor pays the hub, then the hub pays every other creditor
//
// This is not a minimum-transaction settlement. With several creditors and
// several debtors it emits one transaction per non-hub balance.
func ComputeSettlement(totalPeople int, expenses []Expense, opts ...Option) *Result {
	cfg := newConfig(opts)

	var totalCost float64
	for _, exp := range expenses {
		totalCost += finite(exp.Amount)
	}

	var sharePerPerson float64
	if totalPeople > 0 {
		sharePerPerson = totalCost / float64(totalPeople)
	}

	balances := collectBalances(expenses, sharePerPerson)

	if unpaid := totalPeople - len(balances); unpaid > 0 {
		balances = append(balances, Balance{
			Name:      cfg.labels.group(unpaid),
			Amount:    -sharePerPerson,
			Aggregate: true,
			GroupSize: unpaid,
		})
	}

	result := &Result{
		TotalCost:      totalCost,
		SharePerPerson: sharePerPerson,
		Balances:       balances,
		Transactions:   []Transaction{},
	}

	var creditors, debtors []Balance
	for _, b := range balances {
		if b.Amount > 0 {
			creditors = append(creditors, b)
		} else if b.Amount < 0 {
			debtors = append(debtors, b)
		}
	}

	if len(creditors) == 0 || len(debtors) == 0 {
		return result
	}

	// Ties keep encounter order.
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Amount > creditors[j].Amount
	})

	hub := creditors[0].Name
	result.Hub = hub

	for _, debtor := range debtors {
		from := debtor.Name
		if debtor.Aggregate {
			from = cfg.labels.each(debtor.Name)
		}
		result.Transactions = append(result.Transactions, Transaction{
			From:      from,
			To:        hub,
			Amount:    -debtor.Amount,
			Aggregate: debtor.Aggregate,
			GroupSize: debtor.GroupSize,
		})
	}

	for _, creditor := range creditors[1:] {
		result.Transactions = append(result.Transactions, Transaction{
			From:   hub,
			To:     creditor.Name,
			Amount: creditor.Amount,
		})
	}

	return result
}

// collectBalances sums payments per name, keeping first-seen order, and
// subtracts the share from each entry. Expenses without a name are skipped.
func collectBalances(expenses []Expense, share float64) []Balance {
	index := make(map[string]int)
	var balances []Balance

	for _, exp := range expenses {
		if exp.Name == "" {
			continue
		}
		i, exists := index[exp.Name]
		if !exists {
			i = len(balances)
			index[exp.Name] = i
			balances = append(balances, Balance{Name: exp.Name})
		}
		balances[i].Amount += finite(exp.Amount)
	}

	for i := range balances {
		balances[i].Amount -= share
	}

	return balances
}

// finite coerces NaN and infinities to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/dangidongi/internal/calculator"
	"github.com/mmynk/dangidongi/internal/form"
	"github.com/mmynk/dangidongi/internal/metrics"
	"github.com/mmynk/dangidongi/internal/middleware"
	"github.com/mmynk/dangidongi/internal/models"
	"github.com/mmynk/dangidongi/internal/money"
	"github.com/mmynk/dangidongi/internal/storage"
	"github.com/mmynk/dangidongi/pkg/api"
	"github.com/mmynk/dangidongi/pkg/api/apiconnect"
)

// DefaultCurrency is used when a request names no currency.
const DefaultCurrency = money.Toman

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewSettlementService creates a SettlementService with the given storage backend.
func NewSettlementService(store storage.Store, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, metrics: m}
}

// input is a validated calculation request.
type input struct {
	totalPeople int
	currency    money.Currency
	locale      calculator.Locale
	expenses    []calculator.Expense
}

// parseInput applies the form rules and resolves display settings.
func (s *SettlementService) parseInput(req *api.CalculateRequest) (*input, error) {
	if req == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("input is required"))
	}

	code := req.Currency
	if strings.TrimSpace(code) == "" {
		code = DefaultCurrency
	}
	currency, err := money.Lookup(code)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	rows := make([]form.Row, len(req.Expenses))
	for i, e := range req.Expenses {
		rows[i] = form.Row{Name: e.Name, Amount: e.Amount}
	}

	expenses, err := form.Parse(req.TotalPeople, rows)
	if err != nil {
		s.metrics.ObserveRejected()
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return &input{
		totalPeople: req.TotalPeople,
		currency:    currency,
		locale:      calculator.ParseLocale(req.Locale),
		expenses:    expenses,
	}, nil
}

// settle runs the calculator and converts the result for the wire. Reads of
// saved calculations go through here too, so callers record metrics.
func (s *SettlementService) settle(totalPeople int, expenses []calculator.Expense, currency money.Currency, locale calculator.Locale) *api.Settlement {
	result := calculator.ComputeSettlement(totalPeople, expenses, calculator.WithLocale(locale))

	slog.Debug("Settlement computed",
		"total_people", totalPeople,
		"expenses", len(expenses),
		"hub", result.Hub,
		"transactions", len(result.Transactions),
	)

	return ToAPISettlement(result, currency)
}

// Calculate validates the form input and returns the settlement.
func (s *SettlementService) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	in, err := s.parseInput(req.Msg)
	if err != nil {
		return nil, err
	}

	settlement := s.settle(in.totalPeople, in.expenses, in.currency, in.locale)
	s.metrics.ObserveSettlement(len(settlement.Transactions))

	return connect.NewResponse(&api.CalculateResponse{Settlement: settlement}), nil
}

// SaveCalculation stores the input of a calculation for the signed-in user.
func (s *SettlementService) SaveCalculation(ctx context.Context, req *connect.Request[api.SaveCalculationRequest]) (*connect.Response[api.SaveCalculationResponse], error) {
	userID := middleware.GetUserID(ctx)

	in, err := s.parseInput(req.Msg.Input)
	if err != nil {
		return nil, err
	}

	calc := &models.Calculation{
		OwnerID:     userID,
		Title:       strings.TrimSpace(req.Msg.Title),
		TotalPeople: in.totalPeople,
		Currency:    in.currency.Code,
		Locale:      string(in.locale),
		Expenses:    make([]models.Expense, len(in.expenses)),
	}
	for i, e := range in.expenses {
		calc.Expenses[i] = models.Expense{Name: e.Name, Amount: e.Amount}
	}

	if err := s.store.CreateCalculation(ctx, calc); err != nil {
		slog.Error("SaveCalculation failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Calculation saved", "calculation_id", calc.ID, "user_id", userID)

	out, err := s.toAPICalculation(calc)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSettlement(len(out.Settlement.Transactions))

	return connect.NewResponse(&api.SaveCalculationResponse{Calculation: out}), nil
}

// GetCalculation loads a saved calculation by ID. Anyone with the ID can read
// it, so links can be shared with the people who owe money.
func (s *SettlementService) GetCalculation(ctx context.Context, req *connect.Request[api.GetCalculationRequest]) (*connect.Response[api.GetCalculationResponse], error) {
	calc, err := s.getCalculation(ctx, req.Msg.ID)
	if err != nil {
		return nil, err
	}

	out, err := s.toAPICalculation(calc)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetCalculationResponse{Calculation: out}), nil
}

// ListCalculations returns the signed-in user's calculations, newest first.
func (s *SettlementService) ListCalculations(ctx context.Context, req *connect.Request[api.ListCalculationsRequest]) (*connect.Response[api.ListCalculationsResponse], error) {
	userID := middleware.GetUserID(ctx)

	calcs, err := s.store.ListCalculationsByOwner(ctx, userID)
	if err != nil {
		slog.Error("ListCalculations failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Calculation, 0, len(calcs))
	for _, calc := range calcs {
		c, err := s.toAPICalculation(calc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return connect.NewResponse(&api.ListCalculationsResponse{Calculations: out}), nil
}

// DeleteCalculation removes a calculation owned by the signed-in user.
func (s *SettlementService) DeleteCalculation(ctx context.Context, req *connect.Request[api.DeleteCalculationRequest]) (*connect.Response[api.DeleteCalculationResponse], error) {
	userID := middleware.GetUserID(ctx)

	calc, err := s.getCalculation(ctx, req.Msg.ID)
	if err != nil {
		return nil, err
	}
	if calc.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("calculation %s belongs to another user", calc.ID))
	}

	if err := s.store.DeleteCalculation(ctx, calc.ID); err != nil {
		slog.Error("DeleteCalculation failed", "calculation_id", calc.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Calculation deleted", "calculation_id", calc.ID, "user_id", userID)
	return connect.NewResponse(&api.DeleteCalculationResponse{}), nil
}

func (s *SettlementService) getCalculation(ctx context.Context, id string) (*models.Calculation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("id is required"))
	}

	calc, err := s.store.GetCalculation(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		slog.Error("GetCalculation failed", "calculation_id", id, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return calc, nil
}

// toAPICalculation recomputes the settlement of a stored calculation.
func (s *SettlementService) toAPICalculation(calc *models.Calculation) (*api.Calculation, error) {
	currency, err := money.Lookup(calc.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	expenses := make([]calculator.Expense, len(calc.Expenses))
	apiExpenses := make([]api.Expense, len(calc.Expenses))
	for i, e := range calc.Expenses {
		expenses[i] = calculator.Expense{Name: e.Name, Amount: e.Amount}
		apiExpenses[i] = api.Expense{Name: e.Name, Amount: e.Amount}
	}

	return &api.Calculation{
		ID:          calc.ID,
		OwnerID:     calc.OwnerID,
		Title:       calc.Title,
		TotalPeople: calc.TotalPeople,
		Currency:    calc.Currency,
		Locale:      calc.Locale,
		Expenses:    apiExpenses,
		CreatedAt:   calc.CreatedAt,
		Settlement:  s.settle(calc.TotalPeople, expenses, currency, calculator.ParseLocale(calc.Locale)),
	}, nil
}

// ToAPISettlement converts a calculator result and formats its amounts.
func ToAPISettlement(result *calculator.Result, currency money.Currency) *api.Settlement {
	out := &api.Settlement{
		Currency:                currency.Code,
		TotalCost:               result.TotalCost,
		TotalCostFormatted:      currency.Format(result.TotalCost),
		SharePerPerson:          result.SharePerPerson,
		SharePerPersonFormatted: currency.Format(result.SharePerPerson),
		Hub:                     result.Hub,
		Balances:                make([]api.Balance, len(result.Balances)),
		Transactions:            make([]api.Transaction, len(result.Transactions)),
	}

	for i, b := range result.Balances {
		out.Balances[i] = api.Balance{
			Name:            b.Name,
			Amount:          b.Amount,
			AmountFormatted: currency.Format(b.Amount),
			Aggregate:       b.Aggregate,
			GroupSize:       b.GroupSize,
		}
	}
	for i, t := range result.Transactions {
		out.Transactions[i] = api.Transaction{
			From:            t.From,
			To:              t.To,
			Amount:          t.Amount,
			AmountFormatted: currency.Format(t.Amount),
			Aggregate:       t.Aggregate,
			GroupSize:       t.GroupSize,
		}
	}

	return out
}

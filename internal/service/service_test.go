package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/dangidongi/internal/auth"
	"github.com/mmynk/dangidongi/internal/metrics"
	"github.com/mmynk/dangidongi/internal/middleware"
	"github.com/mmynk/dangidongi/internal/storage/sqlite"
	"github.com/mmynk/dangidongi/pkg/api"
	"github.com/mmynk/dangidongi/pkg/api/apiconnect"
)

type testClients struct {
	settlement apiconnect.SettlementServiceClient
	auth       apiconnect.AuthServiceClient
	metrics    *metrics.Metrics
}

// setupTestServer creates a test server backed by a temp-file SQLite database.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	m := metrics.New()

	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(logger),
		m.Interceptor(),
		middleware.RequireAuth(jwtManager, AuthenticatedProcedures...),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(store, m), interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger),
		interceptors,
	))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return &testClients{
		settlement: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		auth:       apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		metrics:    m,
	}
}

// register creates an account and returns its bearer token.
func register(t *testing.T, clients *testClients, email string) (string, *api.User) {
	t.Helper()
	resp, err := clients.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Test User",
		Password:    "long-enough-password",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token, resp.Msg.User
}

// settlementsObserved scrapes the transactions histogram count, which grows
// by one for every recorded settlement.
func settlementsObserved(t *testing.T, m *metrics.Metrics) float64 {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	const prefix = "dangidongi_settlement_transactions_count "
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if strings.HasPrefix(line, prefix) {
			v, err := strconv.ParseFloat(strings.TrimPrefix(line, prefix), 64)
			if err != nil {
				t.Fatalf("bad metric line %q: %v", line, err)
			}
			return v
		}
	}
	return 0
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestCalculate_SinglePayer(t *testing.T) {
	clients := setupTestServer(t)

	resp, err := clients.settlement.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{
		TotalPeople: 4,
		Currency:    "USD",
		Expenses:    []api.ExpenseRow{{Name: "A", Amount: "400"}},
	}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	s := resp.Msg.Settlement
	if s.TotalCost != 400 || s.SharePerPerson != 100 {
		t.Errorf("totals = %v / %v, want 400 / 100", s.TotalCost, s.SharePerPerson)
	}
	if s.TotalCostFormatted != "400.00" || s.SharePerPersonFormatted != "100.00" {
		t.Errorf("formatted = %q / %q", s.TotalCostFormatted, s.SharePerPersonFormatted)
	}
	if s.Hub != "A" {
		t.Errorf("Hub = %q, want A", s.Hub)
	}
	if len(s.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(s.Transactions))
	}
	txn := s.Transactions[0]
	if txn.From != "3 Other people (Each)" || txn.To != "A" || txn.Amount != 100 {
		t.Errorf("transaction = %+v", txn)
	}
	if !txn.Aggregate || txn.GroupSize != 3 {
		t.Errorf("expected aggregate group of 3, got %+v", txn)
	}
}

func TestCalculate_MultipleCreditors(t *testing.T) {
	clients := setupTestServer(t)

	resp, err := clients.settlement.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{
		TotalPeople: 3,
		Expenses: []api.ExpenseRow{
			{Name: "A", Amount: "90"},
			{Name: "B", Amount: "60"},
			{Name: "C", Amount: "0"},
		},
	}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	s := resp.Msg.Settlement
	if s.Currency != DefaultCurrency {
		t.Errorf("Currency = %q, want %q", s.Currency, DefaultCurrency)
	}
	want := []api.Transaction{
		{From: "C", To: "A", Amount: 50, AmountFormatted: "50"},
		{From: "A", To: "B", Amount: 10, AmountFormatted: "10"},
	}
	if len(s.Transactions) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(s.Transactions), len(want))
	}
	for i, w := range want {
		if s.Transactions[i] != w {
			t.Errorf("transaction %d = %+v, want %+v", i, s.Transactions[i], w)
		}
	}
}

func TestCalculate_PersianLocale(t *testing.T) {
	clients := setupTestServer(t)

	resp, err := clients.settlement.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{
		TotalPeople: 3,
		Locale:      "fa",
		Expenses:    []api.ExpenseRow{{Name: "رضا", Amount: "300000"}},
	}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	s := resp.Msg.Settlement
	if s.TotalCostFormatted != "300,000" {
		t.Errorf("TotalCostFormatted = %q, want 300,000", s.TotalCostFormatted)
	}
	if len(s.Transactions) != 1 || s.Transactions[0].From != "2 نفر دیگر (هر کدام)" {
		t.Errorf("transactions = %+v", s.Transactions)
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	clients := setupTestServer(t)

	tests := []struct {
		name string
		req  *api.CalculateRequest
	}{
		{name: "no expenses", req: &api.CalculateRequest{TotalPeople: 2}},
		{name: "zero people", req: &api.CalculateRequest{TotalPeople: 0, Expenses: []api.ExpenseRow{{Name: "A", Amount: "1"}}}},
		{name: "blank name", req: &api.CalculateRequest{TotalPeople: 2, Expenses: []api.ExpenseRow{{Name: " ", Amount: "1"}}}},
		{name: "blank amount", req: &api.CalculateRequest{TotalPeople: 2, Expenses: []api.ExpenseRow{{Name: "A", Amount: ""}}}},
		{name: "unknown currency", req: &api.CalculateRequest{TotalPeople: 2, Currency: "GBP", Expenses: []api.ExpenseRow{{Name: "A", Amount: "1"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clients.settlement.Calculate(context.Background(), connect.NewRequest(tt.req))
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("code = %v, want invalid_argument (err: %v)", connect.CodeOf(err), err)
			}
		})
	}
}

func TestCalculate_SanitizesAmounts(t *testing.T) {
	clients := setupTestServer(t)

	resp, err := clients.settlement.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{
		TotalPeople: 2,
		Expenses: []api.ExpenseRow{
			{Name: "A", Amount: "1,200"},
			{Name: "B", Amount: "-50"},
		},
	}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// Separators and signs are stripped: A paid 1200, B paid 50.
	s := resp.Msg.Settlement
	if s.TotalCost != 1250 || s.SharePerPerson != 625 {
		t.Errorf("totals = %v / %v, want 1250 / 625", s.TotalCost, s.SharePerPerson)
	}
	want := api.Transaction{From: "B", To: "A", Amount: 575, AmountFormatted: "575"}
	if len(s.Transactions) != 1 || s.Transactions[0] != want {
		t.Errorf("transactions = %+v, want [%+v]", s.Transactions, want)
	}
}

func TestCalculate_UnparsableRowsAreDropped(t *testing.T) {
	clients := setupTestServer(t)

	resp, err := clients.settlement.Calculate(context.Background(), connect.NewRequest(&api.CalculateRequest{
		TotalPeople: 2,
		Expenses: []api.ExpenseRow{
			{Name: "A", Amount: "100"},
			{Name: "B", Amount: "abc"},
		},
	}))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// B is dropped, so the second person is part of the unpaid group.
	s := resp.Msg.Settlement
	if s.TotalCost != 100 || len(s.Transactions) != 1 || !s.Transactions[0].Aggregate {
		t.Errorf("settlement = %+v", s)
	}
}

func TestSavedCalculations(t *testing.T) {
	clients := setupTestServer(t)
	ctx := context.Background()

	input := &api.CalculateRequest{
		TotalPeople: 2,
		Currency:    "EUR",
		Expenses:    []api.ExpenseRow{{Name: "A", Amount: "100"}, {Name: "B", Amount: "0"}},
	}

	t.Run("save requires sign in", func(t *testing.T) {
		_, err := clients.settlement.SaveCalculation(ctx, connect.NewRequest(&api.SaveCalculationRequest{Input: input}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("code = %v, want unauthenticated", connect.CodeOf(err))
		}
	})

	token, user := register(t, clients, "owner@example.com")
	otherToken, _ := register(t, clients, "other@example.com")

	saved, err := clients.settlement.SaveCalculation(ctx, withToken(&api.SaveCalculationRequest{
		Title: "Dinner",
		Input: input,
	}, token))
	if err != nil {
		t.Fatalf("SaveCalculation failed: %v", err)
	}
	calc := saved.Msg.Calculation
	if calc.ID == "" || calc.OwnerID != user.ID || calc.Title != "Dinner" {
		t.Errorf("saved calculation = %+v", calc)
	}
	if len(calc.Settlement.Transactions) != 1 || calc.Settlement.Transactions[0].AmountFormatted != "50.00" {
		t.Errorf("saved settlement = %+v", calc.Settlement)
	}

	if got := settlementsObserved(t, clients.metrics); got != 1 {
		t.Errorf("settlements recorded after save = %v, want 1", got)
	}

	t.Run("anyone can read by id", func(t *testing.T) {
		got, err := clients.settlement.GetCalculation(ctx, connect.NewRequest(&api.GetCalculationRequest{ID: calc.ID}))
		if err != nil {
			t.Fatalf("GetCalculation failed: %v", err)
		}
		s := got.Msg.Calculation.Settlement
		if s.TotalCost != 100 || s.SharePerPerson != 50 || s.Hub != "A" {
			t.Errorf("recomputed settlement = %+v", s)
		}
		if len(got.Msg.Calculation.Expenses) != 2 {
			t.Errorf("expenses = %+v", got.Msg.Calculation.Expenses)
		}
	})

	t.Run("list is per owner", func(t *testing.T) {
		mine, err := clients.settlement.ListCalculations(ctx, withToken(&api.ListCalculationsRequest{}, token))
		if err != nil {
			t.Fatalf("ListCalculations failed: %v", err)
		}
		if len(mine.Msg.Calculations) != 1 {
			t.Errorf("owner has %d calculations, want 1", len(mine.Msg.Calculations))
		}

		theirs, err := clients.settlement.ListCalculations(ctx, withToken(&api.ListCalculationsRequest{}, otherToken))
		if err != nil {
			t.Fatalf("ListCalculations failed: %v", err)
		}
		if len(theirs.Msg.Calculations) != 0 {
			t.Errorf("other user has %d calculations, want 0", len(theirs.Msg.Calculations))
		}
	})

	t.Run("reads are not recorded as settlements", func(t *testing.T) {
		if got := settlementsObserved(t, clients.metrics); got != 1 {
			t.Errorf("settlements recorded = %v, want 1", got)
		}
	})

	t.Run("only the owner can delete", func(t *testing.T) {
		_, err := clients.settlement.DeleteCalculation(ctx, withToken(&api.DeleteCalculationRequest{ID: calc.ID}, otherToken))
		if connect.CodeOf(err) != connect.CodePermissionDenied {
			t.Errorf("code = %v, want permission_denied", connect.CodeOf(err))
		}

		if _, err := clients.settlement.DeleteCalculation(ctx, withToken(&api.DeleteCalculationRequest{ID: calc.ID}, token)); err != nil {
			t.Fatalf("DeleteCalculation failed: %v", err)
		}

		_, err = clients.settlement.GetCalculation(ctx, connect.NewRequest(&api.GetCalculationRequest{ID: calc.ID}))
		if connect.CodeOf(err) != connect.CodeNotFound {
			t.Errorf("code = %v, want not_found", connect.CodeOf(err))
		}
	})
}

func TestAuthService(t *testing.T) {
	clients := setupTestServer(t)
	ctx := context.Background()

	token, user := register(t, clients, "sara@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := clients.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "sara@example.com", DisplayName: "Sara", Password: "long-enough-password",
		}))
		if connect.CodeOf(err) != connect.CodeAlreadyExists {
			t.Errorf("code = %v, want already_exists", connect.CodeOf(err))
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := clients.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "reza@example.com", DisplayName: "Reza", Password: "short",
		}))
		if connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Errorf("code = %v, want invalid_argument", connect.CodeOf(err))
		}
	})

	t.Run("login", func(t *testing.T) {
		resp, err := clients.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "sara@example.com", Password: "long-enough-password",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.Token == "" || resp.Msg.User.ID != user.ID {
			t.Errorf("login response = %+v", resp.Msg)
		}
		if resp.Msg.ExpiresAt <= time.Now().Unix() {
			t.Errorf("ExpiresAt = %d, want future", resp.Msg.ExpiresAt)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := clients.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "sara@example.com", Password: "not-the-password",
		}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("code = %v, want unauthenticated", connect.CodeOf(err))
		}
	})

	t.Run("current user", func(t *testing.T) {
		resp, err := clients.auth.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, token))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if resp.Msg.User.Email != "sara@example.com" || resp.Msg.User.DisplayName != "Test User" {
			t.Errorf("user = %+v", resp.Msg.User)
		}

		_, err = clients.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("anonymous code = %v, want unauthenticated", connect.CodeOf(err))
		}
	})
}

func TestAuthenticatedProcedures(t *testing.T) {
	clients := setupTestServer(t)
	ctx := context.Background()

	_, err := clients.settlement.ListCalculations(ctx, connect.NewRequest(&api.ListCalculationsRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("anonymous list: code = %v, want unauthenticated", connect.CodeOf(err))
	}

	_, err = clients.settlement.DeleteCalculation(ctx, withToken(&api.DeleteCalculationRequest{ID: "x"}, "forged"))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("forged delete: code = %v, want unauthenticated", connect.CodeOf(err))
	}

	// Public procedures ignore a bad token.
	_, err = clients.settlement.Calculate(ctx, withToken(&api.CalculateRequest{
		TotalPeople: 2,
		Expenses:    []api.ExpenseRow{{Name: "A", Amount: "10"}},
	}, "forged"))
	if err != nil {
		t.Errorf("Calculate with bad token failed: %v", err)
	}
}

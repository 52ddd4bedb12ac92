package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/dangidongi/internal/calculator"
	"github.com/mmynk/dangidongi/internal/form"
	"github.com/mmynk/dangidongi/internal/money"
	"github.com/mmynk/dangidongi/internal/service"
	"github.com/mmynk/dangidongi/pkg/api"
	"github.com/mmynk/dangidongi/pkg/api/apiconnect"
)

func calcCmd(serverURL *string) *cobra.Command {
	var (
		people   int
		expenses []string
		currency string
		locale   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute who pays whom",
		Example: `  dongi calc --people 4 --expense Sara=120 --expense Reza=80
  dongi calc -n 3 -e "Ali=150000" --locale fa --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseExpenseFlags(expenses)
			if err != nil {
				return err
			}
			req := &api.CalculateRequest{
				TotalPeople: people,
				Currency:    currency,
				Locale:      locale,
				Expenses:    rows,
			}

			var settlement *api.Settlement
			if *serverURL != "" {
				settlement, err = calculateRemote(cmd.Context(), *serverURL, req)
			} else {
				settlement, err = calculateLocal(req)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(settlement)
			}
			return printSettlement(cmd.OutOrStdout(), settlement)
		},
	}

	cmd.Flags().IntVarP(&people, "people", "n", 0, "total number of people sharing the cost")
	cmd.Flags().StringArrayVarP(&expenses, "expense", "e", nil, "expense as name=amount (repeatable)")
	cmd.Flags().StringVar(&currency, "currency", service.DefaultCurrency, "display currency: TOMAN, EUR, USD or TRY")
	cmd.Flags().StringVar(&locale, "locale", string(calculator.LocaleEnglish), "label language: en or fa")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the settlement as JSON")
	_ = cmd.MarkFlagRequired("people")

	return cmd
}

// parseExpenseFlags splits name=amount values. The amount is kept as text
// and parsed with the same rules as the web form.
func parseExpenseFlags(values []string) ([]api.ExpenseRow, error) {
	rows := make([]api.ExpenseRow, 0, len(values))
	for _, v := range values {
		name, amount, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid expense %q: want name=amount", v)
		}
		rows = append(rows, api.ExpenseRow{Name: name, Amount: amount})
	}
	return rows, nil
}

func calculateLocal(req *api.CalculateRequest) (*api.Settlement, error) {
	cur, err := money.Lookup(req.Currency)
	if err != nil {
		return nil, err
	}

	rows := make([]form.Row, len(req.Expenses))
	for i, e := range req.Expenses {
		rows[i] = form.Row{Name: e.Name, Amount: e.Amount}
	}
	expenses, err := form.Parse(req.TotalPeople, rows)
	if err != nil {
		return nil, err
	}

	result := calculator.ComputeSettlement(req.TotalPeople, expenses,
		calculator.WithLocale(calculator.ParseLocale(req.Locale)))
	slog.Debug("Settlement computed locally", "hub", result.Hub, "transactions", len(result.Transactions))

	return service.ToAPISettlement(result, cur), nil
}

func calculateRemote(ctx context.Context, baseURL string, req *api.CalculateRequest) (*api.Settlement, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := apiconnect.NewSettlementServiceClient(http.DefaultClient, baseURL)
	slog.Debug("Calling server", "url", baseURL, "procedure", apiconnect.SettlementServiceCalculateProcedure)

	resp, err := client.Calculate(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Settlement, nil
}

func printSettlement(w io.Writer, s *api.Settlement) error {
	cur, err := money.Lookup(s.Currency)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total:            %s\n", cur.Display(s.TotalCost))
	fmt.Fprintf(w, "Share per person: %s\n", cur.Display(s.SharePerPerson))

	if len(s.Transactions) == 0 {
		fmt.Fprintln(w, "Everyone is settled up.")
		return nil
	}

	fmt.Fprintln(w, "Transactions:")
	for _, t := range s.Transactions {
		fmt.Fprintf(w, "  %s -> %s: %s\n", t.From, t.To, cur.Display(t.Amount))
	}
	return nil
}

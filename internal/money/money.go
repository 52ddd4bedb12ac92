// Package money formats amounts for display in the supported currencies.
//
// Amounts are rounded half away from zero to the currency's fraction digits
// and grouped en-US style ("1,234.50"). Rounding happens here only; the
// calculator works with unrounded values.
package money

import (
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// Toman is not an ISO 4217 code; it is a tenth of a rial and is shown
// without fraction digits.
const Toman = "TOMAN"

// Currency describes how amounts are displayed.
type Currency struct {
	Code     string
	Label    string
	Symbol   string
	Fraction int
}

// supported is ordered the way currencies are offered to users.
var supported = []string{Toman, gomoney.EUR, gomoney.USD, gomoney.TRY}

// Lookup returns the display settings for a currency code (case-insensitive).
func Lookup(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == Toman {
		return Currency{Code: Toman, Label: "تومان", Symbol: "تومان", Fraction: 0}, nil
	}

	for _, c := range supported {
		if c != code {
			continue
		}
		iso := gomoney.GetCurrency(code)
		if iso == nil {
			break
		}
		return Currency{
			Code:     iso.Code,
			Label:    fmt.Sprintf("%s (%s)", iso.Code, iso.Grapheme),
			Symbol:   iso.Grapheme,
			Fraction: iso.Fraction,
		}, nil
	}

	return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}

// Supported lists every currency the service can display.
func Supported() []Currency {
	out := make([]Currency, 0, len(supported))
	for _, code := range supported {
		if c, err := Lookup(code); err == nil {
			out = append(out, c)
		}
	}
	return out
}

var printer = message.NewPrinter(language.English)

// Format renders amount in the given currency without the currency symbol.
func Format(amount float64, code string) (string, error) {
	c, err := Lookup(code)
	if err != nil {
		return "", err
	}
	return c.Format(amount), nil
}

// Format renders amount with the currency's fraction digits.
func (c Currency) Format(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Round(int32(c.Fraction)).InexactFloat64()
	if rounded == 0 {
		// Avoid printing "-0".
		rounded = 0
	}
	return printer.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(c.Fraction),
		number.MaxFractionDigits(c.Fraction),
	))
}

// Display renders amount followed by the currency label, e.g. "1,200 تومان"
// or "12.50 USD".
func (c Currency) Display(amount float64) string {
	if c.Code == Toman {
		return c.Format(amount) + " " + c.Label
	}
	return c.Format(amount) + " " + c.Code
}

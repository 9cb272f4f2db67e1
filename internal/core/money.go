// Money-like text parsing for imports and manual entry. Amounts arrive with
// currency prefixes and Brazilian separators ("R$ 1.250,50") as often as in
// plain decimal form ("1250.50"); both must land on the same decimal value.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseMoney parses a money-like string into a decimal. A leading currency
// prefix is stripped. When a comma is present it is taken as the decimal
// separator and dots as thousands separators; otherwise the text is parsed
// as a plain decimal number.
func ParseMoney(s string) (decimal.Decimal, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return decimal.Zero, NewValidationError("amount", "empty")
	}

	neg := false
	switch {
	case strings.HasPrefix(t, "-"):
		neg = true
		t = t[1:]
	case strings.HasPrefix(t, "+"):
		t = t[1:]
	}

	t = strings.TrimSpace(stripCurrencyPrefix(t))

	// A second sign may follow the currency prefix ("R$ -10,00").
	if strings.HasPrefix(t, "-") {
		neg = !neg
		t = t[1:]
	}

	if strings.Contains(t, ",") {
		t = strings.ReplaceAll(t, ".", "")
		t = strings.Replace(t, ",", ".", 1)
	}

	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, NewValidationError("amount", "not a number: "+s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// stripCurrencyPrefix drops a leading run of currency symbols, letters and
// spaces such as "R$ ", "$" or "BRL ".
func stripCurrencyPrefix(s string) string {
	for i, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSymbol(r) && r != ' ' {
			return s[i:]
		}
	}
	return ""
}

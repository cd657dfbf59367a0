package tracker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the currencies the tracker knows about.
//
// The set is closed: cash is always held in the domestic currency and
// foreign-currency amounts are converted through a single exchange rate.
type Currency string

const (
	// KRW is the domestic currency. All cash balances are kept in it.
	KRW Currency = "KRW"
	// USD is the foreign currency of the foreign-direct account.
	USD Currency = "USD"
)

// Domestic is the currency every report is expressed in.
const Domestic = KRW

// ParseCurrency parses a currency code, case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case KRW:
		return KRW, nil
	case USD:
		return USD, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
}

// IsDomestic reports whether amounts in c need no conversion.
func (c Currency) IsDomestic() bool { return c == Domestic }

func (c Currency) String() string { return string(c) }

func (c *Currency) UnmarshalText(b []byte) error {
	v, err := ParseCurrency(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ExchangeRate is the number of domestic units for one foreign unit.
type ExchangeRate struct {
	value decimal.Decimal
}

// Rate returns an ExchangeRate from any supported numeric value.
func Rate[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) ExchangeRate {
	return ExchangeRate{value: newDecimal(value)}
}

func (r ExchangeRate) IsPositive() bool              { return r.value.IsPositive() }
func (r ExchangeRate) Equal(s ExchangeRate) bool     { return r.value.Equal(s.value) }
func (r ExchangeRate) String() string                { return r.value.String() }
func (r ExchangeRate) MarshalJSON() ([]byte, error)  { return r.value.MarshalJSON() }
func (r *ExchangeRate) UnmarshalJSON(b []byte) error { return r.value.UnmarshalJSON(b) }

// Convert returns m expressed in the domestic currency.
//
// Domestic and currency-less amounts are returned as is (with the domestic
// currency set), foreign amounts are multiplied by the rate.
func (r ExchangeRate) Convert(m Money) Money {
	if m.cur == "" || m.cur.IsDomestic() {
		return Money{value: m.value, cur: Domestic}
	}
	return Money{value: m.value.Mul(r.value), cur: Domestic}
}

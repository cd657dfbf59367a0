package tracker

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// AccountKind identifies one of the two accounts of the portfolio.
type AccountKind int

const (
	// ISA is the domestic tax-advantaged account. It holds stocks and funds,
	// and sales are not taxed.
	ISA AccountKind = iota + 1
	// Foreign is the foreign-direct account. It holds stocks only, and
	// positive realized gains are taxed on each sale.
	Foreign
)

// Accounts lists every account kind in reporting order.
var Accounts = []AccountKind{ISA, Foreign}

func (k AccountKind) String() string {
	switch k {
	case ISA:
		return "ISA"
	case Foreign:
		return "US"
	default:
		return "unknown"
	}
}

// ParseAccountKind parses an account identifier, case-insensitively.
// "us" and "foreign" both designate the foreign-direct account.
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "isa":
		return ISA, nil
	case "us", "foreign":
		return Foreign, nil
	default:
		return 0, fmt.Errorf("%w: %q, want \"isa\" or \"us\"", ErrInvalidAccount, s)
	}
}

func (k AccountKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *AccountKind) UnmarshalText(b []byte) error {
	v, err := ParseAccountKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// InstrumentKind classifies what a holding is.
type InstrumentKind string

const (
	Stock InstrumentKind = "stock"
	Fund  InstrumentKind = "etf"
	Cash  InstrumentKind = "cash"
)

// DefaultFundMarker is the display name token that marks an instrument as a fund.
const DefaultFundMarker = "ETF"

// Classify returns Fund when name contains marker (ignoring case), and Stock otherwise.
func Classify(name, marker string) InstrumentKind {
	if marker == "" {
		marker = DefaultFundMarker
	}
	if strings.Contains(strings.ToUpper(name), strings.ToUpper(marker)) {
		return Fund
	}
	return Stock
}

// ParseInstrumentKind parses "stock" or "etf" ("fund" is accepted too).
func ParseInstrumentKind(s string) (InstrumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock":
		return Stock, nil
	case "etf", "fund":
		return Fund, nil
	default:
		return "", fmt.Errorf("unknown instrument kind %q", s)
	}
}

func (k *InstrumentKind) UnmarshalText(b []byte) error {
	v, err := ParseInstrumentKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// account is one book of the ledger: a domestic cash balance and the
// position books keyed by ticker.
type account struct {
	kind  AccountKind
	cash  Money
	books map[InstrumentKind]map[string]*Position
}

func newAccount(kind AccountKind) *account {
	a := &account{
		kind:  kind,
		cash:  M(0, Domestic),
		books: make(map[InstrumentKind]map[string]*Position),
	}
	for _, k := range a.kinds() {
		a.books[k] = make(map[string]*Position)
	}
	return a
}

// kinds returns the instrument books of the account, in lookup order.
func (a *account) kinds() []InstrumentKind {
	switch a.kind {
	case ISA:
		return []InstrumentKind{Fund, Stock}
	case Foreign:
		return []InstrumentKind{Stock}
	default:
		return nil
	}
}

// find looks a ticker up in every book of the account.
func (a *account) find(ticker string) (*Position, bool) {
	for _, k := range a.kinds() {
		if p, ok := a.books[k][ticker]; ok {
			return p, true
		}
	}
	return nil, false
}

// remove deletes the ticker from its book.
func (a *account) remove(p *Position) {
	delete(a.books[p.Kind], p.Ticker)
}

// positions returns copies of the held positions, stocks first then funds,
// each sorted by ticker.
func (a *account) positions() []Position {
	var ps []Position
	for _, k := range []InstrumentKind{Stock, Fund} {
		book, ok := a.books[k]
		if !ok {
			continue
		}
		for _, ticker := range slices.Sorted(maps.Keys(book)) {
			ps = append(ps, *book[ticker])
		}
	}
	return ps
}

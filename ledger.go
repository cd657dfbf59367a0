package tracker

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/tracker/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultExchangeRate is the KRW per USD rate a new ledger starts with.
	DefaultExchangeRate = 1300
	// DefaultTaxRate is the tax rate applied to foreign gains when an
	// instruction does not specify one.
	DefaultTaxRate = 0.22
)

// Ledger is the bookkeeping engine of the portfolio. It owns the two
// accounts, the exchange rate and the transaction history.
//
// Every operation either applies fully or fails before changing anything.
// A single mutex guards the whole ledger.
type Ledger struct {
	mu           sync.Mutex
	rate         ExchangeRate
	taxRate      float64
	fundMarker   string
	today        func() date.Date
	newID        func() string
	log          zerolog.Logger
	accounts     map[AccountKind]*account
	transactions []Transaction
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithExchangeRate sets the initial exchange rate.
func WithExchangeRate(rate ExchangeRate) Option { return func(l *Ledger) { l.rate = rate } }

// WithTaxRate sets the default tax rate on foreign gains.
func WithTaxRate(rate float64) Option { return func(l *Ledger) { l.taxRate = rate } }

// WithFundMarker sets the display name token used to classify funds.
func WithFundMarker(marker string) Option { return func(l *Ledger) { l.fundMarker = marker } }

// WithClock sets the function used to date transactions.
func WithClock(today func() date.Date) Option { return func(l *Ledger) { l.today = today } }

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option { return func(l *Ledger) { l.log = log } }

// NewLedger creates an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		rate:       Rate(DefaultExchangeRate),
		taxRate:    DefaultTaxRate,
		fundMarker: DefaultFundMarker,
		today:      date.Today,
		newID:      uuid.NewString,
		log:        zerolog.Nop(),
		accounts:   make(map[AccountKind]*account),
	}
	for _, opt := range opts {
		opt(l)
	}
	for _, kind := range Accounts {
		l.accounts[kind] = newAccount(kind)
	}
	return l
}

// account returns the account of that kind.
func (l *Ledger) account(kind AccountKind) (*account, error) {
	switch kind {
	case ISA, Foreign:
		return l.accounts[kind], nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccount, int(kind))
	}
}

// SetExchangeRate replaces the exchange rate used by every later
// operation and valuation. Recorded transactions are not affected.
func (l *Ledger) SetExchangeRate(rate ExchangeRate) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: %v must be positive", ErrInvalidRate, rate)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rate = rate
	l.log.Debug().Stringer("rate", rate).Msg("exchange rate set")
	return nil
}

// ExchangeRate returns the current exchange rate.
func (l *Ledger) ExchangeRate() ExchangeRate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// TaxRate returns the default tax rate on foreign gains.
func (l *Ledger) TaxRate() float64 { return l.taxRate }

// FundMarker returns the token used to classify funds by name.
func (l *Ledger) FundMarker() string { return l.fundMarker }

// DepositCash adds amount to the cash balance of the account.
//
// The amount must be positive and in the domestic currency.
func (l *Ledger) DepositCash(kind AccountKind, amount Money) (Deposit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(kind)
	if err != nil {
		return Deposit{}, err
	}
	if amount.Currency() == "" {
		amount = M(amount.value, Domestic)
	}
	if !amount.Currency().IsDomestic() {
		return Deposit{}, fmt.Errorf("%w: deposits must be in %s, got %s", ErrCurrencyMismatch, Domestic, amount.Currency())
	}
	if !amount.IsPositive() {
		return Deposit{}, fmt.Errorf("%w: deposit must be positive, got %v", ErrInvalidAmount, amount)
	}

	a.cash = a.cash.Add(amount)
	tx := Deposit{baseCmd: l.base(CmdDeposit, kind), Amount: amount}
	l.transactions = append(l.transactions, tx)
	l.log.Debug().Stringer("account", kind).Stringer("amount", amount).Msg("deposit")
	return tx, nil
}

// BuyOption customizes a Buy.
type BuyOption func(*buyOptions)

type buyOptions struct {
	kind InstrumentKind
}

// AsKind books a domestic account purchase in the given instrument book
// instead of classifying the instrument by its name.
func AsKind(kind InstrumentKind) BuyOption { return func(o *buyOptions) { o.kind = kind } }

// Buy purchases quantity units of ticker at price.
//
// The cost is converted to the domestic currency with the current rate and
// debited from the account cash. There are no partial fills: if the cash
// does not cover the cost, nothing happens and ErrInsufficientCash is
// returned. In the ISA account the instrument is booked as a fund when its
// name contains the fund marker, and as a stock otherwise.
func (l *Ledger) Buy(kind AccountKind, ticker, name string, price Money, quantity Quantity, opts ...BuyOption) (Buy, error) {
	var o buyOptions
	for _, opt := range opts {
		opt(&o)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(kind)
	if err != nil {
		return Buy{}, err
	}
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return Buy{}, fmt.Errorf("%w: ticker is missing", ErrInvalidAmount)
	}
	if price.Currency() == "" {
		price = M(price.value, Domestic)
	}
	if _, err := ParseCurrency(string(price.Currency())); err != nil {
		return Buy{}, err
	}
	if !price.IsPositive() {
		return Buy{}, fmt.Errorf("%w: buy price must be positive, got %v", ErrInvalidAmount, price)
	}
	if !quantity.IsPositive() {
		return Buy{}, fmt.Errorf("%w: buy quantity must be positive, got %v", ErrInvalidAmount, quantity)
	}

	book, err := l.bookFor(kind, name, o.kind)
	if err != nil {
		return Buy{}, err
	}
	existing, held := a.books[book][ticker]
	if held && existing.Currency != price.Currency() {
		return Buy{}, fmt.Errorf("%w: %s is held in %s, cannot buy in %s", ErrCurrencyMismatch, ticker, existing.Currency, price.Currency())
	}

	total := l.rate.Convert(price.Mul(quantity))
	if a.cash.LessThan(total) {
		return Buy{}, fmt.Errorf("%w: %s cash is %v, cannot buy %v of %s for %v", ErrInsufficientCash, kind, a.cash, quantity, ticker, total)
	}

	a.cash = a.cash.Sub(total)
	if held {
		existing.add(price, quantity)
		existing.Name = name
	} else {
		a.books[book][ticker] = newPosition(kind, book, ticker, name, price, quantity)
	}

	tx := Buy{
		secCmd:   secCmd{baseCmd: l.base(CmdBuy, kind), Ticker: ticker, Name: name, Kind: book},
		Price:    price,
		Quantity: quantity,
		Rate:     l.rate,
		Total:    total,
	}
	l.transactions = append(l.transactions, tx)
	l.log.Debug().Stringer("account", kind).Str("ticker", ticker).Str("kind", string(book)).
		Stringer("quantity", quantity).Stringer("price", price).Stringer("total", total).Msg("buy")
	return tx, nil
}

// bookFor returns the instrument book a purchase goes to.
func (l *Ledger) bookFor(kind AccountKind, name string, forced InstrumentKind) (InstrumentKind, error) {
	switch kind {
	case ISA:
		switch forced {
		case "":
			return Classify(name, l.fundMarker), nil
		case Stock, Fund:
			return forced, nil
		default:
			return "", fmt.Errorf("%w: cannot book %q in the %s account", ErrInvalidAccount, forced, kind)
		}
	case Foreign:
		if forced != "" && forced != Stock {
			return "", fmt.Errorf("%w: the %s account holds stocks only", ErrInvalidAccount, kind)
		}
		return Stock, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidAccount, int(kind))
	}
}

// Sell sells quantity units of ticker at price.
//
// The proceeds are converted with the current rate. In the ISA account no
// tax is withheld. In the foreign account, taxRate is applied to the
// realized gain against the average cost when that gain is positive;
// losses are neither taxed nor carried forward. Selling the whole quantity
// removes the position. The average cost of what remains is unchanged.
func (l *Ledger) Sell(kind AccountKind, ticker string, price Money, quantity Quantity, taxRate float64) (Sell, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(kind)
	if err != nil {
		return Sell{}, err
	}
	p, ok := a.find(ticker)
	if !ok {
		return Sell{}, fmt.Errorf("%w: no %s in the %s account", ErrPositionNotFound, ticker, kind)
	}
	if price.Currency() == "" {
		price = M(price.value, p.Currency)
	}
	if price.Currency() != p.Currency {
		return Sell{}, fmt.Errorf("%w: %s is held in %s, cannot sell in %s", ErrCurrencyMismatch, ticker, p.Currency, price.Currency())
	}
	if !price.IsPositive() {
		return Sell{}, fmt.Errorf("%w: sell price must be positive, got %v", ErrInvalidAmount, price)
	}
	if !quantity.IsPositive() {
		return Sell{}, fmt.Errorf("%w: sell quantity must be positive, got %v", ErrInvalidAmount, quantity)
	}
	if taxRate < 0 || taxRate > 1 {
		return Sell{}, fmt.Errorf("%w: tax rate must be within [0, 1], got %v", ErrInvalidAmount, taxRate)
	}
	if p.Quantity.LessThan(quantity) {
		return Sell{}, fmt.Errorf("%w: cannot sell %v of %s, position is only %v", ErrInsufficientQuantity, quantity, ticker, p.Quantity)
	}

	proceeds := l.rate.Convert(price.Mul(quantity))
	gain := l.rate.Convert(price.Sub(p.AverageCost()).Mul(quantity))
	tax := M(0, Domestic)
	switch kind {
	case ISA:
		// sales in the tax-advantaged account are not taxed.
	case Foreign:
		if gain.IsPositive() {
			tax = gain.Scale(taxRate)
		}
	}

	a.cash = a.cash.Add(proceeds.Sub(tax))
	tx := Sell{
		secCmd:   secCmd{baseCmd: l.base(CmdSell, kind), Ticker: p.Ticker, Name: p.Name, Kind: p.Kind},
		Price:    price,
		Quantity: quantity,
		Rate:     l.rate,
		Proceeds: proceeds,
		Gain:     gain,
		Tax:      tax,
	}
	if p.Quantity.Equal(quantity) {
		a.remove(p)
	} else {
		p.dispose(quantity)
	}
	l.transactions = append(l.transactions, tx)
	l.log.Debug().Stringer("account", kind).Str("ticker", ticker).
		Stringer("quantity", quantity).Stringer("price", price).
		Stringer("gain", gain).Stringer("tax", tax).Msg("sell")
	return tx, nil
}

// UpdateMarkPrice records a new quote for a held position. No transaction
// is recorded.
func (l *Ledger) UpdateMarkPrice(kind AccountKind, ticker string, price Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(kind)
	if err != nil {
		return err
	}
	p, ok := a.find(ticker)
	if !ok {
		return fmt.Errorf("%w: no %s in the %s account", ErrPositionNotFound, ticker, kind)
	}
	if price.Currency() == "" {
		price = M(price.value, p.Currency)
	}
	if price.Currency() != p.Currency {
		return fmt.Errorf("%w: %s is quoted in %s, got %s", ErrCurrencyMismatch, ticker, p.Currency, price.Currency())
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative, got %v", ErrInvalidAmount, price)
	}
	p.Mark = price
	l.log.Debug().Stringer("account", kind).Str("ticker", ticker).Stringer("price", price).Msg("mark price updated")
	return nil
}

// base returns the common part of a new transaction.
func (l *Ledger) base(cmd CommandType, kind AccountKind) baseCmd {
	return baseCmd{id: l.newID(), Command: cmd, Date: l.today(), Acct: kind}
}

// Cash returns the cash balance of the account, zero for an unknown account.
func (l *Ledger) Cash(kind AccountKind) Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, err := l.account(kind)
	if err != nil {
		return M(0, Domestic)
	}
	return a.cash
}

// Positions returns a copy of every position of the account, sorted by
// instrument book then ticker.
func (l *Ledger) Positions(kind AccountKind) []Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, err := l.account(kind)
	if err != nil {
		return nil
	}
	return a.positions()
}

// Position returns a copy of the position held for ticker in the account.
func (l *Ledger) Position(kind AccountKind, ticker string) (Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, err := l.account(kind)
	if err != nil {
		return Position{}, false
	}
	p, ok := a.find(ticker)
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Transactions returns a copy of the history, in the order operations happened.
func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.transactions)
}

// TransactionsIn returns the transactions dated within r.
func (l *Ledger) TransactionsIn(r date.Range) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var txs []Transaction
	for _, tx := range l.transactions {
		if r.Contains(tx.When()) {
			txs = append(txs, tx)
		}
	}
	return txs
}

// Deposits returns the total deposited into the account.
func (l *Ledger) Deposits(kind AccountKind) Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deposits(kind)
}

func (l *Ledger) deposits(kind AccountKind) Money {
	total := M(0, Domestic)
	for _, tx := range l.transactions {
		if d, ok := tx.(Deposit); ok && d.Acct == kind {
			total = total.Add(d.Amount)
		}
	}
	return total
}

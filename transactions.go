package tracker

import (
	"github.com/etnz/tracker/date"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdDeposit CommandType = "deposit"
	CmdBuy     CommandType = "buy"
	CmdSell    CommandType = "sell"
)

// Transaction is an immutable entry of the ledger history. One is appended
// for every cash-affecting operation.
type Transaction interface {
	ID() string             // ID returns the unique identifier of the transaction.
	What() CommandType      // What returns the command type of the transaction (e.g., "buy", "sell").
	When() date.Date        // When returns the date on which the transaction occurred.
	Account() AccountKind   // Account returns the account the transaction was booked in.
	Equal(Transaction) bool // Equal compares the recorded operation, ignoring the ID.
}

type baseCmd struct {
	id      string
	Command CommandType
	Date    date.Date
	Acct    AccountKind
}

func (t baseCmd) ID() string           { return t.id }
func (t baseCmd) What() CommandType    { return t.Command }
func (t baseCmd) When() date.Date      { return t.Date }
func (t baseCmd) Account() AccountKind { return t.Acct }

func (t baseCmd) same(o baseCmd) bool {
	return t.Command == o.Command && t.Date == o.Date && t.Acct == o.Acct
}

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.id)
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Append("account", t.Acct)
	return w.MarshalJSON()
}

// secCmd is a component for instrument transactions (buy, sell).
type secCmd struct {
	baseCmd
	Ticker string
	Name   string
	Kind   InstrumentKind
}

func (t secCmd) same(o secCmd) bool {
	return t.baseCmd.same(o.baseCmd) && t.Ticker == o.Ticker && t.Name == o.Name && t.Kind == o.Kind
}

// MarshalJSON implements the json.Marshaler interface for secCmd.
func (t secCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("ticker", t.Ticker)
	w.Optional("name", t.Name)
	w.Append("kind", t.Kind)
	return w.MarshalJSON()
}

// Deposit records cash added to an account.
type Deposit struct {
	baseCmd
	Amount Money // Amount is always in the domestic currency.
}

func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.baseCmd.same(o.baseCmd) && t.Amount.Equal(o.Amount)
}

// MarshalJSON implements the json.Marshaler interface for Deposit.
func (t Deposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// Buy records the purchase of an instrument.
//
// Totals are computed with the exchange rate in effect at the time of the
// purchase and are never revalued.
type Buy struct {
	secCmd
	Price    Money        // Price per unit, in the instrument currency.
	Quantity Quantity     // Quantity is the number of units bought.
	Rate     ExchangeRate // Rate is the exchange rate applied to convert the cost.
	Total    Money        // Total is the cost debited from cash, in the domestic currency.
}

// Currency returns the instrument currency.
func (t Buy) Currency() Currency { return t.Price.Currency() }

// NativeTotal returns the cost in the instrument currency.
func (t Buy) NativeTotal() Money { return t.Price.Mul(t.Quantity) }

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.secCmd.same(o.secCmd) &&
		t.Price.Equal(o.Price) && t.Quantity.Equal(o.Quantity) &&
		t.Rate.Equal(o.Rate) && t.Total.Equal(o.Total)
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("currency", t.Currency())
	w.Append("price", t.Price.exact().rounded())
	w.Append("quantity", t.Quantity)
	if !t.Currency().IsDomestic() {
		w.Append("rate", t.Rate)
	}
	w.Append("total", t.Total.rounded())
	return w.MarshalJSON()
}

// Sell records the sale of an instrument.
//
// Proceeds, Gain and Tax are in the domestic currency, converted with the
// exchange rate in effect at the time of the sale.
type Sell struct {
	secCmd
	Price    Money        // Price per unit, in the instrument currency.
	Quantity Quantity     // Quantity is the number of units sold.
	Rate     ExchangeRate // Rate is the exchange rate applied to convert the proceeds.
	Proceeds Money        // Proceeds is the gross amount of the sale.
	Gain     Money        // Gain is the realized gain against the average cost, negative for a loss.
	Tax      Money        // Tax is the amount withheld on the gain.
}

// Currency returns the instrument currency.
func (t Sell) Currency() Currency { return t.Price.Currency() }

// Net returns the amount credited to cash.
func (t Sell) Net() Money { return t.Proceeds.Sub(t.Tax) }

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.secCmd.same(o.secCmd) &&
		t.Price.Equal(o.Price) && t.Quantity.Equal(o.Quantity) &&
		t.Rate.Equal(o.Rate) && t.Proceeds.Equal(o.Proceeds) &&
		t.Gain.Equal(o.Gain) && t.Tax.Equal(o.Tax)
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("currency", t.Currency())
	w.Append("price", t.Price.exact().rounded())
	w.Append("quantity", t.Quantity)
	if !t.Currency().IsDomestic() {
		w.Append("rate", t.Rate)
	}
	w.Append("proceeds", t.Proceeds.rounded())
	w.Append("gain", t.Gain.rounded())
	if !t.Tax.IsZero() {
		w.Append("tax", t.Tax.rounded())
	}
	return w.MarshalJSON()
}

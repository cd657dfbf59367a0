package tracker

// Position is one holding of an instrument within an account.
//
// A stored position always has a positive quantity. Its cost basis is
// kept as the exact total paid for the held units, so that the average
// cost does not depend on the order of the buys.
type Position struct {
	Account  AccountKind
	Kind     InstrumentKind
	Ticker   string
	Name     string
	Currency Currency
	Quantity Quantity
	Mark     Money // last recorded quote, in Currency.
	cost     Money // total cost basis of the held units, in Currency.
}

func newPosition(account AccountKind, kind InstrumentKind, ticker, name string, price Money, quantity Quantity) *Position {
	return &Position{
		Account:  account,
		Kind:     kind,
		Ticker:   ticker,
		Name:     name,
		Currency: price.Currency(),
		Quantity: quantity,
		Mark:     price,
		cost:     price.Mul(quantity),
	}
}

// Equal reports whether p and q describe the same holding at the same cost.
func (p Position) Equal(q Position) bool {
	return p.Account == q.Account && p.Kind == q.Kind && p.Ticker == q.Ticker &&
		p.Name == q.Name && p.Currency == q.Currency && p.Quantity.Equal(q.Quantity) &&
		p.Mark.Equal(q.Mark) && p.cost.Equal(q.cost)
}

// AverageCost returns the quantity-weighted mean purchase price.
func (p Position) AverageCost() Money {
	if p.Quantity.IsZero() {
		return M(0, p.Currency)
	}
	return p.cost.Div(p.Quantity).exact()
}

// CostBasis returns the average cost times the quantity, in the position currency.
func (p Position) CostBasis() Money { return p.cost }

// MarketValue returns the mark price times the quantity, in the position currency.
func (p Position) MarketValue() Money { return p.Mark.Mul(p.Quantity) }

// add merges a new lot into the position. The mark follows the lot price.
func (p *Position) add(price Money, quantity Quantity) {
	p.cost = p.cost.Add(price.Mul(quantity))
	p.Quantity = p.Quantity.Add(quantity)
	p.Mark = price
}

// dispose removes quantity units, keeping the average cost unchanged.
func (p *Position) dispose(quantity Quantity) {
	avg := p.AverageCost()
	p.Quantity = p.Quantity.Sub(quantity)
	p.cost = avg.Mul(p.Quantity)
}

// MarshalJSON implements the json.Marshaler interface for Position.
func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", p.Account)
	w.Append("kind", p.Kind)
	w.Append("ticker", p.Ticker)
	w.Optional("name", p.Name)
	w.Append("currency", p.Currency)
	w.Append("quantity", p.Quantity)
	w.Append("averageCost", p.AverageCost().rounded())
	w.Append("mark", p.Mark.exact().rounded())
	return w.MarshalJSON()
}

package tracker

import "slices"

// Valuation is the current value of the portfolio in the domestic currency.
type Valuation struct {
	ISA     Money
	Foreign Money
	Total   Money
}

// AccountReturn compares the current value of an account to what was put in.
type AccountReturn struct {
	CostBasis Money   // CostBasis is the cost of every held position plus cash.
	Current   Money   // Current is the market value of every held position plus cash.
	Deposits  Money   // Deposits is the total cash deposited.
	OnCost    Percent // OnCost is the return against the cost basis.
	OnDeposit Percent // OnDeposit is the return against the deposits.
}

// Returns holds the returns of each account and of the whole portfolio.
type Returns struct {
	ISA     AccountReturn
	Foreign AccountReturn
	Total   AccountReturn
}

// AllocationRow is one line of the allocation table.
type AllocationRow struct {
	Account AccountKind
	Kind    InstrumentKind
	Ticker  string
	Name    string
	Value   Money   // Value is in the domestic currency.
	Share   Percent // Share of the portfolio total.
}

// CashTicker is the ticker of the cash rows of an Allocation.
const CashTicker = "CASH"

// Allocation breaks the portfolio value down by holding.
type Allocation struct {
	Rows  []AllocationRow
	Total Money
}

// Valuation returns the value of each account with the current exchange rate.
func (l *Ledger) Valuation() Valuation {
	l.mu.Lock()
	defer l.mu.Unlock()
	isa, foreign := l.value(ISA), l.value(Foreign)
	return Valuation{ISA: isa, Foreign: foreign, Total: isa.Add(foreign)}
}

// value returns cash plus the marked value of every position of the account.
func (l *Ledger) value(kind AccountKind) Money {
	a := l.accounts[kind]
	total := a.cash
	for _, p := range a.positions() {
		total = total.Add(l.rate.Convert(p.MarketValue()))
	}
	return total
}

// cost returns cash plus the cost basis of every position of the account.
func (l *Ledger) cost(kind AccountKind) Money {
	a := l.accounts[kind]
	total := a.cash
	for _, p := range a.positions() {
		total = total.Add(l.rate.Convert(p.CostBasis()))
	}
	return total
}

// Returns computes the returns of each account with the current exchange
// rate. A ratio whose base is zero is reported as 0.
func (l *Ledger) Returns() Returns {
	l.mu.Lock()
	defer l.mu.Unlock()

	var r Returns
	for _, kind := range Accounts {
		ar := AccountReturn{
			CostBasis: l.cost(kind),
			Current:   l.value(kind),
			Deposits:  l.deposits(kind),
		}
		switch kind {
		case ISA:
			r.ISA = ar
		case Foreign:
			r.Foreign = ar
		}
	}
	r.Total = AccountReturn{
		CostBasis: r.ISA.CostBasis.Add(r.Foreign.CostBasis),
		Current:   r.ISA.Current.Add(r.Foreign.Current),
		Deposits:  r.ISA.Deposits.Add(r.Foreign.Deposits),
	}
	for _, ar := range []*AccountReturn{&r.ISA, &r.Foreign, &r.Total} {
		ar.OnCost = ar.Current.returnOn(ar.CostBasis)
		ar.OnDeposit = ar.Current.returnOn(ar.Deposits)
	}
	return r
}

// Allocate returns the allocation table: ISA stocks, ISA funds and foreign
// stocks sorted by ticker, followed by the cash of each account.
func (l *Ledger) Allocate() Allocation {
	l.mu.Lock()
	defer l.mu.Unlock()

	var al Allocation
	al.Total = M(0, Domestic)
	for _, kind := range Accounts {
		for _, p := range l.accounts[kind].positions() {
			al.Rows = append(al.Rows, AllocationRow{
				Account: kind,
				Kind:    p.Kind,
				Ticker:  p.Ticker,
				Name:    p.Name,
				Value:   l.rate.Convert(p.MarketValue()),
			})
		}
	}
	for _, kind := range Accounts {
		al.Rows = append(al.Rows, AllocationRow{
			Account: kind,
			Kind:    Cash,
			Ticker:  CashTicker,
			Name:    kind.String() + " cash",
			Value:   l.accounts[kind].cash,
		})
	}
	for _, row := range al.Rows {
		al.Total = al.Total.Add(row.Value)
	}
	for i := range al.Rows {
		al.Rows[i].Share = al.Rows[i].Value.shareOf(al.Total)
	}
	return al
}

// Row returns the row for ticker in account, if any.
func (al Allocation) Row(account AccountKind, ticker string) (AllocationRow, bool) {
	i := slices.IndexFunc(al.Rows, func(r AllocationRow) bool {
		return r.Account == account && r.Ticker == ticker
	})
	if i < 0 {
		return AllocationRow{}, false
	}
	return al.Rows[i], true
}

// GroupShare is the value of a group of allocation rows.
type GroupShare struct {
	Name  string
	Value Money
	Share Percent
}

// ByAccount groups the rows by account.
func (al Allocation) ByAccount() []GroupShare {
	return al.group(func(r AllocationRow) string { return r.Account.String() })
}

// ByKind groups the rows by instrument kind.
func (al Allocation) ByKind() []GroupShare {
	return al.group(func(r AllocationRow) string { return string(r.Kind) })
}

// group sums the rows by key, keeping the order in which keys first appear.
func (al Allocation) group(key func(AllocationRow) string) []GroupShare {
	var groups []GroupShare
	index := make(map[string]int)
	for _, r := range al.Rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, GroupShare{Name: k, Value: M(0, Domestic)})
		}
		groups[i].Value = groups[i].Value.Add(r.Value)
	}
	for i := range groups {
		groups[i].Share = groups[i].Value.shareOf(al.Total)
	}
	return groups
}

// OtherTicker is the ticker of the row Collapse folds small rows into.
const OtherTicker = "OTHER"

// Collapse returns a copy of the allocation where every row with a share
// below threshold is folded into a single trailing "Other" row. The row is
// omitted when the folded value is zero.
func (al Allocation) Collapse(threshold Percent) Allocation {
	out := Allocation{Total: al.Total}
	other := AllocationRow{Ticker: OtherTicker, Name: "Other", Value: M(0, Domestic)}
	for _, r := range al.Rows {
		if r.Share < threshold {
			other.Value = other.Value.Add(r.Value)
			continue
		}
		out.Rows = append(out.Rows, r)
	}
	if !other.Value.IsZero() {
		other.Share = other.Value.shareOf(al.Total)
		out.Rows = append(out.Rows, other)
	}
	return out
}

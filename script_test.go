package tracker

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/tracker/date"
)

const sampleScript = `{"command":"rate","rate":1300}
{"command":"deposit","account":"us","amount":2000000}

{"command":"buy","account":"us","ticker":"X","name":"X Corp","price":100,"quantity":10,"currency":"USD"}
{"command":"sell","account":"us","ticker":"X","price":150,"quantity":5,"tax":0.22}
{"command":"update-price","account":"us","ticker":"X","price":160}
{"command":"deposit","account":"isa","amount":500000,"date":"2025-2-1"}
{"command":"buy","account":"isa","ticker":"069500","name":"KODEX 200 ETF","price":30000,"quantity":10}
`

func TestDecodeInstructions(t *testing.T) {
	ins, err := DecodeInstructions(strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("DecodeInstructions() unexpected error: %v", err)
	}

	wantWhat := []InstructionType{InsRate, InsDeposit, InsBuy, InsSell, InsUpdatePrice, InsDeposit, InsBuy}
	wantLine := []int{1, 2, 4, 5, 6, 7, 8}
	if len(ins) != len(wantWhat) {
		t.Fatalf("len(DecodeInstructions()) = %d, want %d", len(ins), len(wantWhat))
	}
	for i, in := range ins {
		if in.What() != wantWhat[i] || in.Line() != wantLine[i] {
			t.Errorf("instruction #%d = %s on line %d, want %s on line %d", i, in.What(), in.Line(), wantWhat[i], wantLine[i])
		}
	}

	buy := ins[2].(BuyInstruction)
	if buy.Account != Foreign || buy.Currency != USD || !buy.Quantity.Equal(Q(10)) {
		t.Errorf("buy instruction = %+v", buy)
	}
	sell := ins[3].(SellInstruction)
	if sell.Tax == nil || *sell.Tax != 0.22 {
		t.Errorf("sell tax = %v, want 0.22", sell.Tax)
	}
	if got, want := ins[5].(DepositInstruction).Date, date.New(2025, 2, 1); got != want {
		t.Errorf("deposit date = %v, want %v", got, want)
	}
}

func TestDecodeInstructions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"unknown command", "{\"command\":\"rate\",\"rate\":1}\n{\"command\":\"withdraw\"}", "line 2: unknown instruction command"},
		{"malformed json", `{"command":`, "line 1: could not identify command"},
		{"unknown account", `{"command":"deposit","account":"cma","amount":1}`, "line 1: invalid account"},
		{"unknown currency", `{"command":"buy","account":"us","ticker":"X","price":1,"quantity":1,"currency":"EUR"}`, "line 1: invalid currency"},
		{"bad date", `{"command":"deposit","account":"isa","amount":1,"date":"soon"}`, "line 1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInstructions(strings.NewReader(tt.script))
			if err == nil {
				t.Fatalf("DecodeInstructions() expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("DecodeInstructions() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	ins, err := DecodeInstructions(strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("DecodeInstructions() unexpected error: %v", err)
	}
	l := newTestLedger(t)
	if err := Run(l, ins); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if got, want := l.Cash(Foreign), krw(1_603_500); !got.Equal(want) {
		t.Errorf("Cash(Foreign) = %v, want %v", got, want)
	}
	if got, want := l.Cash(ISA), krw(200_000); !got.Equal(want) {
		t.Errorf("Cash(ISA) = %v, want %v", got, want)
	}
	p, _ := l.Position(Foreign, "X")
	if got, want := p.Mark, usd(160); !got.Equal(want) {
		t.Errorf("Mark = %v, want %v", got, want)
	}
	if p, ok := l.Position(ISA, "069500"); !ok || p.Kind != Fund {
		t.Errorf("Position(069500) = %+v, %v, want a fund", p, ok)
	}

	txs := l.Transactions()
	if got, want := txs[3].When(), date.New(2025, 2, 1); got != want {
		t.Errorf("pinned deposit date = %v, want %v", got, want)
	}
	if got := txs[4].When(); got != testDay {
		t.Errorf("date after a pinned instruction = %v, want %v", got, testDay)
	}
}

func TestRun_ContinuesAfterFailures(t *testing.T) {
	script := `{"command":"deposit","account":"us","amount":1000000}
{"command":"buy","account":"us","ticker":"X","name":"X Corp","price":100,"quantity":10,"currency":"USD"}
{"command":"deposit","account":"us","amount":1000000}
{"command":"sell","account":"us","ticker":"X","price":100,"quantity":1}
{"command":"rate","rate":0}
`
	ins, err := DecodeInstructions(strings.NewReader(script))
	if err != nil {
		t.Fatalf("DecodeInstructions() unexpected error: %v", err)
	}
	l := newTestLedger(t)
	err = Run(l, ins)
	if !errors.Is(err, ErrInsufficientCash) {
		t.Errorf("Run() error = %v, want %v", err, ErrInsufficientCash)
	}
	if !errors.Is(err, ErrPositionNotFound) {
		t.Errorf("Run() error = %v, want %v", err, ErrPositionNotFound)
	}
	if !errors.Is(err, ErrInvalidRate) {
		t.Errorf("Run() error = %v, want %v", err, ErrInvalidRate)
	}
	if !strings.Contains(err.Error(), "line 2: buy:") {
		t.Errorf("Run() error = %q, want the failing line", err)
	}
	if got, want := l.Cash(Foreign), krw(2_000_000); !got.Equal(want) {
		t.Errorf("Cash(Foreign) = %v, want %v", got, want)
	}
}

func TestSellInstruction_DefaultTaxRate(t *testing.T) {
	l := newTestLedger(t, WithTaxRate(0.5))
	deposit(t, l, Foreign, 2_000_000)
	buy(t, l, Foreign, "X", "X Corp", usd(100), 10)

	ins := SellInstruction{Account: Foreign, Ticker: "X", Price: usd(150).Decimal(), Quantity: Q(5)}
	if err := ins.Apply(l); err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}
	sell := l.Transactions()[2].(Sell)
	if got, want := sell.Tax, krw(162_500); !got.Equal(want) {
		t.Errorf("Tax = %v, want %v", got, want)
	}
}

func TestEncodeTransactions(t *testing.T) {
	l := newTestLedger(t)
	l.newID = func() string { return "" }
	deposit(t, l, Foreign, 2_000_000)
	buy(t, l, Foreign, "X", "X Corp", usd(100), 10)
	if _, err := l.Sell(Foreign, "X", usd(150), Q(5), 0.22); err != nil {
		t.Fatal(err)
	}
	buy(t, l, Foreign, "Y", "Y Corp", usd(10), 1)
	if _, err := l.Sell(Foreign, "Y", usd(5), Q(1), 0.22); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, l.Transactions()); err != nil {
		t.Fatalf("EncodeTransactions() unexpected error: %v", err)
	}
	want := `{"command":"deposit","date":"2025-01-10","account":"US","currency":"KRW","amount":2000000}
{"command":"buy","date":"2025-01-10","account":"US","ticker":"X","name":"X Corp","kind":"stock","currency":"USD","price":100,"quantity":10,"rate":1300,"total":1300000}
{"command":"sell","date":"2025-01-10","account":"US","ticker":"X","name":"X Corp","kind":"stock","currency":"USD","price":150,"quantity":5,"rate":1300,"proceeds":975000,"gain":325000,"tax":71500}
{"command":"buy","date":"2025-01-10","account":"US","ticker":"Y","name":"Y Corp","kind":"stock","currency":"USD","price":10,"quantity":1,"rate":1300,"total":13000}
{"command":"sell","date":"2025-01-10","account":"US","ticker":"Y","name":"Y Corp","kind":"stock","currency":"USD","price":5,"quantity":1,"rate":1300,"proceeds":6500,"gain":-6500}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeTransactions() =\n%s\nwant\n%s", got, want)
	}
}

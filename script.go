package tracker

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/etnz/tracker/date"
	"github.com/shopspring/decimal"
)

// InstructionType identifies a line of an instruction script.
type InstructionType string

const (
	InsRate        InstructionType = "rate"
	InsDeposit     InstructionType = "deposit"
	InsBuy         InstructionType = "buy"
	InsSell        InstructionType = "sell"
	InsUpdatePrice InstructionType = "update-price"
)

// Instruction is one operation of a script, applied to a Ledger.
type Instruction interface {
	What() InstructionType
	// Line is the line of the script the instruction was read from, 0 if unknown.
	Line() int
	Apply(*Ledger) error
}

// baseIns holds the fields common to every instruction.
//
// Date optionally pins the date of the transaction the instruction records.
type baseIns struct {
	Command InstructionType `json:"command"`
	Date    date.Date       `json:"date,omitempty"`
	line    int
}

func (i baseIns) What() InstructionType { return i.Command }
func (i baseIns) Line() int             { return i.line }

// RateInstruction sets the exchange rate.
type RateInstruction struct {
	baseIns
	Rate decimal.Decimal `json:"rate"`
}

func (i RateInstruction) Apply(l *Ledger) error {
	return l.SetExchangeRate(Rate(i.Rate))
}

// DepositInstruction deposits domestic cash into an account.
type DepositInstruction struct {
	baseIns
	Account  AccountKind     `json:"account"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency,omitempty"`
}

func (i DepositInstruction) Apply(l *Ledger) error {
	defer l.pin(i.Date)()
	_, err := l.DepositCash(i.Account, M(i.Amount, i.Currency))
	return err
}

// BuyInstruction buys an instrument. The currency defaults to the domestic one.
type BuyInstruction struct {
	baseIns
	Account  AccountKind     `json:"account"`
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Kind     InstrumentKind  `json:"kind,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity Quantity        `json:"quantity"`
	Currency Currency        `json:"currency,omitempty"`
}

func (i BuyInstruction) Apply(l *Ledger) error {
	var opts []BuyOption
	if i.Kind != "" {
		opts = append(opts, AsKind(i.Kind))
	}
	cur := i.Currency
	if cur == "" {
		cur = Domestic
	}
	defer l.pin(i.Date)()
	_, err := l.Buy(i.Account, i.Ticker, i.Name, M(i.Price, cur), i.Quantity, opts...)
	return err
}

// SellInstruction sells an instrument. The currency defaults to the
// position's, and the tax rate to the ledger's.
type SellInstruction struct {
	baseIns
	Account  AccountKind     `json:"account"`
	Ticker   string          `json:"ticker"`
	Price    decimal.Decimal `json:"price"`
	Quantity Quantity        `json:"quantity"`
	Currency Currency        `json:"currency,omitempty"`
	Tax      *float64        `json:"tax,omitempty"`
}

func (i SellInstruction) Apply(l *Ledger) error {
	tax := l.TaxRate()
	if i.Tax != nil {
		tax = *i.Tax
	}
	defer l.pin(i.Date)()
	_, err := l.Sell(i.Account, i.Ticker, M(i.Price, i.Currency), i.Quantity, tax)
	return err
}

// UpdatePriceInstruction records a new quote for a position.
type UpdatePriceInstruction struct {
	baseIns
	Account  AccountKind     `json:"account"`
	Ticker   string          `json:"ticker"`
	Price    decimal.Decimal `json:"price"`
	Currency Currency        `json:"currency,omitempty"`
}

func (i UpdatePriceInstruction) Apply(l *Ledger) error {
	return l.UpdateMarkPrice(i.Account, i.Ticker, M(i.Price, i.Currency))
}

// pin makes the ledger date its transactions on d until the returned
// function is called. A zero d leaves the clock alone.
func (l *Ledger) pin(d date.Date) (restore func()) {
	if d.IsZero() {
		return func() {}
	}
	l.mu.Lock()
	prev := l.today
	l.today = func() date.Date { return d }
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.today = prev
		l.mu.Unlock()
	}
}

// DecodeInstructions reads a JSONL instruction script. Blank lines are skipped.
func DecodeInstructions(r io.Reader) ([]Instruction, error) {
	var instructions []Instruction
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		ins, err := decodeInstruction(lineBytes)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		instructions = append(instructions, withLine(ins, lineNo))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return instructions, nil
}

func decodeInstruction(lineBytes []byte) (Instruction, error) {
	var identifier struct {
		Command InstructionType `json:"command"`
	}
	if err := json.Unmarshal(lineBytes, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify command in %q: %w", string(lineBytes), err)
	}

	switch identifier.Command {
	case InsRate:
		var ins RateInstruction
		err := json.Unmarshal(lineBytes, &ins)
		return ins, err
	case InsDeposit:
		var ins DepositInstruction
		err := json.Unmarshal(lineBytes, &ins)
		return ins, err
	case InsBuy:
		var ins BuyInstruction
		err := json.Unmarshal(lineBytes, &ins)
		return ins, err
	case InsSell:
		var ins SellInstruction
		err := json.Unmarshal(lineBytes, &ins)
		return ins, err
	case InsUpdatePrice:
		var ins UpdatePriceInstruction
		err := json.Unmarshal(lineBytes, &ins)
		return ins, err
	default:
		return nil, fmt.Errorf("unknown instruction command: %q", identifier.Command)
	}
}

func withLine(ins Instruction, line int) Instruction {
	switch i := ins.(type) {
	case RateInstruction:
		i.line = line
		return i
	case DepositInstruction:
		i.line = line
		return i
	case BuyInstruction:
		i.line = line
		return i
	case SellInstruction:
		i.line = line
		return i
	case UpdatePriceInstruction:
		i.line = line
		return i
	default:
		return ins
	}
}

// Run applies every instruction in order. A failed instruction leaves the
// ledger unchanged and does not stop the run; every failure is logged and
// returned, joined.
func Run(l *Ledger, instructions []Instruction) error {
	var errs []error
	for _, ins := range instructions {
		if err := ins.Apply(l); err != nil {
			l.log.Warn().Err(err).Int("line", ins.Line()).Str("command", string(ins.What())).Msg("instruction failed")
			errs = append(errs, fmt.Errorf("line %d: %s: %w", ins.Line(), ins.What(), err))
		}
	}
	return errors.Join(errs...)
}

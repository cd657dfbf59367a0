package tracker

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name, marker string
		want         InstrumentKind
	}{
		{"KODEX 200 ETF", "", Fund},
		{"kodex 200 etf", "ETF", Fund},
		{"Samsung Electronics", "ETF", Stock},
		{"", "ETF", Stock},
		{"TIGER 미국S&P500", "TIGER", Fund},
		{"METFORMIN PHARMA", "", Fund}, // substring match, the rule is purely textual.
	}
	for _, tt := range tests {
		if got := Classify(tt.name, tt.marker); got != tt.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tt.name, tt.marker, got, tt.want)
		}
	}
}

func TestParseAccountKind(t *testing.T) {
	tests := []struct {
		in      string
		want    AccountKind
		wantErr bool
	}{
		{"isa", ISA, false},
		{" ISA ", ISA, false},
		{"us", Foreign, false},
		{"Foreign", Foreign, false},
		{"cma", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAccountKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAccountKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidAccount) {
			t.Errorf("ParseAccountKind(%q) error = %v, want %v", tt.in, err, ErrInvalidAccount)
		}
		if got != tt.want {
			t.Errorf("ParseAccountKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	for in, want := range map[string]Currency{"krw": KRW, "USD": USD, " usd": USD} {
		got, err := ParseCurrency(in)
		if err != nil || got != want {
			t.Errorf("ParseCurrency(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseCurrency("EUR"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("ParseCurrency(EUR) error = %v, want %v", err, ErrInvalidCurrency)
	}
}

func TestExchangeRate_Convert(t *testing.T) {
	r := Rate(1350.5)
	tests := []struct {
		in, want Money
	}{
		{usd(10), krw(13_505)},
		{krw(10), krw(10)},
		{M(10, ""), krw(10)},
		{usd(-2), krw(-2701)},
	}
	for _, tt := range tests {
		got := r.Convert(tt.in)
		if !got.Equal(tt.want) {
			t.Errorf("Convert(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMoney_String(t *testing.T) {
	if got, want := usd(1234.5).String(), "$1,234.50"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := krw(1_603_500.4).String(); !strings.Contains(got, "1,603,500") {
		t.Errorf("String() = %q, want it to contain 1,603,500", got)
	}
	if got, want := krw(0).SignedString(), "-"; got != want {
		t.Errorf("SignedString() = %q, want %q", got, want)
	}
	if got := usd(3).SignedString(); !strings.HasPrefix(got, "+") {
		t.Errorf("SignedString() = %q, want a + sign", got)
	}
}

func TestMoney_CurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Add() of different currencies did not panic")
		}
	}()
	krw(1).Add(usd(1))
}

func TestPercent(t *testing.T) {
	if got, want := Percent(12.346).String(), "12.35%"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := Percent(0).SignedString(), "-"; got != want {
		t.Errorf("SignedString() = %q, want %q", got, want)
	}
	if got, want := Percent(-1.5).SignedString(), "-1.50%"; got != want {
		t.Errorf("SignedString() = %q, want %q", got, want)
	}
	if !Percent(1).Equal(1.00001) {
		t.Errorf("Equal() is too strict")
	}
}

package tracker

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{
			name:  "empty object",
			build: func(w *jsonObjectWriter) {},
			want:  `{}`,
		},
		{
			name: "fields keep their order",
			build: func(w *jsonObjectWriter) {
				w.Append("ticker", "X")
				w.Append("quantity", Q(10))
				w.Append("account", Foreign)
			},
			want: `{"ticker":"X","quantity":10,"account":"US"}`,
		},
		{
			name: "embed object",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 1)
				w.Embed(json.RawMessage(`{"c":3,"d":4}`))
				w.Embed(json.RawMessage(`{}`))
				w.Append("b", 2)
			},
			want: `{"a":1,"c":3,"d":4,"b":2}`,
		},
		{
			name: "optional fields",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 0) // a zero value is still added by Append.
				w.Optional("name", "")
				w.Optional("currency", Currency(""))
				w.Optional("id", "abc")
			},
			want: `{"a":0,"id":"abc"}`,
		},
		{
			name: "embed money",
			build: func(w *jsonObjectWriter) {
				w.Append("command", CmdDeposit)
				w.EmbedFrom(krw(1500))
			},
			want: `{"command":"deposit","currency":"KRW","amount":1500}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w jsonObjectWriter
			tt.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

type failingMarshaler struct{}

var errBoom = errors.New("boom")

func (failingMarshaler) MarshalJSON() ([]byte, error) { return nil, errBoom }

func TestJsonObjectWriter_KeepsFirstError(t *testing.T) {
	var w jsonObjectWriter
	w.Append("a", 1).Append("b", failingMarshaler{}).EmbedFrom(failingMarshaler{}).Append("c", 3)
	if _, err := w.MarshalJSON(); !errors.Is(err, errBoom) {
		t.Errorf("MarshalJSON() error = %v, want %v", err, errBoom)
	}
}

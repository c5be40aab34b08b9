package folio

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestJsonObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{name: "empty", build: func(*jsonObjectWriter) {}, want: "{}"},
		{
			name: "keeps order",
			build: func(w *jsonObjectWriter) {
				w.Append("symbol", "AAA").Number("price", decimal.RequireFromString("12.340")).Append("id", 7)
			},
			want: `{"symbol":"AAA","price":12.34,"id":7}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var w jsonObjectWriter
			tc.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestJsonObjectWriterError(t *testing.T) {
	var w jsonObjectWriter
	w.Append("bad", math.NaN()).Append("ok", 1)
	if _, err := w.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() expected an error for NaN")
	}
}

func TestHoldingJSON(t *testing.T) {
	h := H(3, "AAA", 2, 10, 15.5)
	got, err := h.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":3,"symbol":"AAA","quantity":2,"buyPrice":10,"currentPrice":15.5}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

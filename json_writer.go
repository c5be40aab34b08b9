package folio

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// jsonObjectWriter builds a JSON object whose keys keep the insertion order.
// Its zero value is an empty object. The first failure is reported by
// MarshalJSON.
type jsonObjectWriter struct {
	buf []byte
	err error
}

// Append adds key with value encoded by json.Marshal.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	b, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return w
	}
	if len(w.buf) > 0 {
		w.buf = append(w.buf, ',')
	}
	w.buf = strconv.AppendQuote(w.buf, key)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, b...)
	return w
}

// Number adds key with d as a bare JSON number, where decimal.Decimal would
// marshal to a string.
func (w *jsonObjectWriter) Number(key string, d decimal.Decimal) *jsonObjectWriter {
	return w.Append(key, json.Number(d.String()))
}

func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, len(w.buf)+2)
	out = append(out, '{')
	out = append(out, w.buf...)
	return append(out, '}'), nil
}

// Package checklist holds the airport record model and the editor that merges
// submitted form values into records.
package checklist

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/yegors/airport-readiness/internal/schema"
)

// ErrMissingAirportCode is returned when an airport code is empty after normalization
var ErrMissingAirportCode = errors.New("missing airport code")

// NormalizeCode trims surrounding whitespace and upper-cases an airport code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Value is a stored field value: a scalar string or a [tick, note] pair.
// The raw JSON is kept so values of an unexpected shape survive a load/save cycle.
type Value struct {
	raw json.RawMessage
}

// PairValue builds a checklist value
func PairValue(tick int, note string) Value {
	return Value{raw: rawJSON([]any{tick, note})}
}

// TextValue builds a scalar value
func TextValue(s string) Value {
	return Value{raw: rawJSON(s)}
}

// rawJSON encodes v without HTML escaping, matching the document encoder
func rawJSON(v any) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// EmptyPair is the default for a missing checklist field
func EmptyPair() Value {
	return PairValue(0, "")
}

// DefaultFor returns the value a consumer substitutes for a missing field
func DefaultFor(field string) Value {
	if schema.IsScalarField(field) {
		return TextValue("")
	}
	return EmptyPair()
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	v.raw = buf.Bytes()
	return nil
}

// IsZero reports whether the value was never set
func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

// Equal compares the stored JSON of two values
func (v Value) Equal(o Value) bool {
	return bytes.Equal(v.raw, o.raw)
}

// Pair decodes a [tick, note] value. ok is false when the value is not a list;
// a non-numeric or fractional tick reads as 0 and a non-string note as "".
func (v Value) Pair() (tick int, note string, ok bool) {
	var items []any
	if err := json.Unmarshal(v.raw, &items); err != nil || items == nil {
		return 0, "", false
	}
	if len(items) > 0 {
		switch t := items[0].(type) {
		case float64:
			// fractional ticks are malformed and never compare equal to 1
			if t == math.Trunc(t) {
				tick = int(t)
			}
		case bool:
			if t {
				tick = 1
			}
		}
	}
	if len(items) > 1 {
		note, _ = items[1].(string)
	}
	return tick, note, true
}

// Text decodes a scalar value. ok is false when the value is not a string.
func (v Value) Text() (string, bool) {
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Ticked is true only when the value is a list whose first element equals 1
func (v Value) Ticked() bool {
	tick, _, ok := v.Pair()
	return ok && tick == 1
}

// String renders the raw JSON
func (v Value) String() string {
	return string(v.raw)
}

// Record maps field identifiers to stored values for one airport
type Record map[string]Value

// Lookup returns the stored value, or the field's default when it is missing
func (r Record) Lookup(field string) Value {
	if v, ok := r[field]; ok {
		return v
	}
	return DefaultFor(field)
}

// MarshalJSON writes schema fields in schema order, followed by any other
// fields sorted by name, so a saved document keeps the form's field order
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	keys := make([]string, 0, len(r))
	for _, f := range schema.AllFields() {
		if _, ok := r[f]; ok {
			keys = append(keys, f)
		}
	}
	var extra []string
	for k := range r {
		if !schema.Has(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(rawJSON(k))
		buf.WriteByte(':')
		v, err := r[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold the same fields with the same values
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for k, v := range r {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of a cell value.
type Kind int

const (
	// Null is an empty or missing cell.
	Null Kind = iota
	// Text is a free-text cell.
	Text
	// Number is a numeric cell.
	Number
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	default:
		return "null"
	}
}

// Value is a single cell: text, number, or empty.
// The zero Value is Null. Number cells keep the text they were read from
// in Str, so matching and CSV export see the sourced digits.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// TextValue returns a Text cell.
func TextValue(s string) Value { return Value{Kind: Text, Str: s} }

// NumberValue returns a Number cell rendered in shortest decimal form.
func NumberValue(n float64) Value {
	return Value{Kind: Number, Str: formatNumber(n), Num: n}
}

// ParseValue classifies a raw spreadsheet cell. Blank cells become Null,
// cells holding a finite number become Number, everything else is Text.
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return Value{Kind: Number, Str: raw, Num: n}
	}
	return TextValue(raw)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Lossless reports whether a Number cell's float renders back to the text
// it was read from. Leading zeros, trailing zeros and digits past float64
// precision make it false.
func (v Value) Lossless() bool {
	return v.Kind == Number && (v.Str == "" || v.Str == formatNumber(v.Num))
}

// IsNull reports whether the cell is empty or missing.
func (v Value) IsNull() bool { return v.Kind == Null }

// String renders the cell as text. Null renders as the empty string and
// numbers render as sourced, or in shortest decimal form when built with
// NumberValue (2019, not 2019.0).
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Str
	case Number:
		if v.Str == "" {
			return formatNumber(v.Num)
		}
		return v.Str
	default:
		return ""
	}
}

// numberDoc carries a Number whose source text the float cannot reproduce.
type numberDoc struct {
	Num float64 `json:"num"`
	Raw string  `json:"raw"`
}

// MarshalJSON encodes Null as null, Number as a JSON number and Text as a
// JSON string. A Number that is not Lossless is encoded as
// {"num":..,"raw":..}.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Text:
		return json.Marshal(v.Str)
	case Number:
		if v.Lossless() {
			return json.Marshal(v.Num)
		}
		return json.Marshal(numberDoc{Num: v.Num, Raw: v.Str})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = TextValue(x)
	case float64:
		*v = NumberValue(x)
	case map[string]any:
		var doc numberDoc
		if _, ok := x["raw"]; !ok {
			return fmt.Errorf("unsupported cell value %s", string(data))
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		*v = Value{Kind: Number, Str: doc.Raw, Num: doc.Num}
	default:
		return fmt.Errorf("unsupported cell value %s", string(data))
	}
	return nil
}

package datarow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a single spreadsheet cell: string | number | bool | null.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func Null() Value              { return Value{} }
func String(s string) Value    { return Value{kind: KindString, str: s} }
func Number(f float64) Value   { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) Str() string    { return v.str }
func (v Value) Float() float64 { return v.num }
func (v Value) Boolean() bool  { return v.b }

// IsMissing reports null or empty-string cells.
func (v Value) IsMissing() bool {
	return v.kind == KindNull || (v.kind == KindString && v.str == "")
}

// Text renders the value the way it would appear in a cell.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Any returns the plain Go scalar (string, float64, bool or nil).
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = Null()
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	default:
		return fmt.Errorf("datarow: unsupported cell value %s", string(b))
	}

	return nil
}

// Row maps a column header to its cell. Absent columns are simply not present.
type Row map[string]Value

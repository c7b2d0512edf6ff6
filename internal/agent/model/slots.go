package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Field names a profile slot.
type Field string

const (
	FieldState       Field = "state"
	FieldAge         Field = "age"
	FieldGender      Field = "gender"
	FieldOccupation  Field = "occupation"
	FieldIncome      Field = "income"
	FieldFamilySize  Field = "family_size"
	FieldLandOwner   Field = "land_owner"
	FieldDisability  Field = "disability"
	FieldCaste       Field = "caste"
	FieldReligion    Field = "religion"
	FieldHasChildren Field = "has_children"
	FieldPregnant    Field = "pregnant"
	FieldLocation    Field = "location"
	FieldName        Field = "name"
)

// KnownFields are the slot names accepted from extractors.
var KnownFields = []Field{
	FieldState, FieldAge, FieldGender, FieldOccupation, FieldIncome,
	FieldFamilySize, FieldLandOwner, FieldDisability, FieldCaste, FieldReligion,
	FieldHasChildren, FieldPregnant, FieldLocation, FieldName,
}

// CriticalFields are subject to conflict detection.
var CriticalFields = []Field{FieldState, FieldAge, FieldOccupation, FieldIncome}

// RequiredFields is the clarification order for an eligibility check.
var RequiredFields = []Field{FieldAge, FieldIncome, FieldOccupation, FieldState}

// IsKnownField reports whether name is a recognised slot.
func IsKnownField(name string) bool {
	for _, f := range KnownFields {
		if string(f) == name {
			return true
		}
	}
	return false
}

// IsCritical reports whether f participates in conflict detection.
func IsCritical(f Field) bool {
	for _, c := range CriticalFields {
		if c == f {
			return true
		}
	}
	return false
}

// ValueKind discriminates Value.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindInt
	KindString
	KindBool
)

// Value is a typed slot value. The zero Value is "unset".
type Value struct {
	kind ValueKind
	i    int
	s    string
	b    bool
}

func Int(n int) Value       { return Value{kind: KindInt, i: n} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsSet() bool     { return v.kind != KindNone }

func (v Value) AsInt() (int, bool)       { return v.i, v.kind == KindInt }
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }

// Truthy is false for unset, 0, "" and false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindInt:
		return v.i != 0
	case KindString:
		return v.s != ""
	case KindBool:
		return v.b
	default:
		return false
	}
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindString:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// Any returns the payload as a plain Go value (nil when unset).
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindString:
		return v.s
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// ValueOf converts a decoded JSON/YAML scalar. Non-integral floats and
// composite values are rejected.
func ValueOf(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Value{}, false
	case Value:
		return t, t.IsSet()
	case int:
		return Int(t), true
	case int64:
		return Int(int(t)), true
	case int32:
		return Int(int(t)), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return Value{}, false
		}
		return Int(int(t)), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return Value{}, false
		}
		return Int(int(n)), true
	case string:
		return String(t), true
	case bool:
		return Bool(t), true
	default:
		return Value{}, false
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*v = Value{}
		return nil
	}
	parsed, ok := ValueOf(raw)
	if !ok {
		return fmt.Errorf("unsupported slot value %s", string(b))
	}
	*v = parsed
	return nil
}

// Slots is the canonical user profile. An absent key means unset.
type Slots map[Field]Value

// Get returns the value for f when it is set.
func (s Slots) Get(f Field) (Value, bool) {
	v, ok := s[f]
	if !ok || !v.IsSet() {
		return Value{}, false
	}
	return v, true
}

func (s Slots) Has(f Field) bool {
	_, ok := s.Get(f)
	return ok
}

func (s Slots) Int(f Field) (int, bool) {
	v, ok := s.Get(f)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func (s Slots) Str(f Field) (string, bool) {
	v, ok := s.Get(f)
	if !ok {
		return "", false
	}
	str, ok := v.AsString()
	return str, ok && str != ""
}

// Set stores v, or removes the key when v is unset.
func (s Slots) Set(f Field, v Value) {
	if !v.IsSet() {
		delete(s, f)
		return
	}
	s[f] = v
}

func (s Slots) Unset(f Field) {
	delete(s, f)
}

// Missing returns the fields from want that are unset, in order.
func (s Slots) Missing(want []Field) []Field {
	var out []Field
	for _, f := range want {
		if !s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

package ron

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	// KindStruct is a struct with named fields, e.g. `Name(a: 1)` or `(a: 1)`
	KindStruct Kind = iota
	// KindTuple is a tuple or an enum variant with values, e.g. `Some(80)` or `(1, 2)`
	KindTuple
	KindMap
	KindList
	// KindIdent is a bare identifier like `None`, `Static` or `true`
	KindIdent
	KindInt
	KindFloat
	KindString
	KindChar
)

type Field struct {
	Name  string
	Value *Value
}

type Entry struct {
	Key   *Value
	Value *Value
}

// Value is a node of a parsed RON document
type Value struct {
	Kind Kind
	// Name is the struct or enum variant name of structs and tuples, may be empty
	Name string
	// Raw is the literal text of scalar values, including quotes for strings
	Raw string

	Fields  []Field
	Entries []Entry
	Items   []*Value
}

func Int(value int) *Value {
	return &Value{Kind: KindInt, Raw: strconv.Itoa(value)}
}

func Ident(name string) *Value {
	return &Value{Kind: KindIdent, Raw: name}
}

func String(value string) *Value {
	return &Value{Kind: KindString, Raw: strconv.Quote(value)}
}

// Field returns the value of the named struct field, or nil
func (v *Value) Field(name string) *Value {
	if v == nil || v.Kind != KindStruct {
		return nil
	}
	for _, field := range v.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return nil
}

// SetField replaces the value of the named struct field, appending it if it does not exist
func (v *Value) SetField(name string, value *Value) error {
	if v == nil || v.Kind != KindStruct {
		return fmt.Errorf("cannot set field %s on a non struct value", name)
	}
	for i, field := range v.Fields {
		if field.Name == name {
			v.Fields[i].Value = value
			return nil
		}
	}
	v.Fields = append(v.Fields, Field{Name: name, Value: value})
	return nil
}

// MapEntry returns the value stored for key in a map. Identifier and string keys are matched by their text.
func (v *Value) MapEntry(key string) *Value {
	if v == nil || v.Kind != KindMap {
		return nil
	}
	for _, entry := range v.Entries {
		if entry.Key.Text() == key {
			return entry.Value
		}
	}
	return nil
}

// Path descends through struct fields and map entries, returning nil if any step is missing
func (v *Value) Path(keys ...string) *Value {
	current := v
	for _, key := range keys {
		if current == nil {
			return nil
		}
		switch current.Kind {
		case KindStruct:
			current = current.Field(key)
		case KindMap:
			current = current.MapEntry(key)
		default:
			return nil
		}
	}
	return current
}

// Text returns identifiers and numbers as written and strings without quotes
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindString {
		if unquoted, err := strconv.Unquote(v.Raw); err == nil {
			return unquoted
		}
		return strings.Trim(v.Raw, `"`)
	}
	if v.Kind == KindStruct || v.Kind == KindTuple {
		return v.Name
	}
	return v.Raw
}

func (v *Value) Int() (int64, error) {
	if v == nil || v.Kind != KindInt {
		return 0, fmt.Errorf("not an integer")
	}
	return strconv.ParseInt(strings.ReplaceAll(v.Raw, "_", ""), 0, 64)
}

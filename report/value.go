package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind represents a cell value type
type Kind string

const (
	StringKind Kind = "string"
	IntKind    Kind = "int"
	BoolKind   Kind = "bool"
	ListKind   Kind = "list"
)

// Value is a typed table cell. It serializes as a plain YAML/JSON scalar or sequence,
// so the type survives a round trip.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Bool bool
	List []string
}

// String creates a string cell
func String(value string) Value {
	return Value{Kind: StringKind, Str: value}
}

// Int creates an integer cell
func Int(value int64) Value {
	return Value{Kind: IntKind, Int: value}
}

// Bool creates a boolean cell
func Bool(value bool) Value {
	return Value{Kind: BoolKind, Bool: value}
}

// List creates a list cell
func List(values ...string) Value {
	return Value{Kind: ListKind, List: append([]string{}, values...)}
}

// Text renders the value; list items are separated by new lines
func (v Value) Text() string {
	switch v.Kind {
	case IntKind:
		return strconv.FormatInt(v.Int, 10)
	case BoolKind:
		return strconv.FormatBool(v.Bool)
	case ListKind:
		return strings.Join(v.List, "\n")
	}
	return v.Str
}

// Equal reports whether both values have the same kind and content
func (v Value) Equal(other Value) bool {
	if v.normalizedKind() != other.normalizedKind() {
		return false
	}
	switch v.normalizedKind() {
	case IntKind:
		return v.Int == other.Int
	case BoolKind:
		return v.Bool == other.Bool
	case ListKind:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != other.List[i] {
				return false
			}
		}
		return true
	}
	return v.Str == other.Str
}

func (v Value) normalizedKind() Kind {
	if v.Kind == "" {
		return StringKind
	}
	return v.Kind
}

func (v Value) native() interface{} {
	switch v.Kind {
	case IntKind:
		return v.Int
	case BoolKind:
		return v.Bool
	case ListKind:
		if v.List == nil {
			return []string{}
		}
		return v.List
	}
	return v.Str
}

// MarshalYAML implements yaml.Marshaler
func (v Value) MarshalYAML() (interface{}, error) {
	return v.native(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*v = List(items...)
		return nil
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!int":
			var i int64
			if err := node.Decode(&i); err != nil {
				return err
			}
			*v = Int(i)
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = Bool(b)
		case "!!null":
			*v = String("")
		default:
			*v = String(node.Value)
		}
		return nil
	}
	return fmt.Errorf("unsupported cell node at line %d", node.Line)
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.native())
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = String("")
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = List(items...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	default:
		i, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("unsupported cell value %s: %w", data, err)
		}
		*v = Int(i)
	}
	return nil
}

package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ValueType represents the type of a property value
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
)

var typeNames = [...]string{"string", "int", "float", "bool"}

func (t ValueType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", t)
}

// Value represents a typed property value
type Value struct {
	Type ValueType
	Data []byte
}

// Properties are stored encoded; ints and floats as 8 little-endian bytes.
func StringValue(s string) Value {
	return Value{Type: TypeString, Data: []byte(s)}
}

func IntValue(i int64) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, uint64(i))
	return Value{Type: TypeInt, Data: data}
}

func FloatValue(f float64) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(f))
	return Value{Type: TypeFloat, Data: data}
}

func BoolValue(b bool) Value {
	data := []byte{0}
	if b {
		data[0] = 1
	}
	return Value{Type: TypeBool, Data: data}
}

// ErrTypeMismatch is returned when a value is read as the wrong type.
var ErrTypeMismatch = errors.New("property type mismatch")

func (v Value) expect(t ValueType) error {
	if v.Type != t {
		return fmt.Errorf("%w: want %s, have %s", ErrTypeMismatch, t, v.Type)
	}
	return nil
}

func (v Value) AsString() (string, error) {
	if err := v.expect(TypeString); err != nil {
		return "", err
	}
	return string(v.Data), nil
}

func (v Value) AsInt() (int64, error) {
	if err := v.expect(TypeInt); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsFloat() (float64, error) {
	if err := v.expect(TypeFloat); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsBool() (bool, error) {
	if err := v.expect(TypeBool); err != nil {
		return false, err
	}
	return v.Data[0] == 1, nil
}

// Interface returns the decoded Go value, for serializers.
func (v Value) Interface() any {
	switch v.Type {
	case TypeString:
		s, _ := v.AsString()
		return s
	case TypeInt:
		i, _ := v.AsInt()
		return i
	case TypeFloat:
		f, _ := v.AsFloat()
		return f
	case TypeBool:
		b, _ := v.AsBool()
		return b
	default:
		return nil
	}
}

// String renders the value as text (CSV cells, log fields).
func (v Value) String() string {
	switch v.Type {
	case TypeString:
		return string(v.Data)
	case TypeInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case TypeFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case TypeBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	default:
		return ""
	}
}

// Node represents a vertex in the graph.
// Key is the domain identifier (unit code, group label, fault id) and is
// unique within a graph when non-empty.
type Node struct {
	ID         uint64
	Key        string
	Labels     []string
	Properties map[string]Value
}

// Edge represents a relationship between nodes
type Edge struct {
	ID         uint64
	FromNodeID uint64
	ToNodeID   uint64
	Type       string
	Properties map[string]Value
	Weight     float64
}

// Clone creates a deep copy of a node
func (n *Node) Clone() *Node {
	clone := &Node{
		ID:         n.ID,
		Key:        n.Key,
		Labels:     make([]string, len(n.Labels)),
		Properties: make(map[string]Value, len(n.Properties)),
	}
	copy(clone.Labels, n.Labels)
	for k, v := range n.Properties {
		clone.Properties[k] = v
	}
	return clone
}

// HasLabel checks if node has a specific label
func (n *Node) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// GetProperty gets a property value
func (n *Node) GetProperty(key string) (Value, bool) {
	val, ok := n.Properties[key]
	return val, ok
}

// StringProperty returns a string property or "" when absent or mistyped.
func (n *Node) StringProperty(key string) string {
	val, ok := n.Properties[key]
	if !ok {
		return ""
	}
	s, _ := val.AsString()
	return s
}

// Clone creates a deep copy of an edge
func (e *Edge) Clone() *Edge {
	clone := &Edge{
		ID:         e.ID,
		FromNodeID: e.FromNodeID,
		ToNodeID:   e.ToNodeID,
		Type:       e.Type,
		Properties: make(map[string]Value, len(e.Properties)),
		Weight:     e.Weight,
	}
	for k, v := range e.Properties {
		clone.Properties[k] = v
	}
	return clone
}

// GetProperty gets a property value
func (e *Edge) GetProperty(key string) (Value, bool) {
	val, ok := e.Properties[key]
	return val, ok
}

// StringProperty returns a string property or "" when absent or mistyped.
func (e *Edge) StringProperty(key string) string {
	val, ok := e.Properties[key]
	if !ok {
		return ""
	}
	s, _ := val.AsString()
	return s
}

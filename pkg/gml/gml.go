// Package gml reads and writes the Graph Modelling Language documents
// produced by the topology extractor and consumed by the modelling engine.
//
// A document is a List of key/value pairs. Values are int64, float64,
// string or a nested List.
package gml

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by all decode errors.
var ErrSyntax = errors.New("gml syntax error")

// Pair is one key and its value.
type Pair struct {
	Key   string
	Value any
}

// List is an ordered sequence of pairs. Keys may repeat.
type List []Pair

// Add appends a pair and returns the extended list.
func (l List) Add(key string, value any) List {
	return append(l, Pair{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (l List) Get(key string) (any, bool) {
	for _, p := range l {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (l List) Has(key string) bool {
	_, ok := l.Get(key)
	return ok
}

// Lists returns every nested list stored under key, in order.
func (l List) Lists(key string) []List {
	var out []List
	for _, p := range l {
		if sub, ok := p.Value.(List); ok && p.Key == key {
			out = append(out, sub)
		}
	}
	return out
}

// List returns the first nested list stored under key.
func (l List) List(key string) (List, bool) {
	v, ok := l.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(List)
	return sub, ok
}

// String returns the value under key rendered as text. Numbers are
// formatted, so numeric identifiers compare as strings.
func (l List) String(key string) (string, bool) {
	v, ok := l.Get(key)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case int64:
		return fmt.Sprintf("%d", t), true
	case float64:
		return formatFloat(t), true
	default:
		return "", false
	}
}

// Int returns an integer value under key.
func (l List) Int(key string) (int64, bool) {
	v, ok := l.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}

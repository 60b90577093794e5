// Package authority loads the reference table of known overlying and
// underlying unit pairs used to decide which cycle edges to keep.
package authority

import "strings"

// Verdict is the table's opinion on a directed "overlies" edge.
type Verdict int

const (
	// Unknown: the table has no entry for the pair in either direction.
	Unknown Verdict = iota
	// Confirmed: the table lists the edge's direction.
	Confirmed
	// Opposite: the table lists the reverse direction only.
	Opposite
)

func (v Verdict) String() string {
	switch v {
	case Confirmed:
		return "confirmed"
	case Opposite:
		return "opposite"
	default:
		return "unknown"
	}
}

// Pair is a known relationship: Over lies stratigraphically above Under.
type Pair struct {
	Over  string
	Under string
}

// Table is an immutable-after-load set of overlie pairs.
type Table struct {
	pairs map[Pair]struct{}
	order []Pair
}

// NewTable builds a table from pairs, ignoring duplicates and blanks.
func NewTable(pairs ...Pair) *Table {
	t := &Table{pairs: make(map[Pair]struct{}, len(pairs))}
	for _, p := range pairs {
		t.add(p)
	}
	return t
}

func (t *Table) add(p Pair) {
	p.Over = strings.TrimSpace(p.Over)
	p.Under = strings.TrimSpace(p.Under)
	if p.Over == "" || p.Under == "" {
		return
	}
	if _, ok := t.pairs[p]; ok {
		return
	}
	t.pairs[p] = struct{}{}
	t.order = append(t.order, p)
}

// Len returns the number of distinct pairs. A nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Pairs returns the pairs in load order.
func (t *Table) Pairs() []Pair {
	if t == nil {
		return nil
	}
	return append([]Pair(nil), t.order...)
}

// Lookup judges the edge over -> under.
func (t *Table) Lookup(over, under string) Verdict {
	if t == nil {
		return Unknown
	}
	if _, ok := t.pairs[Pair{Over: over, Under: under}]; ok {
		return Confirmed
	}
	if _, ok := t.pairs[Pair{Over: under, Under: over}]; ok {
		return Opposite
	}
	return Unknown
}

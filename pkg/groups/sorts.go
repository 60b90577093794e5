package groups

import "github.com/dd0wney/cluso-strata/pkg/stratigraphy"

// SortRow is one unit in the global stratigraphic order.
type SortRow struct {
	Index         int
	GroupNumber   int
	IndexInGroup  int
	NumberInGroup int
	Code          string
	Group         string
}

// AllSorts concatenates each group's unit order following groupOrder.
// Group numbers and in-group indices are 1-based; Index counts from 0.
func AllSorts(groupOrder []string, units *stratigraphy.Result) []SortRow {
	var rows []SortRow
	for gi, label := range groupOrder {
		group, ok := units.Group(label)
		if !ok {
			continue
		}
		for ui, code := range group.Order {
			rows = append(rows, SortRow{
				Index:         len(rows),
				GroupNumber:   gi + 1,
				IndexInGroup:  ui + 1,
				NumberInGroup: len(group.Order),
				Code:          code,
				Group:         label,
			})
		}
	}
	return rows
}

// UnitOrder returns just the codes of rows.
func UnitOrder(rows []SortRow) []string {
	codes := make([]string, len(rows))
	for i, r := range rows {
		codes[i] = r.Code
	}
	return codes
}

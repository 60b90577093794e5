// Package groups aggregates resolved units into an ordered group graph
// and derives the global unit order.
package groups

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Age is the age span of a group.
type Age struct {
	Group string
	Min   float64
	Max   float64
	Mean  float64
}

// Ages computes per-group min, max and mean age from unit records,
// sorted youngest mean first. Ties keep first-appearance order.
func Ages(units []strata.Unit) []Age {
	index := make(map[string]int)
	var ages []Age
	for _, u := range units {
		label := u.GroupLabel()
		i, ok := index[label]
		if !ok {
			index[label] = len(ages)
			ages = append(ages, Age{Group: label, Min: math.Inf(1), Max: math.Inf(-1)})
			i = len(ages) - 1
		}
		ages[i].Min = math.Min(ages[i].Min, u.MinAge)
		ages[i].Max = math.Max(ages[i].Max, u.MaxAge)
	}
	for i := range ages {
		ages[i].Mean = (ages[i].Min + ages[i].Max) / 2
	}
	sort.SliceStable(ages, func(i, j int) bool { return ages[i].Mean < ages[j].Mean })
	return ages
}

// AgeTable indexes ages by group label.
func AgeTable(ages []Age) map[string]Age {
	m := make(map[string]Age, len(ages))
	for _, a := range ages {
		m[a.Group] = a
	}
	return m
}

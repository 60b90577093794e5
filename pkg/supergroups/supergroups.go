// Package supergroups clusters groups whose bedding girdles share an
// orientation into supergroups.
package supergroups

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-strata/pkg/strata"
)

const (
	// DefaultMisorientation is the merge threshold in degrees.
	DefaultMisorientation = 30.0
	// MinMeasurements is the count a girdle must exceed to be compared.
	MinMeasurements = 5
	// CoverGroup labels the synthetic cover pseudo-group.
	CoverGroup = "cover"
)

// Vector is a unit direction (l, m, n).
type Vector [3]float64

// DirectionCosines converts plunge and bearing in degrees to a unit vector
// with l east, m north and n up, so positive plunge points down.
func DirectionCosines(plunge, bearing float64) Vector {
	p := plunge * math.Pi / 180
	b := bearing * math.Pi / 180
	return Vector{math.Cos(p) * math.Sin(b), math.Cos(p) * math.Cos(b), -math.Sin(p)}
}

// Misorientation returns the angle in degrees between two unit vectors.
func Misorientation(a, b Vector) float64 {
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
	dot = math.Max(-1, math.Min(1, dot))
	return math.Acos(dot) * 180 / math.Pi
}

// Class flags the intrusive character of a group.
type Class struct {
	Intrusive bool // at least one unit is intrusive
	Sill      bool // every intrusive unit is a sill
}

// IntrusiveBody reports whether the group gets a supergroup of its own.
func (c Class) IntrusiveBody() bool {
	return c.Intrusive && !c.Sill
}

// Keywords are the case-insensitive markers used for classification.
type Keywords struct {
	Intrusive string
	Sill      string
}

// DefaultKeywords match rock types containing "intrusive" and
// descriptions containing "sill".
var DefaultKeywords = Keywords{Intrusive: "intrusive", Sill: "sill"}

// Classify derives a Class for every group from its units.
func Classify(units []strata.Unit, kw Keywords) map[string]Class {
	intrusive := strings.ToLower(kw.Intrusive)
	sill := strings.ToLower(kw.Sill)

	classes := make(map[string]Class)
	nonSill := make(map[string]bool)
	for _, u := range units {
		label := u.GroupLabel()
		c := classes[label]
		if intrusive != "" && strings.Contains(strings.ToLower(u.RockType1), intrusive) {
			c.Intrusive = true
			if sill == "" || !strings.Contains(strings.ToLower(u.Description), sill) {
				nonSill[label] = true
			}
		}
		classes[label] = c
	}
	for label, c := range classes {
		c.Sill = c.Intrusive && !nonSill[label]
		classes[label] = c
	}
	return classes
}

// Options controls clustering.
type Options struct {
	Misorientation float64
	Cover          bool
}

// Supergroup is a set of groups sharing a fabric. Vector is the seed
// orientation the supergroup was created with.
type Supergroup struct {
	Label  string
	Vector Vector
	Groups []string
	Cover  bool
}

// Result is the clustering outcome.
type Result struct {
	Supergroups []Supergroup
	// Groups lists every group label in supergroup order, cover first.
	Groups []string
	// Membership maps each group label to its supergroup label.
	Membership map[string]string
}

type candidate struct {
	label  string
	vector Vector
	count  int
}

// Cluster assigns every group in groups to exactly one supergroup.
// Groups are visited by descending girdle measurement count, groups
// without a girdle last; the outcome depends on that order.
func Cluster(groups []string, girdles []strata.Girdle, classes map[string]Class, opts Options) *Result {
	threshold := opts.Misorientation
	if threshold <= 0 {
		threshold = DefaultMisorientation
	}

	byGroup := make(map[string]strata.Girdle, len(girdles))
	for _, g := range girdles {
		byGroup[strata.CleanLabel(g.Group)] = g
	}
	var cands []candidate
	seen := make(map[string]bool)
	for _, label := range groups {
		if seen[label] {
			continue
		}
		seen[label] = true
		c := candidate{label: label}
		if g, ok := byGroup[label]; ok {
			c.vector = DirectionCosines(g.Plunge, g.Bearing)
			c.count = g.Count
		}
		cands = append(cands, c)
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].count > cands[j].count })

	var sgs []Supergroup
	for i, c := range cands {
		if i == 0 {
			sgs = append(sgs, Supergroup{Vector: c.vector, Groups: []string{c.label}})
			continue
		}
		switch {
		case classes[c.label].IntrusiveBody():
			sgs = append(sgs, Supergroup{Vector: c.vector, Groups: []string{c.label}})
		case c.count > MinMeasurements:
			placed := false
			for k := range sgs {
				if Misorientation(c.vector, sgs[k].Vector) < threshold {
					sgs[k].Groups = append(sgs[k].Groups, c.label)
					placed = true
					break
				}
			}
			if !placed {
				sgs = append(sgs, Supergroup{Vector: c.vector, Groups: []string{c.label}})
			}
		default:
			sgs[0].Groups = append(sgs[0].Groups, c.label)
		}
	}

	if opts.Cover {
		sgs = append([]Supergroup{{Groups: []string{CoverGroup}, Cover: true}}, sgs...)
	}

	result := &Result{Supergroups: sgs, Membership: make(map[string]string)}
	for i := range result.Supergroups {
		sg := &result.Supergroups[i]
		sg.Label = fmt.Sprintf("supergroup_%d", i)
		for _, g := range sg.Groups {
			result.Groups = append(result.Groups, strata.CleanLabel(g))
			result.Membership[g] = sg.Label
		}
	}
	return result
}

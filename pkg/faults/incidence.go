package faults

import "github.com/dd0wney/cluso-strata/pkg/strata"

// Incidence is a boolean table of rows (units, groups or supergroups)
// against fault columns.
type Incidence struct {
	Rows  []string
	Cols  []string
	cells map[string]map[string]bool
}

// NewIncidence creates an all-false table.
func NewIncidence(rows, cols []string) *Incidence {
	return &Incidence{
		Rows:  append([]string(nil), rows...),
		Cols:  append([]string(nil), cols...),
		cells: make(map[string]map[string]bool, len(rows)),
	}
}

// Set marks row and col as incident.
func (inc *Incidence) Set(row, col string, v bool) {
	m := inc.cells[row]
	if m == nil {
		m = make(map[string]bool)
		inc.cells[row] = m
	}
	m[col] = v
}

// Get reports whether row and col are incident.
func (inc *Incidence) Get(row, col string) bool {
	return inc.cells[row][col]
}

// Faults lists the columns set for row, in column order.
func (inc *Incidence) Faults(row string) []string {
	var out []string
	for _, c := range inc.Cols {
		if inc.Get(row, c) {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of true cells.
func (inc *Incidence) Count() int {
	n := 0
	for _, r := range inc.Rows {
		n += len(inc.Faults(r))
	}
	return n
}

// ContactChecker confirms that a group is actually in contact with a
// fault near its trace. Returning false switches the incidence off.
type ContactChecker interface {
	InContact(group, fault string) bool
}

// ContactFunc adapts a function to ContactChecker.
type ContactFunc func(group, fault string) bool

func (f ContactFunc) InContact(group, fault string) bool { return f(group, fault) }

// UnitFaults builds the unit-fault table from the extractor report.
// Unit codes are cleaned; units outside units and untracked faults are
// ignored.
func UnitFaults(report []strata.UnitFaultIntersection, units, tracked []string) *Incidence {
	inc := NewIncidence(units, tracked)
	known := make(map[string]bool, len(units))
	for _, u := range units {
		known[u] = true
	}
	isTracked := make(map[string]bool, len(tracked))
	for _, f := range tracked {
		isTracked[f] = true
	}
	for _, r := range report {
		unit := strata.CleanLabel(r.Unit)
		if !known[unit] {
			continue
		}
		for _, f := range r.Faults {
			if key := strata.FaultKey(f); isTracked[key] {
				inc.Set(unit, key, true)
			}
		}
	}
	return inc
}

// GroupFaults ORs unit rows into their groups. A nil checker accepts
// every incidence.
func GroupFaults(units *Incidence, unitGroup map[string]string, groups []string, checker ContactChecker) *Incidence {
	inc := NewIncidence(groups, units.Cols)
	for _, u := range units.Rows {
		group, ok := unitGroup[u]
		if !ok {
			continue
		}
		for _, f := range units.Faults(u) {
			if checker != nil && !checker.InContact(group, f) {
				continue
			}
			inc.Set(group, f, true)
		}
	}
	return inc
}

// SupergroupFaults ORs group rows into their supergroups.
func SupergroupFaults(groups *Incidence, membership map[string]string, supergroups []string) *Incidence {
	inc := NewIncidence(supergroups, groups.Cols)
	for _, g := range groups.Rows {
		sg, ok := membership[g]
		if !ok {
			continue
		}
		for _, f := range groups.Faults(g) {
			inc.Set(sg, f, true)
		}
	}
	return inc
}

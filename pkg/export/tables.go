package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-strata/pkg/faults"
	"github.com/dd0wney/cluso-strata/pkg/groups"
	"github.com/dd0wney/cluso-strata/pkg/strata"
	"github.com/dd0wney/cluso-strata/pkg/supergroups"
)

// Table is a CSV side table. A nil Header writes rows only.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteCSV writes the table.
func (t *Table) WriteCSV(w io.Writer) (retErr error) {
	cw := csv.NewWriter(w)
	defer func() {
		cw.Flush()
		if err := cw.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("csv flush %s: %w", t.Name, err)
		}
	}()
	if t.Header != nil {
		if err := cw.Write(t.Header); err != nil {
			return fmt.Errorf("write %s header: %w", t.Name, err)
		}
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.Name, i, err)
		}
	}
	return nil
}

// Bytes renders the table.
func (t *Table) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// AllSortsTable is the global unit order.
func AllSortsTable(rows []groups.SortRow) *Table {
	t := &Table{
		Name:   "all_sorts.csv",
		Header: []string{"index", "group number", "index in group", "number in group", "code", "group"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			itoa(r.Index), itoa(r.GroupNumber), itoa(r.IndexInGroup), itoa(r.NumberInGroup), r.Code, r.Group,
		})
	}
	return t
}

// ChoiceTable lists the enumerated orders of one group or of the group
// sequence, one "Choice N" row per order.
func ChoiceTable(name string, orders [][]string) *Table {
	t := &Table{Name: name}
	for i, order := range orders {
		t.Rows = append(t.Rows, append([]string{"Choice " + itoa(i)}, order...))
	}
	return t
}

// GroupsTable writes the group sequence, one label per line.
func GroupsTable(order []string) *Table {
	t := &Table{Name: "groups_clean.csv"}
	for _, g := range order {
		t.Rows = append(t.Rows, []string{g})
	}
	return t
}

// GroupAgesTable writes the age summary sorted by mean age.
func GroupAgesTable(ages []groups.Age) *Table {
	t := &Table{Name: "abs_age_groups.csv", Header: []string{"index", "group_", "min", "max", "ave"}}
	for i, a := range ages {
		t.Rows = append(t.Rows, []string{itoa(i), a.Group, ftoa(a.Min), ftoa(a.Max), ftoa(a.Mean)})
	}
	return t
}

// IncidenceTable writes a 0/1 matrix with fault columns.
func IncidenceTable(name, rowHeader string, inc *faults.Incidence) *Table {
	t := &Table{Name: name, Header: append([]string{rowHeader}, inc.Cols...)}
	for _, r := range inc.Rows {
		row := []string{r}
		for _, c := range inc.Cols {
			if inc.Get(r, c) {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SupergroupsTable writes one line of member groups per supergroup.
func SupergroupsTable(res *supergroups.Result) *Table {
	t := &Table{Name: "super_groups.csv"}
	for _, sg := range res.Supergroups {
		t.Rows = append(t.Rows, append([]string(nil), sg.Groups...))
	}
	return t
}

// FaultClustersTable writes orientation and cluster attributes per fault.
func FaultClustersTable(attrs []faults.Attributes) *Table {
	t := &Table{
		Name: "fault_clusters.csv",
		Header: []string{"formation", "X", "Y", "Z", "dip", "DipDirection", "DipPolarity",
			"incLength", "cluster_o", "cluster_l"},
	}
	for _, a := range attrs {
		t.Rows = append(t.Rows, []string{
			a.Fault, ftoa(a.XMean), ftoa(a.YMean), ftoa(a.ZMean),
			ftoa(a.Dip), ftoa(a.DipDirection), ftoa(a.DipPolarity),
			ftoa(a.Dimension.IncLength), itoa(a.OrientationCluster), itoa(a.LengthCluster),
		})
	}
	return t
}

// FaultEdgesTable writes the surviving fault relationships.
func FaultEdgesTable(net *faults.Network) *Table {
	t := &Table{Name: "fault_network_edges.csv", Header: []string{"fault_1", "fault_2", "angle", "topol"}}
	for _, e := range net.Edges() {
		t.Rows = append(t.Rows, []string{e.From, e.To, ftoa(e.Angle), e.Topology})
	}
	return t
}

// WarningsTable lists non-fatal conditions raised during the run.
func WarningsTable(ws strata.Warnings) *Table {
	t := &Table{Name: "warnings.csv", Header: []string{"stage", "code", "entity", "message"}}
	for _, w := range ws {
		t.Rows = append(t.Rows, []string{w.Stage, string(w.Code), w.Entity, w.Message})
	}
	return t
}

// ChoiceName returns the choice table name for a group.
func ChoiceName(group string) string {
	return strings.ReplaceAll(group, "/", "_") + ".csv"
}

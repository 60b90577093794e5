package faults

import "github.com/dd0wney/cluso-strata/pkg/strata"

// CheckGeometries fails on the first tracked fault whose trace was not
// exported as a single line, since its orientation would be ambiguous.
// Faults without a geometry record are not checked.
func CheckGeometries(geoms []strata.FaultGeometry, tracked []string) error {
	kinds := make(map[string]strata.GeometryKind, len(geoms))
	for _, g := range geoms {
		kinds[strata.FaultKey(g.Fault)] = g.Kind
	}
	for _, id := range tracked {
		kind, ok := kinds[id]
		if !ok || kind == strata.GeometryLineString {
			continue
		}
		return strata.NewError(strata.StageFaults).Fault(id).
			Context("exported as %s", kind).
			Cause(strata.ErrUnsupportedGeometry).Err()
	}
	return nil
}

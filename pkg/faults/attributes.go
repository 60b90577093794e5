package faults

import "github.com/dd0wney/cluso-strata/pkg/strata"

// Unknown marks attributes with no source record.
const Unknown = -1.0

// Attributes is everything known about a tracked fault apart from its
// network centrality.
type Attributes struct {
	Fault               string
	Dimension           strata.FaultDimension
	Dip                 float64
	DipDirection        float64
	DipPolarity         float64
	XMean, YMean, ZMean float64
	OrientationCluster  int
	LengthCluster       int
}

// BuildAttributes joins dimension, orientation, trace vertex and cluster
// data per fault, in dimension table order. Missing orientation fields
// are Unknown; the centroid falls back to orientation locations, then 0.
func BuildAttributes(dims []strata.FaultDimension, orientations []strata.FaultOrientation, points []strata.FaultPoint, clusters *Clusters) []Attributes {
	first := FirstOrientations(orientations)
	var located []strata.FaultPoint
	for _, o := range orientations {
		located = append(located, strata.FaultPoint{Fault: o.Fault, X: o.X, Y: o.Y, Z: o.Z})
	}
	means := mergeCentroids(centroids(points), located)
	if clusters == nil {
		clusters = &Clusters{}
	}

	out := make([]Attributes, 0, len(dims))
	for _, d := range dims {
		id := strata.FaultKey(d.Fault)
		a := Attributes{
			Fault:              id,
			Dimension:          d,
			Dip:                Unknown,
			DipDirection:       Unknown,
			DipPolarity:        Unknown,
			OrientationCluster: clusters.OrientationLabel(id),
			LengthCluster:      clusters.LengthLabel(id),
		}
		if o, ok := first[id]; ok {
			a.Dip, a.DipDirection, a.DipPolarity = o.Dip, o.DipDirection, o.DipPolarity
		}
		if c, ok := means[id]; ok {
			a.XMean, a.YMean, a.ZMean = c[0], c[1], c[2]
		}
		out = append(out, a)
	}
	return out
}

func centroids(points []strata.FaultPoint) map[string][3]float64 {
	sums := make(map[string][4]float64)
	for _, p := range points {
		key := strata.FaultKey(p.Fault)
		s := sums[key]
		s[0] += p.X
		s[1] += p.Y
		s[2] += p.Z
		s[3]++
		sums[key] = s
	}
	out := make(map[string][3]float64, len(sums))
	for k, s := range sums {
		out[k] = [3]float64{s[0] / s[3], s[1] / s[3], s[2] / s[3]}
	}
	return out
}

// mergeCentroids adds centroids of extra points for faults absent from base.
func mergeCentroids(base map[string][3]float64, extra []strata.FaultPoint) map[string][3]float64 {
	out := make(map[string][3]float64, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range centroids(extra) {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

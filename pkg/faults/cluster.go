package faults

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// NoCluster labels faults that were not clustered.
const NoCluster = -1

// ClusterOptions sets cluster counts and the assignment worker count.
type ClusterOptions struct {
	OrientationClusters int
	LengthClusters      int
	Workers             int
	MaxIter             int
}

// Clusters maps fault identifiers to cluster labels.
type Clusters struct {
	Orientation map[string]int
	Length      map[string]int
}

// OrientationLabel returns the fault's orientation cluster or NoCluster.
func (c *Clusters) OrientationLabel(fault string) int {
	return lookup(c.Orientation, fault)
}

// LengthLabel returns the fault's length cluster or NoCluster.
func (c *Clusters) LengthLabel(fault string) int {
	return lookup(c.Length, fault)
}

func lookup(m map[string]int, fault string) int {
	if v, ok := m[fault]; ok {
		return v
	}
	return NoCluster
}

// OrientationVector converts dip and dip direction in degrees to the
// unit vector clustered on.
func OrientationVector(dip, dipDirection float64) [3]float64 {
	dd := dipDirection * math.Pi / 180
	r := (90 - dip) * math.Pi / 180
	return [3]float64{math.Sin(dd) * math.Cos(r), math.Cos(dd) * math.Cos(r), math.Sin(r)}
}

// FirstOrientations keeps the first orientation record of each fault.
func FirstOrientations(orientations []strata.FaultOrientation) map[string]strata.FaultOrientation {
	first := make(map[string]strata.FaultOrientation)
	for _, o := range orientations {
		key := strata.FaultKey(o.Fault)
		if _, ok := first[key]; !ok {
			first[key] = o
		}
	}
	return first
}

// ClusterFaults groups tracked faults by orientation and by incremental
// length. The two clusterings run concurrently; a clustering is skipped,
// leaving every fault at NoCluster, when there are fewer faults than
// clusters.
func ClusterFaults(ctx context.Context, dims []strata.FaultDimension, orientations []strata.FaultOrientation, opts ClusterOptions) (*Clusters, error) {
	result := &Clusters{Orientation: map[string]int{}, Length: map[string]int{}}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		first := FirstOrientations(orientations)
		var ids []string
		var data [][]float64
		for _, d := range dims {
			id := strata.FaultKey(d.Fault)
			o, ok := first[id]
			if !ok {
				continue
			}
			v := OrientationVector(o.Dip, o.DipDirection)
			ids = append(ids, id)
			data = append(data, v[:])
		}
		return assign(ctx, result.Orientation, ids, data, len(dims), opts.OrientationClusters, opts)
	})

	g.Go(func() error {
		ids := make([]string, len(dims))
		data := make([][]float64, len(dims))
		for i, d := range dims {
			ids[i] = strata.FaultKey(d.Fault)
			data[i] = []float64{d.IncLength}
		}
		return assign(ctx, result.Length, ids, data, len(dims), opts.LengthClusters, opts)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func assign(ctx context.Context, out map[string]int, ids []string, data [][]float64, faults, k int, opts ClusterOptions) error {
	if k <= 0 || faults < k || len(data) < k {
		return nil
	}
	labels, err := kmeans(ctx, data, k, opts.MaxIter, opts.Workers)
	if err != nil {
		return err
	}
	for i, id := range ids {
		out[id] = labels[i]
	}
	return nil
}

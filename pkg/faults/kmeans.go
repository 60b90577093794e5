package faults

import (
	"context"
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-strata/pkg/parallel"
)

// DefaultMaxIter bounds k-means iterations.
const DefaultMaxIter = 50

// kmeans partitions data into k clusters with k-means++ seeding from a
// fixed seed, so labels are reproducible. The assignment step runs on a
// worker pool; each point writes only its own label.
func kmeans(ctx context.Context, data [][]float64, k, maxIter, workers int) ([]int, error) {
	n := len(data)
	labels := make([]int, n)
	if n == 0 || k <= 0 {
		return labels, nil
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	centers := seedCenters(data, k, rand.New(rand.NewSource(1)))
	next := make([]int, n)
	for iter := 0; iter < maxIter; iter++ {
		err := parallel.ForEach(ctx, workers, n, func(i int) {
			next[i] = nearest(data[i], centers)
		})
		if err != nil {
			return nil, err
		}

		changed := iter == 0
		for i := range next {
			if next[i] != labels[i] {
				changed = true
			}
			labels[i] = next[i]
		}
		if !changed {
			break
		}
		centers = updateCenters(data, labels, centers)
	}
	return labels, nil
}

func seedCenters(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := [][]float64{clonePoint(data[rng.Intn(len(data))])}
	dist := make([]float64, len(data))
	for len(centers) < k {
		total := 0.0
		for i, p := range data {
			dist[i] = sqDist(p, centers[nearest(p, centers)])
			total += dist[i]
		}
		if total == 0 {
			centers = append(centers, clonePoint(data[rng.Intn(len(data))]))
			continue
		}
		target := rng.Float64() * total
		pick := len(data) - 1
		for i, d := range dist {
			target -= d
			if target <= 0 && d > 0 {
				pick = i
				break
			}
		}
		centers = append(centers, clonePoint(data[pick]))
	}
	return centers
}

// updateCenters moves each center to its members' mean; an empty cluster
// keeps its previous center.
func updateCenters(data [][]float64, labels []int, prev [][]float64) [][]float64 {
	dim := len(prev[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range data {
		c := labels[i]
		counts[c]++
		for d := range p {
			sums[c][d] += p[d]
		}
	}
	centers := make([][]float64, len(prev))
	for c := range sums {
		if counts[c] == 0 {
			centers[c] = prev[c]
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
		centers[c] = sums[c]
	}
	return centers
}

// nearest returns the closest center, the lowest index on ties.
func nearest(p []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(p, center); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}

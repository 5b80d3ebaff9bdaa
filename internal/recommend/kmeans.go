// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package recommend

import (
	"math"
	"math/rand"
)

// maxIterations bounds one Lloyd run.
const maxIterations = 100

// kmeans clusters 2D points with Lloyd iterations. The seed fixes
// centroid initialization; the best of numRestarts runs by inertia wins,
// so assignments are deterministic for a given point set.
func kmeans(points [][2]float64, k, numRestarts int, seed int64) []int {
	if len(points) == 0 || k < 1 {
		return nil
	}
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(seed))

	bestInertia := math.Inf(1)
	var bestLabels []int
	for restart := 0; restart < numRestarts; restart++ {
		labels, inertia := lloyd(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels
}

func lloyd(points [][2]float64, k int, rng *rand.Rand) ([]int, float64) {
	// Initialize centroids on k distinct points.
	perm := rng.Perm(len(points))
	centroids := make([][2]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = points[perm[i]]
	}

	labels := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				d := squaredDistance(p, centroid)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		sums := make([][2]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			sums[labels[i]][0] += p[0]
			sums[labels[i]][1] += p[1]
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Re-seed an empty cluster on a random point.
				centroids[c] = points[rng.Intn(len(points))]
				continue
			}
			centroids[c] = [2]float64{
				sums[c][0] / float64(counts[c]),
				sums[c][1] / float64(counts[c]),
			}
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[labels[i]])
	}
	return labels, inertia
}

func squaredDistance(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Forest is a random-forest classifier over dense float features. Trees
// are grown on bootstrap samples with a random sqrt-sized feature subset
// per split; class probabilities are the mean of the leaf distributions
// across all trees.
//
// The whole structure serializes to JSON for persistence.
type Forest struct {
	Trees      []tree `json:"trees"`
	NumClasses int    `json:"num_classes"`
}

// tree stores its nodes in a flat slice; children reference indexes.
type tree struct {
	Nodes []treeNode `json:"nodes"`
}

// treeNode is an internal split (Dist nil) or a leaf (Dist set).
type treeNode struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t"`
	Left      int       `json:"l"`
	Right     int       `json:"r"`
	Dist      []float64 `json:"d,omitempty"`
}

// TrainForest fits numTrees trees on the given samples. The seed fixes
// bootstrap sampling and feature selection, so training is deterministic.
func TrainForest(features [][]float64, labels []int, numClasses, numTrees int, seed int64) *Forest {
	rng := rand.New(rand.NewSource(seed))

	forest := &Forest{
		Trees:      make([]tree, 0, numTrees),
		NumClasses: numClasses,
	}

	numFeatures := 0
	if len(features) > 0 {
		numFeatures = len(features[0])
	}
	featuresPerSplit := int(math.Max(1, math.Round(math.Sqrt(float64(numFeatures)))))

	for t := 0; t < numTrees; t++ {
		indices := make([]int, len(features))
		for i := range indices {
			indices[i] = rng.Intn(len(features))
		}

		builder := &treeBuilder{
			features:         features,
			labels:           labels,
			numClasses:       numClasses,
			featuresPerSplit: featuresPerSplit,
			numFeatures:      numFeatures,
			rng:              rng,
		}
		builder.grow(indices)
		forest.Trees = append(forest.Trees, tree{Nodes: builder.nodes})
	}
	return forest
}

// PredictProba returns the averaged class probability distribution.
func (f *Forest) PredictProba(sample []float64) []float64 {
	proba := make([]float64, f.NumClasses)
	if len(f.Trees) == 0 {
		return proba
	}

	for i := range f.Trees {
		dist := f.Trees[i].classify(sample)
		for c := range dist {
			proba[c] += dist[c]
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba
}

// Predict returns the class with the highest averaged probability.
func (f *Forest) Predict(sample []float64) int {
	proba := f.PredictProba(sample)
	best := 0
	for c := range proba {
		if proba[c] > proba[best] {
			best = c
		}
	}
	return best
}

func (t *tree) classify(sample []float64) []float64 {
	node := 0
	for {
		n := &t.Nodes[node]
		if n.Dist != nil {
			return n.Dist
		}
		if sample[n.Feature] <= n.Threshold {
			node = n.Left
		} else {
			node = n.Right
		}
	}
}

type treeBuilder struct {
	features         [][]float64
	labels           []int
	numClasses       int
	featuresPerSplit int
	numFeatures      int
	rng              *rand.Rand
	nodes            []treeNode
}

// grow builds the tree rooted at the given sample indices. Nodes split
// until pure or until no split reduces Gini impurity.
func (b *treeBuilder) grow(indices []int) int {
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{})

	counts := b.classCounts(indices)
	if isPure(counts) || len(indices) < 2 {
		b.nodes[nodeIndex].Dist = distribution(counts, len(indices))
		return nodeIndex
	}

	feature, threshold, ok := b.bestSplit(indices, counts)
	if !ok {
		b.nodes[nodeIndex].Dist = distribution(counts, len(indices))
		return nodeIndex
	}

	var left, right []int
	for _, i := range indices {
		if b.features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		b.nodes[nodeIndex].Dist = distribution(counts, len(indices))
		return nodeIndex
	}

	b.nodes[nodeIndex].Feature = feature
	b.nodes[nodeIndex].Threshold = threshold
	b.nodes[nodeIndex].Left = b.grow(left)
	b.nodes[nodeIndex].Right = b.grow(right)
	return nodeIndex
}

// bestSplit scans a random feature subset for the threshold with the
// lowest weighted Gini impurity.
func (b *treeBuilder) bestSplit(indices []int, parentCounts []int) (int, float64, bool) {
	candidates := b.rng.Perm(b.numFeatures)
	if len(candidates) > b.featuresPerSplit {
		candidates = candidates[:b.featuresPerSplit]
	}

	parentGini := gini(parentCounts, len(indices))
	bestGini := parentGini
	bestFeature, bestThreshold := -1, 0.0

	for _, feature := range candidates {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, b.features[i][feature])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2

			leftCounts := make([]int, b.numClasses)
			rightCounts := make([]int, b.numClasses)
			leftTotal := 0
			for _, i := range indices {
				if b.features[i][feature] <= threshold {
					leftCounts[b.labels[i]]++
					leftTotal++
				} else {
					rightCounts[b.labels[i]]++
				}
			}
			rightTotal := len(indices) - leftTotal

			weighted := (float64(leftTotal)*gini(leftCounts, leftTotal) +
				float64(rightTotal)*gini(rightCounts, rightTotal)) / float64(len(indices))
			if weighted < bestGini {
				bestGini = weighted
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func (b *treeBuilder) classCounts(indices []int) []int {
	counts := make([]int, b.numClasses)
	for _, i := range indices {
		counts[b.labels[i]]++
	}
	return counts
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func distribution(counts []int, total int) []float64 {
	dist := make([]float64, len(counts))
	if total == 0 {
		return dist
	}
	for c := range counts {
		dist[c] = float64(counts[c]) / float64(total)
	}
	return dist
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package ml

import (
	"math"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

// separableSet is a tiny two-class problem split cleanly on the first
// feature.
func separableSet() ([][]float64, []int) {
	features := [][]float64{
		{0, 13, 1, 2}, {0, 14, 2, 4}, {0, 12, 3, 2}, {0, 13, 4, 6},
		{1, 20, 1, 2}, {1, 21, 2, 4}, {1, 19, 3, 2}, {1, 20, 4, 6},
	}
	labels := []int{0, 0, 0, 0, 1, 1, 1, 1}
	return features, labels
}

func TestTrainForestSeparableData(t *testing.T) {
	features, labels := separableSet()
	forest := TrainForest(features, labels, 2, 25, 42)

	for i, sample := range features {
		if got := forest.Predict(sample); got != labels[i] {
			t.Errorf("Predict(%v) = %d, want %d", sample, got, labels[i])
		}
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	features, labels := separableSet()
	forest := TrainForest(features, labels, 2, 25, 42)

	proba := forest.PredictProba([]float64{0, 13, 2, 3})
	if len(proba) != 2 {
		t.Fatalf("proba classes = %d, want 2", len(proba))
	}
	var sum float64
	for _, p := range proba {
		if p < 0 || p > 1 {
			t.Errorf("probability %g out of [0, 1]", p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("probabilities sum to %g, want 1", sum)
	}
}

func TestTrainForestDeterministic(t *testing.T) {
	features, labels := separableSet()

	a := TrainForest(features, labels, 2, 10, 42)
	b := TrainForest(features, labels, 2, 10, 42)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed should yield identical forests")
	}
}

func TestForestSurvivesSerialization(t *testing.T) {
	features, labels := separableSet()
	forest := TrainForest(features, labels, 2, 10, 42)

	data, err := json.Marshal(forest)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored := &Forest{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sample := []float64{1, 20, 2, 4}
	if restored.Predict(sample) != forest.Predict(sample) {
		t.Errorf("restored forest disagrees with the original")
	}
}

func TestSplitIndices(t *testing.T) {
	train, test := splitIndices(10, 0.2, 42)
	if len(test) != 2 || len(train) != 8 {
		t.Errorf("split = %d/%d, want 8/2", len(train), len(test))
	}

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, train...), test...) {
		if seen[i] {
			t.Errorf("index %d appears twice", i)
		}
		seen[i] = true
	}

	// Test fraction rounds up and always leaves at least one training row.
	train, test = splitIndices(3, 0.2, 42)
	if len(test) != 1 || len(train) != 2 {
		t.Errorf("split of 3 = %d/%d, want 2/1", len(train), len(test))
	}
	train, test = splitIndices(1, 0.9, 42)
	if len(train) != 1 || len(test) != 0 {
		t.Errorf("split of 1 = %d/%d, want 1/0", len(train), len(test))
	}
}

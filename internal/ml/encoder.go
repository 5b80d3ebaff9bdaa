// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package ml

import (
	"fmt"
	"sort"
)

// LabelEncoder maps categorical string labels to dense integer codes.
// Classes are stored sorted, so codes are stable across runs for the same
// label set.
//
// Out-of-vocabulary policy: Transform maps labels never seen during Fit
// to code 0, the first class in sorted order. Callers that need to
// distinguish unseen labels check the second return value.
type LabelEncoder struct {
	Classes []string `json:"classes"`

	index map[string]int
}

// Fit learns the sorted set of distinct labels.
func (e *LabelEncoder) Fit(labels []string) {
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		seen[label] = struct{}{}
	}

	e.Classes = make([]string, 0, len(seen))
	for label := range seen {
		e.Classes = append(e.Classes, label)
	}
	sort.Strings(e.Classes)
	e.buildIndex()
}

// Transform returns the code of a label. Unknown labels yield code 0 and
// false.
func (e *LabelEncoder) Transform(label string) (int, bool) {
	if e.index == nil {
		e.buildIndex()
	}
	code, ok := e.index[label]
	if !ok {
		return 0, false
	}
	return code, true
}

// Inverse returns the label of a code.
func (e *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("label code %d out of range [0, %d)", code, len(e.Classes))
	}
	return e.Classes[code], nil
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, label := range e.Classes {
		e.index[label] = i
	}
}

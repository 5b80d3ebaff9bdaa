// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package ml

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestLabelEncoderFit(t *testing.T) {
	enc := &LabelEncoder{}
	enc.Fit([]string{"pending", "confirmed", "cancelled", "confirmed", "pending"})

	want := []string{"cancelled", "confirmed", "pending"}
	if !reflect.DeepEqual(enc.Classes, want) {
		t.Errorf("Classes = %v, want %v", enc.Classes, want)
	}
}

func TestLabelEncoderTransform(t *testing.T) {
	enc := &LabelEncoder{}
	enc.Fit([]string{"cancelled", "confirmed", "pending"})

	tests := []struct {
		value    string
		wantCode int
		wantOK   bool
	}{
		{"cancelled", 0, true},
		{"confirmed", 1, true},
		{"pending", 2, true},
		{"no-show", 0, false}, // out of vocabulary maps to the default class
	}
	for _, tt := range tests {
		code, ok := enc.Transform(tt.value)
		if code != tt.wantCode || ok != tt.wantOK {
			t.Errorf("Transform(%q) = (%d, %v), want (%d, %v)", tt.value, code, ok, tt.wantCode, tt.wantOK)
		}
	}
}

func TestLabelEncoderInverse(t *testing.T) {
	enc := &LabelEncoder{}
	enc.Fit([]string{"cancelled", "confirmed"})

	status, err := enc.Inverse(1)
	if err != nil || status != "confirmed" {
		t.Errorf("Inverse(1) = (%q, %v), want (confirmed, nil)", status, err)
	}
	if _, err := enc.Inverse(5); err == nil {
		t.Errorf("Inverse out of range should fail")
	}
	if _, err := enc.Inverse(-1); err == nil {
		t.Errorf("Inverse negative should fail")
	}
}

func TestLabelEncoderSurvivesSerialization(t *testing.T) {
	enc := &LabelEncoder{}
	enc.Fit([]string{"confirmed", "cancelled"})

	data, err := json.Marshal(enc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored := &LabelEncoder{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	code, ok := restored.Transform("confirmed")
	if !ok || code != 1 {
		t.Errorf("restored Transform(confirmed) = (%d, %v), want (1, true)", code, ok)
	}
}

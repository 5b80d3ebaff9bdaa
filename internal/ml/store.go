// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package ml

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrNotTrained signals that no trained model artifacts exist yet.
var ErrNotTrained = errors.New("model has not been trained yet")

// Artifact keys. A training run replaces all three in one transaction, so
// a concurrent reader sees either the old model or the new one, never a
// mix.
const (
	keyModel             = "model"
	keyStatusEncoder     = "encoder_status"
	keyRestaurantEncoder = "encoder_restaurant"
)

// Artifacts is the persisted output of one training run.
type Artifacts struct {
	Model             *Forest
	StatusEncoder     *LabelEncoder
	RestaurantEncoder *LabelEncoder
}

// ArtifactStore persists and loads the trained-model artifacts.
type ArtifactStore interface {
	Save(artifacts *Artifacts) error
	Load() (*Artifacts, error)
	Close() error
}

// BadgerStore keeps the artifacts in an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the artifact database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening model store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Save writes all three artifacts atomically.
func (s *BadgerStore) Save(artifacts *Artifacts) error {
	entries := map[string]interface{}{
		keyModel:             artifacts.Model,
		keyStatusEncoder:     artifacts.StatusEncoder,
		keyRestaurantEncoder: artifacts.RestaurantEncoder,
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for key, value := range entries {
			data, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("encoding artifact %s: %w", key, err)
			}
			if err := txn.Set([]byte(key), data); err != nil {
				return fmt.Errorf("writing artifact %s: %w", key, err)
			}
		}
		return nil
	})
}

// Load reads all three artifacts. Returns ErrNotTrained when any of them
// is absent.
func (s *BadgerStore) Load() (*Artifacts, error) {
	artifacts := &Artifacts{
		Model:             &Forest{},
		StatusEncoder:     &LabelEncoder{},
		RestaurantEncoder: &LabelEncoder{},
	}
	targets := map[string]interface{}{
		keyModel:             artifacts.Model,
		keyStatusEncoder:     artifacts.StatusEncoder,
		keyRestaurantEncoder: artifacts.RestaurantEncoder,
	}

	err := s.db.View(func(txn *badger.Txn) error {
		for key, target := range targets {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotTrained
			}
			if err != nil {
				return fmt.Errorf("reading artifact %s: %w", key, err)
			}
			if err := item.Value(func(data []byte) error {
				return json.Unmarshal(data, target)
			}); err != nil {
				return fmt.Errorf("decoding artifact %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

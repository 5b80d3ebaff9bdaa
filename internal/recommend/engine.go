// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

// Package recommend suggests the historically most successful
// restaurant/hour combinations by clustering confirmed reservations over
// their hour-of-day demand pattern.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/foodai/internal/config"
	"github.com/tomtom215/foodai/internal/models"
	"github.com/tomtom215/foodai/internal/storage"
)

const insufficientDataMessage = "No hay suficientes datos de éxito para generar recomendaciones."

// Engine builds slot recommendations from the full reservation history.
type Engine struct {
	store storage.Store
	cfg   config.RecommendConfig
}

// NewEngine creates a recommendation engine.
func NewEngine(store storage.Store, cfg config.RecommendConfig) *Engine {
	return &Engine{store: store, cfg: cfg}
}

// slotGroup is one restaurant+hour pair with its success count.
type slotGroup struct {
	restaurantID string
	hour         int
	count        int
}

// Recommend returns the top-N restaurant/hour suggestions. A history
// without successful reservations yields an insufficient-data result, not
// an error.
func (e *Engine) Recommend(ctx context.Context, topN int) (*models.RecommendResult, error) {
	if topN < 1 {
		topN = e.cfg.TopN
	}

	reservations, err := e.store.FetchAllReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching reservation history: %w", err)
	}

	groups := successfulSlotGroups(reservations)
	if len(groups) == 0 {
		return &models.RecommendResult{Message: insufficientDataMessage}, nil
	}

	restaurants, err := e.store.FetchRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching restaurants: %w", err)
	}
	names := make(map[string]string, len(restaurants))
	for i := range restaurants {
		names[restaurants[i].ID] = restaurants[i].Name
	}

	points := make([][2]float64, len(groups))
	for i, g := range groups {
		points[i] = [2]float64{float64(g.hour), float64(g.count)}
	}

	k := e.cfg.MaxClusters
	if k > len(groups) {
		k = len(groups)
	}
	labels := kmeans(points, k, e.cfg.Restarts, int64(e.cfg.Seed))

	bestCluster := pickBestCluster(groups, labels, k)

	var (
		clusterGroups []slotGroup
		hourSum       float64
	)
	for i, g := range groups {
		if labels[i] == bestCluster {
			clusterGroups = append(clusterGroups, g)
			hourSum += float64(g.hour)
		}
	}
	bestHour := int(hourSum / float64(len(clusterGroups)))

	sort.SliceStable(clusterGroups, func(i, j int) bool {
		return clusterGroups[i].count > clusterGroups[j].count
	})
	if len(clusterGroups) > topN {
		clusterGroups = clusterGroups[:topN]
	}

	suggestions := make([]models.SlotSuggestion, 0, len(clusterGroups))
	for _, g := range clusterGroups {
		name := g.restaurantID
		if resolved, ok := names[g.restaurantID]; ok && resolved != "" {
			name = resolved
		}
		suggestions = append(suggestions, models.SlotSuggestion{
			Restaurant:             name,
			RecommendedHour:        g.hour,
			SuccessfulReservations: g.count,
		})
	}

	return &models.RecommendResult{
		Message:     "Recomendaciones generadas correctamente",
		BestHour:    bestHour,
		Suggestions: suggestions,
	}, nil
}

// successfulSlotGroups counts confirmed/completed reservations per
// restaurant+hour, ordered by count descending with deterministic
// tie-breaking.
func successfulSlotGroups(raw []models.RawReservation) []slotGroup {
	type slotKey struct {
		restaurantID string
		hour         int
	}
	counts := make(map[slotKey]int)
	for i := range raw {
		r := &raw[i]
		if !r.Has("status") || !r.Has("guests_count") || !r.Has("reservation_time") ||
			!r.Has("reservation_date") || !r.Has("restaurant_id") {
			continue
		}
		status := strings.ToLower(r.Status)
		if status != "confirmed" && status != "completed" {
			continue
		}
		counts[slotKey{r.RestaurantID, parseHour(r.ReservationTime)}]++
	}

	groups := make([]slotGroup, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, slotGroup{
			restaurantID: key.restaurantID,
			hour:         key.hour,
			count:        count,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		if groups[i].hour != groups[j].hour {
			return groups[i].hour < groups[j].hour
		}
		return groups[i].restaurantID < groups[j].restaurantID
	})
	return groups
}

// pickBestCluster selects the cluster with the highest total success
// count, mean hour breaking ties toward earlier hours.
func pickBestCluster(groups []slotGroup, labels []int, k int) int {
	totals := make([]int, k)
	hourSums := make([]float64, k)
	sizes := make([]int, k)
	for i, g := range groups {
		totals[labels[i]] += g.count
		hourSums[labels[i]] += float64(g.hour)
		sizes[labels[i]]++
	}

	best := -1
	bestMeanHour := math.Inf(1)
	for c := 0; c < k; c++ {
		if sizes[c] == 0 {
			continue
		}
		meanHour := hourSums[c] / float64(sizes[c])
		if best < 0 || totals[c] > totals[best] ||
			(totals[c] == totals[best] && meanHour < bestMeanHour) {
			best = c
			bestMeanHour = meanHour
		}
	}
	return best
}

func parseHour(clock string) int {
	clock = strings.TrimSpace(clock)
	if len(clock) > 8 {
		clock = clock[:8]
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if ts, err := time.Parse(layout, clock); err == nil {
			return ts.Hour()
		}
	}
	return 0
}

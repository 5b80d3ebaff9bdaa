// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// spanishWeekdays maps ISO weekday indexes (Monday=0) to display names.
var spanishWeekdays = [7]string{
	"Lunes",
	"Martes",
	"Miércoles",
	"Jueves",
	"Viernes",
	"Sábado",
	"Domingo",
}

// isoWeekday converts Go's Sunday-based weekday to Monday=0.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// hourLabel renders an hour as the "HH:00" slot label used throughout the
// report.
func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// quantile computes the q-quantile with linear interpolation between the
// two nearest order statistics.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// ewma applies exponentially-weighted smoothing with the recursive form
// s[t] = (1-alpha)*s[t-1] + alpha*x[t], seeded with s[0] = x[0].
func ewma(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)

	smoothed := make([]float64, len(values))
	smoothed[0] = values[0]
	for i := 1; i < len(values); i++ {
		smoothed[i] = (1-alpha)*smoothed[i-1] + alpha*values[i]
	}
	return smoothed
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// formatThousands renders a rounded amount with comma thousands
// separators and no decimals, for the currency messages.
func formatThousands(v float64) string {
	rounded := int64(math.Round(v))
	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	digits := fmt.Sprintf("%d", rounded)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, ",")
	if negative {
		return "-" + out
	}
	return out
}

// monthKey identifies a calendar month.
type monthKey struct {
	Year  int
	Month time.Month
}

func monthOf(t time.Time) monthKey {
	return monthKey{Year: t.Year(), Month: t.Month()}
}

func (m monthKey) before(other monthKey) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// prev returns the preceding calendar month.
func (m monthKey) prev() monthKey {
	if m.Month == time.January {
		return monthKey{Year: m.Year - 1, Month: time.December}
	}
	return monthKey{Year: m.Year, Month: m.Month - 1}
}

// next returns the following calendar month.
func (m monthKey) next() monthKey {
	if m.Month == time.December {
		return monthKey{Year: m.Year + 1, Month: time.January}
	}
	return monthKey{Year: m.Year, Month: m.Month + 1}
}

func (m monthKey) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// sortedMonths returns the keys of a per-month map in chronological order.
func sortedMonths[V any](byMonth map[monthKey]V) []monthKey {
	months := make([]monthKey, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].before(months[j]) })
	return months
}

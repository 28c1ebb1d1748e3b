// Package metrics holds the dashboard's room records and the small
// filter/aggregation glue that feeds the animated counters. The data is a
// fixed in-memory snapshot; the dashboard animates transitions between
// snapshots, it never fetches or persists anything.
package metrics

import (
	"strings"
	"time"
)

// Room is one dashboard row: a named consumer of the API with its usage
// counters. DailyUsage holds the last seven days, oldest first.
type Room struct {
	ID             string
	Name           string
	APICalls       int
	QuotaRemaining int
	LastLogin      time.Time
	DailyUsage     [7]int
}

// Summary aggregates a set of rooms for the stat cards.
type Summary struct {
	TotalAPICalls int
	TotalQuota    int
	MaxDailyUsage int
	AvgAPICalls   float64
}

// Summarize reduces rooms in a single linear pass.
func Summarize(rooms []Room) Summary {
	var s Summary
	for _, r := range rooms {
		s.TotalAPICalls += r.APICalls
		s.TotalQuota += r.QuotaRemaining
		for _, u := range r.DailyUsage {
			if u > s.MaxDailyUsage {
				s.MaxDailyUsage = u
			}
		}
	}
	if len(rooms) > 0 {
		s.AvgAPICalls = float64(s.TotalAPICalls) / float64(len(rooms))
	}
	return s
}

// Filter returns the rooms matching keep, preserving order.
func Filter(rooms []Room, keep func(Room) bool) []Room {
	var out []Room
	for _, r := range rooms {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// MatchName matches rooms whose name contains query, case-insensitively.
func MatchName(query string) func(Room) bool {
	q := strings.ToLower(query)
	return func(r Room) bool {
		return strings.Contains(strings.ToLower(r.Name), q)
	}
}

// ChartPoint is the triple the external charting library consumes per
// update.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	ID    string  `json:"id"`
}

// ChartPoints projects rooms into chart data, one point per room, keyed on
// API calls.
func ChartPoints(rooms []Room) []ChartPoint {
	points := make([]ChartPoint, 0, len(rooms))
	for _, r := range rooms {
		points = append(points, ChartPoint{
			Name:  r.Name,
			Value: float64(r.APICalls),
			ID:    r.ID,
		})
	}
	return points
}

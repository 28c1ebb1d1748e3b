package metrics

import "time"

// MockRooms returns the fixed dataset the dashboard displays. Timestamps
// are pinned so repeated runs render identically.
func MockRooms() []Room {
	return []Room{
		{
			ID:             "room-ops",
			Name:           "Operations",
			APICalls:       128934,
			QuotaRemaining: 71066,
			LastLogin:      time.Date(2026, 8, 30, 17, 42, 0, 0, time.UTC),
			DailyUsage:     [7]int{14200, 15880, 13350, 18940, 21010, 22410, 23144},
		},
		{
			ID:             "room-research",
			Name:           "Research",
			APICalls:       86411,
			QuotaRemaining: 113589,
			LastLogin:      time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC),
			DailyUsage:     [7]int{9100, 11020, 12890, 12340, 13980, 13560, 13521},
		},
		{
			ID:             "room-support",
			Name:           "Support",
			APICalls:       45120,
			QuotaRemaining: 154880,
			LastLogin:      time.Date(2026, 8, 29, 22, 5, 0, 0, time.UTC),
			DailyUsage:     [7]int{5200, 6430, 6120, 7010, 6890, 6740, 6730},
		},
		{
			ID:             "room-billing",
			Name:           "Billing",
			APICalls:       20985,
			QuotaRemaining: 179015,
			LastLogin:      time.Date(2026, 8, 28, 11, 30, 0, 0, time.UTC),
			DailyUsage:     [7]int{2890, 3010, 2740, 3360, 3120, 2950, 2915},
		},
		{
			ID:             "room-sandbox",
			Name:           "Sandbox",
			APICalls:       7312,
			QuotaRemaining: 192688,
			LastLogin:      time.Date(2026, 8, 31, 6, 50, 0, 0, time.UTC),
			DailyUsage:     [7]int{640, 880, 1210, 990, 1330, 1150, 1112},
		},
	}
}

package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNextMarketClose(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("America/New_York timezone unavailable: %v", err)
	}

	tests := []struct {
		name     string
		now      time.Time
		expected time.Duration
	}{
		{
			name:     "weekday morning waits for same-day close",
			now:      time.Date(2024, 3, 13, 10, 0, 0, 0, ny), // Wednesday
			expected: 6 * time.Hour,
		},
		{
			name:     "weekday after close waits for next day",
			now:      time.Date(2024, 3, 13, 17, 30, 0, 0, ny),
			expected: 22*time.Hour + 30*time.Minute,
		},
		{
			name:     "exactly at close rolls to next day",
			now:      time.Date(2024, 3, 13, 16, 0, 0, 0, ny),
			expected: 24 * time.Hour,
		},
		{
			name:     "friday after close skips the weekend",
			now:      time.Date(2024, 3, 15, 18, 0, 0, 0, ny),
			expected: 70 * time.Hour,
		},
		{
			name:     "saturday waits for monday",
			now:      time.Date(2024, 3, 16, 12, 0, 0, 0, ny),
			expected: 52 * time.Hour,
		},
		{
			name:     "input in another zone",
			now:      time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC), // 10:00 EDT
			expected: 6 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TimeUntilNextMarketClose(tt.now)
			if got != tt.expected {
				t.Errorf("TimeUntilNextMarketClose(%v) = %v, expected %v", tt.now, got, tt.expected)
			}
		})
	}
}

func TestTimeUntilNextMarketClose_AlwaysPositive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	for i := 0; i < 7*24; i++ {
		d := TimeUntilNextMarketClose(now.Add(time.Duration(i) * time.Hour))
		if d <= 0 || d > 4*24*time.Hour {
			t.Errorf("hour %d: unexpected duration %v", i, d)
		}
	}
}

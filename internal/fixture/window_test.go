package fixture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestEffectiveEnd(t *testing.T) {
	end := at(10, 30)
	assert.Equal(t, end, EffectiveEnd(at(9, 0), &end))
	assert.Equal(t, at(12, 0), EffectiveEnd(at(9, 0), nil))
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name             string
		startA, endA     time.Time
		startB, endB     time.Time
		expectedOverlaps bool
	}{
		{"partial overlap", at(10, 0), at(12, 0), at(11, 0), at(13, 0), true},
		{"touching windows", at(10, 0), at(12, 0), at(12, 0), at(14, 0), false},
		{"contained", at(9, 0), at(12, 0), at(11, 0), at(11, 30), true},
		{"identical", at(10, 0), at(12, 0), at(10, 0), at(12, 0), true},
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedOverlaps, Overlaps(tc.startA, tc.endA, tc.startB, tc.endB))
			assert.Equal(t, tc.expectedOverlaps, Overlaps(tc.startB, tc.endB, tc.startA, tc.endA), "overlap must be symmetric")
		})
	}
}

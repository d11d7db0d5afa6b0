package fixture

import "time"

// DefaultMatchDuration is assumed for any match or proposal without an explicit end.
const DefaultMatchDuration = 3 * time.Hour

// EffectiveEnd returns end when set, otherwise start plus DefaultMatchDuration.
func EffectiveEnd(start time.Time, end *time.Time) time.Time {
	if end != nil {
		return *end
	}
	return start.Add(DefaultMatchDuration)
}

// Overlaps reports whether the half-open windows [startA, endA) and [startB, endB) intersect.
// Windows that only touch do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

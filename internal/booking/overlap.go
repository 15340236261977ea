package booking

import "time"

// Overlaps reports whether [aStart, aEnd] intersects [bStart, bEnd].
// Boundaries are inclusive: a booking ending on the day another starts
// still counts as a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !aStart.After(bEnd)
}

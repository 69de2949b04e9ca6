package scheduling

import "time"

// FindConflict returns the first booking, in the order given, that overlaps
// [start, end). Bookings that merely touch the interval are not conflicts.
func FindConflict(start, end time.Time, bookings []Booking) (Booking, bool) {
	for _, b := range bookings {
		if b.Overlaps(start, end) {
			return b, true
		}
	}
	return Booking{}, false
}

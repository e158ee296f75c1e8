package booking

import "time"

// Summary holds the bookings shown on an item's detail view: the most
// recent one already begun and the soonest one yet to begin.
type Summary struct {
	Last *Booking
	Next *Booking
}

// Summarize derives the last/next booking from a list of approved bookings
// sorted ascending by start, in a single forward scan. A booking starting
// exactly at now counts as last, never next.
func Summarize(approved []*Booking, now time.Time) Summary {
	var s Summary
	for _, b := range approved {
		if !b.Start().After(now) {
			s.Last = b
			continue
		}
		if s.Next == nil {
			s.Next = b
		}
	}
	return s
}

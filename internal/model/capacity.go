package model

import (
	"math"
	"time"
)

// RemainingPlaces is the single capacity formula used by every read and
// write path: capacity minus active reservations, floored at zero.
func RemainingPlaces(capacity, activeReservations int) int {
	return max(0, capacity-activeReservations)
}

// CountActive counts the statuses that hold a seat.
func CountActive(statuses []ReservationStatus) int {
	n := 0
	for _, s := range statuses {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// FillRate returns round(100 * reserved / capacity), 0 when capacity is 0.
func FillRate(reserved, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(reserved) / float64(capacity) * 100))
}

// SummarizeUpcoming computes admin stats over published events after now.
// Events must carry their ActiveReservations count.
func SummarizeUpcoming(events []*Event, now time.Time) EventStats {
	var stats EventStats
	totalCapacity, totalReserved := 0, 0
	for _, e := range events {
		if e.Status != EventStatusPublished || !e.DateTime.After(now) {
			continue
		}
		stats.UpcomingCount++
		totalCapacity += e.Capacity
		totalReserved += e.ActiveReservations
	}
	stats.FillRate = FillRate(totalReserved, totalCapacity)
	return stats
}

// Package layout computes how reservations are drawn on a room-day grid.
// Nothing here affects what can be booked.
package layout

import (
	"sort"
	"time"
)

// Timed is anything with a half-open [start, end) interval.
type Timed interface {
	Bounds() (start, end time.Time)
}

// Placement is an item with its lane and the number of lanes it shares
// its width with.
type Placement[T Timed] struct {
	Item      T   `json:"item"`
	Lane      int `json:"lane"`
	LaneCount int `json:"laneCount"`
}

// AssignLanes places items into non-overlapping lanes.  Items are walked in
// start order (ties keep input order); each takes the smallest lane free
// among the items still running when it starts.  LaneCount is the largest
// number of simultaneously running items seen while the item was running.
// The result is in input order.
func AssignLanes[T Timed](items []T) []Placement[T] {
	out := make([]Placement[T], len(items))
	order := make([]int, len(items))
	for i, it := range items {
		out[i] = Placement[T]{Item: it, LaneCount: 1}
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, _ := items[order[a]].Bounds()
		sb, _ := items[order[b]].Bounds()
		return sa.Before(sb)
	})

	var active []running

	for _, idx := range order {
		start, end := items[idx].Bounds()

		kept := active[:0]
		for _, r := range active {
			if r.end.After(start) {
				kept = append(kept, r)
			}
		}
		active = kept

		lane := 0
		for laneTaken(active, lane) {
			lane++
		}
		out[idx].Lane = lane
		active = append(active, running{lane: lane, end: end, index: idx})

		for _, r := range active {
			if out[r.index].LaneCount < len(active) {
				out[r.index].LaneCount = len(active)
			}
		}
	}
	return out
}

type running struct {
	lane  int
	end   time.Time
	index int
}

func laneTaken(active []running, lane int) bool {
	for _, r := range active {
		if r.lane == lane {
			return true
		}
	}
	return false
}

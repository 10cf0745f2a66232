package event

import "sort"

// Filter keeps events whose start date falls within the inclusive
// [start, end] bounds (nil bounds are open) and, when purchasedOnly is set,
// whose tickets are purchased. The result is ordered by start date, ties
// broken by start time with all-day events first; the sort is stable so
// exact duplicates keep their source order.
func Filter(events []Event, start, end *Date, purchasedOnly bool) []Event {
	var kept []Event
	for _, e := range events {
		if start != nil && e.StartDate.Before(*start) {
			continue
		}
		if end != nil && e.StartDate.After(*end) {
			continue
		}
		if purchasedOnly && !e.Purchased {
			continue
		}
		kept = append(kept, e)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.StartDate != b.StartDate {
			return a.StartDate.Before(b.StartDate)
		}
		switch {
		case a.StartTime == nil && b.StartTime == nil:
			return false
		case a.StartTime == nil:
			return true
		case b.StartTime == nil:
			return false
		default:
			return a.StartTime.Before(*b.StartTime)
		}
	})

	return kept
}

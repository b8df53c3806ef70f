package appointments

import "time"

// Tab is a dashboard filter bucket. Every appointment lands in exactly one
// tab, so the tab counts always sum to the full list.
type Tab string

const (
	TabUpcoming  Tab = "upcoming"
	TabToday     Tab = "today"
	TabPast      Tab = "past"
	TabCancelled Tab = "cancelled"
)

// ValidTab reports whether s names a filter bucket.
func ValidTab(s string) bool {
	switch Tab(s) {
	case TabUpcoming, TabToday, TabPast, TabCancelled:
		return true
	}
	return false
}

// TabOf buckets one appointment relative to the given day. Completed
// appointments count as past regardless of their date, even when dated
// today or in the future.
func TabOf(a *Appointment, today time.Time) Tab {
	if a.Status == StatusCancelled {
		return TabCancelled
	}
	if a.Status == StatusCompleted {
		return TabPast
	}

	day := truncateToDay(a.Date)
	ref := truncateToDay(today)
	switch {
	case day.Before(ref):
		return TabPast
	case day.Equal(ref):
		return TabToday
	default:
		return TabUpcoming
	}
}

// Partition splits appointments into tab buckets, preserving input order
// within each bucket.
func Partition(list []*Appointment, today time.Time) map[Tab][]*Appointment {
	out := map[Tab][]*Appointment{
		TabUpcoming:  {},
		TabToday:     {},
		TabPast:      {},
		TabCancelled: {},
	}
	for _, a := range list {
		tab := TabOf(a, today)
		out[tab] = append(out[tab], a)
	}
	return out
}

// Counts returns the size of each tab bucket.
func Counts(list []*Appointment, today time.Time) map[Tab]int {
	counts := map[Tab]int{
		TabUpcoming:  0,
		TabToday:     0,
		TabPast:      0,
		TabCancelled: 0,
	}
	for _, a := range list {
		counts[TabOf(a, today)]++
	}
	return counts
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

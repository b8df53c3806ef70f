package schedule

// SlotDurationMinutes is the fixed length of every bookable slot.
const SlotDurationMinutes = 30

// Catalog returns the fixed ordered list of bookable start times for a
// calendar day: half-hour slots from 09:00 with a 12:00-14:00 lunch gap.
func Catalog() []string {
	return []string{
		"09:00", "09:30",
		"10:00", "10:30",
		"11:00", "11:30",
		"14:00", "14:30",
		"15:00", "15:30",
		"16:00", "16:30",
	}
}

// EndTime derives a slot's end from its start using the fixed duration.
func EndTime(start string) (string, error) {
	return AddMinutes(start, SlotDurationMinutes)
}

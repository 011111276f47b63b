package model

import "fmt"

// Period is a (day, time-slot) coordinate of the weekly grid. Both attributes are 1-based
type Period struct {
	Day      int
	TimeSlot int
}

func NewPeriod(day, timeSlot int) Period {
	return Period{Day: day, TimeSlot: timeSlot}
}

func (period Period) String() string {
	return fmt.Sprintf("(%d,%d)", period.Day, period.TimeSlot)
}

func (period Period) Equal(other Period) bool {
	return period.Day == other.Day && period.TimeSlot == other.TimeSlot
}

// Compare orders periods by day first and time-slot second
func (period Period) Compare(other Period) int {
	if period.Day != other.Day {
		if period.Day < other.Day {
			return -1
		}
		return 1
	}
	if period.TimeSlot < other.TimeSlot {
		return -1
	} else if period.TimeSlot > other.TimeSlot {
		return 1
	}
	return 0
}

// Consecutive checks whether both periods share the day and their time-slots differ by one
func (period Period) Consecutive(other Period) bool {
	diff := period.TimeSlot - other.TimeSlot
	return period.Day == other.Day && (diff == 1 || diff == -1)
}

// Index returns the zero-based position of the period in a grid of slotsPerDay time-slots per day
func (period Period) Index(slotsPerDay int) int {
	return (period.Day-1)*slotsPerDay + period.TimeSlot - 1
}

// Next returns the following period of the same day, if any
func (period Period) Next(slotsPerDay int) (Period, bool) {
	if period.TimeSlot >= slotsPerDay {
		return Period{}, false
	}
	return Period{Day: period.Day, TimeSlot: period.TimeSlot + 1}, true
}

// Previous returns the preceding period of the same day, if any
func (period Period) Previous() (Period, bool) {
	if period.TimeSlot <= 1 {
		return Period{}, false
	}
	return Period{Day: period.Day, TimeSlot: period.TimeSlot - 1}, true
}

func (period Period) Valid(days, slotsPerDay int) bool {
	return period.Day >= 1 && period.Day <= days && period.TimeSlot >= 1 && period.TimeSlot <= slotsPerDay
}

// Periods enumerates every period of a week ordered by (day, time-slot)
func Periods(days, slotsPerDay int) []Period {
	periods := make([]Period, 0, days*slotsPerDay)
	for day := 1; day <= days; day++ {
		for slot := 1; slot <= slotsPerDay; slot++ {
			periods = append(periods, Period{Day: day, TimeSlot: slot})
		}
	}
	return periods
}

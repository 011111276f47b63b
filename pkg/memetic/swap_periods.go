package memetic

import (
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
)

// SwapRetryBudget is the default number of random draws a swapping structure makes before giving up
const SwapRetryBudget = 100

// SwapPeriods exchanges the whole assignment lists of two periods
type SwapPeriods struct {
	RetryBudget int
}

func (SwapPeriods) Name() string {
	return "swap-periods"
}

func (swap SwapPeriods) Apply(timetable *model.Timetable, scope Scope) {
	periods := scope.Semester.Periods()
	for range swap.RetryBudget {
		period1, period2 := periods[scope.Rand.IntN(len(periods))], periods[scope.Rand.IntN(len(periods))]
		if period1 == period2 || !swappable(timetable, period1) || !swappable(timetable, period2) ||
			lecturesSameDayAfterSwap(timetable, period1, period2) {
			continue
		}

		timetable.SwapPeriods(period1, period2)
		if periodLegal(timetable, period1, scope.Oracle) && periodLegal(timetable, period2, scope.Oracle) {
			return
		}
		timetable.SwapPeriods(period1, period2) // Revert, e.g. a teacher is unavailable in the other period
	}
}

// A period can be swapped when it holds neither pre-assigned nor double sessions
func swappable(timetable *model.Timetable, period model.Period) bool {
	return !lo.SomeBy(timetable.Assignments(period), func(assignment model.Assignment) bool {
		return assignment.Session.PreAssigned() || assignment.Session.Double
	})
}

// Checks whether moving the lectures of each period into the other period's day would put two lectures of a course on the same day
func lecturesSameDayAfterSwap(timetable *model.Timetable, period1, period2 model.Period) bool {
	if period1.Day == period2.Day {
		return false
	}
	return lectureOnDay(timetable, timetable.Assignments(period1), period2) || lectureOnDay(timetable, timetable.Assignments(period2), period1)
}

// Checks whether any lecture of the moving assignments shares its course with a lecture held on the destination's day (the destination itself excluded)
func lectureOnDay(timetable *model.Timetable, moving []model.Assignment, destination model.Period) bool {
	for _, assignment := range moving {
		if !assignment.Session.Lecture {
			continue
		}
		for slot := 1; slot <= timetable.SlotsPerDay(); slot++ {
			if slot == destination.TimeSlot {
				continue
			}
			if lo.SomeBy(timetable.Assignments(model.NewPeriod(destination.Day, slot)), func(other model.Assignment) bool {
				return other.Session.Lecture && other.Session.Course == assignment.Session.Course
			}) {
				return true
			}
		}
	}
	return false
}

package memetic

import (
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
)

// SwapRooms exchanges the rooms of two single internal sessions held in the same period
type SwapRooms struct {
	RetryBudget int
}

func (SwapRooms) Name() string {
	return "swap-rooms"
}

func (swap SwapRooms) Apply(timetable *model.Timetable, scope Scope) {
	periods := scope.Semester.Periods()
	for range swap.RetryBudget {
		period := periods[scope.Rand.IntN(len(periods))]
		candidates := lo.Filter(timetable.Assignments(period), func(assignment model.Assignment, _ int) bool {
			return !assignment.Session.External() && !assignment.Session.Double
		})
		if len(candidates) < 2 {
			continue
		}

		i, j := scope.Rand.IntN(len(candidates)), scope.Rand.IntN(len(candidates)-1)
		if j >= i {
			j++
		}
		assignment1, assignment2 := candidates[i], candidates[j]
		if !scope.Index.Suitable(assignment1.Session, assignment2.Room) || !scope.Index.Suitable(assignment2.Session, assignment1.Room) {
			continue
		}

		swapped1 := model.Assignment{Session: assignment1.Session, Room: assignment2.Room}
		swapped2 := model.Assignment{Session: assignment2.Session, Room: assignment1.Room}
		timetable.Replace(period, assignment1, swapped1)
		timetable.Replace(period, assignment2, swapped2)
		if periodLegal(timetable, period, scope.Oracle) {
			return
		}
		timetable.Replace(period, swapped1, assignment1)
		timetable.Replace(period, swapped2, assignment2)
	}
}

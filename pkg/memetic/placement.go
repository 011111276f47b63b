package memetic

import (
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
)

// placeSession tries the periods in the given order and, within a period, the session's suitable rooms in random order.
// The first (period, room) whose every occupied period is free and legal is taken. It reports whether the session was placed
func placeSession(timetable *model.Timetable, session *model.Session, periods []model.Period, scope Scope) bool {
	for _, start := range periods {
		occupied, ok := session.Occupies(start, scope.Semester.TimeSlotsPerDay)
		if !ok {
			continue // Second half would cross past the last slot of the day
		}
		for _, room := range shuffled(scope.Rand, scope.Index.SuitableRooms(session)) {
			assignment := model.Assignment{Session: session, Room: room}
			if !lo.EveryBy(occupied, func(period model.Period) bool {
				return timetable.RoomFree(room, period) && len(scope.Oracle.HardViolations(timetable, period, assignment)) == 0
			}) {
				continue
			}
			for _, period := range occupied {
				if err := timetable.Add(period, assignment); err != nil {
					implementationPanicf("cannot add a checked placement: %v", err)
				}
			}
			return true
		}
	}
	return false
}

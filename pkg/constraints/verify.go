package constraints

import (
	"errors"
	"fmt"

	"github.com/limaJavier/memetic-timetabling/pkg/model"
)

var ErrInfeasible = errors.New("timetable is infeasible")

// Verify checks a complete timetable against the semester and returns every problem found, each wrapping ErrInfeasible.
// A nil result means the timetable is feasible
func Verify(timetable *model.Timetable, semester *model.Semester, oracle Oracle) []error {
	problems := make([]error, 0)
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: %v", ErrInfeasible, fmt.Sprintf(format, args...)))
	}

	//** Check every assignment is legal
	placed := make(map[*model.Session][]model.Placement)
	rooms := make(map[[2]int]bool) // Room index x period index
	timetable.ForEach(func(period model.Period, assignment model.Assignment) {
		key := [2]int{assignment.Room.Index, period.Index(semester.TimeSlotsPerDay)}
		if rooms[key] {
			report("room %v hosts more than one session at %v", assignment.Room, period)
		}
		rooms[key] = true

		for _, violation := range oracle.HardViolations(timetable, period, assignment) {
			report("%v at %v violates %v", assignment, period, violation)
		}
		placed[assignment.Session] = append(placed[assignment.Session], model.Placement{Period: period, Assignment: assignment})
	})

	//** Check every session is placed exactly as required
	for _, session := range semester.Sessions() {
		placements := placed[session]
		if len(placements) != session.Placements() {
			report("session %v has %d assignments instead of %d", session, len(placements), session.Placements())
			continue
		}
		if session.Double {
			first, second := placements[0], placements[1]
			if !first.Period.Consecutive(second.Period) || first.Assignment.Room != second.Assignment.Room {
				report("double session %v is split between %v@%v and %v@%v", session, first.Period, first.Assignment.Room, second.Period, second.Assignment.Room)
			}
		}
		if session.PreAssigned() && !placements[0].Period.Equal(*session.FixedPeriod) {
			report("session %v starts at %v instead of its pre-assignment %v", session, placements[0].Period, *session.FixedPeriod)
		}
		if session.External() && placements[0].Assignment.Room != session.FixedRoom {
			report("external session %v is not in its room %v", session, session.FixedRoom)
		}
	}
	for session := range placed {
		if session.Index >= len(semester.Sessions()) || semester.Sessions()[session.Index] != session {
			report("session %v does not belong to the semester", session)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

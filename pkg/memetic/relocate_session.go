package memetic

import (
	"github.com/limaJavier/memetic-timetabling/pkg/model"
)

// RelocateSession removes a random movable session and places it again over a freshly shuffled period list
type RelocateSession struct{}

func (RelocateSession) Name() string {
	return "relocate-session"
}

func (RelocateSession) Apply(timetable *model.Timetable, scope Scope) {
	movable := make([]model.Assignment, 0, timetable.Size())
	timetable.ForEach(func(_ model.Period, assignment model.Assignment) {
		if !assignment.Session.PreAssigned() {
			movable = append(movable, assignment)
		}
	})
	if len(movable) == 0 {
		return
	}

	session := movable[scope.Rand.IntN(len(movable))].Session
	removed := timetable.RemoveSession(session)
	if len(removed) != session.Placements() {
		implementationPanicf("session %v had %d assignments instead of %d", session, len(removed), session.Placements())
	}

	// The freed slot is always a candidate, failing here means the timetable was not feasible
	if !placeSession(timetable, session, shuffled(scope.Rand, scope.Semester.Periods()), scope) {
		implementationPanicf("no slot was found for relocated session %v", session)
	}
}

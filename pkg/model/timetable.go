package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

var ErrRoomOccupied = errors.New("room is already occupied in the period")

// Assignment places a session in a room. The period is given by the timetable slot holding it
type Assignment struct {
	Session *Session
	Room    *Room
}

func (assignment Assignment) String() string {
	return fmt.Sprintf("%v@%v", assignment.Session, assignment.Room)
}

// Placement is an assignment together with the period it occupies
type Placement struct {
	Period     Period
	Assignment Assignment
}

// Timetable is a weekly grid mapping every period to its ordered assignments.
// Operators that need a modified variant work on a Clone, parents are never mutated in place
type Timetable struct {
	Name                  string
	SoftConstraintPenalty float64

	days        int
	slotsPerDay int
	periods     [][]Assignment // Indexed by Period.Index
}

func NewTimetable(days, slotsPerDay int) *Timetable {
	return &Timetable{
		days:        days,
		slotsPerDay: slotsPerDay,
		periods:     make([][]Assignment, days*slotsPerDay),
	}
}

func (timetable *Timetable) Days() int {
	return timetable.days
}

func (timetable *Timetable) SlotsPerDay() int {
	return timetable.slotsPerDay
}

func (timetable *Timetable) Periods() []Period {
	return Periods(timetable.days, timetable.slotsPerDay)
}

func (timetable *Timetable) slot(period Period) int {
	if !period.Valid(timetable.days, timetable.slotsPerDay) {
		panic(fmt.Sprintf("period %v is outside of the %dx%d timetable", period, timetable.days, timetable.slotsPerDay))
	}
	return period.Index(timetable.slotsPerDay)
}

// Assignments returns the assignments at the given period. The slice must not be modified by the caller
func (timetable *Timetable) Assignments(period Period) []Assignment {
	return timetable.periods[timetable.slot(period)]
}

func (timetable *Timetable) RoomFree(room *Room, period Period) bool {
	return !lo.SomeBy(timetable.Assignments(period), func(assignment Assignment) bool {
		return assignment.Room == room
	})
}

// Add appends the assignment at the period, a room can host at most one assignment per period
func (timetable *Timetable) Add(period Period, assignment Assignment) error {
	if !timetable.RoomFree(assignment.Room, period) {
		return fmt.Errorf("cannot add %v at %v: %w", assignment, period, ErrRoomOccupied)
	}
	index := timetable.slot(period)
	timetable.periods[index] = append(timetable.periods[index], assignment)
	return nil
}

// Remove deletes the first occurrence of the assignment at the period and reports whether it was found
func (timetable *Timetable) Remove(period Period, assignment Assignment) bool {
	index := timetable.slot(period)
	position := slices.Index(timetable.periods[index], assignment)
	if position < 0 {
		return false
	}
	timetable.periods[index] = slices.Delete(timetable.periods[index], position, position+1)
	return true
}

// Contains checks whether the session has an assignment at the period
func (timetable *Timetable) Contains(period Period, session *Session) bool {
	return lo.SomeBy(timetable.Assignments(period), func(assignment Assignment) bool {
		return assignment.Session == session
	})
}

// Placements returns every placement of the session ordered by period
func (timetable *Timetable) Placements(session *Session) []Placement {
	placements := make([]Placement, 0, 2)
	timetable.ForEach(func(period Period, assignment Assignment) {
		if assignment.Session == session {
			placements = append(placements, Placement{Period: period, Assignment: assignment})
		}
	})
	return placements
}

// RemoveSession deletes every assignment of the session and returns the removed placements
func (timetable *Timetable) RemoveSession(session *Session) []Placement {
	placements := timetable.Placements(session)
	for _, placement := range placements {
		timetable.Remove(placement.Period, placement.Assignment)
	}
	return placements
}

// ForEach visits every assignment ordered by period
func (timetable *Timetable) ForEach(visit func(period Period, assignment Assignment)) {
	for _, period := range timetable.Periods() {
		for _, assignment := range timetable.periods[period.Index(timetable.slotsPerDay)] {
			visit(period, assignment)
		}
	}
}

// Size is the total number of assignments
func (timetable *Timetable) Size() int {
	return lo.SumBy(timetable.periods, func(assignments []Assignment) int { return len(assignments) })
}

// SwapPeriods exchanges the full assignment lists of both periods
func (timetable *Timetable) SwapPeriods(a, b Period) {
	indexA, indexB := timetable.slot(a), timetable.slot(b)
	timetable.periods[indexA], timetable.periods[indexB] = timetable.periods[indexB], timetable.periods[indexA]
}

// Replace substitutes the assignment at the period keeping its position in the period
func (timetable *Timetable) Replace(period Period, old, replacement Assignment) bool {
	index := timetable.slot(period)
	position := slices.Index(timetable.periods[index], old)
	if position < 0 {
		return false
	}
	timetable.periods[index][position] = replacement
	return true
}

// Clone deep-copies the grid so that no assignment list is shared with the receiver
func (timetable *Timetable) Clone() *Timetable {
	clone := &Timetable{
		Name:                  timetable.Name,
		SoftConstraintPenalty: timetable.SoftConstraintPenalty,
		days:                  timetable.days,
		slotsPerDay:           timetable.slotsPerDay,
		periods:               make([][]Assignment, len(timetable.periods)),
	}
	for i, assignments := range timetable.periods {
		if len(assignments) > 0 {
			clone.periods[i] = slices.Clone(assignments)
		}
	}
	return clone
}

// Equal compares the assignments of both timetables period by period, ignoring name and penalty
func (timetable *Timetable) Equal(other *Timetable) bool {
	if timetable.days != other.days || timetable.slotsPerDay != other.slotsPerDay {
		return false
	}
	for i := range timetable.periods {
		if !slices.Equal(timetable.periods[i], other.periods[i]) {
			return false
		}
	}
	return true
}

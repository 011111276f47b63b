package constraints

import (
	"errors"
	"fmt"
	"slices"

	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
)

var ErrUnrealizablePreAssignment = errors.New("pre-assignments violate a hard constraint")

// PreAssignmentError is a hard constraint broken by a pre-assigned session alone (Other is nil) or together with another pre-assigned session
type PreAssignmentError struct {
	Session    *model.Session
	Other      *model.Session
	Period     model.Period
	Constraint model.ConstraintType
}

func (err *PreAssignmentError) Error() string {
	if err.Other == nil {
		return fmt.Sprintf("%v: %v at %v violates %v", ErrUnrealizablePreAssignment, err.Session, err.Period, err.Constraint)
	}
	return fmt.Sprintf("%v: %v and %v at %v violate %v", ErrUnrealizablePreAssignment, err.Session, err.Other, err.Period, err.Constraint)
}

func (err *PreAssignmentError) Unwrap() error {
	return ErrUnrealizablePreAssignment
}

var clashes = []struct {
	reason     model.Relation
	constraint model.ConstraintType
}{
	{model.SharedTeacher, model.TeacherClash},
	{model.SharedCurriculum, model.CurriculumClash},
	{model.SameCourse, model.CourseClash},
}

// PreAssignments checks the fixed periods against teacher availability and against each other (collisions and lectures of a course on one day).
// Every problem is reported, joined
func PreAssignments(semester *model.Semester, index model.ConflictIndex) error {
	type fixed struct {
		session *model.Session
		periods []model.Period
	}

	pinned := make([]fixed, 0)
	for _, session := range semester.Sessions() {
		if !session.PreAssigned() {
			continue
		}
		periods, ok := session.Occupies(*session.FixedPeriod, semester.TimeSlotsPerDay)
		if !ok {
			return fmt.Errorf("%w: double session %v is pre-assigned to the last time-slot of the day", ErrUnrealizablePreAssignment, session)
		}
		pinned = append(pinned, fixed{session: session, periods: periods})
	}

	problems := make([]error, 0)
	for i, current := range pinned {
		for _, period := range current.periods {
			if index.Unavailable(current.session.Teacher, period) {
				problems = append(problems, &PreAssignmentError{Session: current.session, Period: period, Constraint: model.TeacherUnavailable})
			}
		}

		for _, other := range pinned[i+1:] {
			session1, session2 := current.session, other.session
			if session1.Lecture && session2.Lecture && session1.Course == session2.Course && current.periods[0].Day == other.periods[0].Day {
				problems = append(problems, &PreAssignmentError{Session: session1, Other: session2, Period: current.periods[0], Constraint: model.LecturesSameDay})
			}

			shared := lo.Filter(current.periods, func(period model.Period, _ int) bool { return slices.Contains(other.periods, period) })
			if len(shared) == 0 {
				continue
			}
			relation := index.Relation(session1, session2)
			for _, clash := range clashes {
				if relation.Has(clash.reason) {
					problems = append(problems, &PreAssignmentError{Session: session1, Other: session2, Period: shared[0], Constraint: clash.constraint})
				}
			}
		}
	}
	return errors.Join(problems...)
}

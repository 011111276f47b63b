package constraints

import "github.com/limaJavier/memetic-timetabling/pkg/model"

// Oracle scores timetables. Both operations are pure functions of their inputs
type Oracle interface {
	// Returns the hard constraints the candidate would violate if it were placed at the period (empty means legal).
	// Assignments of the candidate's own session are ignored, so a placed assignment can be re-checked in place
	HardViolations(timetable *model.Timetable, period model.Period, candidate model.Assignment) []model.ConstraintType

	// Returns the weighted soft constraint penalty of the timetable, 0 meaning fully compliant
	SoftPenalty(timetable *model.Timetable) float64
}

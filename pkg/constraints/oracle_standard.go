package constraints

import (
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
)

// Weights of the soft constraints evaluated by the standard oracle
type Weights struct {
	UnfavorablePeriod float64 `mapstructure:"unfavorable_period"` // Per session taught in one of its teacher's unfavorable periods
	CurriculumGap     float64 `mapstructure:"curriculum_gap"`     // Per idle time-slot between two sessions of a curriculum on the same day
	DailyOverload     float64 `mapstructure:"daily_overload"`     // Per session of a curriculum beyond MaxDailySessions on a day
	RoomInstability   float64 `mapstructure:"room_instability"`   // Per additional distinct room used by a course
	MaxDailySessions  int     `mapstructure:"max_daily_sessions"`
}

func DefaultWeights() Weights {
	return Weights{
		UnfavorablePeriod: 2,
		CurriculumGap:     1,
		DailyOverload:     3,
		RoomInstability:   1,
		MaxDailySessions:  4,
	}
}

type standardOracle struct {
	semester    *model.Semester
	index       model.ConflictIndex
	weights     Weights
	unfavorable [][]bool // Teacher x period
}

func NewStandardOracle(semester *model.Semester, index model.ConflictIndex, weights Weights) Oracle {
	oracle := standardOracle{
		semester:    semester,
		index:       index,
		weights:     weights,
		unfavorable: make([][]bool, len(semester.Teachers)),
	}
	for _, teacher := range semester.Teachers {
		oracle.unfavorable[teacher.Index] = make([]bool, semester.PeriodCount())
		for _, period := range teacher.Unfavorable {
			oracle.unfavorable[teacher.Index][period.Index(semester.TimeSlotsPerDay)] = true
		}
	}
	return &oracle
}

func (oracle *standardOracle) HardViolations(timetable *model.Timetable, period model.Period, candidate model.Assignment) []model.ConstraintType {
	session, room := candidate.Session, candidate.Room
	violations := make([]model.ConstraintType, 0)

	// Check that:
	// - A pre-assigned session only occupies its fixed period(s)
	// - An external session only uses its fixed room
	// - An internal session uses a suitable internal room
	// - The teacher is available
	if session.FixedPeriod != nil {
		fixed, _ := session.Occupies(*session.FixedPeriod, oracle.semester.TimeSlotsPerDay)
		if !lo.Contains(fixed, period) {
			violations = append(violations, model.PreAssignmentViolated)
		}
	}
	if session.External() {
		if room != session.FixedRoom {
			violations = append(violations, model.FixedRoomViolated)
		}
	} else if !room.Internal() || !oracle.index.Suitable(session, room) {
		violations = append(violations, model.RoomUnsuitable)
	}
	if oracle.index.Unavailable(session.Teacher, period) {
		violations = append(violations, model.TeacherUnavailable)
	}

	// Check against the simultaneous assignments that:
	// - The room is not already occupied
	// - No teacher, curriculum or course is scheduled twice (no collision)
	for _, assignment := range timetable.Assignments(period) {
		if assignment.Session == session {
			continue
		}
		if assignment.Room == room {
			violations = append(violations, model.RoomOccupied)
		}
		relation := oracle.index.Relation(session, assignment.Session)
		if relation.Has(model.SharedTeacher) {
			violations = append(violations, model.TeacherClash)
		}
		if relation.Has(model.SharedCurriculum) {
			violations = append(violations, model.CurriculumClash)
		}
		if relation.Has(model.SameCourse) {
			violations = append(violations, model.CourseClash)
		}
	}

	// Lectures of a course must be on different days
	if session.Lecture {
		for slot := 1; slot <= oracle.semester.TimeSlotsPerDay; slot++ {
			if lo.SomeBy(timetable.Assignments(model.NewPeriod(period.Day, slot)), func(assignment model.Assignment) bool {
				return assignment.Session != session && assignment.Session.Lecture && assignment.Session.Course == session.Course
			}) {
				violations = append(violations, model.LecturesSameDay)
				break
			}
		}
	}

	return lo.Uniq(violations)
}

func (oracle *standardOracle) SoftPenalty(timetable *model.Timetable) float64 {
	days, slots := oracle.semester.DaysPerWeek, oracle.semester.TimeSlotsPerDay

	//** Initialize curriculum-assistance
	curriculumAssistance := make([][][]bool, len(oracle.semester.Curricula))
	for i := range curriculumAssistance {
		curriculumAssistance[i] = make([][]bool, days)
		for day := range days {
			curriculumAssistance[i][day] = make([]bool, slots)
		}
	}

	//** Initialize course rooms
	courseRooms := make(map[*model.Course]map[*model.Room]bool)

	penalty := 0.0
	timetable.ForEach(func(period model.Period, assignment model.Assignment) {
		session := assignment.Session
		if oracle.unfavorable[session.Teacher.Index][period.Index(slots)] {
			penalty += oracle.weights.UnfavorablePeriod
		}
		for _, curriculum := range session.Curricula {
			curriculumAssistance[curriculum.Index][period.Day-1][period.TimeSlot-1] = true
		}
		if _, ok := courseRooms[session.Course]; !ok {
			courseRooms[session.Course] = make(map[*model.Room]bool)
		}
		courseRooms[session.Course][assignment.Room] = true
	})

	for _, days := range curriculumAssistance {
		for _, occupied := range days {
			first, last, count := -1, -1, 0
			for slot, busy := range occupied {
				if !busy {
					continue
				}
				if first < 0 {
					first = slot
				}
				last = slot
				count++
			}
			if count == 0 {
				continue
			}
			penalty += float64(last-first+1-count) * oracle.weights.CurriculumGap
			if count > oracle.weights.MaxDailySessions {
				penalty += float64(count-oracle.weights.MaxDailySessions) * oracle.weights.DailyOverload
			}
		}
	}

	for _, rooms := range courseRooms {
		penalty += float64(len(rooms)-1) * oracle.weights.RoomInstability
	}

	return penalty
}

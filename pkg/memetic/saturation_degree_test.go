package memetic

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScope(semester *model.Semester, seed uint64) Scope {
	index := model.NewConflictIndex(semester)
	return Scope{
		Semester: semester,
		Index:    index,
		Oracle:   constraints.NewStandardOracle(semester, index, constraints.DefaultWeights()),
		Rand:     rand.New(rand.NewPCG(seed, seed+1)),
	}
}

func newHeuristic(scope Scope) *SaturationDegreeHeuristic {
	return NewSaturationDegreeHeuristic(scope.Semester, scope.Index, scope.Oracle, scope.Rand, nil)
}

// Generated semester whose single external session is pinned to (2, 3)
func pinnedSemester(t *testing.T) *model.Semester {
	raw := model.GenerateRawSemester(rand.New(rand.NewPCG(7, 11)), model.DefaultSemesterOptions())
	raw.Courses[len(raw.Courses)-1].Lectures[0].PreAssignment = &model.RawPeriod{Day: 2, TimeSlot: 3}
	semester, err := model.ProcessRawSemester(raw)
	require.NoError(t, err)
	return semester
}

func externalSession(semester *model.Semester) *model.Session {
	for _, session := range semester.Sessions() {
		if session.External() {
			return session
		}
	}
	return nil
}

func assertPinned(t *testing.T, timetable *model.Timetable, session *model.Session) {
	t.Helper()
	assert.Equal(t, []model.Placement{{
		Period:     model.NewPeriod(2, 3),
		Assignment: model.Assignment{Session: session, Room: session.FixedRoom},
	}}, timetable.Placements(session))
}

func TestSaturationDegreeHeuristic(t *testing.T) {
	//** Arrange
	semester := pinnedSemester(t)
	scope := newScope(semester, 1)
	heuristic := newHeuristic(scope)

	//** Act
	solutions, err := heuristic.GenerateFeasibleSolutions(context.Background(), 20)

	//** Assert
	require.NoError(t, err)
	require.Len(t, solutions, 20)
	external := externalSession(semester)
	for _, solution := range solutions {
		assert.Nil(t, constraints.Verify(solution, semester, scope.Oracle))
		assertPinned(t, solution, external)
	}
}

func TestSaturationDegreeHeuristicSingleSession(t *testing.T) {
	//** Arrange
	semester, err := model.ProcessRawSemester(model.RawSemester{
		DaysPerWeek:     5,
		TimeSlotsPerDay: 6,
		Rooms: []model.RawRoom{
			{Id: "small", Features: model.RawFeatures{Capacity: 10}},
			{Id: "large", Features: model.RawFeatures{Capacity: 50}},
		},
		Teachers: []model.RawTeacher{{Id: "t1"}},
		Courses: []model.RawCourse{{
			Id:       "c1",
			Lectures: []model.RawSession{{Id: "s1", Teacher: "t1", Requirements: model.RawFeatures{Capacity: 30}}},
		}},
	})
	require.NoError(t, err)
	heuristic := newHeuristic(newScope(semester, 42))
	session := semester.Sessions()[0]

	//** Act
	solutions, err := heuristic.GenerateFeasibleSolutions(context.Background(), 1000)

	//** Assert
	require.NoError(t, err)
	require.Len(t, solutions, 1000)

	counts := make(map[model.Period]int)
	for _, solution := range solutions {
		placements := solution.Placements(session)
		require.Len(t, placements, 1)
		assert.Equal(t, "large", placements[0].Assignment.Room.Id)
		counts[placements[0].Period]++
	}
	assert.Len(t, counts, 30)
	for period, count := range counts {
		assert.True(t, count >= 10 && count <= 70, "period %v drawn %d times", period, count)
	}
}

func TestSaturationDegreeHeuristicNoSuitableRoom(t *testing.T) {
	//** Arrange
	semester, err := model.ProcessRawSemester(model.RawSemester{
		DaysPerWeek:     2,
		TimeSlotsPerDay: 2,
		Rooms:           []model.RawRoom{{Id: "r1", Features: model.RawFeatures{Capacity: 10}}},
		Teachers:        []model.RawTeacher{{Id: "t1"}},
		Courses: []model.RawCourse{{
			Id:         "c1",
			Practicals: []model.RawSession{{Id: "lab", Teacher: "t1", Requirements: model.RawFeatures{PCPool: true}}},
		}},
	})
	require.NoError(t, err)
	heuristic := newHeuristic(newScope(semester, 1))

	//** Act
	solutions, err := heuristic.GenerateFeasibleSolutions(context.Background(), 3)

	//** Assert
	assert.Nil(t, solutions)
	assert.True(t, errors.Is(err, ErrNoSuitableRoom))
	var noSuitableRoom *NoSuitableRoomError
	require.True(t, errors.As(err, &noSuitableRoom))
	assert.Equal(t, "lab", noSuitableRoom.Session.Id)
}

func TestSaturationDegreeHeuristicPreAssignedInternalSession(t *testing.T) {
	//** Arrange
	semester, err := model.ProcessRawSemester(model.RawSemester{
		DaysPerWeek:     2,
		TimeSlotsPerDay: 3,
		Rooms: []model.RawRoom{
			{Id: "r1", Features: model.RawFeatures{Capacity: 10}},
			{Id: "r2", Features: model.RawFeatures{Capacity: 10, PCPool: true}},
			{Id: "r3", Features: model.RawFeatures{Capacity: 10, PCPool: true}},
		},
		Teachers: []model.RawTeacher{{Id: "t1"}, {Id: "t2"}},
		Courses: []model.RawCourse{{
			Id:         "c1",
			Lectures:   []model.RawSession{{Id: "l1", Teacher: "t1"}},
			Practicals: []model.RawSession{{Id: "p1", Teacher: "t2", Double: true, Requirements: model.RawFeatures{PCPool: true}, PreAssignment: &model.RawPeriod{Day: 1, TimeSlot: 2}}},
		}},
	})
	require.NoError(t, err)
	scope := newScope(semester, 3)
	practical := semester.Sessions()[1]

	//** Act
	solutions, err := newHeuristic(scope).GenerateFeasibleSolutions(context.Background(), 50)

	//** Assert
	require.NoError(t, err)
	for _, solution := range solutions {
		assert.Nil(t, constraints.Verify(solution, semester, scope.Oracle))
		placements := solution.Placements(practical)
		require.Len(t, placements, 2)
		assert.Equal(t, model.NewPeriod(1, 2), placements[0].Period)
		assert.Equal(t, model.NewPeriod(1, 3), placements[1].Period)
		assert.True(t, placements[0].Assignment.Room.Features.PCPool)
	}
}

func TestSaturationDegreeHeuristicCancelled(t *testing.T) {
	//** Arrange
	heuristic := newHeuristic(newScope(pinnedSemester(t), 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	//** Act
	solutions, err := heuristic.GenerateFeasibleSolutions(ctx, 5)

	//** Assert
	assert.NoError(t, err)
	assert.Empty(t, solutions)
}

func TestSaturationDegreeHeuristicUnrealizablePreAssignments(t *testing.T) {
	practicalsOfOneTeacher := func(a, b, c model.RawPeriod) model.RawSemester {
		course := func(id, session string, period model.RawPeriod) model.RawCourse {
			return model.RawCourse{Id: id, Practicals: []model.RawSession{{Id: session, Teacher: "t1", PreAssignment: &period}}}
		}
		return model.RawSemester{
			DaysPerWeek:     2,
			TimeSlotsPerDay: 2,
			Rooms:           []model.RawRoom{{Id: "r1"}, {Id: "r2"}},
			Teachers:        []model.RawTeacher{{Id: "t1", Unavailable: []model.RawPeriod{{Day: 2, TimeSlot: 2}}}},
			Courses:         []model.RawCourse{course("c1", "a", a), course("c2", "b", b), course("c3", "c", c)},
		}
	}

	scenarios := map[string]struct {
		raw        model.RawSemester
		constraint model.ConstraintType
	}{
		"teacher clash": {
			raw:        practicalsOfOneTeacher(model.RawPeriod{Day: 1, TimeSlot: 1}, model.RawPeriod{Day: 1, TimeSlot: 1}, model.RawPeriod{Day: 2, TimeSlot: 1}),
			constraint: model.TeacherClash,
		},
		"teacher unavailable": {
			raw:        practicalsOfOneTeacher(model.RawPeriod{Day: 1, TimeSlot: 1}, model.RawPeriod{Day: 1, TimeSlot: 2}, model.RawPeriod{Day: 2, TimeSlot: 2}),
			constraint: model.TeacherUnavailable,
		},
	}

	for name, scenario := range scenarios {
		t.Run(name, func(t *testing.T) {
			//** Arrange
			semester, err := model.ProcessRawSemester(scenario.raw)
			require.NoError(t, err)
			heuristic := newHeuristic(newScope(semester, 1))

			//** Act
			solutions, err := heuristic.GenerateFeasibleSolutions(context.Background(), 2)

			//** Assert
			assert.Nil(t, solutions)
			assert.True(t, errors.Is(err, constraints.ErrUnrealizablePreAssignment))
			var preAssignment *constraints.PreAssignmentError
			require.True(t, errors.As(err, &preAssignment))
			assert.Equal(t, scenario.constraint, preAssignment.Constraint)
		})
	}
}

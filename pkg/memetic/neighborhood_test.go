package memetic

import (
	"context"
	"testing"

	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborhoodsKeepFeasibility(t *testing.T) {
	semester := pinnedSemester(t)
	external := externalSession(semester)

	for _, neighborhood := range DefaultNeighborhoods() {
		t.Run(neighborhood.Name(), func(t *testing.T) {
			//** Arrange
			scope := newScope(semester, 5)
			solutions, err := newHeuristic(scope).GenerateFeasibleSolutions(context.Background(), 1)
			require.NoError(t, err)
			timetable := solutions[0]
			size := timetable.Size()

			for i := range 200 {
				//** Act
				neighborhood.Apply(timetable, scope)

				//** Assert
				require.Nil(t, constraints.Verify(timetable, semester, scope.Oracle), "application %d", i)
				require.Equal(t, size, timetable.Size())
				assertPinned(t, timetable, external)
			}
		})
	}
}

func TestNeighborhoodsChangeTimetables(t *testing.T) {
	semester := pinnedSemester(t)
	scope := newScope(semester, 9)
	solutions, err := newHeuristic(scope).GenerateFeasibleSolutions(context.Background(), 1)
	require.NoError(t, err)

	for _, neighborhood := range []Neighborhood{RelocateSession{}, SwapPeriods{RetryBudget: SwapRetryBudget}} {
		t.Run(neighborhood.Name(), func(t *testing.T) {
			//** Arrange
			timetable := solutions[0].Clone()

			//** Act
			changed := false
			for range 50 {
				neighborhood.Apply(timetable, scope)
				changed = changed || !timetable.Equal(solutions[0])
			}

			//** Assert
			assert.True(t, changed)
		})
	}
}

func TestNeighborhoodsWithoutMoves(t *testing.T) {
	//** Arrange
	semester, err := model.ProcessRawSemester(model.RawSemester{
		DaysPerWeek:     2,
		TimeSlotsPerDay: 3,
		Rooms:           []model.RawRoom{{Id: "r1"}, {Id: "r2"}},
		Teachers:        []model.RawTeacher{{Id: "t1"}},
		Courses: []model.RawCourse{{
			Id:       "c1",
			Lectures: []model.RawSession{{Id: "l1", Teacher: "t1", PreAssignment: &model.RawPeriod{Day: 1, TimeSlot: 1}}},
		}},
	})
	require.NoError(t, err)
	scope := newScope(semester, 1)
	solutions, err := newHeuristic(scope).GenerateFeasibleSolutions(context.Background(), 1)
	require.NoError(t, err)

	for _, neighborhood := range DefaultNeighborhoods() {
		t.Run(neighborhood.Name(), func(t *testing.T) {
			timetable := solutions[0].Clone()

			//** Act
			neighborhood.Apply(timetable, scope)

			//** Assert
			assert.True(t, timetable.Equal(solutions[0]))
		})
	}

	t.Run("Zero retry budget", func(t *testing.T) {
		timetable := solutions[0].Clone()
		SwapPeriods{}.Apply(timetable, scope)
		assert.True(t, timetable.Equal(solutions[0]))
	})
}

func TestSwapPeriodsKeepsLecturesOnDistinctDays(t *testing.T) {
	//** Arrange
	semester, err := model.ProcessRawSemester(model.RawSemester{
		DaysPerWeek:     2,
		TimeSlotsPerDay: 2,
		Rooms:           []model.RawRoom{{Id: "r1"}},
		Teachers:        []model.RawTeacher{{Id: "t1"}, {Id: "t2"}},
		Courses: []model.RawCourse{
			{Id: "c1", Lectures: []model.RawSession{{Id: "a", Teacher: "t1"}, {Id: "b", Teacher: "t1"}}},
			{Id: "c2", Lectures: []model.RawSession{{Id: "c", Teacher: "t2"}}},
		},
	})
	require.NoError(t, err)
	scope := newScope(semester, 1)
	sessions := semester.Sessions()
	room := semester.Rooms[0]
	timetable := semester.NewTimetable()
	require.NoError(t, timetable.Add(model.NewPeriod(1, 1), model.Assignment{Session: sessions[0], Room: room}))
	require.NoError(t, timetable.Add(model.NewPeriod(2, 1), model.Assignment{Session: sessions[1], Room: room}))
	require.NoError(t, timetable.Add(model.NewPeriod(1, 2), model.Assignment{Session: sessions[2], Room: room}))

	//** Assert
	assert.True(t, lecturesSameDayAfterSwap(timetable, model.NewPeriod(1, 1), model.NewPeriod(2, 2)))
	assert.True(t, lecturesSameDayAfterSwap(timetable, model.NewPeriod(1, 2), model.NewPeriod(2, 1)))
	assert.False(t, lecturesSameDayAfterSwap(timetable, model.NewPeriod(1, 1), model.NewPeriod(2, 1)))
	assert.False(t, lecturesSameDayAfterSwap(timetable, model.NewPeriod(1, 1), model.NewPeriod(1, 2)))

	for range 20 {
		SwapPeriods{RetryBudget: SwapRetryBudget}.Apply(timetable, scope)
		require.Nil(t, constraints.Verify(timetable, semester, scope.Oracle))
	}
}

func TestTabuList(t *testing.T) {
	//** Arrange
	list := newTabuList(2)
	relocate, swapPeriods, swapRooms := RelocateSession{}, SwapPeriods{RetryBudget: 1}, SwapRooms{RetryBudget: 1}

	//** Act
	list.Push(relocate)
	list.Push(swapPeriods)
	list.Push(swapPeriods)
	list.Push(swapRooms)

	//** Assert
	assert.Equal(t, 2, list.Len())
	assert.False(t, list.Contains(relocate))
	assert.True(t, list.Contains(SwapPeriods{RetryBudget: 50}))
	assert.True(t, list.Contains(swapRooms))
}

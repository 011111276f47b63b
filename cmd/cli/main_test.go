package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenForQuit(t *testing.T) {
	scenarios := map[string]struct {
		input     string
		cancelled int
	}{
		"quit after noise": {"hello\n  Q  \nq\n", 1},
		"no quit":          {"quit\nexit\n", 0},
		"empty input":      {"", 0},
	}

	for name, scenario := range scenarios {
		t.Run(name, func(t *testing.T) {
			//** Arrange
			cancelled := 0

			//** Act
			listenForQuit(strings.NewReader(scenario.input), func() { cancelled++ })

			//** Assert
			assert.Equal(t, scenario.cancelled, cancelled)
		})
	}
}

func TestBuildOutput(t *testing.T) {
	//** Arrange
	semester, err := model.ProcessRawSemester(model.RawSemester{
		Name:            "ws1819",
		DaysPerWeek:     2,
		TimeSlotsPerDay: 2,
		Rooms:           []model.RawRoom{{Id: "r1"}},
		Teachers:        []model.RawTeacher{{Id: "t1"}},
		Courses: []model.RawCourse{
			{Id: "c1", Lectures: []model.RawSession{{Id: "l1", Teacher: "t1"}}},
			{Id: "c2", Practicals: []model.RawSession{{Id: "p1", Teacher: "t1"}}},
		},
		Curricula: []model.RawCurriculum{{Id: "k1", Courses: []string{"c1"}}, {Id: "k2"}},
	})
	require.NoError(t, err)
	sessions, room := semester.Sessions(), semester.Rooms[0]
	timetable := semester.NewTimetable()
	timetable.Name = "result"
	timetable.SoftConstraintPenalty = 2
	require.NoError(t, timetable.Add(model.NewPeriod(2, 1), model.Assignment{Session: sessions[0], Room: room}))
	require.NoError(t, timetable.Add(model.NewPeriod(1, 2), model.Assignment{Session: sessions[1], Room: room}))

	//** Act
	output := buildOutput(semester, timetable)

	//** Assert
	assert.Equal(t, "result", output.Name)
	assert.Equal(t, "ws1819", output.Semester)
	assert.Equal(t, 2.0, output.Penalty)
	require.Len(t, output.Sessions, 2)
	assert.Equal(t, "p1", output.Sessions[0].Session)
	assert.Equal(t, "Tuesday", output.Sessions[1].DayName)
	assert.Equal(t, []Entry{output.Sessions[1]}, output.Curricula["k1"])
	assert.Empty(t, output.Curricula["k2"])
}

func TestListParameters(t *testing.T) {
	//** Arrange
	var buffer bytes.Buffer

	//** Act
	listParameters(&buffer)

	//** Assert
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "population"))
	assert.Contains(t, lines[1], "float")
	assert.Contains(t, lines[3], "TIMETABLING_PARAMETERS_TABU")
}

package main

import (
	"github.com/limaJavier/memetic-timetabling/pkg/model"
)

var Days = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
	7: "Sunday",
}

type Entry struct {
	Day      int    `json:"day"`
	DayName  string `json:"dayName"`
	TimeSlot int    `json:"timeSlot"`
	Course   string `json:"course"`
	Session  string `json:"session"`
	Teacher  string `json:"teacher"`
	Room     string `json:"room"`
	Kind     string `json:"kind"`
}

type Output struct {
	Name      string             `json:"name"`
	Semester  string             `json:"semester"`
	Penalty   float64            `json:"penalty"`
	Sessions  []Entry            `json:"sessions"`
	Curricula map[string][]Entry `json:"curricula"` // Keyed by curriculum id
}

// Entries are ordered by period
func buildOutput(semester *model.Semester, timetable *model.Timetable) Output {
	output := Output{
		Name:      timetable.Name,
		Semester:  semester.Name,
		Penalty:   timetable.SoftConstraintPenalty,
		Sessions:  make([]Entry, 0, timetable.Size()),
		Curricula: make(map[string][]Entry),
	}
	for _, curriculum := range semester.Curricula {
		output.Curricula[curriculum.Id] = make([]Entry, 0)
	}

	timetable.ForEach(func(period model.Period, assignment model.Assignment) {
		session := assignment.Session
		entry := Entry{
			Day:      period.Day,
			DayName:  Days[period.Day],
			TimeSlot: period.TimeSlot,
			Course:   session.Course.Id,
			Session:  session.Id,
			Teacher:  session.Teacher.Id,
			Room:     assignment.Room.Id,
			Kind:     session.Kind.String(),
		}
		output.Sessions = append(output.Sessions, entry)
		for _, curriculum := range session.Curricula {
			output.Curricula[curriculum.Id] = append(output.Curricula[curriculum.Id], entry)
		}
	})
	return output
}

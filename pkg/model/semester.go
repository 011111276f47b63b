package model

import "github.com/samber/lo"

// Semester is the fully linked, read-only definition every component works on
type Semester struct {
	Name            string
	DaysPerWeek     int
	TimeSlotsPerDay int
	Courses         []*Course
	Teachers        []*Teacher
	Curricula       []*Curriculum
	Rooms           []*Room

	sessions []*Session // Flattened lectures and practicals ordered by Session.Index
}

// Sessions returns every lecture and practical of the semester ordered by their index
func (semester *Semester) Sessions() []*Session {
	return semester.sessions
}

func (semester *Semester) InternalRooms() []*Room {
	return lo.Filter(semester.Rooms, func(room *Room, _ int) bool { return room.Internal() })
}

func (semester *Semester) InternalSessions() []*Session {
	return lo.Filter(semester.sessions, func(session *Session, _ int) bool { return !session.External() })
}

func (semester *Semester) Periods() []Period {
	return Periods(semester.DaysPerWeek, semester.TimeSlotsPerDay)
}

func (semester *Semester) PeriodCount() int {
	return semester.DaysPerWeek * semester.TimeSlotsPerDay
}

// NewTimetable returns an empty timetable shaped after the semester's grid
func (semester *Semester) NewTimetable() *Timetable {
	return NewTimetable(semester.DaysPerWeek, semester.TimeSlotsPerDay)
}

// Link indexes the semester's entities and derives the session list. It must be called once after the semester is assembled by hand
func (semester *Semester) Link() {
	semester.sessions = make([]*Session, 0)
	for _, course := range semester.Courses {
		for _, session := range course.Lectures {
			session.Course = course
			session.Lecture = true
		}
		for _, session := range course.Practicals {
			session.Course = course
			session.Lecture = false
		}
		semester.sessions = append(semester.sessions, course.Sessions()...)
	}
	for i, session := range semester.sessions {
		session.Index = i
		session.Curricula = lo.Filter(semester.Curricula, func(curriculum *Curriculum, _ int) bool {
			return lo.Contains(curriculum.Courses, session.Course)
		})
	}
	for i, room := range semester.Rooms {
		room.Index = i
	}
	for i, teacher := range semester.Teachers {
		teacher.Index = i
	}
	for i, curriculum := range semester.Curricula {
		curriculum.Index = i
	}
}

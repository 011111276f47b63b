package model

import "fmt"

type SessionKind int

const (
	InternalSession SessionKind = iota // Room is chosen by the algorithm
	ExternalSession                    // Room and period are fixed
)

func (kind SessionKind) String() string {
	if kind == ExternalSession {
		return "external"
	}
	return "internal"
}

// Session is the unit of teaching to schedule.
// External sessions always carry FixedPeriod and FixedRoom, internal sessions never carry FixedRoom
type Session struct {
	Id           string
	Name         string
	Index        int // Dense index among the semester's sessions
	Kind         SessionKind
	Course       *Course
	Teacher      *Teacher
	Curricula    []*Curriculum
	Requirements RoomFeatures
	Lecture      bool // Lecture when true, practical otherwise
	Double       bool // Occupies two consecutive periods of the same day in the same room
	FixedPeriod  *Period
	FixedRoom    *Room
}

func (session *Session) String() string {
	if session.Course != nil {
		return fmt.Sprintf("%v~%v", session.Course.Name, session.Name)
	}
	return session.Name
}

func (session *Session) PreAssigned() bool {
	return session.FixedPeriod != nil
}

func (session *Session) External() bool {
	return session.Kind == ExternalSession
}

// Occupies returns the periods a session placed at start would occupy
func (session *Session) Occupies(start Period, slotsPerDay int) ([]Period, bool) {
	if !session.Double {
		return []Period{start}, true
	}
	second, ok := start.Next(slotsPerDay)
	if !ok {
		return nil, false
	}
	return []Period{start, second}, true
}

// Placements is the number of assignments the session owns in a complete timetable
func (session *Session) Placements() int {
	if session.Double {
		return 2
	}
	return 1
}

type Course struct {
	Id         string
	Name       string
	Lectures   []*Session
	Practicals []*Session
}

func (course *Course) Sessions() []*Session {
	sessions := make([]*Session, 0, len(course.Lectures)+len(course.Practicals))
	sessions = append(sessions, course.Lectures...)
	return append(sessions, course.Practicals...)
}

type Teacher struct {
	Id          string
	Name        string
	Index       int
	Unavailable []Period
	Unfavorable []Period
}

// Curriculum is a group of students whose sessions must never collide
type Curriculum struct {
	Id      string
	Name    string
	Index   int
	Courses []*Course
}

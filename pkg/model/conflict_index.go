package model

// Relation is a bit set of the reasons why two sessions cannot overlap
type Relation uint8

const (
	SharedTeacher Relation = 1 << iota
	SharedCurriculum
	SameCourse
)

func (relation Relation) Has(other Relation) bool {
	return relation&other != 0
}

// ConflictIndex answers pairwise conflict questions in constant time. It is built once per semester and never changes afterwards, so it can be shared by every timetable and goroutine
type ConflictIndex interface {
	// Returns the reasons why two distinct sessions cannot overlap, zero if they can (or if both are the same session)
	Relation(session1, session2 *Session) Relation

	// Checks whether two distinct sessions cannot occupy overlapping periods
	Conflicting(session1, session2 *Session) bool

	// Returns every session conflicting with the given one
	Neighbors(session *Session) []*Session

	// Checks whether the room satisfies the session's requirements. External sessions are only suitable for their fixed room
	Suitable(session *Session, room *Room) bool

	// Returns the internal rooms satisfying an internal session's requirements (the fixed room for external sessions)
	SuitableRooms(session *Session) []*Room

	// Checks whether the teacher cannot teach in the period
	Unavailable(teacher *Teacher, period Period) bool

	// Returns the static conflict count of a session: conflicting sessions, unsuitable internal rooms and teacher-unavailable periods
	ConflictCount(session *Session) int
}

package model

// ConstraintType names a hard constraint that an assignment can violate
type ConstraintType string

const (
	RoomOccupied          ConstraintType = "room-occupied"
	TeacherClash          ConstraintType = "teacher-clash"
	CurriculumClash       ConstraintType = "curriculum-clash"
	CourseClash           ConstraintType = "course-clash"
	TeacherUnavailable    ConstraintType = "teacher-unavailable"
	RoomUnsuitable        ConstraintType = "room-unsuitable"
	FixedRoomViolated     ConstraintType = "fixed-room-violated"
	PreAssignmentViolated ConstraintType = "pre-assignment-violated"
	LecturesSameDay       ConstraintType = "lectures-same-day"
)

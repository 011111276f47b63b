package model

type RoomKind int

const (
	InternalRoom RoomKind = iota // Owned by the institution and freely assignable
	ExternalRoom                 // Only used by sessions bound to it
)

func (kind RoomKind) String() string {
	if kind == ExternalRoom {
		return "external"
	}
	return "internal"
}

// RoomFeatures describes both what a room offers and what a session requires
type RoomFeatures struct {
	Capacity   int
	Projectors int
	PCPool     bool
	TeacherPC  bool
	DocCam     bool
}

// Satisfies checks whether the features cover every requirement
func (features RoomFeatures) Satisfies(requirements RoomFeatures) bool {
	return features.Capacity >= requirements.Capacity &&
		features.Projectors >= requirements.Projectors &&
		(features.PCPool || !requirements.PCPool) &&
		(features.TeacherPC || !requirements.TeacherPC) &&
		(features.DocCam || !requirements.DocCam)
}

type Room struct {
	Id       string
	Name     string
	Index    int // Dense index among the semester's rooms
	Kind     RoomKind
	Features RoomFeatures
}

func (room *Room) String() string {
	return room.Name
}

func (room *Room) Internal() bool {
	return room.Kind == InternalRoom
}

package model

import "github.com/samber/lo"

type conflictIndexMatrix struct {
	slotsPerDay    int
	relations      [][]Relation // Session x session
	neighbors      [][]*Session
	suitability    [][]bool // Session x room
	suitableRooms  [][]*Room
	unavailability [][]bool // Teacher x period
	conflictCounts []int
}

func NewConflictIndex(semester *Semester) ConflictIndex {
	sessions := semester.Sessions()
	internalRooms := semester.InternalRooms()

	index := conflictIndexMatrix{
		slotsPerDay:    semester.TimeSlotsPerDay,
		relations:      make([][]Relation, len(sessions)),
		neighbors:      make([][]*Session, len(sessions)),
		suitability:    make([][]bool, len(sessions)),
		suitableRooms:  make([][]*Room, len(sessions)),
		unavailability: make([][]bool, len(semester.Teachers)),
		conflictCounts: make([]int, len(sessions)),
	}

	//** Session x session
	for i := range sessions {
		index.relations[i] = make([]Relation, len(sessions))
	}
	for i := range len(sessions) {
		for j := i + 1; j < len(sessions); j++ {
			session1, session2 := sessions[i], sessions[j]

			var relation Relation
			if session1.Teacher == session2.Teacher {
				relation |= SharedTeacher
			}
			if lo.SomeBy(session1.Curricula, func(curriculum *Curriculum) bool {
				return lo.Contains(session2.Curricula, curriculum)
			}) {
				relation |= SharedCurriculum
			}
			if session1.Course == session2.Course {
				relation |= SameCourse
			}

			index.relations[i][j], index.relations[j][i] = relation, relation
			if relation != 0 {
				index.neighbors[i] = append(index.neighbors[i], session2)
				index.neighbors[j] = append(index.neighbors[j], session1)
			}
		}
	}

	//** Session x room
	for _, session := range sessions {
		index.suitability[session.Index] = make([]bool, len(semester.Rooms))
		if session.External() {
			index.suitability[session.Index][session.FixedRoom.Index] = true
			index.suitableRooms[session.Index] = []*Room{session.FixedRoom}
			continue
		}
		for _, room := range internalRooms {
			if room.Features.Satisfies(session.Requirements) {
				index.suitability[session.Index][room.Index] = true
				index.suitableRooms[session.Index] = append(index.suitableRooms[session.Index], room)
			}
		}
	}

	//** Teacher x period
	for _, teacher := range semester.Teachers {
		index.unavailability[teacher.Index] = make([]bool, semester.PeriodCount())
		for _, period := range teacher.Unavailable {
			index.unavailability[teacher.Index][period.Index(semester.TimeSlotsPerDay)] = true
		}
	}

	//** Static conflict counts used to break saturation ties
	for _, session := range sessions {
		unsuitable := 0
		if !session.External() {
			unsuitable = len(internalRooms) - len(index.suitableRooms[session.Index])
		}
		unavailable := lo.Count(index.unavailability[session.Teacher.Index], true)
		index.conflictCounts[session.Index] = len(index.neighbors[session.Index]) + unsuitable + unavailable
	}

	return &index
}

func (index *conflictIndexMatrix) Relation(session1, session2 *Session) Relation {
	return index.relations[session1.Index][session2.Index]
}

func (index *conflictIndexMatrix) Conflicting(session1, session2 *Session) bool {
	return session1 != session2 && index.relations[session1.Index][session2.Index] != 0
}

func (index *conflictIndexMatrix) Neighbors(session *Session) []*Session {
	return index.neighbors[session.Index]
}

func (index *conflictIndexMatrix) Suitable(session *Session, room *Room) bool {
	return index.suitability[session.Index][room.Index]
}

func (index *conflictIndexMatrix) SuitableRooms(session *Session) []*Room {
	return index.suitableRooms[session.Index]
}

func (index *conflictIndexMatrix) Unavailable(teacher *Teacher, period Period) bool {
	return index.unavailability[teacher.Index][period.Index(index.slotsPerDay)]
}

func (index *conflictIndexMatrix) ConflictCount(session *Session) int {
	return index.conflictCounts[session.Index]
}

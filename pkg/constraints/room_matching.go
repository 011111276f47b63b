package constraints

import (
	"errors"
	"fmt"
	"strings"

	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

var ErrUnassignableRooms = errors.New("pre-assigned sessions cannot all be given a room")

// RoomMatching checks, period by period, that no two external sessions share their fixed room and that the pre-assigned internal sessions occupying a period can be given pairwise distinct suitable rooms.
// Construction would otherwise restart forever on such an input
func RoomMatching(semester *model.Semester, index model.ConflictIndex) error {
	external := make(map[model.Period]map[*model.Room]*model.Session)
	for _, session := range semester.Sessions() {
		if !session.External() {
			continue
		}
		periods, ok := session.Occupies(*session.FixedPeriod, semester.TimeSlotsPerDay)
		if !ok {
			return fmt.Errorf("double session %v is pre-assigned to the last time-slot of the day", session)
		}
		for _, period := range periods {
			if _, ok := external[period]; !ok {
				external[period] = make(map[*model.Room]*model.Session)
			}
			if other, ok := external[period][session.FixedRoom]; ok {
				return fmt.Errorf("%w at %v: %v and %v are both bound to %v", ErrUnassignableRooms, period, other, session, session.FixedRoom)
			}
			external[period][session.FixedRoom] = session
		}
	}

	simultaneous := make(map[model.Period][]*model.Session)
	for _, session := range semester.InternalSessions() {
		if !session.PreAssigned() {
			continue
		}
		periods, ok := session.Occupies(*session.FixedPeriod, semester.TimeSlotsPerDay)
		if !ok {
			return fmt.Errorf("double session %v is pre-assigned to the last time-slot of the day", session)
		}
		for _, period := range periods {
			simultaneous[period] = append(simultaneous[period], session)
		}
	}

	rooms := semester.InternalRooms()
	for _, period := range semester.Periods() {
		sessions := simultaneous[period]
		if len(sessions) == 0 {
			continue
		}
		if _, err := assignRooms(sessions, rooms, index); err != nil {
			var builder strings.Builder
			for _, session := range sessions {
				fmt.Fprintf(&builder, "%v -> { %v } ", session, strings.Join(lo.Map(index.SuitableRooms(session), func(room *model.Room, _ int) string {
					return room.String()
				}), ", "))
			}
			return fmt.Errorf("%w at %v: %v", err, period, builder.String())
		}
	}
	return nil
}

// Returns a maximum matching of sessions to suitable rooms or ErrUnassignableRooms when it does not cover every session
func assignRooms(sessions []*model.Session, rooms []*model.Room, index model.ConflictIndex) (map[*model.Session]*model.Room, error) {
	neighbors := func(sessionAny any, roomAny any) (bool, error) {
		return index.Suitable(sessionAny.(*model.Session), roomAny.(*model.Room)), nil
	}

	sessionsAny, roomsAny := lo.Map(sessions, func(session *model.Session, _ int) any { return session }), lo.Map(rooms, func(room *model.Room, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(sessionsAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	// Check the matching covers every session
	if len(matching) < len(sessions) {
		return nil, ErrUnassignableRooms
	}

	assignments := make(map[*model.Session]*model.Room, len(sessions))
	for _, edge := range matching {
		sessionIndex, roomIndex := edge.Node1, edge.Node2-len(sessions)
		assignments[sessions[sessionIndex]] = rooms[roomIndex]
	}
	return assignments, nil
}

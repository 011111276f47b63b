package memetic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// SaturationDegreeHeuristic builds feasible timetables by coloring the conflict graph: sessions are vertices, periods are colors
type SaturationDegreeHeuristic struct {
	scope   Scope
	logger  *zap.Logger
	metrics *Metrics
}

func NewSaturationDegreeHeuristic(semester *model.Semester, index model.ConflictIndex, oracle constraints.Oracle, r *rand.Rand, logger *zap.Logger) *SaturationDegreeHeuristic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaturationDegreeHeuristic{
		scope: Scope{
			Semester: semester,
			Index:    index,
			Oracle:   oracle,
			Rand:     r,
		},
		logger: logger,
	}
}

// GenerateFeasibleSolutions builds up to count feasible timetables, restarting any attempt that gets stuck.
// Cancellation yields the timetables completed so far. An unrealizable input is reported before any attempt
func (heuristic *SaturationDegreeHeuristic) GenerateFeasibleSolutions(ctx context.Context, count int) ([]*model.Timetable, error) {
	if err := heuristic.checkRealizable(); err != nil {
		return nil, err
	}

	solutions := make([]*model.Timetable, 0, count)
	for attempt := 1; len(solutions) < count; attempt++ {
		if ctx.Err() != nil {
			heuristic.logger.Info("construction cancelled", zap.Int("built", len(solutions)), zap.Int("requested", count))
			break
		}
		timetable, ok := heuristic.attempt(ctx)
		heuristic.metrics.observeConstruction(ok)
		if !ok {
			heuristic.logger.Debug("construction attempt failed", zap.Int("attempt", attempt))
			continue
		}
		solutions = append(solutions, timetable)
	}
	return solutions, nil
}

func (heuristic *SaturationDegreeHeuristic) checkRealizable() error {
	for _, session := range heuristic.scope.Semester.Sessions() {
		if len(heuristic.scope.Index.SuitableRooms(session)) == 0 {
			return &NoSuitableRoomError{Session: session}
		}
	}
	if err := constraints.PreAssignments(heuristic.scope.Semester, heuristic.scope.Index); err != nil {
		return fmt.Errorf("unrealizable pre-assignments: %w", err)
	}
	if err := constraints.RoomMatching(heuristic.scope.Semester, heuristic.scope.Index); err != nil {
		return fmt.Errorf("unrealizable pre-assignments: %w", err)
	}
	return nil
}

// Runs one construction attempt and reports whether it completed
func (heuristic *SaturationDegreeHeuristic) attempt(ctx context.Context) (*model.Timetable, bool) {
	semester, index := heuristic.scope.Semester, heuristic.scope.Index
	timetable := semester.NewTimetable()

	if !heuristic.placePreAssignments(timetable) {
		return nil, false
	}

	//** Initialize saturation degrees with the pre-assigned sessions
	saturation := make([]int, len(semester.Sessions()))
	unplaced := make([]*model.Session, 0, len(semester.Sessions()))
	for _, session := range semester.Sessions() {
		if !session.PreAssigned() {
			unplaced = append(unplaced, session)
			continue
		}
		for _, neighbor := range index.Neighbors(session) {
			saturation[neighbor.Index]++
		}
	}

	for len(unplaced) > 0 {
		if ctx.Err() != nil {
			return nil, false
		}

		// Select the most saturated session, ties broken by the static conflict count
		selected := 0
		for i, session := range unplaced[1:] {
			best := unplaced[selected]
			if saturation[session.Index] > saturation[best.Index] ||
				saturation[session.Index] == saturation[best.Index] && index.ConflictCount(session) > index.ConflictCount(best) {
				selected = i + 1
			}
		}
		session := unplaced[selected]

		if !placeSession(timetable, session, heuristic.orderPeriods(timetable), heuristic.scope) {
			return nil, false
		}

		unplaced = slices.Delete(unplaced, selected, selected+1)
		for _, neighbor := range index.Neighbors(session) {
			saturation[neighbor.Index]++
		}
	}
	return timetable, true
}

// Places every pre-assigned session at its fixed period. External sessions take their fixed room, internal ones a random free suitable room
func (heuristic *SaturationDegreeHeuristic) placePreAssignments(timetable *model.Timetable) bool {
	semester, index := heuristic.scope.Semester, heuristic.scope.Index
	for _, session := range semester.Sessions() {
		if !session.PreAssigned() {
			continue
		}
		periods, ok := session.Occupies(*session.FixedPeriod, semester.TimeSlotsPerDay)
		if !ok {
			implementationPanicf("double session %v is pre-assigned to the last time-slot", session)
		}

		var room *model.Room
		if session.External() {
			room = session.FixedRoom
		} else {
			free := lo.Filter(index.SuitableRooms(session), func(room *model.Room, _ int) bool {
				return lo.EveryBy(periods, func(period model.Period) bool { return timetable.RoomFree(room, period) })
			})
			if len(free) == 0 {
				return false
			}
			room = free[heuristic.scope.Rand.IntN(len(free))]
		}

		for _, period := range periods {
			if err := timetable.Add(period, model.Assignment{Session: session, Room: room}); err != nil {
				implementationPanicf("pre-assignment of %v passed the room matching check: %v", session, err)
			}
		}
	}
	return true
}

// Orders the periods with the fewest-but-nonzero usages first and then the unused ones, each tier shuffled
func (heuristic *SaturationDegreeHeuristic) orderPeriods(timetable *model.Timetable) []model.Period {
	used, unused := lo.FilterReject(shuffled(heuristic.scope.Rand, heuristic.scope.Semester.Periods()), func(period model.Period, _ int) bool {
		return len(timetable.Assignments(period)) > 0
	})
	slices.SortStableFunc(used, func(period1, period2 model.Period) int {
		return len(timetable.Assignments(period1)) - len(timetable.Assignments(period2))
	})
	return append(used, unused...)
}

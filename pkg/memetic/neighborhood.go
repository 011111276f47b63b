package memetic

import (
	"math/rand/v2"

	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/model"
)

// Scope bundles the read-only collaborators an operator works with, plus the random source it must draw from
type Scope struct {
	Semester *model.Semester
	Index    model.ConflictIndex
	Oracle   constraints.Oracle
	Rand     *rand.Rand
}

// Neighborhood is a stateless perturbation of a feasible timetable. Apply mutates the timetable in place and must keep it feasible
type Neighborhood interface {
	Name() string
	Apply(timetable *model.Timetable, scope Scope)
}

// DefaultNeighborhoods returns the registered structures in a fresh slice
func DefaultNeighborhoods() []Neighborhood {
	return []Neighborhood{
		RelocateSession{},
		SwapPeriods{RetryBudget: SwapRetryBudget},
		SwapRooms{RetryBudget: SwapRetryBudget},
	}
}

// Checks whether every assignment of the period is legal
func periodLegal(timetable *model.Timetable, period model.Period, oracle constraints.Oracle) bool {
	for _, assignment := range timetable.Assignments(period) {
		if len(oracle.HardViolations(timetable, period, assignment)) > 0 {
			return false
		}
	}
	return true
}

func shuffled[T any](r *rand.Rand, values []T) []T {
	result := make([]T, len(values))
	copy(result, values)
	r.Shuffle(len(result), func(i, j int) { result[i], result[j] = result[j], result[i] })
	return result
}

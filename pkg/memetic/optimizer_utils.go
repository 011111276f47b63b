package memetic

import (
	"slices"

	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
)

// Draws a random structure outside of the tabu list
func (optimizer *Optimizer) drawStructure(tabu *tabuList) Neighborhood {
	allowed := lo.Reject(optimizer.neighborhoods, func(neighborhood Neighborhood, _ int) bool {
		return tabu.Contains(neighborhood)
	})
	if len(allowed) == 0 {
		implementationPanicf("all %d neighborhood structures are tabu", len(optimizer.neighborhoods))
	}
	return allowed[optimizer.rand.IntN(len(allowed))]
}

// Roulette-wheel selection weighted by the distance to the worst penalty of the population. A population of equal penalties is drawn uniformly
func (optimizer *Optimizer) selectParent(population []*model.Timetable) *model.Timetable {
	worst := lo.MaxBy(population, func(a, b *model.Timetable) bool {
		return a.SoftConstraintPenalty > b.SoftConstraintPenalty
	}).SoftConstraintPenalty
	weights := lo.Map(population, func(timetable *model.Timetable, _ int) float64 {
		return worst - timetable.SoftConstraintPenalty
	})

	total := lo.Sum(weights)
	if total <= 0 {
		return population[optimizer.rand.IntN(len(population))]
	}

	draw, cumulative := optimizer.rand.Float64()*total, 0.0
	for i, weight := range weights {
		cumulative += weight
		if draw < cumulative {
			return population[i]
		}
	}
	// Rounding left the draw past the last cumulative sum
	_, last, _ := lo.FindLastIndexOf(weights, func(weight float64) bool { return weight > 0 })
	return population[last]
}

// Crosses two parents over into two offspring. Below the crossover rate the offspring are clones of the parents
func (optimizer *Optimizer) crossover(parent1, parent2 *model.Timetable) (*model.Timetable, *model.Timetable) {
	offspring1, offspring2 := parent1.Clone(), parent2.Clone()
	if optimizer.rand.Float64() >= optimizer.parameters.CrossoverRate {
		return offspring1, offspring2
	}

	periods := optimizer.semester.Periods()
	period1, period2 := periods[optimizer.rand.IntN(len(periods))], periods[optimizer.rand.IntN(len(periods))]
	optimizer.copyAssignments(parent2, period2, offspring1, period1)
	optimizer.copyAssignments(parent1, period1, offspring2, period2)
	return offspring1, offspring2
}

// Copies the movable assignments of source at from into target at to. Double sessions are moved with both halves.
// After each copy exactly one of the session's two copies is removed from the target, keeping the new or the old one with equal odds
func (optimizer *Optimizer) copyAssignments(source *model.Timetable, from model.Period, target *model.Timetable, to model.Period) {
	slotsPerDay := optimizer.semester.TimeSlotsPerDay
	for _, assignment := range slices.Clone(source.Assignments(from)) {
		session := assignment.Session
		if session.PreAssigned() {
			continue
		}

		//** Destination periods
		destination := []model.Period{to}
		if session.Double {
			next, hasNext := from.Next(slotsPerDay)
			if hasNext && slices.Contains(source.Assignments(next), assignment) {
				// First half
				second, ok := to.Next(slotsPerDay)
				if !ok {
					continue
				}
				destination = []model.Period{to, second}
			} else if previous, hasPrevious := from.Previous(); hasPrevious && slices.Contains(source.Assignments(previous), assignment) {
				// Second half
				first, ok := to.Previous()
				if !ok {
					continue
				}
				destination = []model.Period{first, to}
			} else {
				implementationPanicf("paired half of double session %v at %v was not found", session, from)
			}
		}

		//** Feasibility of the copy
		if !lo.EveryBy(destination, func(period model.Period) bool {
			return target.RoomFree(assignment.Room, period) && len(optimizer.oracle.HardViolations(target, period, assignment)) == 0
		}) {
			continue
		}

		//** Copy and remove a duplicate
		previous := target.Placements(session)
		if len(previous) != session.Placements() {
			implementationPanicf("session %v has %d assignments instead of %d before crossover", session, len(previous), session.Placements())
		}
		for _, period := range destination {
			if err := target.Add(period, assignment); err != nil {
				implementationPanicf("cannot add a checked crossover copy: %v", err)
			}
		}
		if optimizer.rand.IntN(2) == 0 {
			for _, placement := range previous {
				target.Remove(placement.Period, placement.Assignment)
			}
		} else {
			for _, period := range destination {
				target.Remove(period, assignment)
			}
		}
	}
}

// Applies the structure on each of as many trials as there are sessions, with probability mutationRate
func (optimizer *Optimizer) mutate(timetable *model.Timetable, structure Neighborhood) {
	scope := optimizer.scope()
	for range len(optimizer.semester.Sessions()) {
		if optimizer.rand.Float64() < optimizer.parameters.MutationRate {
			structure.Apply(timetable, scope)
		}
	}
}

// Replaces the worst member of the population when the candidate is better
func (optimizer *Optimizer) replaceWorst(population []*model.Timetable, candidate *model.Timetable) bool {
	worst := 0
	for i, timetable := range population {
		if timetable.SoftConstraintPenalty > population[worst].SoftConstraintPenalty {
			worst = i
		}
	}
	if candidate.SoftConstraintPenalty >= population[worst].SoftConstraintPenalty {
		return false
	}
	population[worst] = candidate
	return true
}

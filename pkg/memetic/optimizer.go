package memetic

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type State int32

const (
	Idle State = iota
	Initializing
	Evolving
	Converged
	Cancelled
)

func (state State) String() string {
	switch state {
	case Initializing:
		return "initializing"
	case Evolving:
		return "evolving"
	case Converged:
		return "converged"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Generation summarizes one evolution step, it is handed to the generation hook
type Generation struct {
	Number         int
	Structure      string
	Improved       bool
	Best           *model.Timetable
	PopulationBest float64
	PopulationSize int
}

type Option func(optimizer *Optimizer)

func WithLogger(logger *zap.Logger) Option {
	return func(optimizer *Optimizer) { optimizer.logger = logger }
}

func WithRand(r *rand.Rand) Option {
	return func(optimizer *Optimizer) { optimizer.rand = r }
}

func WithNeighborhoods(neighborhoods ...Neighborhood) Option {
	return func(optimizer *Optimizer) { optimizer.neighborhoods = neighborhoods }
}

// WithConflictIndex shares an index already built for the semester, typically the one the oracle was given
func WithConflictIndex(index model.ConflictIndex) Option {
	return func(optimizer *Optimizer) { optimizer.index = index }
}

func WithMetrics(metrics *Metrics) Option {
	return func(optimizer *Optimizer) { optimizer.metrics = metrics }
}

// WithGenerationHook registers a callback run on the optimizer's goroutine after every generation
func WithGenerationHook(hook func(generation Generation)) Option {
	return func(optimizer *Optimizer) { optimizer.hook = hook }
}

// Optimizer is a tabu-based memetic algorithm: a steady-state genetic algorithm whose offspring are refined by a tabu-guided choice of neighborhood structure.
// Generate must not be called concurrently, Cancel and State are safe from any goroutine
type Optimizer struct {
	semester      *model.Semester
	index         model.ConflictIndex
	oracle        constraints.Oracle
	parameters    Parameters
	neighborhoods []Neighborhood
	rand          *rand.Rand
	logger        *zap.Logger
	metrics       *Metrics
	hook          func(generation Generation)

	state     atomic.Int32
	cancelled atomic.Bool
	stop      atomic.Pointer[context.CancelFunc]
}

func NewOptimizer(semester *model.Semester, oracle constraints.Oracle, parameters Parameters, options ...Option) (*Optimizer, error) {
	optimizer := &Optimizer{
		semester:      semester,
		oracle:        oracle,
		parameters:    parameters,
		neighborhoods: DefaultNeighborhoods(),
		logger:        zap.NewNop(),
	}
	for _, option := range options {
		option(optimizer)
	}
	if optimizer.rand == nil {
		optimizer.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if optimizer.logger == nil {
		optimizer.logger = zap.NewNop()
	}
	if optimizer.index == nil {
		optimizer.index = model.NewConflictIndex(semester)
	}

	if len(optimizer.neighborhoods) == 0 {
		return nil, errors.New("at least one neighborhood structure is required")
	}
	names := lo.Map(optimizer.neighborhoods, func(neighborhood Neighborhood, _ int) string { return neighborhood.Name() })
	if duplicates := lo.FindDuplicates(names); len(duplicates) > 0 {
		return nil, fmt.Errorf("neighborhood structures must have distinct names, found %v more than once", duplicates)
	}
	if err := parameters.Validate(len(optimizer.neighborhoods)); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	return optimizer, nil
}

func (optimizer *Optimizer) State() State {
	return State(optimizer.state.Load())
}

// Cancel stops the running (or next) Generate call at its next check. It is idempotent
func (optimizer *Optimizer) Cancel() {
	optimizer.cancelled.Store(true)
	if stop := optimizer.stop.Load(); stop != nil {
		(*stop)()
	}
}

func (optimizer *Optimizer) scope() Scope {
	return Scope{
		Semester: optimizer.semester,
		Index:    optimizer.index,
		Oracle:   optimizer.oracle,
		Rand:     optimizer.rand,
	}
}

// Generate evolves a population until the best timetable has no soft penalty or the run is cancelled (through ctx or Cancel).
// It returns nil without error when cancellation came before any feasible timetable existed
func (optimizer *Optimizer) Generate(ctx context.Context) (result *model.Timetable, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			implementationErr, ok := recovered.(*ImplementationError)
			if !ok {
				panic(recovered)
			}
			optimizer.logger.Error("optimizer aborted", zap.Error(implementationErr))
			result, err = nil, fmt.Errorf("optimizer aborted: %w", implementationErr)
		}
	}()

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	optimizer.stop.Store(&stop)
	if optimizer.cancelled.Load() {
		stop()
	}

	//** Initializing
	optimizer.state.Store(int32(Initializing))
	heuristic := NewSaturationDegreeHeuristic(optimizer.semester, optimizer.index, optimizer.oracle, optimizer.rand, optimizer.logger)
	heuristic.metrics = optimizer.metrics
	population, err := heuristic.GenerateFeasibleSolutions(ctx, optimizer.parameters.PopulationSize)
	if err != nil {
		optimizer.state.Store(int32(Idle))
		return nil, err
	}
	if len(population) == 0 {
		optimizer.state.Store(int32(Cancelled))
		optimizer.logger.Info("cancelled before any feasible timetable was built")
		return nil, nil
	}
	for _, timetable := range population {
		optimizer.score(timetable)
	}
	best := lo.MinBy(population, func(a, b *model.Timetable) bool {
		return a.SoftConstraintPenalty < b.SoftConstraintPenalty
	})
	optimizer.logger.Info("population initialized", zap.Int("size", len(population)), zap.Float64("best", best.SoftConstraintPenalty))

	//** Evolving
	optimizer.state.Store(int32(Evolving))
	scope := optimizer.scope()
	tabu := newTabuList(optimizer.parameters.TabuListSize)
	structure := optimizer.drawStructure(tabu)
	for generation := 1; best.SoftConstraintPenalty != 0; generation++ {
		if ctx.Err() != nil {
			optimizer.state.Store(int32(Cancelled))
			optimizer.logger.Info("evolution cancelled", zap.Int("generation", generation), zap.Float64("best", best.SoftConstraintPenalty))
			return best, nil
		}

		//** Selection and crossover
		parent1, parent2 := optimizer.selectParent(population), optimizer.selectParent(population)
		offspring1, offspring2 := optimizer.crossover(parent1, parent2)

		//** Mutation
		optimizer.mutate(offspring1, structure)
		optimizer.mutate(offspring2, structure)

		//** Local search
		searched1, searched2 := offspring1.Clone(), offspring2.Clone()
		structure.Apply(searched1, scope)
		structure.Apply(searched2, scope)

		candidates := []*model.Timetable{offspring1, offspring2, searched1, searched2}
		for _, candidate := range candidates {
			optimizer.score(candidate)
		}
		candidate := lo.MinBy(candidates, func(a, b *model.Timetable) bool {
			return a.SoftConstraintPenalty < b.SoftConstraintPenalty
		})

		applied := structure.Name()
		improved := candidate.SoftConstraintPenalty < best.SoftConstraintPenalty
		if improved {
			best = candidate
			optimizer.logger.Debug("best improved", zap.Int("generation", generation), zap.String("structure", applied), zap.Float64("best", best.SoftConstraintPenalty))
		} else {
			tabu.Push(structure)
			structure = optimizer.drawStructure(tabu)
		}

		//** Replacement
		optimizer.replaceWorst(population, candidate)

		optimizer.metrics.observeGeneration(applied, improved, best.SoftConstraintPenalty)
		if optimizer.hook != nil {
			optimizer.hook(Generation{
				Number:         generation,
				Structure:      applied,
				Improved:       improved,
				Best:           best,
				PopulationBest: lo.Min(lo.Map(population, func(timetable *model.Timetable, _ int) float64 { return timetable.SoftConstraintPenalty })),
				PopulationSize: len(population),
			})
		}
	}

	//** Converged
	optimizer.state.Store(int32(Converged))
	optimizer.logger.Info("converged to a fully compliant timetable")
	return best, nil
}

func (optimizer *Optimizer) score(timetable *model.Timetable) {
	timetable.SoftConstraintPenalty = optimizer.oracle.SoftPenalty(timetable)
}

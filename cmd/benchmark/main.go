package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/memetic"
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ResultType int

const (
	converged ResultType = iota
	cancelled
	none
	infeasible
	failed
)

var resultTypes = map[ResultType]string{
	converged:  "converged",
	cancelled:  "cancelled",
	none:       "none",
	infeasible: "infeasible",
	failed:     "failed",
}

type TestMetadata struct {
	Name      string
	Sessions  int
	Courses   int
	Teachers  int
	Rooms     int
	Curricula int
	semester  *model.Semester
	index     model.ConflictIndex
}

type BenchmarkResult struct {
	Test        TestMetadata
	Parameters  memetic.Parameters
	Seed        uint64
	Duration    time.Duration
	Generations int64
	Penalty     float64
	Result      ResultType
}

var (
	rootCmd = &cobra.Command{
		Use:   "benchmark",
		Short: "Benchmarks the memetic optimizer over a directory of semesters and a grid of parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context())
		},
	}
	testDirectory string
	outFile       string
	timeout       time.Duration
	concurrency   int
	seed          uint64
	parameterSets []string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&testDirectory, "dir", "../../test/semesters/", "Directory holding the semester files")
	flags.StringVar(&outFile, "out", "benchmark_results.csv", "Path to the CSV file with the results")
	flags.DurationVar(&timeout, "timeout", time.Minute, "Time budget of each run, the best timetable so far is taken when it expires")
	flags.IntVar(&concurrency, "concurrency", 2, "Maximum number of simultaneous runs")
	flags.Uint64Var(&seed, "seed", 1, "Base seed, each run derives its own from it")
	flags.StringArrayVar(&parameterSets, "grid", nil, "Parameter set as name=value pairs joined by commas (e.g. population=20,tabu=2); repeat for several sets, the built-in grid is used when absent")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBenchmark(ctx context.Context) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tests, err := getTests(testDirectory)
	if err != nil {
		return err
	}
	grid, err := getParameters(parameterSets)
	if err != nil {
		return err
	}

	results := make([]BenchmarkResult, len(tests)*len(grid))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for i, test := range tests {
		for j, parameters := range grid {
			position := i*len(grid) + j
			runSeed := seed + uint64(position)
			group.Go(func() error {
				logger.Info("benchmarking", zap.String("test", test.Name), zap.Any("parameters", parameters))
				results[position] = measure(ctx, test, parameters, runSeed, timeout, logger)
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return err
	}

	file, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()
	return toCsv(file, results)
}

func getTests(directory string) ([]TestMetadata, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	tests := make([]TestMetadata, 0, len(entries))
	for _, entry := range entries {
		extension := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || !slices.Contains([]string{".json", ".yaml", ".yml"}, extension) {
			continue
		}

		filename := filepath.Join(directory, entry.Name())
		semester, err := model.SemesterFromFile(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot parse input file \"%v\": %w", filename, err)
		}
		tests = append(tests, TestMetadata{
			Name:      filename,
			Sessions:  len(semester.Sessions()),
			Courses:   len(semester.Courses),
			Teachers:  len(semester.Teachers),
			Rooms:     len(semester.Rooms),
			Curricula: len(semester.Curricula),
			semester:  semester,
			index:     model.NewConflictIndex(semester),
		})
	}
	return tests, nil
}

// getParameters parses the given parameter sets, falling back to the built-in grid
func getParameters(sets []string) ([]memetic.Parameters, error) {
	if len(sets) > 0 {
		grid := make([]memetic.Parameters, 0, len(sets))
		for _, set := range sets {
			values := make(map[string]string)
			for _, pair := range strings.Split(set, ",") {
				name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
				if !ok {
					return nil, fmt.Errorf("malformed parameter \"%v\" in set \"%v\"", pair, set)
				}
				values[name] = value
			}
			parameters, err := memetic.ParseParameters(values)
			if err != nil {
				return nil, err
			}
			grid = append(grid, parameters)
		}
		return grid, nil
	}

	grid := make([]memetic.Parameters, 0)
	for _, population := range []int{10, 20} {
		for _, mutation := range []float64{0.01, 0.05} {
			for _, tabu := range []int{1, 2} {
				grid = append(grid, memetic.Parameters{
					PopulationSize: population,
					CrossoverRate:  0.8,
					MutationRate:   mutation,
					TabuListSize:   tabu,
				})
			}
		}
	}
	return grid, nil
}

// measure runs the optimizer once within the time budget
func measure(ctx context.Context, test TestMetadata, parameters memetic.Parameters, seed uint64, budget time.Duration, logger *zap.Logger) BenchmarkResult {
	result := BenchmarkResult{Test: test, Parameters: parameters, Seed: seed}

	var generations atomic.Int64
	oracle := constraints.NewStandardOracle(test.semester, test.index, constraints.DefaultWeights())
	optimizer, err := memetic.NewOptimizer(test.semester, oracle, parameters,
		memetic.WithConflictIndex(test.index),
		memetic.WithRand(rand.New(rand.NewPCG(seed, seed>>1|1))),
		memetic.WithLogger(logger.With(zap.String("test", test.Name), zap.Uint64("seed", seed))),
		memetic.WithGenerationHook(func(memetic.Generation) { generations.Add(1) }),
	)
	if err != nil {
		logger.Error("invalid run", zap.Error(err))
		result.Result = failed
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	timetable, err := optimizer.Generate(ctx)
	result.Duration = time.Since(start)
	result.Generations = generations.Load()

	switch {
	case err != nil:
		logger.Error("run failed", zap.String("test", test.Name), zap.Error(err))
		result.Result = failed
	case timetable == nil:
		result.Result = none
	case constraints.Verify(timetable, test.semester, oracle) != nil:
		result.Result = infeasible
	default:
		result.Penalty = timetable.SoftConstraintPenalty
		result.Result = lo.Ternary(optimizer.State() == memetic.Converged, converged, cancelled)
	}
	return result
}

func toCsv(writer io.Writer, results []BenchmarkResult) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{"Test", "Sessions", "Courses", "Teachers", "Rooms", "Curricula", "Population", "Crossover", "Mutation", "Tabu", "Seed", "Duration(ms)", "Generations", "Penalty", "Result"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Sessions),
			fmt.Sprintf("%d", result.Test.Courses),
			fmt.Sprintf("%d", result.Test.Teachers),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Test.Curricula),
			fmt.Sprintf("%d", result.Parameters.PopulationSize),
			fmt.Sprintf("%.2f", result.Parameters.CrossoverRate),
			fmt.Sprintf("%.3f", result.Parameters.MutationRate),
			fmt.Sprintf("%d", result.Parameters.TabuListSize),
			fmt.Sprintf("%d", result.Seed),
			fmt.Sprintf("%d", result.Duration.Milliseconds()),
			fmt.Sprintf("%d", result.Generations),
			fmt.Sprintf("%.1f", result.Penalty),
			resultTypes[result.Result],
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return errors.Join(errors.New("cannot flush CSV"), err)
	}
	return nil
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/limaJavier/memetic-timetabling/pkg/config"
	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/logger"
	"github.com/limaJavier/memetic-timetabling/pkg/memetic"
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	ExitFound        = 10
	ExitVerification = 15
	ExitNotFound     = 20
	ExitFailure      = 1
)

var (
	rootCmd = &cobra.Command{
		Use:   "cli",
		Short: "Builds a course timetable with the tabu-based memetic optimizer",
		Long: `Reads a semester definition (JSON or YAML), evolves feasible timetables until one fully complies with the soft constraints
and writes it as JSON. Type "q" followed by Enter (or send SIGINT) to stop early and keep the best timetable found so far.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, _ []string) {
			exitCode = run(cmd.Flags())
		},
	}
	parametersCmd = &cobra.Command{
		Use:   "parameters",
		Short: "Lists the optimizer parameters accepted as flags, environment variables or configuration keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			listParameters(cmd.OutOrStdout())
		},
	}
	filePath   string
	outFile    string
	configFile string
	exitCode   int
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&filePath, "file", "", "Path to the semester file (.json, .yaml or .yml)")
	flags.StringVar(&outFile, "out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	flags.StringVar(&configFile, "config", "", "Path to a configuration file; if empty, config.yaml next to the executable is used when present")

	defaults := memetic.DefaultParameters()
	flags.Int("population", defaults.PopulationSize, "Population size (>= 2)")
	flags.Float64("crossover", defaults.CrossoverRate, "Crossover rate in [0, 1]")
	flags.Float64("mutation", defaults.MutationRate, "Mutation rate in [0, 1]")
	flags.Int("tabu", defaults.TabuListSize, "Tabu list size (>= 1 and smaller than the number of neighborhood structures)")
	flags.Uint64("seed", 0, "Seed of the random source; 0 draws a random one")
	flags.String("metrics-addr", "", "Address to expose Prometheus metrics on (e.g. :9090); disabled when empty")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = rootCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(parametersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(exitCode)
}

func run(flags *pflag.FlagSet) int {
	cfg, err := config.Load(configFile, map[string]*pflag.Flag{
		"parameters.population": flags.Lookup("population"),
		"parameters.crossover":  flags.Lookup("crossover"),
		"parameters.mutation":   flags.Lookup("mutation"),
		"parameters.tabu":       flags.Lookup("tabu"),
		"seed":                  flags.Lookup("seed"),
		"metrics_addr":          flags.Lookup("metrics-addr"),
		"log.level":             flags.Lookup("log-level"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger: %v\n", err)
		return ExitFailure
	}
	defer func() { _ = log.Sync() }()

	// Extract input
	semester, err := model.SemesterFromFile(filePath)
	if err != nil {
		log.Error("cannot parse input file", zap.String("file", filePath), zap.Error(err))
		return ExitFailure
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	log.Info("semester loaded",
		zap.String("name", semester.Name),
		zap.Int("sessions", len(semester.Sessions())),
		zap.Int("rooms", len(semester.Rooms)),
		zap.Uint64("seed", seed),
	)

	// Initialize engines
	registry := prometheus.NewRegistry()
	metrics := memetic.NewMetrics(registry)
	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, registry, log)
		defer shutdown()
	}

	index := model.NewConflictIndex(semester)
	oracle := constraints.NewStandardOracle(semester, index, cfg.Weights)
	optimizer, err := memetic.NewOptimizer(semester, oracle, cfg.Parameters,
		memetic.WithConflictIndex(index),
		memetic.WithLogger(log),
		memetic.WithRand(rand.New(rand.NewPCG(seed, seed>>1|1))),
		memetic.WithMetrics(metrics),
	)
	if err != nil {
		log.Error("invalid optimizer configuration", zap.Error(err))
		return ExitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go listenForQuit(os.Stdin, optimizer.Cancel)

	// Build timetable
	start := time.Now()
	timetable, err := optimizer.Generate(ctx)
	if err != nil {
		var noSuitableRoom *memetic.NoSuitableRoomError
		if errors.As(err, &noSuitableRoom) {
			log.Error("input is unrealizable", zap.Stringer("session", noSuitableRoom.Session), zap.Error(err))
		} else if errors.Is(err, constraints.ErrUnrealizablePreAssignment) || errors.Is(err, constraints.ErrUnassignableRooms) {
			log.Error("input is unrealizable", zap.Error(err))
		} else {
			log.Error("an error occurred during timetable construction", zap.Error(err))
		}
		return ExitFailure
	} else if timetable == nil {
		log.Warn("no feasible timetable was built", zap.Stringer("state", optimizer.State()))
		return ExitNotFound
	}

	// Verify timetable correctness
	if problems := constraints.Verify(timetable, semester, oracle); problems != nil {
		for _, problem := range problems {
			log.Error("verification failed", zap.Error(problem))
		}
		return ExitVerification
	}

	timetable.Name = uuid.NewString()
	log.Info("timetable built",
		zap.String("name", timetable.Name),
		zap.Stringer("state", optimizer.State()),
		zap.Float64("penalty", timetable.SoftConstraintPenalty),
		zap.Duration("elapsed", time.Since(start)),
	)

	// Marshal output into json
	outputJson, err := json.MarshalIndent(buildOutput(semester, timetable), "", "  ")
	if err != nil {
		log.Error("an error occurred while building output json", zap.Error(err))
		return ExitFailure
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else if err := os.WriteFile(outFile, outputJson, 0666); err != nil {
		log.Error("an error occurred while writing to the output file", zap.String("file", outFile), zap.Error(err))
		return ExitFailure
	}
	return ExitFound
}

// listenForQuit cancels once a line reading "q" arrives
func listenForQuit(reader io.Reader, cancel func()) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
			cancel()
			return
		}
	}
}

func listParameters(writer io.Writer) {
	for _, definition := range memetic.ParameterDefinitions {
		fmt.Fprintf(writer, "%-12s %-6s %v (env %v_PARAMETERS_%v)\n",
			definition.Name, definition.Kind, definition.Description, config.EnvPrefix, strings.ToUpper(definition.Name))
	}
}

func serveMetrics(address string, registry *prometheus.Registry, log *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics endpoint stopped", zap.String("address", address), zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("address", address))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/limaJavier/memetic-timetabling/pkg/constraints"
	"github.com/limaJavier/memetic-timetabling/pkg/memetic"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	EnvPrefix = "TIMETABLING"
)

type Config struct {
	Env         string              `mapstructure:"env"`
	Seed        uint64              `mapstructure:"seed"` // 0 draws a random seed
	MetricsAddr string              `mapstructure:"metrics_addr"`
	Log         LogConfig           `mapstructure:"log"`
	Parameters  memetic.Parameters  `mapstructure:"parameters"`
	Weights     constraints.Weights `mapstructure:"weights"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load layers defaults, the configuration file, TIMETABLING_* environment variables and the bound flags (highest precedence).
// Without an explicit file, config.yaml (or config.json) is looked up next to the executable and in the working directory
func Load(file string, bindings map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		if executable, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(executable))
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read configuration: %w", err)
		}
	}

	for key, flag := range bindings {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("cannot bind flag \"%v\" to \"%v\": %w", flag.Name, key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	parameters, weights := memetic.DefaultParameters(), constraints.DefaultWeights()

	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("seed", 0)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("parameters.population", parameters.PopulationSize)
	v.SetDefault("parameters.crossover", parameters.CrossoverRate)
	v.SetDefault("parameters.mutation", parameters.MutationRate)
	v.SetDefault("parameters.tabu", parameters.TabuListSize)

	v.SetDefault("weights.unfavorable_period", weights.UnfavorablePeriod)
	v.SetDefault("weights.curriculum_gap", weights.CurriculumGap)
	v.SetDefault("weights.daily_overload", weights.DailyOverload)
	v.SetDefault("weights.room_instability", weights.RoomInstability)
	v.SetDefault("weights.max_daily_sessions", weights.MaxDailySessions)
}

package memetic

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersValidate(t *testing.T) {
	scenarios := map[string]struct {
		mutate   func(parameters *Parameters)
		expected error
	}{
		"population too small": {func(parameters *Parameters) { parameters.PopulationSize = 1 }, ErrPopulationSize},
		"negative crossover":   {func(parameters *Parameters) { parameters.CrossoverRate = -0.1 }, ErrCrossoverRate},
		"crossover above one":  {func(parameters *Parameters) { parameters.CrossoverRate = 1.5 }, ErrCrossoverRate},
		"mutation above one":   {func(parameters *Parameters) { parameters.MutationRate = 2 }, ErrMutationRate},
		"NaN crossover":        {func(parameters *Parameters) { parameters.CrossoverRate = math.NaN() }, ErrCrossoverRate},
		"NaN mutation":         {func(parameters *Parameters) { parameters.MutationRate = math.NaN() }, ErrMutationRate},
		"empty tabu list":      {func(parameters *Parameters) { parameters.TabuListSize = 0 }, ErrTabuListSize},
		"tabu list too large":  {func(parameters *Parameters) { parameters.TabuListSize = 3 }, ErrTabuListTooLarge},
	}

	for name, scenario := range scenarios {
		t.Run(name, func(t *testing.T) {
			//** Arrange
			parameters := DefaultParameters()
			scenario.mutate(&parameters)

			//** Act
			err := parameters.Validate(3)

			//** Assert
			assert.True(t, errors.Is(err, scenario.expected), "got %v", err)
		})
	}

	t.Run("Every violation is reported", func(t *testing.T) {
		err := Parameters{PopulationSize: 0, CrossoverRate: 2, MutationRate: -1, TabuListSize: 0}.Validate(3)
		for _, expected := range []error{ErrPopulationSize, ErrCrossoverRate, ErrMutationRate, ErrTabuListSize} {
			assert.True(t, errors.Is(err, expected))
		}
	})

	t.Run("Defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultParameters().Validate(len(DefaultNeighborhoods())))
	})
}

func TestParseParameters(t *testing.T) {
	t.Run("Overrides defaults", func(t *testing.T) {
		//** Act
		parameters, err := ParseParameters(map[string]string{"population": "20", "mutation": "0.05"})

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, Parameters{PopulationSize: 20, CrossoverRate: 0.8, MutationRate: 0.05, TabuListSize: 1}, parameters)
	})

	t.Run("Malformed value", func(t *testing.T) {
		_, err := ParseParameters(map[string]string{"tabu": "two"})
		assert.Error(t, err)
	})

	t.Run("NaN rate is parsed but rejected", func(t *testing.T) {
		parameters, err := ParseParameters(map[string]string{"crossover": "NaN"})
		require.NoError(t, err)
		assert.True(t, errors.Is(parameters.Validate(3), ErrCrossoverRate))
	})

	t.Run("Unknown parameter", func(t *testing.T) {
		_, err := ParseParameters(map[string]string{"elitism": "1"})
		assert.True(t, errors.Is(err, ErrUnknownParameter))
	})

	t.Run("Definitions are parseable", func(t *testing.T) {
		values := make(map[string]string)
		for _, definition := range ParameterDefinitions {
			values[definition.Name] = "1"
		}
		_, err := ParseParameters(values)
		assert.NoError(t, err)
	})
}

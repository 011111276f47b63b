package memetic

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrPopulationSize   = errors.New("population size must be >= 2")
	ErrCrossoverRate    = errors.New("crossover rate must be in [0, 1]")
	ErrMutationRate     = errors.New("mutation rate must be in [0, 1]")
	ErrTabuListSize     = errors.New("tabu list size must be >= 1")
	ErrTabuListTooLarge = errors.New("tabu list size must be smaller than the number of neighborhood structures")
	ErrUnknownParameter = errors.New("unknown parameter")
)

type Parameters struct {
	PopulationSize int     `mapstructure:"population"`
	CrossoverRate  float64 `mapstructure:"crossover"`
	MutationRate   float64 `mapstructure:"mutation"`
	TabuListSize   int     `mapstructure:"tabu"`
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: 10,
		CrossoverRate:  0.8,
		MutationRate:   0.01,
		TabuListSize:   1,
	}
}

// Validate reports every out-of-range parameter (NaN rates included), values are never clamped
func (parameters Parameters) Validate(neighborhoods int) error {
	problems := make([]error, 0)
	if parameters.PopulationSize < 2 {
		problems = append(problems, fmt.Errorf("%w, got %d", ErrPopulationSize, parameters.PopulationSize))
	}
	if !(parameters.CrossoverRate >= 0 && parameters.CrossoverRate <= 1) {
		problems = append(problems, fmt.Errorf("%w, got %v", ErrCrossoverRate, parameters.CrossoverRate))
	}
	if !(parameters.MutationRate >= 0 && parameters.MutationRate <= 1) {
		problems = append(problems, fmt.Errorf("%w, got %v", ErrMutationRate, parameters.MutationRate))
	}
	if parameters.TabuListSize < 1 {
		problems = append(problems, fmt.Errorf("%w, got %d", ErrTabuListSize, parameters.TabuListSize))
	} else if parameters.TabuListSize >= neighborhoods {
		problems = append(problems, fmt.Errorf("%w (%d), got %d", ErrTabuListTooLarge, neighborhoods, parameters.TabuListSize))
	}
	return errors.Join(problems...)
}

type ParameterKind string

const (
	IntegerParameter ParameterKind = "int"
	RealParameter    ParameterKind = "float"
)

type ParameterDefinition struct {
	Name        string
	Kind        ParameterKind
	Description string
}

// ParameterDefinitions is the parameter surface exposed to front-ends
var ParameterDefinitions = []ParameterDefinition{
	{Name: "population", Kind: IntegerParameter, Description: "population size (>= 2)"},
	{Name: "crossover", Kind: RealParameter, Description: "crossover rate in [0, 1]"},
	{Name: "mutation", Kind: RealParameter, Description: "mutation rate in [0, 1]"},
	{Name: "tabu", Kind: IntegerParameter, Description: "tabu list size (>= 1)"},
}

// ParseParameters overrides the defaults with named textual values. Ranges are checked by Validate
func ParseParameters(values map[string]string) (Parameters, error) {
	parameters := DefaultParameters()
	for name, value := range values {
		var err error
		switch name {
		case "population":
			parameters.PopulationSize, err = strconv.Atoi(value)
		case "crossover":
			parameters.CrossoverRate, err = strconv.ParseFloat(value, 64)
		case "mutation":
			parameters.MutationRate, err = strconv.ParseFloat(value, 64)
		case "tabu":
			parameters.TabuListSize, err = strconv.Atoi(value)
		default:
			return Parameters{}, fmt.Errorf("%w \"%v\"", ErrUnknownParameter, name)
		}
		if err != nil {
			return Parameters{}, fmt.Errorf("invalid value \"%v\" for parameter \"%v\": %w", value, name, err)
		}
	}
	return parameters, nil
}

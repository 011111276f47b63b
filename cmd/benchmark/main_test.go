package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/memetic-timetabling/pkg/memetic"
	"github.com/limaJavier/memetic-timetabling/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeSemester(t *testing.T, directory string) {
	t.Helper()
	raw := model.GenerateRawSemester(rand.New(rand.NewPCG(7, 11)), model.DefaultSemesterOptions())
	content, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(directory, "generated.json"), content, 0666))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "notes.txt"), []byte("ignored"), 0666))
}

func TestGetTests(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	writeSemester(t, directory)

	//** Act
	tests, err := getTests(directory)

	//** Assert
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, filepath.Join(directory, "generated.json"), tests[0].Name)
	assert.Equal(t, 9, tests[0].Courses)
	assert.Equal(t, 5, tests[0].Rooms)
	assert.Equal(t, len(tests[0].semester.Sessions()), tests[0].Sessions)
}

func TestGetParameters(t *testing.T) {
	t.Run("Built-in grid", func(t *testing.T) {
		grid, err := getParameters(nil)
		require.NoError(t, err)
		assert.Len(t, grid, 8)
		for _, parameters := range grid {
			assert.NoError(t, parameters.Validate(len(memetic.DefaultNeighborhoods())))
		}
	})

	t.Run("Explicit sets", func(t *testing.T) {
		grid, err := getParameters([]string{"population=20, tabu=2", "mutation=0.5"})
		require.NoError(t, err)
		require.Len(t, grid, 2)
		assert.Equal(t, 20, grid[0].PopulationSize)
		assert.Equal(t, 2, grid[0].TabuListSize)
		assert.Equal(t, memetic.DefaultParameters().CrossoverRate, grid[0].CrossoverRate)
		assert.Equal(t, 0.5, grid[1].MutationRate)
	})

	t.Run("Malformed and unknown parameters", func(t *testing.T) {
		_, err := getParameters([]string{"population"})
		assert.ErrorContains(t, err, "malformed parameter")
		_, err = getParameters([]string{"elitism=2"})
		assert.ErrorIs(t, err, memetic.ErrUnknownParameter)
	})
}

func TestMeasure(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	writeSemester(t, directory)
	tests, err := getTests(directory)
	require.NoError(t, err)

	//** Act
	result := measure(context.Background(), tests[0], memetic.DefaultParameters(), 5, 500*time.Millisecond, zap.NewNop())

	//** Assert
	assert.Contains(t, []ResultType{converged, cancelled}, result.Result)
	assert.GreaterOrEqual(t, result.Penalty, 0.0)
	assert.Equal(t, uint64(5), result.Seed)
	assert.Less(t, result.Duration, 10*time.Second)
}

func TestToCsv(t *testing.T) {
	//** Arrange
	results := []BenchmarkResult{
		{
			Test:        TestMetadata{Name: "a.json", Sessions: 12, Courses: 3, Teachers: 2, Rooms: 2, Curricula: 1},
			Parameters:  memetic.DefaultParameters(),
			Seed:        4,
			Duration:    1500 * time.Millisecond,
			Generations: 42,
			Penalty:     3,
			Result:      cancelled,
		},
		{Test: TestMetadata{Name: "b.yaml"}, Result: none},
	}
	var buffer bytes.Buffer

	//** Act
	err := toCsv(&buffer, results)

	//** Assert
	require.NoError(t, err)
	records, err := csv.NewReader(&buffer).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Test", records[0][0])
	assert.Equal(t, []string{"a.json", "12", "3", "2", "2", "1", "10", "0.80", "0.010", "1", "4", "1500", "42", "3.0", "cancelled"}, records[1])
	assert.Equal(t, "none", records[2][len(records[2])-1])
}

package forest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearData returns rows whose target is 2*x0 + x1 with a few noise columns.
func linearData(n int) ([][]float64, []float64, []string) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i % 17)
		b := float64(i % 5)
		x[i] = []float64{a, b, float64(i % 2)}
		y[i] = 2*a + b
	}
	return x, y, []string{"a", "b", "noise"}
}

func TestFit(t *testing.T) {
	x, y, names := linearData(200)

	f, err := Fit(x, y, names, Params{Trees: 25, MinSamplesSplit: 2, Seed: 7})
	require.NoError(t, err)
	assert.Len(t, f.Trees, 25)
	assert.Equal(t, 3, f.NumFeatures())

	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "Low", input: []float64{0, 0, 0}, expected: 0},
		{name: "Mid", input: []float64{8, 2, 1}, expected: 18},
		{name: "High", input: []float64{16, 4, 0}, expected: 36},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.Predict(tc.input)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1.0)
		})
	}
}

func TestFitIsDeterministicForSeed(t *testing.T) {
	x, y, names := linearData(60)
	p := Params{Trees: 5, MinSamplesSplit: 2, Seed: 42}

	a, err := Fit(x, y, names, p)
	require.NoError(t, err)
	b, err := Fit(x, y, names, p)
	require.NoError(t, err)

	assert.Equal(t, a.Trees, b.Trees)
}

func TestFitMinSamplesSplit(t *testing.T) {
	x, y, names := linearData(40)

	f, err := Fit(x, y, names, Params{Trees: 1, MinSamplesSplit: 1000, Seed: 1})
	require.NoError(t, err)
	require.Len(t, f.Trees[0].Nodes, 1)
	assert.Equal(t, 0, f.Trees[0].Depth())

	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))
	got, err := f.Predict([]float64{3, 3, 3})
	require.NoError(t, err)
	assert.InDelta(t, mean, got, 1e-9)
}

func TestFitConstantFeatures(t *testing.T) {
	x := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	y := []float64{1, 2, 3}

	f, err := Fit(x, y, []string{"a", "b"}, Params{Trees: 3, Seed: 1})
	require.NoError(t, err)
	for _, tree := range f.Trees {
		assert.Len(t, tree.Nodes, 1)
	}
}

func TestFitErrors(t *testing.T) {
	_, err := Fit(nil, nil, []string{"a"}, DefaultParams())
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Fit([][]float64{{1}}, []float64{1, 2}, []string{"a"}, DefaultParams())
	assert.Error(t, err)

	_, err = Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}, []string{"a", "b"}, DefaultParams())
	assert.ErrorIs(t, err, ErrFeatureCount)
}

func TestPredictFeatureCount(t *testing.T) {
	x, y, names := linearData(20)
	f, err := Fit(x, y, names, Params{Trees: 2, Seed: 3})
	require.NoError(t, err)

	_, err = f.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrFeatureCount)
	_, err = f.Predict([]float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrFeatureCount)
}

func TestSaveLoad(t *testing.T) {
	x, y, names := linearData(50)
	f, err := Fit(x, y, names, Params{Trees: 4, Seed: 9})
	require.NoError(t, err)
	f.ReferenceYear = 2024

	path := filepath.Join(t.TempDir(), "nested", "model.gob")
	require.NoError(t, Save(path, f))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.FeatureNames, loaded.FeatureNames)
	assert.Equal(t, 2024, loaded.ReferenceYear)

	for _, row := range x[:10] {
		want, err := f.Predict(row)
		require.NoError(t, err)
		got, err := loaded.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.gob"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
}

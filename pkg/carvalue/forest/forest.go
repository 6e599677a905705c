// Package forest implements an extremely randomized trees regressor.
//
// Every tree is grown on the full training set. At each node one random
// threshold is drawn per feature, uniformly between that feature's minimum and
// maximum over the node's samples, and the candidate with the largest variance
// reduction wins. Leaves predict the mean target of their samples and the
// forest predicts the mean over its trees.
package forest

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrFeatureCount = errors.New("feature count mismatch")
	ErrNoSamples    = errors.New("no training samples")
)

// Params controls fitting
type Params struct {
	Trees           int
	MinSamplesSplit int
	// Seed for the threshold draws. Zero seeds from the clock.
	Seed int64
}

// DefaultParams mirrors the usual library defaults for this model family
func DefaultParams() Params {
	return Params{
		Trees:           100,
		MinSamplesSplit: 2,
	}
}

// Forest is a fitted ensemble. All fields are exported so it can be gob encoded.
type Forest struct {
	FeatureNames  []string
	Trees         []Tree
	ReferenceYear int
	CreatedAt     time.Time
}

// NumFeatures is the input width the forest was fitted on
func (f *Forest) NumFeatures() int {
	return len(f.FeatureNames)
}

// Predict returns the mean of the per-tree predictions for x
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(x) != f.NumFeatures() {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", ErrFeatureCount, f.NumFeatures(), len(x))
	}
	if len(f.Trees) == 0 {
		return 0, errors.New("forest has no trees")
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

// Fit grows a forest on rows x with targets y. names labels the columns of x.
func Fit(x [][]float64, y []float64, names []string, p Params) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d rows but %d targets", len(x), len(y))
	}
	width := len(names)
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrFeatureCount, i, len(row), width)
		}
	}
	if p.Trees <= 0 {
		p.Trees = DefaultParams().Trees
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	b := &builder{
		x:        x,
		y:        y,
		width:    width,
		minSplit: p.MinSamplesSplit,
		rng:      rand.New(rand.NewSource(seed)),
	}

	all := make([]int, len(x))
	for i := range all {
		all[i] = i
	}

	f := &Forest{
		FeatureNames: append([]string(nil), names...),
		Trees:        make([]Tree, p.Trees),
		CreatedAt:    time.Now().UTC(),
	}
	for i := range f.Trees {
		b.grow(&f.Trees[i], all)
	}
	return f, nil
}

// Package estimator serves resale price estimates from a persisted model.
//
// The model is read from disk on first use and kept for the life of the
// Estimator. It is never reloaded: replacing the artifact on disk has no effect
// on a process that has already loaded it.
package estimator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"sync"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/encoder"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/forest"
)

var (
	ErrModelUnavailable = errors.New("model not trained yet")
	ErrFeatureMismatch  = errors.New("feature mismatch")
)

// Predictor is anything that maps a feature row to a price in the native unit
type Predictor interface {
	Predict(x []float64) (float64, error)
}

// LoadFunc reads a Predictor from path
type LoadFunc func(path string) (Predictor, error)

// LoadForest is the default LoadFunc
func LoadForest(path string) (Predictor, error) {
	f, err := forest.Load(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Estimator owns the lazily loaded model handle
type Estimator struct {
	path     string
	currency encoder.Currency
	load     LoadFunc
	log      *slog.Logger

	mu    sync.Mutex
	model Predictor
}

// Option configures an Estimator
type Option func(*Estimator)

// WithLoader replaces the artifact reader
func WithLoader(load LoadFunc) Option {
	return func(e *Estimator) { e.load = load }
}

// WithLogger sets the logger used for load events
func WithLogger(log *slog.Logger) Option {
	return func(e *Estimator) { e.log = log }
}

// New returns an Estimator for the artifact at path. Nothing is read until the
// first Estimate or Model call.
func New(path string, currency encoder.Currency, opts ...Option) *Estimator {
	e := &Estimator{
		path:     path,
		currency: currency,
		load:     LoadForest,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path is the artifact location
func (e *Estimator) Path() string {
	return e.path
}

// Model returns the cached model, loading it on the first successful call.
// A missing artifact is reported as ErrModelUnavailable and is not cached, so
// a model trained after startup is picked up by the next call.
func (e *Estimator) Model() (Predictor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model != nil {
		return e.model, nil
	}

	m, err := e.load(e.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no artifact at %s", ErrModelUnavailable, e.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	e.log.Info("model loaded", slog.String("path", e.path))
	e.model = m
	return m, nil
}

// Loaded reports whether the model has been read into memory
func (e *Estimator) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model != nil
}

// Estimate prices one feature vector. The returned price is in display
// currency, rounded to cents. A negative price is a valid result.
func (e *Estimator) Estimate(v encoder.FeatureVector) (dal.Estimate, error) {
	m, err := e.Model()
	if err != nil {
		return dal.Estimate{}, err
	}
	return e.predict(m, v.Slice())
}

func (e *Estimator) predict(m Predictor, x []float64) (dal.Estimate, error) {
	native, err := m.Predict(x)
	if err != nil {
		return dal.Estimate{}, fmt.Errorf("%w: %w", ErrFeatureMismatch, err)
	}

	e.log.Debug("prediction", slog.Any("features", x), slog.Float64("native", native))

	return dal.Estimate{
		Price:       Round2(e.currency.ToDisplay(native)),
		NativePrice: native,
		Features:    x,
	}, nil
}

// Classify maps the result of Estimate to the state a caller should present
func Classify(est dal.Estimate, err error) dal.Outcome {
	switch {
	case errors.Is(err, ErrModelUnavailable):
		return dal.OutcomeUnavailable
	case errors.Is(err, ErrFeatureMismatch):
		return dal.OutcomeMismatch
	case err != nil:
		return dal.OutcomeError
	case est.Negative():
		return dal.OutcomeAdvisory
	default:
		return dal.OutcomeSuccess
	}
}

// Round2 rounds v to two decimal places. Ties round half away from zero, not
// half to even: 0.125 becomes 0.13.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

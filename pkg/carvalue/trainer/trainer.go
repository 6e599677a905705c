// Package trainer is the offline job that fits the price model and writes the
// artifact the estimator serves.
package trainer

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dataset"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/encoder"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/forest"
)

// Config describes one training run
type Config struct {
	DatasetPath string
	ModelPath   string
	// ReferenceYear is the fixed year ages are measured from during training.
	ReferenceYear int
	Params        forest.Params
}

// Result reports what a run produced
type Result struct {
	Summary  dal.Summary
	Features []string
	Trees    int
	// Drift is set when the trained columns differ from the encoder schema.
	Drift bool
}

// Run loads the dataset, fits the forest on every row and saves it. When the
// dataset is missing the error wraps dataset.ErrDatasetMissing and nothing is
// written.
func Run(cfg Config, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.Default()
	}

	log.Info("loading data", slog.String("path", cfg.DatasetPath))
	records, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return Result{}, err
	}

	summary := dataset.Summarize(records)
	log.Info("dataset summary",
		slog.Int("rows", summary.Rows),
		slog.Float64("lowest", summary.Lowest),
		slog.Float64("median", summary.Median),
		slog.Float64("highest", summary.Highest),
		slog.Any("fuel_types", summary.FuelTypes),
	)

	m := dataset.Prepare(records, cfg.ReferenceYear)
	res := Result{
		Summary:  summary,
		Features: m.Names,
		Drift:    !slices.Equal(m.Names, encoder.Schema[:]),
	}
	log.Info("features", slog.Any("names", m.Names))
	if res.Drift {
		log.Warn("trained features differ from the serving schema, predictions will fail or be wrong until they match",
			slog.Any("trained", m.Names),
			slog.Any("serving", encoder.Schema[:]),
		)
	}

	log.Info("training extra trees regressor", slog.Int("trees", cfg.Params.Trees))
	model, err := forest.Fit(m.X, m.Y, m.Names, cfg.Params)
	if err != nil {
		return res, fmt.Errorf("failed to fit model: %w", err)
	}
	model.ReferenceYear = cfg.ReferenceYear
	res.Trees = len(model.Trees)

	log.Info("saving model", slog.String("path", cfg.ModelPath))
	if err := forest.Save(cfg.ModelPath, model); err != nil {
		return res, err
	}
	return res, nil
}

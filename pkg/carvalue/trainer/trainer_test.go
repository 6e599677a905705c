package trainer

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dataset"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/encoder"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/estimator"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sales = `Car_Name,Year,Selling_Price,Present_Price,Kms_Driven,Fuel_Type,Seller_Type,Transmission,Owner
ritz,2014,3.35,5.59,27000,Petrol,Dealer,Manual,0
sx4,2013,4.75,9.54,43000,Diesel,Dealer,Manual,0
ciaz,2017,7.25,9.85,6900,Petrol,Dealer,Manual,0
wagon r,2011,2.85,4.15,5200,Petrol,Dealer,Manual,0
swift,2014,4.6,6.87,42450,Diesel,Dealer,Manual,0
vitara brezza,2018,9.25,9.83,2071,Diesel,Dealer,Manual,0
Royal Enfield Classic 350,2017,1.2,1.47,11000,Petrol,Individual,Manual,0
innova,2017,23,25.39,15000,Diesel,Dealer,Automatic,0
sx4,2010,2.25,7.98,62000,CNG,Dealer,Manual,1
city,2015,5.9,13.6,51000,CNG,Individual,Automatic,3
`

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSales(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "car data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DatasetPath:   writeSales(t, dir, sales),
		ModelPath:     filepath.Join(dir, "models", "model.gob"),
		ReferenceYear: 2024,
		Params:        forest.Params{Trees: 10, MinSamplesSplit: 2, Seed: 5},
	}

	res, err := Run(cfg, quiet())
	require.NoError(t, err)
	assert.False(t, res.Drift)
	assert.Equal(t, encoder.Schema[:], res.Features)
	assert.Equal(t, 10, res.Trees)
	assert.Equal(t, 10, res.Summary.Rows)

	model, err := forest.Load(cfg.ModelPath)
	require.NoError(t, err)
	assert.Equal(t, 2024, model.ReferenceYear)

	// The innova row, re-encoded from display units, comes back at its selling price.
	cur := encoder.NewCurrency(encoder.DefaultRate)
	enc := encoder.New(2024, cur)
	v := enc.Encode(dal.VehicleAttributes{
		PurchaseYear:   2017,
		ShowroomPrice:  cur.ToDisplay(25.39),
		DistanceDriven: 15000,
		FuelType:       dal.Diesel,
		SellerType:     dal.Dealer,
		Transmission:   dal.Automatic,
	})
	est, err := estimator.New(cfg.ModelPath, cur).Estimate(v)
	require.NoError(t, err)
	assert.InDelta(t, 23.0, est.NativePrice, 1e-6)
	assert.InDelta(t, 23.0*encoder.DefaultRate, est.Price, 0.01)
}

func TestRunDatasetMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DatasetPath:   filepath.Join(dir, "car data.csv"),
		ModelPath:     filepath.Join(dir, "model.gob"),
		ReferenceYear: 2024,
		Params:        forest.DefaultParams(),
	}

	_, err := Run(cfg, quiet())
	assert.ErrorIs(t, err, dataset.ErrDatasetMissing)

	_, statErr := os.Stat(cfg.ModelPath)
	assert.True(t, os.IsNotExist(statErr), "no artifact may be written")
}

func TestRunReportsDrift(t *testing.T) {
	// Without CNG rows Diesel becomes the dropped category.
	var kept []string
	for _, line := range strings.Split(sales, "\n") {
		if !strings.Contains(line, ",CNG,") {
			kept = append(kept, line)
		}
	}

	dir := t.TempDir()
	cfg := Config{
		DatasetPath:   writeSales(t, dir, strings.Join(kept, "\n")),
		ModelPath:     filepath.Join(dir, "model.gob"),
		ReferenceYear: 2024,
		Params:        forest.Params{Trees: 3, Seed: 1},
	}

	res, err := Run(cfg, quiet())
	require.NoError(t, err)
	assert.True(t, res.Drift)
	assert.Len(t, res.Features, encoder.Width-1)

	_, err = estimator.New(cfg.ModelPath, encoder.NewCurrency(0)).
		Estimate(encoder.New(2024, encoder.NewCurrency(0)).Encode(dal.DefaultAttributes()))
	assert.ErrorIs(t, err, estimator.ErrFeatureMismatch)
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/encoder"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/estimator"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/forest"
)

const (
	minYear  = 1990
	minPrice = 100.0
)

type formView struct {
	Attrs         dal.VehicleAttributes
	MinYear       int
	MaxYear       int
	MinPrice      float64
	FuelTypes     []dal.FuelType
	SellerTypes   []dal.SellerType
	Transmissions []dal.Transmission
	OwnerCounts   []int
	Result        *estimator.Message
}

type reportView struct {
	ModelPath     string
	Rate          float64
	Schema        []string
	Loaded        bool
	Status        string
	Features      []string
	Trees         int
	ReferenceYear int
	CreatedAt     time.Time
}

func (h *httpServer) newFormView(attrs dal.VehicleAttributes) formView {
	return formView{
		Attrs:         attrs,
		MinYear:       minYear,
		MaxYear:       h.now().Year(),
		MinPrice:      minPrice,
		FuelTypes:     dal.FuelTypes,
		SellerTypes:   dal.SellerTypes,
		Transmissions: dal.Transmissions,
		OwnerCounts:   dal.OwnerCounts,
	}
}

// GetForm renders the prediction form with default values
func (h *httpServer) GetForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "form", h.newFormView(dal.DefaultAttributes()))
}

// PostPredict defines a POST handler that prices the submitted vehicle
func (h *httpServer) PostPredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}

	attrs, ok := h.parseAttributes(w, r.PostForm)
	if !ok {
		return
	}

	start := time.Now()
	vec := h.encoder.Encode(attrs)
	est, err := h.estimator.Estimate(vec)
	msg := estimator.Describe(est, err, h.datasetPath)

	h.metrics.predictions.WithLabelValues(string(msg.Outcome)).Inc()
	h.metrics.latency.Observe(time.Since(start).Seconds())

	if err != nil {
		h.log.Warn("prediction failed", slog.String("outcome", string(msg.Outcome)), slog.Any("error", err))
	} else {
		h.log.Info("prediction", slog.String("outcome", string(msg.Outcome)), slog.Float64("price", est.Price))
	}

	view := h.newFormView(attrs)
	view.Result = &msg
	h.render(w, statusFor(msg.Outcome), "form", view)
}

// GetReport renders the project report along with details of the loaded model
func (h *httpServer) GetReport(w http.ResponseWriter, r *http.Request) {
	view := reportView{
		ModelPath: h.estimator.Path(),
		Rate:      h.encoder.Currency.Rate,
		Schema:    encoder.Schema[:],
	}

	model, err := h.estimator.Model()
	switch {
	case errors.Is(err, estimator.ErrModelUnavailable):
		view.Status = "Model not trained yet."
	case err != nil:
		view.Status = err.Error()
	default:
		view.Loaded = true
		if f, ok := model.(*forest.Forest); ok {
			view.Features = f.FeatureNames
			view.Trees = len(f.Trees)
			view.ReferenceYear = f.ReferenceYear
			view.CreatedAt = f.CreatedAt
		}
	}
	h.render(w, http.StatusOK, "report", view)
}

// GetHealth reports liveness and whether the model is in memory
func (h *httpServer) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "ok",
		"model_loaded": h.estimator.Loaded(),
	})
	if err != nil {
		h.log.Error("health encode failed", slog.Any("error", err))
	}
}

func (h *httpServer) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("template render failed", slog.String("template", name), slog.Any("error", err))
	}
}

func statusFor(o dal.Outcome) int {
	switch o {
	case dal.OutcomeSuccess, dal.OutcomeAdvisory:
		return http.StatusOK
	case dal.OutcomeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseAttributes validates the form. Blank fields keep their defaults. On
// failure the 400 response has already been written.
func (h *httpServer) parseAttributes(w http.ResponseWriter, vars url.Values) (dal.VehicleAttributes, bool) {
	attrs := dal.DefaultAttributes()
	var err error

	if attrs.PurchaseYear, err = validateYear(w, vars, attrs.PurchaseYear, h.now().Year()); err != nil {
		h.log.Info("year validation failed", slog.Any("error", err))
		return attrs, false
	}
	if attrs.ShowroomPrice, err = validatePrice(w, vars, attrs.ShowroomPrice); err != nil {
		h.log.Info("price validation failed", slog.Any("error", err))
		return attrs, false
	}
	if attrs.DistanceDriven, err = validateCount(w, vars, "distance", attrs.DistanceDriven); err != nil {
		h.log.Info("distance validation failed", slog.Any("error", err))
		return attrs, false
	}
	if attrs.OwnerCount, err = validateCount(w, vars, "owners", attrs.OwnerCount); err != nil {
		h.log.Info("owner count validation failed", slog.Any("error", err))
		return attrs, false
	}
	if attrs.FuelType, err = validateChoice(w, vars, "fuel", attrs.FuelType, dal.ParseFuelType); err != nil {
		h.log.Info("fuel type validation failed", slog.Any("error", err))
		return attrs, false
	}
	if attrs.SellerType, err = validateChoice(w, vars, "seller", attrs.SellerType, dal.ParseSellerType); err != nil {
		h.log.Info("seller type validation failed", slog.Any("error", err))
		return attrs, false
	}
	if attrs.Transmission, err = validateChoice(w, vars, "transmission", attrs.Transmission, dal.ParseTransmission); err != nil {
		h.log.Info("transmission validation failed", slog.Any("error", err))
		return attrs, false
	}
	return attrs, true
}

func badRequest(w http.ResponseWriter, err error) error {
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte(err.Error()))
	return err
}

func validateYear(w http.ResponseWriter, vars url.Values, def, maxYear int) (int, error) {
	year := vars.Get("year")
	if year == "" {
		return def, nil
	}
	yearInt, err := strconv.Atoi(year)
	if err != nil {
		return 0, badRequest(w, err)
	}
	if yearInt < minYear || yearInt > maxYear {
		return 0, badRequest(w, fmt.Errorf("year must be between %d and %d: %d", minYear, maxYear, yearInt))
	}
	return yearInt, nil
}

func validatePrice(w http.ResponseWriter, vars url.Values, def float64) (float64, error) {
	price := vars.Get("price")
	if price == "" {
		return def, nil
	}
	priceDecimal, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, badRequest(w, err)
	}
	if math.IsNaN(priceDecimal) || math.IsInf(priceDecimal, 0) {
		return 0, badRequest(w, fmt.Errorf("price must be a finite number: %v", price))
	}
	if priceDecimal < minPrice {
		return 0, badRequest(w, fmt.Errorf("price must be at least %v: %v", minPrice, priceDecimal))
	}
	return priceDecimal, nil
}

func validateCount(w http.ResponseWriter, vars url.Values, name string, def int) (int, error) {
	value := vars.Get(name)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, badRequest(w, fmt.Errorf("%s: %w", name, err))
	}
	if n < 0 {
		return 0, badRequest(w, fmt.Errorf("%s must not be negative: %d", name, n))
	}
	return n, nil
}

func validateChoice[T ~string](w http.ResponseWriter, vars url.Values, name string, def T, parse func(string) (T, error)) (T, error) {
	value := vars.Get(name)
	if value == "" {
		return def, nil
	}
	v, err := parse(value)
	if err != nil {
		return def, badRequest(w, err)
	}
	return v, nil
}

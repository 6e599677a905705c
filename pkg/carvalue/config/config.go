// Package config resolves settings from flags, CARVALUE_* environment
// variables, an optional config file and a .env file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys
const (
	KeyServerAddress        = "server.address"
	KeyModelPath            = "model.path"
	KeyDatasetPath          = "dataset.path"
	KeyCurrencyRate         = "currency.rate"
	KeyEncoderReferenceYear = "encoder.reference_year"
	KeyTrainReferenceYear   = "train.reference_year"
	KeyTrainTrees           = "train.trees"
	KeyTrainMinSamplesSplit = "train.min_samples_split"
	KeyTrainSeed            = "train.seed"
	KeyLogLevel             = "log.level"
)

// Config holds all configuration for the service and the training job
type Config struct {
	ServerAddress string
	ModelPath     string
	DatasetPath   string
	CurrencyRate  float64
	// EncoderReferenceYear of zero means the current year.
	EncoderReferenceYear int

	TrainReferenceYear   int
	TrainTrees           int
	TrainMinSamplesSplit int
	TrainSeed            int64

	LogLevel string
}

// SetDefaults registers default values and environment bindings on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddress, ":8080")
	v.SetDefault(KeyModelPath, "models/model.gob")
	v.SetDefault(KeyDatasetPath, "data/car data.csv")
	v.SetDefault(KeyCurrencyRate, 1190.0)
	v.SetDefault(KeyEncoderReferenceYear, 0)
	v.SetDefault(KeyTrainReferenceYear, 2024)
	v.SetDefault(KeyTrainTrees, 100)
	v.SetDefault(KeyTrainMinSamplesSplit, 2)
	v.SetDefault(KeyTrainSeed, 0)
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix("CARVALUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyServerAddress, "CARVALUE_SERVER_ADDRESS", "SERVER_ADDRESS")
}

// Load reads .env (if present) and the optional config file, then resolves
// every key from v.
func Load(v *viper.Viper, file string) (*Config, error) {
	_ = godotenv.Load()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		ServerAddress:        v.GetString(KeyServerAddress),
		ModelPath:            v.GetString(KeyModelPath),
		DatasetPath:          v.GetString(KeyDatasetPath),
		CurrencyRate:         v.GetFloat64(KeyCurrencyRate),
		EncoderReferenceYear: v.GetInt(KeyEncoderReferenceYear),
		TrainReferenceYear:   v.GetInt(KeyTrainReferenceYear),
		TrainTrees:           v.GetInt(KeyTrainTrees),
		TrainMinSamplesSplit: v.GetInt(KeyTrainMinSamplesSplit),
		TrainSeed:            v.GetInt64(KeyTrainSeed),
		LogLevel:             v.GetString(KeyLogLevel),
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail far from their source
func (c *Config) Validate() error {
	var errs []error
	if c.ModelPath == "" {
		errs = append(errs, errors.New("model path is empty"))
	}
	if c.CurrencyRate <= 0 {
		errs = append(errs, fmt.Errorf("currency rate must be positive: %v", c.CurrencyRate))
	}
	if c.TrainTrees <= 0 {
		errs = append(errs, fmt.Errorf("tree count must be positive: %d", c.TrainTrees))
	}
	if c.TrainMinSamplesSplit < 2 {
		errs = append(errs, fmt.Errorf("min samples split must be at least 2: %d", c.TrainMinSamplesSplit))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewLogger builds a text slog.Logger at the configured level
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

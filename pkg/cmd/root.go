package cmd

import (
	"log"
	"log/slog"
	"os"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/config"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/encoder"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	RootCmdName  = "carvalue"
	RootCmdShort = "Used car resale price estimator"
	RootCmdLong  = `carvalue estimates the resale price of a used car from its purchase year,
showroom price, distance driven, owner count, fuel type, seller type and transmission.

Train the model once with "carvalue train", then serve the prediction form with
"carvalue serve" or price a single car with "carvalue predict".`
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var RootCmd = &cobra.Command{
	Use:               RootCmdName,
	Short:             RootCmdShort,
	Long:              RootCmdLong,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() {

	if err := RootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(-1)
	}
}

func init() {
	config.SetDefaults(viper.GetViper())

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("model", "models/model.gob", "path of the model artifact")
	flags.String("dataset", "data/car data.csv", "path of the sales dataset")
	flags.Float64("rate", encoder.DefaultRate, "display currency units per model unit")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Int("reference-year", 0, "year ages are measured from when predicting, 0 for the current year")

	viper.BindPFlag(config.KeyModelPath, flags.Lookup("model"))
	viper.BindPFlag(config.KeyDatasetPath, flags.Lookup("dataset"))
	viper.BindPFlag(config.KeyCurrencyRate, flags.Lookup("rate"))
	viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	viper.BindPFlag(config.KeyEncoderReferenceYear, flags.Lookup("reference-year"))

	RootCmd.AddCommand(ServeCmd, TrainCmd, PredictCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	logger = cfg.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

func newEncoder() *encoder.Encoder {
	return encoder.New(cfg.EncoderReferenceYear, encoder.NewCurrency(cfg.CurrencyRate))
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/config"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dataset"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/forest"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/trainer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	TrainCmdName  = "train"
	TrainCmdShort = "Fit the price model on the sales dataset"
	TrainCmdLong  = `Fit an extremely randomized trees regressor on every row of the sales dataset
and write it to the model path. Ages are measured from a fixed reference year
(--train-reference-year), not from the current year.`
)

func init() {
	flags := TrainCmd.Flags()
	flags.Int("trees", 100, "number of trees")
	flags.Int("min-samples-split", 2, "minimum samples required to split a node")
	flags.Int64("seed", 0, "random seed, 0 seeds from the clock")
	flags.Int("train-reference-year", 2024, "year ages are measured from during training")

	viper.BindPFlag(config.KeyTrainTrees, flags.Lookup("trees"))
	viper.BindPFlag(config.KeyTrainMinSamplesSplit, flags.Lookup("min-samples-split"))
	viper.BindPFlag(config.KeyTrainSeed, flags.Lookup("seed"))
	viper.BindPFlag(config.KeyTrainReferenceYear, flags.Lookup("train-reference-year"))
}

var TrainCmd = &cobra.Command{
	Use:   TrainCmdName,
	Short: TrainCmdShort,
	Long:  TrainCmdLong,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := trainer.Run(trainer.Config{
			DatasetPath:   cfg.DatasetPath,
			ModelPath:     cfg.ModelPath,
			ReferenceYear: cfg.TrainReferenceYear,
			Params: forest.Params{
				Trees:           cfg.TrainTrees,
				MinSamplesSplit: cfg.TrainMinSamplesSplit,
				Seed:            cfg.TrainSeed,
			},
		}, logger)
		if errors.Is(err, dataset.ErrDatasetMissing) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %q not found.\nPlease add the dataset file to train the model.\n", cfg.DatasetPath)
			return err
		}
		if err != nil {
			return err
		}

		logger.Info("model trained and saved", slog.String("path", cfg.ModelPath), slog.Int("trees", res.Trees))
		fmt.Fprintf(cmd.OutOrStdout(), "Features: %v\nDone! Model trained and saved to %s\n", res.Features, cfg.ModelPath)
		return nil
	},
}

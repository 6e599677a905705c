package cmd

import (
	"fmt"
	"math"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/dal"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/estimator"
	"github.com/spf13/cobra"
)

const (
	PredictCmdName  = "predict"
	PredictCmdShort = "Estimate the resale price of one car"
)

var predictArgs struct {
	year         int
	price        float64
	distance     int
	owners       int
	fuel         string
	seller       string
	transmission string
}

func init() {
	def := dal.DefaultAttributes()
	flags := PredictCmd.Flags()
	flags.IntVar(&predictArgs.year, "year", def.PurchaseYear, "year bought")
	flags.Float64Var(&predictArgs.price, "price", def.ShowroomPrice, "present showroom price in display currency")
	flags.IntVar(&predictArgs.distance, "distance", def.DistanceDriven, "kilometers driven")
	flags.IntVar(&predictArgs.owners, "owners", def.OwnerCount, "number of previous owners")
	flags.StringVar(&predictArgs.fuel, "fuel", string(def.FuelType), "Petrol, Diesel or CNG")
	flags.StringVar(&predictArgs.seller, "seller", string(def.SellerType), "Dealer or Individual")
	flags.StringVar(&predictArgs.transmission, "transmission", string(def.Transmission), "Manual or Automatic")
}

var PredictCmd = &cobra.Command{
	Use:   PredictCmdName,
	Short: PredictCmdShort,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := predictAttributes()
		if err != nil {
			return err
		}

		enc := newEncoder()
		est, err := estimator.New(cfg.ModelPath, enc.Currency, estimator.WithLogger(logger)).Estimate(enc.Encode(attrs))
		msg := estimator.Describe(est, err, cfg.DatasetPath)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, msg.Text)
		if msg.Hint != "" {
			fmt.Fprintln(out, msg.Hint)
		}
		return err
	},
}

func predictAttributes() (dal.VehicleAttributes, error) {
	fuel, err := dal.ParseFuelType(predictArgs.fuel)
	if err != nil {
		return dal.VehicleAttributes{}, err
	}
	seller, err := dal.ParseSellerType(predictArgs.seller)
	if err != nil {
		return dal.VehicleAttributes{}, err
	}
	transmission, err := dal.ParseTransmission(predictArgs.transmission)
	if err != nil {
		return dal.VehicleAttributes{}, err
	}
	if math.IsNaN(predictArgs.price) || math.IsInf(predictArgs.price, 0) || predictArgs.price <= 0 {
		return dal.VehicleAttributes{}, fmt.Errorf("price must be positive: %v", predictArgs.price)
	}
	if predictArgs.distance < 0 || predictArgs.owners < 0 {
		return dal.VehicleAttributes{}, fmt.Errorf("distance and owners must not be negative")
	}
	return dal.VehicleAttributes{
		PurchaseYear:   predictArgs.year,
		ShowroomPrice:  predictArgs.price,
		DistanceDriven: predictArgs.distance,
		OwnerCount:     predictArgs.owners,
		FuelType:       fuel,
		SellerType:     seller,
		Transmission:   transmission,
	}, nil
}

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/config"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/estimator"
	"github.com/nekruzvatanshoev/carvalue/pkg/carvalue/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ServeCmdName  = "serve"
	ServeCmdShort = "Serve the prediction form over HTTP"
	ServeCmdLong  = `Serve the prediction form, the project report, /healthz and /metrics.

The model artifact is read on the first prediction, not at startup, so the
server can start before the model has been trained.`
)

func init() {
	flags := ServeCmd.Flags()
	flags.String("addr", ":8080", "listen address (also SERVER_ADDRESS)")

	viper.BindPFlag(config.KeyServerAddress, flags.Lookup("addr"))
}

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {

		logger.Info("started serve cmd", slog.String("addr", cfg.ServerAddress), slog.String("model", cfg.ModelPath))

		enc := newEncoder()
		serve := server.NewHTTPServer(cfg.ServerAddress, server.Options{
			Encoder:     enc,
			Estimator:   estimator.New(cfg.ModelPath, enc.Currency, estimator.WithLogger(logger)),
			DatasetPath: cfg.DatasetPath,
			Logger:      logger,
		})

		signalCh := make(chan os.Signal, 1)
		errCh := make(chan error, 1)

		go func() {
			if err := serve.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		signal.Notify(signalCh, os.Interrupt)

		select {
		case sig := <-signalCh:
			logger.Info("shutting down the server", slog.String("signal", sig.String()))
		case err := <-errCh:
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return serve.Shutdown(ctx)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echo-labs/echo-core/adapter/api"
	"github.com/echo-labs/echo-core/adapter/cli"
	"github.com/echo-labs/echo-core/adapter/cli/item"
	"github.com/echo-labs/echo-core/adapter/cli/state"
	"github.com/echo-labs/echo-core/internal/app"
	"github.com/echo-labs/echo-core/pkg/config"
	"github.com/echo-labs/echo-core/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
			cliApp = nil
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		cliApp = cli.NewApp(
			container.CreateItemHandler,
			container.SuggestBlockHandler,
			container.DecideHandler,
			container.RecomputeStateHandler,
			container.LatestStateHandler,
			container.CurrentOpinionHandler,
			container.UpsertSnapshotHandler,
		)
		cliApp.SetCurrentUserID(container.UserID)

		cli.SetServeFunc(func(ctx context.Context) error {
			return serveAPI(ctx, cfg, container)
		})
	}

	cli.SetApp(cliApp)

	cli.AddCommand(item.Cmd)
	cli.AddCommand(state.Cmd)

	cli.ExecuteContext(ctx)
}

// serveAPI runs the HTTP server until the context is cancelled.
func serveAPI(ctx context.Context, cfg *config.Config, container *app.Container) error {
	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.HTTPAddr
	server := api.NewServer(serverCfg, container.APIHandler(), container.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/CRui5in/agentd/internal/config"
	"github.com/CRui5in/agentd/internal/deck"
	"github.com/CRui5in/agentd/internal/events"
	"github.com/CRui5in/agentd/internal/gateway"
	"github.com/CRui5in/agentd/internal/llm"
	"github.com/CRui5in/agentd/internal/tasks"
	"github.com/CRui5in/agentd/internal/tools"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the agentd gateway server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(_ context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	resolver := config.NewResolver(cfg.Backend.URL, cfg.Providers)
	gw := llm.NewGateway(ctx, resolver)
	snap := gw.Snapshot()
	slog.Info("provider registry ready", "provider", snap.Provider, "source", snap.Source)

	directory := tools.NewDirectory(cfg.Services)

	compilerURL, err := directory.ServiceURL("ppt")
	if err != nil {
		slog.Warn("document compiler service not available", "error", err)
	}
	assembler := deck.NewAssembler(compilerURL, config.StylePath())

	store := tasks.NewMemStore()
	notifier := tasks.NewNotifier(cfg.Backend.URL)
	runner := tasks.NewRunner(store, notifier, bus)
	runner.Ready(tools.NewRouter(gw, directory, assembler))

	if cfg.Refresh != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Refresh, func() {
			gw.Reload(context.Background())
		}); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", cfg.Refresh, err)
		}
		c.Start()
		defer c.Stop()
		slog.Info("provider refresh scheduled", "cron", cfg.Refresh)
	}

	server := gateway.NewServer(runner, gw, directory, bus, cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

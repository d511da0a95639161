package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/n0l0g0/pos-frontend/internal/api"
	"github.com/n0l0g0/pos-frontend/internal/catalog"
	"github.com/n0l0g0/pos-frontend/internal/employees"
	"github.com/n0l0g0/pos-frontend/internal/inventory"
	"github.com/n0l0g0/pos-frontend/internal/printer"
	"github.com/n0l0g0/pos-frontend/internal/register"
	"github.com/n0l0g0/pos-frontend/internal/reports"
	"github.com/n0l0g0/pos-frontend/internal/session"
	"github.com/n0l0g0/pos-frontend/pkg/config"
	"github.com/n0l0g0/pos-frontend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pos",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := session.OpenStore(cfg.Session.StorePath)
	if err != nil {
		logg.Error(context.Background(), "failed to open session store", err)
		os.Exit(1)
	}

	state := session.NewState()
	manager, err := session.NewManager(state, store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithTokenSource(state),
		api.WithUnauthorizedHook(manager.Invalidate),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create api client", err)
		os.Exit(1)
	}

	cart := register.NewCart()
	coordinator, err := register.NewCoordinator(cart, client, state.Cashier)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout coordinator", err)
		os.Exit(1)
	}

	displayLoc := cfg.Export.Location()

	var sink printer.Sink = printer.NewWriterSink(os.Stdout)
	var preview *printer.PreviewServer
	if cfg.Printer.PreviewEnabled {
		preview = printer.NewPreviewServer()
		if err := preview.Start(cfg.Printer.PreviewAddr); err != nil {
			logg.Error(context.Background(), "failed to start receipt preview server", err)
			os.Exit(1)
		}
		sink = preview
		logg.Info(logg.WithField(context.Background(), "addr", preview.Addr()), "receipt preview listening")
	}

	terminal := NewTerminal(TerminalParams{
		Config:      cfg,
		Logger:      logg,
		Client:      client,
		State:       state,
		Manager:     manager,
		Catalog:     catalog.NewCache(),
		Cart:        cart,
		Coordinator: coordinator,
		Renderer:    register.NewRenderer(displayLoc),
		Printer:     sink,
		Inventory:   inventory.NewService(client),
		Employees:   employees.NewService(client),
		Exporter:    reports.NewExporter(cfg.Export.Dir, displayLoc),
		In:          os.Stdin,
		Out:         os.Stdout,
	})

	runErr := terminal.Run(context.Background())

	var shutdownErr error
	if preview != nil {
		shutdownErr = multierr.Append(shutdownErr, preview.Close(context.Background()))
	}
	shutdownErr = multierr.Append(shutdownErr, store.Close())
	if shutdownErr != nil {
		logg.Error(context.Background(), "shutdown finished with errors", shutdownErr)
	}

	if runErr != nil {
		logg.Error(context.Background(), "terminal stopped unexpectedly", runErr)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/stratalib/strata/actuator"
	"github.com/stratalib/strata/config"
	"github.com/stratalib/strata/config/source"
	"github.com/stratalib/strata/configbootstrap"
	"github.com/stratalib/strata/core"
	"github.com/stratalib/strata/logging"
)

func main() {
	// 1) config: CLI flags and env vars are read first, then the layered
	// file source discovers and filters application.yml and its
	// profile-suffixed siblings against whatever profile they activate.
	var cfg config.Root
	manager, err := config.NewManager(&cfg, config.Options{
		DefaultProfiles: []string{"default"},
	},
		&source.EnvSource{},
		&source.CLISource{},
		&source.LayeredFileSource{BasePath: "configs"},
	)
	if err != nil {
		panic(err)
	}

	// 2) logging
	logger := logging.New().With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)

	// 3) compose the app
	app := core.NewApp(
		logger,
		configbootstrap.Module(manager),
		actuator.Module(),
	)

	// 4) seed shared objects into the container
	app.Container.Set(core.TypeKey[config.Root]{}, cfg)
	app.Container.Set(core.TypeKey[*slog.Logger]{}, logger)
	app.Container.Set(core.TypeKey[*config.Manager]{}, manager)

	// 5) run
	if err := app.Run(context.Background()); err != nil {
		logger.Error("app error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"log/slog"
	"os"

	"vision/internal/config"
	ui "vision/internal/ui"

	"github.com/lmittmann/tint"
)

func main() {
	cfg, cfgErr := config.Load(config.DefaultConfigPath, config.DefaultEnvPath)

	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.SlogLevel(),
			TimeFormat: "15:04:05",
		}),
	)
	slog.SetDefault(logger)

	if cfgErr != nil {
		logger.Warn("using default configuration", "err", cfgErr)
	}

	launcher := cfg.Launcher()
	logger.Info("detector configured",
		"interpreter", launcher.Interpreter,
		"script", launcher.Script,
		"work_dir", launcher.WorkDir,
	)

	app := ui.CreateApp(cfg, logger)

	app.Run()
}

package main

import (
	"context"
	"log"
	"time"

	"signal-desk/internal/api"
	"signal-desk/internal/config"
	"signal-desk/internal/dashboard"
	"signal-desk/internal/locale"
	"signal-desk/internal/logging"
	"signal-desk/internal/tracing"
	"signal-desk/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

// The terminal belongs to the dashboard, so logs go to a file unless LOG_OUTPUT
// says otherwise.
const defaultLogFile = "signal-desk.log"

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	newLoggerFunc  = logging.New
	initTracerFunc = tracing.InitTracer
	runProgramFunc = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	output := cfg.LogOutput
	if output == "" {
		output = defaultLogFile
	}
	logger, closer, err := newLoggerFunc(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: output})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "signal-desk", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	gw := api.NewGateway(cfg.BackendURL, time.Duration(cfg.RequestTimeoutSecs)*time.Second,
		api.WithTracer(tracer),
		api.WithLogger(logger),
	)
	ctrl := dashboard.NewController(gw, dashboard.Options{
		Text:         locale.Lookup(cfg.Locale),
		Features:     dashboard.FeaturesFrom(cfg.Features),
		PatternSlots: cfg.PatternSlots,
		ExportDir:    cfg.ExportDir,
		Logger:       &logger,
	})

	logger.Info().Str("backend", gw.BaseURL()).Msg("starting local dashboard")
	if err := runProgramFunc(tui.NewAppModel(tui.Services{Controller: ctrl, Ctx: ctx})); err != nil {
		log.Fatalf("dashboard exited: %v", err)
	}
}

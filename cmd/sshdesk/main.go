package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"signal-desk/internal/api"
	"signal-desk/internal/bot"
	"signal-desk/internal/cache"
	"signal-desk/internal/config"
	"signal-desk/internal/dashboard"
	"signal-desk/internal/db"
	"signal-desk/internal/domain"
	"signal-desk/internal/handler"
	"signal-desk/internal/locale"
	"signal-desk/internal/logging"
	"signal-desk/internal/metrics"
	"signal-desk/internal/repository"
	"signal-desk/internal/tracing"
	"signal-desk/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

const serviceName = "signal-desk-ssh"

type operatorKey struct{}

type operatorStore interface {
	FindByFingerprint(ctx context.Context, fingerprint string) (*repository.Operator, error)
	UpdateLastLogin(ctx context.Context, operatorID int64) error
}

// operatorDB is the opened registry with its health check and cleanup.
type operatorDB struct {
	store operatorStore
	ping  handler.Check
	close func()
}

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	newLoggerFunc      = logging.New
	initTracerFunc     = tracing.InitTracer
	openOperatorsFunc  = openOperators
	connectRedisFunc   = cache.NewRedis
	startTelegramFunc  = bot.StartTelegramBot
	startForwarderFunc = func(f *bot.AlertForwarder, ctx context.Context) { go f.Start(ctx) }
	newRouterFunc      = gin.Default
	newSSHServerFunc   = wish.NewServer

	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startSSHServerFunc     = func(s *ssh.Server) error { return s.ListenAndServe() }
	shutdownSSHServerFunc  = func(s *ssh.Server, ctx context.Context) error { return s.Shutdown(ctx) }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func openOperators(ctx context.Context, dsn string, tracer trace.Tracer) (*operatorDB, error) {
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errors.New("DATABASE_URL is required to authorize operators")
	}
	repo := repository.NewOperatorRepository(pool, tracer)
	if err := repo.RunMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run operator migrations: %w", err)
	}
	return &operatorDB{store: repo, ping: pool.Ping, close: pool.Close}, nil
}

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	logger, closer, err := newLoggerFunc(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	operators, err := openOperatorsFunc(ctx, cfg.DatabaseURL, tracer)
	if err != nil {
		log.Fatalf("failed to open operator registry: %v", err)
	}
	defer operators.close()

	rdb, err := connectRedisFunc(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}
	dedupe := cache.NewDeduper(rdb, time.Duration(cfg.AlertDedupeSecs)*time.Second)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(reg)
	observers := dashboard.MultiObserver{recorder}

	forwarder, err := startTelegramFunc(cfg.TelegramBotToken, cfg.AlertChatIDs, dedupe, logger)
	if err != nil {
		log.Fatalf("failed to start Telegram bot: %v", err)
	}
	if forwarder != nil {
		startForwarderFunc(forwarder, ctx)
		observers = append(observers, forwarder)
	}

	gw := api.NewGateway(cfg.BackendURL, time.Duration(cfg.RequestTimeoutSecs)*time.Second,
		api.WithTracer(tracer),
		api.WithLogger(logger),
	)

	var active atomic.Int64
	deps := sessionDeps{
		cfg:      cfg,
		gateway:  gw,
		observer: observers,
		recorder: recorder,
		store:    operators.store,
		logger:   logger,
		active:   &active,
	}

	sshServer, err := newSSHServerFunc(
		wish.WithAddress(net.JoinHostPort(cfg.SSHBind, strconv.Itoa(cfg.SSHPort))),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(authorize(operators.store, logger)),
		wish.WithMiddleware(
			bm.Middleware(sessionHandler(deps)),
			activeterm.Middleware(),
			wishlogging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	var srv *http.Server
	if cfg.HealthPort > 0 {
		h := handler.New(tracer, reg, func() int { return int(active.Load()) })
		h.AddCheck("postgres", operators.ping)
		if rdb != nil {
			h.AddCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		}
		h.AddCheck("backend", backendCheck(gw))

		r := newRouterFunc()
		r.Use(otelgin.Middleware(serviceName))
		h.RegisterRoutes(r)

		srv = &http.Server{
			Addr:    ":" + strconv.Itoa(cfg.HealthPort),
			Handler: r,
		}
		go func() {
			if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
				log.Fatalf("listen: %s\n", err)
			}
		}()
	}

	go func() {
		log.Printf("SSH dashboard listening on %s:%d", cfg.SSHBind, cfg.SSHPort)
		if err := startSSHServerFunc(sshServer); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatalf("ssh listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownSSHServerFunc(sshServer, shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Printf("SSH server forced to shutdown: %v", err)
	}
	if srv != nil {
		if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
			log.Printf("Health server forced to shutdown: %v", err)
		}
	}

	log.Println("Server exiting")
}

// authorize admits keys registered to an active operator and stashes the
// operator on the connection context.
func authorize(store operatorStore, logger zerolog.Logger) ssh.PublicKeyHandler {
	return func(ctx ssh.Context, key ssh.PublicKey) bool {
		op, ok := lookupOperator(ctx, store, key, logger)
		if ok {
			ctx.SetValue(operatorKey{}, op)
		}
		return ok
	}
}

func lookupOperator(ctx context.Context, store operatorStore, key gossh.PublicKey, logger zerolog.Logger) (*repository.Operator, bool) {
	fp := gossh.FingerprintSHA256(key)
	op, err := store.FindByFingerprint(ctx, fp)
	if err != nil {
		logger.Warn().Err(err).Str("fingerprint", fp).Msg("operator lookup failed")
		return nil, false
	}
	if op == nil {
		logger.Info().Str("fingerprint", fp).Msg("rejected unknown key")
		return nil, false
	}
	return op, true
}

type sessionDeps struct {
	cfg      *config.Config
	gateway  dashboard.Gateway
	observer dashboard.Observer
	recorder *metrics.Recorder
	store    operatorStore
	logger   zerolog.Logger
	active   *atomic.Int64
}

func sessionHandler(deps sessionDeps) bm.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		op, _ := s.Context().Value(operatorKey{}).(*repository.Operator)
		if op == nil {
			op = &repository.Operator{Username: s.User()}
		}
		remote := s.RemoteAddr().String()
		if host, _, err := net.SplitHostPort(remote); err == nil {
			remote = host
		}

		deps.recorder.SessionOpened()
		deps.active.Add(1)
		go func() {
			<-s.Context().Done()
			deps.recorder.SessionClosed()
			deps.active.Add(-1)
		}()

		if op.ID != 0 {
			if err := deps.store.UpdateLastLogin(s.Context(), op.ID); err != nil {
				deps.logger.Warn().Err(err).Str("operator", op.Username).Msg("failed to record login")
			}
		}

		m := newSessionModel(s.Context(), deps, op, remote)
		return m, []tea.ProgramOption{tea.WithAltScreen()}
	}
}

// newSessionModel builds an independent dashboard for one operator session.
func newSessionModel(ctx context.Context, deps sessionDeps, op *repository.Operator, remote string) tui.AppModel {
	pref := deps.cfg.Locale
	if op.Locale != "" {
		pref = op.Locale
	}
	// Exports land in and screenshots are read from the operator's own directory.
	exportDir := filepath.Join(deps.cfg.ExportDir, op.Username)
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		deps.logger.Warn().Err(err).Str("dir", exportDir).Msg("export directory unavailable")
	}

	logger := deps.logger.With().Str("operator", op.Username).Str("remote", remote).Logger()
	ctrl := dashboard.NewController(deps.gateway, dashboard.Options{
		Text:         locale.Lookup(pref),
		Features:     dashboard.FeaturesFrom(deps.cfg.Features),
		PatternSlots: deps.cfg.PatternSlots,
		ExportDir:    exportDir,
		UploadDir:    exportDir,
		Logger:       &logger,
		Observer:     deps.observer,
	})
	logger.Info().Msg("session opened")

	return tui.NewAppModel(tui.Services{
		Controller: ctrl,
		Ctx:        ctx,
		Session:    tui.Session{Operator: op.Name(), Remote: remote},
	})
}

// backendCheck reports the backend reachable when the dashboard endpoint
// answers, rejections included.
func backendCheck(gw *api.Gateway) handler.Check {
	return func(ctx context.Context) error {
		_, err := gw.DashboardData(ctx)
		if errors.Is(err, domain.ErrTransport) {
			return err
		}
		return nil
	}
}

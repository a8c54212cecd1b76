package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"Aeolus/internal/auth"
	"Aeolus/internal/calc/batch"
	"Aeolus/internal/calc/diagram"
	"Aeolus/internal/calc/importer"
	"Aeolus/internal/calc/report"
	"Aeolus/internal/calc/wind"
	"Aeolus/internal/config"
	"Aeolus/internal/observability"
	"Aeolus/internal/repo"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var wg sync.WaitGroup

// Store is what the handlers need from persistence.
type Store interface {
	repo.Repository
	repo.RunRepository
}

type deps struct {
	cfg      *config.Config
	store    Store
	defaults wind.Options
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func CORS(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		router.ServeHTTP(w, r)
	})
}

func HandleList(router *mux.Router, d deps) {
	authEnv := &auth.Env{JWTKey: d.cfg.TokenKey, Repo: d.store, Logger: d.logger}
	limiter := auth.NewIPRateLimiter(d.cfg.RateLimit, d.cfg.RateBurst)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.LoginHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.Middleware)

	windH := &wind.Handler{Defaults: d.defaults, Runs: d.store, Metrics: d.metrics, Logger: d.logger}
	reportH := &report.Handler{Defaults: d.defaults, Metrics: d.metrics, Logger: d.logger}
	diagramH := &diagram.Handler{Defaults: d.defaults, Metrics: d.metrics, Logger: d.logger}
	batchH := &batch.Handler{Defaults: d.defaults, Metrics: d.metrics}
	importH := &importer.Handler{Defaults: d.defaults, Metrics: d.metrics, Logger: d.logger}

	secureApi.HandleFunc("/tools/wind/calc", windH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/wind/history", windH.History).Methods("GET")
	secureApi.HandleFunc("/tools/wind/report", reportH.Markdown).Methods("POST")
	secureApi.HandleFunc("/tools/wind/report/pdf", reportH.PDF).Methods("POST")
	secureApi.HandleFunc("/tools/wind/diagram", diagramH.SVG).Methods("POST")
	secureApi.HandleFunc("/tools/wind/batch", batchH.Wind).Methods("POST")
	secureApi.HandleFunc("/tools/wind/import", importH.Wind).Methods("POST")
}

// defaultOptions resolves the configured engine defaults.
func defaultOptions(cfg *config.Config) (wind.Options, error) {
	model, err := wind.ParseModel(cfg.WindModel)
	if err != nil {
		return wind.Options{}, err
	}
	units, err := wind.ParseUnits(cfg.WindUnits)
	if err != nil {
		return wind.Options{}, err
	}
	return wind.Options{Model: model, Units: units}, nil
}

// openStore uses Postgres when DATABASE_URL is set and process memory
// otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, users and history are kept in memory")
		return repo.NewMemory(), func() {}, nil
	}
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo.NewPostgresUserDB(db), func() { db.Close() }, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	defaults, err := defaultOptions(cfg)
	if err != nil {
		logger.Error("invalid engine defaults", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	router := mux.NewRouter()
	HandleList(router, deps{
		cfg:      cfg,
		store:    store,
		defaults: defaults,
		metrics:  observability.NewMetrics(),
		logger:   logger,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: CORS(router),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "addr", cfg.HTTPAddr, "model", defaults.Model.Name(), "units", defaults.Units)
		var err error
		if cfg.TLSCertFile == "" {
			err = server.ListenAndServe()
		} else {
			err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	wg.Wait()
	logger.Info("shutdown complete")
}

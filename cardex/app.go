package cardex

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	"github.com/ForTeamEffect/kap-front/cardex/metrics"
	"github.com/ForTeamEffect/kap-front/internal/middleware"
)

// App is the main application, it wires the backend, the service and the HTTP
// API and is responsible for starting and stopping them.
type App struct {
	srv      *http.Server
	wg       *sync.WaitGroup
	Addr     string
	logger   *slog.Logger
	config   *Config
	registry *prometheus.Registry
	backend  *MemoryBackend
}

func NewApp(logger *slog.Logger, config *Config) *App {
	logger = logger.With(slog.String("app", "cardex"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:       &sync.WaitGroup{},
		logger:   logger,
		config:   config,
		registry: prometheus.NewRegistry(),
	}
}

// Backend returns the in-memory backend once the app has started.
func (a *App) Backend() *MemoryBackend {
	return a.backend
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	if err := a.config.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	a.backend = NewMemoryBackend(a.config)
	a.backend.SeedDemo()
	a.logger.Info("memory backend seeded", slog.String("person_id", DemoPersonID))

	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := NewService(a.backend, a.config, a.logger, metrics.New(a.registry))

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(a.logger))
	router.Use(chimiddleware.Recoverer)

	NewAPI(svc).AppendRoutes(router)
	a.appendOpsRoutes(router)

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

// appendOpsRoutes mounts health, metrics and the dev console of the memory
// backend.
func (a *App) appendOpsRoutes(router chi.Router) {
	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.backend.Ping(ctx); err != nil {
			http.Error(w, "backend not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	router.Route("/dev/persons/{personID}", func(r chi.Router) {
		r.Post("/accounts/{account}/fulfil", func(w http.ResponseWriter, r *http.Request) {
			card, err := a.backend.FulfilPhysicalOrder(chi.URLParam(r, "personID"), accountParam(r))
			if err != nil {
				writeError(w, err)
				return
			}
			a.logger.Info("physical order fulfilled", slog.String("card_id", card.ID))
			writeJSON(w, http.StatusCreated, card)
		})
		r.Post("/cards/{cardID}/emboss", func(w http.ResponseWriter, r *http.Request) {
			card, err := a.backend.MarkEmbossed(chi.URLParam(r, "personID"), chi.URLParam(r, "cardID"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, card)
		})
	})
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		a.logger.Error("shutting down http server", "err", err)
	}

	a.wg.Wait()

	a.logger.Info("app stopped")
}

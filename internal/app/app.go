package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"organizese/internal/config"
	"organizese/internal/handlers"
	"organizese/internal/logger"
	"organizese/internal/middleware"
	"organizese/internal/repository/inmemory"
	"organizese/internal/repository/postgres"
	"organizese/internal/schedule"
	"organizese/internal/service"
	"organizese/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config        *config.Config
	server        *http.Server
	router        *chi.Mux
	taskRepo      service.TaskRepository
	personRepo    service.PersonRepository
	taskService   *service.TaskService
	peopleService *service.PeopleService
	worker        *worker.RepairWorker
	shutdowns     []func()
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(logger.Options{
		Development: a.config.Logging.Development,
		Level:       a.config.Logging.Level,
	}); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	if err := a.initRepositories(ctx); err != nil {
		a.Close()
		return nil, err
	}

	clock, err := schedule.NewClock(a.config.Schedule.TimeZone)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.peopleService = service.NewPeopleService(a.personRepo)
	a.taskService = service.NewTaskService(a.taskRepo, a.peopleService, clock)

	if a.config.Worker.Enabled {
		a.worker = worker.NewRepairWorker(a.taskService, &a.config.Worker.Interval, &a.config.Worker.BatchSize)
	}

	a.router = a.routes()
	var handler http.Handler = a.router
	if a.config.Tracing.Enabled {
		handler = otelhttp.NewHandler(a.router, a.config.Tracing.ServiceName)
	}

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      handler,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.String("time_zone", a.config.Schedule.TimeZone),
		zap.Bool("worker", a.worker != nil),
		zap.Bool("tracing", a.config.Tracing.Enabled))
	return a, nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		db := a.config.Database
		if db.MigrateOnStart {
			if err := postgres.MigrateUp(db.URL); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
		}
		storage, err := postgres.New(ctx, db.URL,
			postgres.WithMaxConns(db.MaxConnections),
			postgres.WithMinConns(db.MinConnections),
			postgres.WithIdleTimeout(db.IdleTimeout),
			postgres.WithPingRetries(db.PingRetries),
		)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		a.taskRepo = storage
		a.personRepo = storage
	default:
		a.taskRepo = inmemory.NewTaskStorage()
		a.personRepo = inmemory.NewPersonStorage()
	}
	return nil
}

func (a *App) routes() *chi.Mux {
	taskHandler := handlers.NewTaskHandler(a.taskService)
	scheduleHandler := handlers.NewScheduleHandler(a.taskService)
	peopleHandler := handlers.NewPeopleHandler(a.peopleService)
	adminHandler := handlers.NewAdminHandler(a.taskService, a.config.Worker.BatchSize)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", middleware.HeaderUserID, middleware.HeaderImpersonate},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.HTTP.RateLimitRPM))

	r.Get("/health", taskHandler.HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(a.config.AdminIDs()))

		r.Route("/tasks", taskHandler.Routes)
		r.Route("/schedule", scheduleHandler.Routes)
		peopleHandler.Routes(r)
		r.Post("/admin/repair", adminHandler.RepairHistories)
	})
	return r
}

func (a *App) TaskService() *service.TaskService {
	return a.taskService
}

func (a *App) PeopleService() *service.PeopleService {
	return a.peopleService
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP and runs the repair worker until ctx is cancelled or one of
// them fails, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("App: shutting down server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Close()
	return err
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

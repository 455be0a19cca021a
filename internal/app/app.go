package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"todoTracker/internal/config"
	"todoTracker/internal/confirm"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/overdue"
	"todoTracker/internal/repository"
	"todoTracker/internal/service"
	"todoTracker/internal/store"
	"todoTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// период очистки просроченных запросов подтверждения
const promptPurgeInterval = time.Minute

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	store      store.DocumentStore
	repository *repository.TaskRepository
	service    *service.TaskService
	prompts    *confirm.Registry
	worker     *worker.OverdueWorker
	shutdowns  []func() // функции для graceful shutdown, вызываются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	s, err := OpenStore(ctx, a.config)
	if err != nil {
		return err
	}
	a.store = s
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Закрытие хранилища...")
		if err := s.Close(); err != nil {
			logger.Error("App: Ошибка закрытия хранилища", err)
		}
	})

	a.repository = repository.NewTaskRepository(a.store)
	evaluator := overdue.NewEvaluator(a.repository)
	a.service = service.NewTaskService(a.repository, evaluator)
	a.prompts = confirm.NewRegistry(a.config.Confirm.PromptTTL)
	a.worker = worker.NewOverdueWorker(a.repository, evaluator, a.config.Overdue.SweepInterval, a.config.Overdue.BatchSize)

	a.router = a.buildRouter()
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("addr", a.server.Addr),
		zap.String("repository", a.config.Repository.Type))
	return nil
}

func (a *App) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))

	handlers.NewTaskHandler(a.service, a.prompts).Register(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Router нужен тестам и для встраивания
func (a *App) Router() http.Handler {
	return a.router
}

// Run блокируется до отмены ctx или падения сервера
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: HTTP сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(promptPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := a.prompts.Purge(); n > 0 {
					logger.Debug("App: Просроченные запросы подтверждения удалены", zap.Int("count", n))
				}
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка HTTP сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка http сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

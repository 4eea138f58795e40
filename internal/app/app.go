package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/repository/localstore"
	"taskboard/internal/repository/postgres"
	"taskboard/internal/service"
	"taskboard/internal/worker"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	worker    *worker.OverdueWorker
	shutdowns []func() // функции для graceful shutdown
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
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	projectRepo, taskRepo, health, err := a.initRepository(ctx)
	if err != nil {
		return err
	}

	projectService := service.NewProjectService(projectRepo)
	taskService := service.NewTaskService(taskRepo)

	projectHandler := handlers.NewProjectHandler(&projectService, health)
	taskHandler := handlers.NewTaskHandler(&taskService)

	a.router = a.buildRouter(&projectHandler, &taskHandler)
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	a.worker = worker.NewOverdueWorker(projectRepo, taskRepo, 5*time.Minute)

	return nil
}

func (a *App) initRepository(ctx context.Context) (repository.ProjectRepository, repository.TaskRepository, handlers.HealthChecker, error) {
	switch a.config.Repository.Type {
	case "postgres", "":
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.Options{
			MaxConns:    int32(a.config.Database.MaxConnections),
			MinConns:    int32(a.config.Database.MinConnections),
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("подключение к postgres: %w", err)
		}
		if err := storage.Migrate(); err != nil {
			return nil, nil, nil, fmt.Errorf("миграции: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		return storage.Projects(), storage.Tasks(), storage, nil

	case "localstore":
		store, err := localstore.New(a.config.Client.DataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("локальное хранилище: %w", err)
		}
		return store.Projects(), store.Tasks(), store, nil

	default:
		return nil, nil, nil, fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}
}

func (a *App) buildRouter(projectHandler *handlers.ProjectHandler, taskHandler *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", projectHandler.GetProjects)  // GET /projects
		r.Post("/", projectHandler.PostProject) // POST /projects

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", projectHandler.GetProjectByID)       // GET /projects/{id}
			r.Put("/", projectHandler.UpdateProjectByID)    // PUT /projects/{id}
			r.Delete("/", projectHandler.DeleteProjectByID) // DELETE /projects/{id}

			r.Get("/tasks", taskHandler.GetProjectTasks)            // GET /projects/{id}/tasks
			r.Post("/tasks", taskHandler.PostProjectTask)           // POST /projects/{id}/tasks
			r.Put("/tasks/order", taskHandler.ReorderProjectTasks)  // PUT /projects/{id}/tasks/order
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})

	r.Get("/health", projectHandler.HealthCheck)

	return r
}

// Run блокируется до отмены контекста, затем гасит сервер и ресурсы.
func (a *App) Run(ctx context.Context) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	go a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started: " + a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("сервер: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	a.Shutdown()
	return nil
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

// Router отдаёт собранный маршрутизатор (нужно тестам).
func (a *App) Router() *chi.Mux {
	return a.router
}

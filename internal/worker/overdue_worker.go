package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/board"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

// OverdueWorker периодически обходит проекты и пишет в лог сводку по
// просроченным задачам и прогрессу. Показатели считает та же чистая
// функция, что и доска.
type OverdueWorker struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	interval time.Duration
}

func NewOverdueWorker(projects repository.ProjectRepository, tasks repository.TaskRepository, interval time.Duration) *OverdueWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &OverdueWorker{
		projects: projects,
		tasks:    tasks,
		interval: interval,
	}
}

func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка проектов на просроченность", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *OverdueWorker) Check(ctx context.Context) {
	start := time.Now()

	projects, err := w.projects.GetAll(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения проектов", zap.Error(err))
		return
	}

	now := time.Now()
	overdueProjects := 0

	for _, p := range projects {
		tasks, err := w.tasks.GetByProject(ctx, p.ID)
		if err != nil {
			logger.Warn("Worker: ошибка получения задач",
				zap.String("project_id", p.ID),
				zap.Error(err))
			continue
		}

		metrics := board.ComputeMetrics(deref(tasks), now)
		if !metrics.IsOverdue {
			continue
		}
		overdueProjects++

		logger.Warn("Worker: Проект просрочен",
			zap.String("project_id", p.ID),
			zap.String("title", p.Title),
			zap.Int("overdue_tasks", metrics.OverdueTasks),
			zap.Int("progress", metrics.Progress))
	}

	logger.Info("Worker: Завершение проверки проектов",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(projects)),
		zap.Int("overdue", overdueProjects))
}

func deref(tasks []*models.Task) []models.Task {
	res := make([]models.Task, len(tasks))
	for i, t := range tasks {
		res[i] = *t
	}
	return res
}

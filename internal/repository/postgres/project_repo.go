package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type ProjectStorage struct {
	pool *pgxpool.Pool
}

func (s *ProjectStorage) Create(ctx context.Context, project *models.Project) error {
	start := time.Now()

	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}

	query := `INSERT INTO projects
				(id, title, description, deadline, priority, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.Deadline,
		project.Priority,
		time.Now(),
	).Scan(&project.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить проект", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление проекта: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *ProjectStorage) GetByID(ctx context.Context, id string) (*models.Project, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				description,
				deadline,
				priority,
				created_at,
				updated_at
				FROM projects
				WHERE id = $1`

	project := &models.Project{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Deadline,
		&project.Priority,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить проект", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение проекта: %w", err)
	}

	return project, nil
}

func (s *ProjectStorage) GetAll(ctx context.Context) ([]*models.Project, error) {
	start := time.Now()

	query := `SELECT
				id,
				title,
				description,
				deadline,
				priority,
				created_at,
				updated_at
				FROM projects
				ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить проекты", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение проектов: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.Deadline,
			&project.Priority,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования проекта", zap.Error(err))
			continue
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return projects, nil
}

func (s *ProjectStorage) Update(ctx context.Context, project *models.Project) error {
	start := time.Now()

	query := `UPDATE projects
			SET title = $1,
				description = $2,
				deadline = $3,
				priority = $4,
				updated_at = NOW()
			WHERE id = $5
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		project.Title,
		project.Description,
		project.Deadline,
		project.Priority,
		project.ID,
	).Scan(&project.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить проект", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление проекта: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Delete удаляет проект; задачи уходят каскадом по внешнему ключу.
func (s *ProjectStorage) Delete(ctx context.Context, id string) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить проект", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление проекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

package localstore

import (
	"context"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type ProjectStorage struct {
	store *Store
}

func (p *ProjectStorage) Create(ctx context.Context, project *models.Project) error {
	p.store.mtx.Lock()
	defer p.store.mtx.Unlock()

	projects, err := p.store.loadProjects()
	if err != nil {
		return err
	}

	for _, existing := range projects {
		if existing.ID == project.ID {
			return repository.ErrAlreadyExists
		}
	}

	project.CreatedAt = time.Now()
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}

	projects = append(projects, project)
	return p.store.saveProjects(projects)
}

func (p *ProjectStorage) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p.store.mtx.Lock()
	defer p.store.mtx.Unlock()

	projects, err := p.store.loadProjects()
	if err != nil {
		return nil, err
	}

	for _, project := range projects {
		if project.ID == id {
			return project, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (p *ProjectStorage) GetAll(ctx context.Context) ([]*models.Project, error) {
	p.store.mtx.Lock()
	defer p.store.mtx.Unlock()

	return p.store.loadProjects()
}

func (p *ProjectStorage) Update(ctx context.Context, project *models.Project) error {
	p.store.mtx.Lock()
	defer p.store.mtx.Unlock()

	projects, err := p.store.loadProjects()
	if err != nil {
		return err
	}

	for i, existing := range projects {
		if existing.ID == project.ID {
			now := time.Now()
			project.CreatedAt = existing.CreatedAt
			project.UpdatedAt = &now
			projects[i] = project
			return p.store.saveProjects(projects)
		}
	}
	return repository.ErrNotFound
}

// Delete удаляет проект и каскадно все его задачи.
func (p *ProjectStorage) Delete(ctx context.Context, id string) error {
	p.store.mtx.Lock()
	defer p.store.mtx.Unlock()

	projects, err := p.store.loadProjects()
	if err != nil {
		return err
	}

	remaining := projects[:0]
	found := false
	for _, project := range projects {
		if project.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, project)
	}
	if !found {
		return repository.ErrNotFound
	}

	if err := p.store.saveProjects(remaining); err != nil {
		return err
	}

	tasks, err := p.store.loadTasks()
	if err != nil {
		return err
	}
	remainingTasks := tasks[:0]
	for _, t := range tasks {
		if t.ProjectID != id {
			remainingTasks = append(remainingTasks, t)
		}
	}
	return p.store.saveTasks(remainingTasks)
}

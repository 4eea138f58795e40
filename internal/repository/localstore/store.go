// Локальный вариант хранилища: два JSON-снимка, projects.json и tasks.json.
// Каждая операция читает коллекцию целиком, меняет её в памяти и записывает
// снимок обратно. Рядом лежит запись "auth" для шлюза доступа.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"taskboard/internal/models"
)

const projectsFile = "projects.json"
const tasksFile = "tasks.json"
const authFile = "auth"

type Store struct {
	dir string
	mtx sync.Mutex
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога хранилища: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("каталог хранилища недоступен: %w", err)
	}
	return nil
}

func (s *Store) Projects() *ProjectStorage {
	return &ProjectStorage{store: s}
}

func (s *Store) Tasks() *TaskStorage {
	return &TaskStorage{store: s}
}

func (s *Store) readJSON(name string, target any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // отсутствующий снимок считается пустой коллекцией
		}
		return fmt.Errorf("чтение %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("разбор %s: %w", name, err)
	}
	return nil
}

// Запись через временный файл с переименованием, чтобы не оставить
// недописанный снимок при сбое.
func (s *Store) writeJSON(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("замена %s: %w", name, err)
	}
	return nil
}

func (s *Store) loadProjects() ([]*models.Project, error) {
	projects := []*models.Project{}
	if err := s.readJSON(projectsFile, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) saveProjects(projects []*models.Project) error {
	return s.writeJSON(projectsFile, projects)
}

// loadTasks прогоняет дедупликацию на каждом чтении: при совпадении id
// остаётся самая поздняя запись. Если дубликаты нашлись, снимок
// перезаписывается сразу.
func (s *Store) loadTasks() ([]*models.Task, error) {
	all := []*models.Task{}
	if err := s.readJSON(tasksFile, &all); err != nil {
		return nil, err
	}

	unique := make([]*models.Task, 0, len(all))
	index := make(map[string]int, len(all))
	for _, t := range all {
		if pos, ok := index[t.ID]; ok {
			unique[pos] = t
			continue
		}
		index[t.ID] = len(unique)
		unique = append(unique, t)
	}

	if len(unique) != len(all) {
		if err := s.saveTasks(unique); err != nil {
			return nil, err
		}
	}

	return unique, nil
}

func (s *Store) saveTasks(tasks []*models.Task) error {
	return s.writeJSON(tasksFile, tasks)
}

// ReadAuth возвращает сохранённое состояние шлюза доступа.
// Входом считается только литеральная строка "true".
func (s *Store) ReadAuth() bool {
	data, err := os.ReadFile(filepath.Join(s.dir, authFile))
	if err != nil {
		return false
	}
	return string(data) == "true"
}

func (s *Store) WriteAuth(authenticated bool) error {
	path := filepath.Join(s.dir, authFile)
	if !authenticated {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("удаление записи auth: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte("true"), 0o644); err != nil {
		return fmt.Errorf("запись auth: %w", err)
	}
	return nil
}

// Удалённый адаптер хранилища поверх ресурсного API сервера.
// Контракт тот же, что у postgres и localstore.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Projects() *ProjectClient {
	return &ProjectClient{client: c}
}

func (c *Client) Tasks() *TaskClient {
	return &TaskClient{client: c}
}

type apiError struct {
	Error string `json:"error"`
}

// do выполняет запрос. 404 и 409 превращаются в ErrNotFound и
// ErrAlreadyExists, прочие не-2xx в ошибку с текстом из тела.
func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация запроса: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return repository.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return repository.ErrAlreadyExists
	case resp.StatusCode >= 400:
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: статус %d", method, path, resp.StatusCode)
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("разбор ответа: %w", err)
		}
	}
	return nil
}

type ProjectClient struct {
	client *Client
}

func (p *ProjectClient) Create(ctx context.Context, project *models.Project) error {
	return p.client.do(ctx, http.MethodPost, "/projects", project, project)
}

func (p *ProjectClient) GetByID(ctx context.Context, id string) (*models.Project, error) {
	project := &models.Project{}
	if err := p.client.do(ctx, http.MethodGet, "/projects/"+id, nil, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (p *ProjectClient) GetAll(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	if err := p.client.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (p *ProjectClient) Update(ctx context.Context, project *models.Project) error {
	return p.client.do(ctx, http.MethodPut, "/projects/"+project.ID, project, project)
}

func (p *ProjectClient) Delete(ctx context.Context, id string) error {
	return p.client.do(ctx, http.MethodDelete, "/projects/"+id, nil, nil)
}

type TaskClient struct {
	client *Client
}

func (t *TaskClient) Create(ctx context.Context, task *models.Task) error {
	return t.client.do(ctx, http.MethodPost, "/projects/"+task.ProjectID+"/tasks", task, task)
}

func (t *TaskClient) GetByID(ctx context.Context, id string) (*models.Task, error) {
	task := &models.Task{}
	if err := t.client.do(ctx, http.MethodGet, "/tasks/"+id, nil, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *TaskClient) GetByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	tasks := []*models.Task{}
	if err := t.client.do(ctx, http.MethodGet, "/projects/"+projectID+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *TaskClient) GetAll(ctx context.Context) ([]*models.Task, error) {
	// отдельного /tasks у API нет, собираем по проектам
	projects, err := t.client.Projects().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	all := []*models.Task{}
	for _, p := range projects {
		tasks, err := t.GetByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, tasks...)
	}
	return all, nil
}

func (t *TaskClient) Update(ctx context.Context, task *models.Task) error {
	return t.client.do(ctx, http.MethodPut, "/tasks/"+task.ID, task, task)
}

func (t *TaskClient) Delete(ctx context.Context, id string) error {
	return t.client.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

func (t *TaskClient) Reorder(ctx context.Context, projectID string, orderedIDs []string) error {
	body := map[string][]string{"order": orderedIDs}
	return t.client.do(ctx, http.MethodPut, "/projects/"+projectID+"/tasks/order", body, nil)
}

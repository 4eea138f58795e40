package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

func TestGetProjectByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects/p1", r.URL.Path)
		json.NewEncoder(w).Encode(models.Project{ID: "p1", Title: "Запуск"})
	}))
	defer server.Close()

	client := New(server.URL)
	project, err := client.Projects().GetByID(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Запуск", project.Title)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "проект missing не найден(а)"})
	}))
	defer server.Close()

	client := New(server.URL)

	_, err := client.Projects().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = client.Tasks().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = client.Tasks().Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConflictMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := New(server.URL)
	err := client.Projects().Create(context.Background(), &models.Project{ID: "p1", Title: "Дубль"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestErrorBodyIsSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "название не может быть пустым"})
	}))
	defer server.Close()

	client := New(server.URL)
	err := client.Projects().Create(context.Background(), &models.Project{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "название не может быть пустым")
}

// Create перечитывает тело ответа в ту же структуру: сервер проставляет id,
// позицию и createdAt.
func TestCreateTaskAdoptsServerFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/p1/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var task models.Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		task.ID = "server-id"
		task.Position = 3

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(task)
	}))
	defer server.Close()

	client := New(server.URL)
	task := &models.Task{ProjectID: "p1", Title: "Новая"}
	require.NoError(t, client.Tasks().Create(context.Background(), task))

	assert.Equal(t, "server-id", task.ID)
	assert.Equal(t, 3, task.Position)
}

func TestReorderSendsFullOrder(t *testing.T) {
	var got map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/projects/p1/tasks/order", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := New(server.URL)
	require.NoError(t, client.Tasks().Reorder(context.Background(), "p1", []string{"c", "a", "b"}))
	assert.Equal(t, []string{"c", "a", "b"}, got["order"])
}

// Отдельного /tasks у API нет: GetAll обходит проекты и склеивает их доски.
func TestGetAllTasksAggregatesProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			json.NewEncoder(w).Encode([]models.Project{{ID: "p1"}, {ID: "p2"}})
		case "/projects/p1/tasks":
			json.NewEncoder(w).Encode([]models.Task{{ID: "t1", ProjectID: "p1"}})
		case "/projects/p2/tasks":
			json.NewEncoder(w).Encode([]models.Task{{ID: "t2", ProjectID: "p2"}, {ID: "t3", ProjectID: "p2"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := New(server.URL)
	tasks, err := client.Tasks().GetAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestNoContentResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL)
	assert.NoError(t, client.Projects().Delete(context.Background(), "p1"))
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(server.URL)
	_, err := client.Projects().GetAll(ctx)
	assert.Error(t, err)
}

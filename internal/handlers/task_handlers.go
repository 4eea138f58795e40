package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/service"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (h *TaskHandler) GetProjectTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	tasks, err := h.TaskService.GetTasksByProject(r.Context(), projectID)
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_project_tasks"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.String("project_id", projectID),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, tasks)
}

// PostProjectTask создаёт задачу; projectId принудительно берётся из маршрута.
func (h *TaskHandler) PostProjectTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	task := request.ToTask()
	if err := h.TaskService.CreateTask(r.Context(), projectID, task); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", task.ID),
		zap.String("project_id", projectID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, task)
}

// ReorderProjectTasks принимает полный порядок доски одним запросом.
func (h *TaskHandler) ReorderProjectTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	var request dto.ReorderTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if err := h.TaskService.ReorderTasks(r.Context(), projectID, request.Order); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "reorder_tasks"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Порядок записан",
		zap.String("project_id", projectID),
		zap.Int("count", len(request.Order)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	task, err := h.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", "get_task"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", task.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	var request dto.UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Subtasks == nil {
		request.Subtasks = []models.Subtask{}
	}
	if request.Labels == nil {
		request.Labels = []string{}
	}

	task, err := h.TaskService.UpdateTask(r.Context(), id,
		service.WithTitle(request.Title),
		service.WithDescription(request.Description),
		service.WithStatus(request.Status),
		service.WithDeadline(request.Deadline),
		service.WithSubtasks(request.Subtasks),
		service.WithLabels(request.Labels),
		service.WithPosition(request.Position),
	)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"taskboard/internal/handlers/dto"
	"taskboard/internal/logger"
	"taskboard/internal/service"
)

type ProjectHandler struct {
	ProjectService ProjectService
	Health         HealthChecker
}

func NewProjectHandler(projectService ProjectService, health HealthChecker) ProjectHandler {
	return ProjectHandler{
		ProjectService: projectService,
		Health:         health,
	}
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projects, err := h.ProjectService.GetProjects(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Проекты получены",
		zap.Int("count", len(projects)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) PostProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	project := request.ToProject()
	if err := h.ProjectService.CreateProject(r.Context(), project); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_project"),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Проект создан",
		zap.String("project_id", project.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	project, err := h.ProjectService.GetProjectByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_project"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Проект получен",
		zap.String("project_id", project.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProjectByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	var request dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	project, err := h.ProjectService.UpdateProject(r.Context(), id,
		service.WithProjectTitle(request.Title),
		service.WithProjectDescription(request.Description),
		service.WithProjectDeadline(request.Deadline),
		service.WithPriority(request.Priority),
	)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_project"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Проект обновлён",
		zap.String("project_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProjectByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	if err := h.ProjectService.DeleteProject(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_project"))
		responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Info("HTTP_OUT: Проект удалён",
		zap.String("project_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

func (h *ProjectHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if h.Health != nil {
		if err := h.Health.HealthCheck(r.Context()); err != nil {
			responseWithError(w, http.StatusServiceUnavailable, "хранилище недоступно")
			return
		}
	}
	responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

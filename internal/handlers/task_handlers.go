package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/task"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	ActionCreate = "create"
	ActionDelete = "delete"

	questionCreate = "Сохранить задачу?"
	questionDelete = "Удалить задачу?"
)

type TaskHandler struct {
	TaskService TaskService
	Prompts     PromptRegistry
}

func NewTaskHandler(taskService TaskService, prompts PromptRegistry) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
		Prompts:     prompts,
	}
}

// Register вешает маршруты задач и подтверждений на роутер
func (h *TaskHandler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks) // GET /tasks?sort=dueDate
		r.Post("/", h.PostTask) // POST /tasks -> 202 + prompt

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)       // GET /tasks/{id}
			r.Patch("/", h.PatchTask)       // PATCH /tasks/{id}
			r.Delete("/", h.DeleteTaskByID) // DELETE /tasks/{id} -> 202 + prompt
		})
	})

	r.Route("/prompts/{id}", func(r chi.Router) {
		r.Post("/confirm", h.ConfirmPrompt) // POST /prompts/{id}/confirm
		r.Post("/cancel", h.CancelPrompt)   // POST /prompts/{id}/cancel
	})
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", "todo-tracker"),
		)
		return
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", "todo-tracker"),
	)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sortField := r.URL.Query().Get("sort")

	tasks, err := h.TaskService.ListTasks(r.Context(), sortField)
	if err != nil {
		handleError(w, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.String("sort", sortField),
		zap.Duration("duration", time.Since(start)))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}

// PostTask проверяет черновик и открывает запрос подтверждения.
// Задача создаётся только после POST /prompts/{id}/confirm.
func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	draft, err := request.ToDraft()
	if err != nil {
		responseWithError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if err := service.ValidateDraft(draft); err != nil {
		handleError(w, err, "create_task")
		return
	}

	svc := h.TaskService
	promptID, expiresAt, err := h.Prompts.Open(ActionCreate, questionCreate, func(ctx context.Context) (string, error) {
		return svc.CreateTask(ctx, draft)
	})
	if err != nil {
		handleError(w, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Создание задачи ждёт подтверждения", zap.String("prompt_id", promptID))
	responseWithBody(w, http.StatusAccepted, dto.PromptResponse{
		PromptID:  promptID,
		Action:    ActionCreate,
		Question:  questionCreate,
		ExpiresAt: expiresAt,
	})
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		handleError(w, err, "get_task")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromTask(t))
}

func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	opts, err := request.Options()
	if err != nil {
		responseWithError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	if err := h.TaskService.UpdateTask(r.Context(), id, opts...); err != nil {
		handleError(w, err, "update_task")
		return
	}

	updated := make([]string, 0, len(opts))
	for name := range task.NewFields(opts...) {
		updated = append(updated, name)
	}
	sort.Strings(updated)

	logger.Info("HTTP_OUT: Задача обновлена", zap.String("task_id", id), zap.Strings("fields", updated))
	responseWithJSON(w, http.StatusOK,
		toPayload("id", id),
		toPayload("updated", updated),
	)
}

// DeleteTaskByID открывает запрос подтверждения удаления
func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	svc := h.TaskService
	promptID, expiresAt, err := h.Prompts.Open(ActionDelete, questionDelete, func(ctx context.Context) (string, error) {
		return id, svc.DeleteTask(ctx, id)
	})
	if err != nil {
		handleError(w, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Удаление задачи ждёт подтверждения",
		zap.String("prompt_id", promptID),
		zap.String("task_id", id))
	responseWithBody(w, http.StatusAccepted, dto.PromptResponse{
		PromptID:  promptID,
		Action:    ActionDelete,
		Question:  questionDelete,
		TaskID:    id,
		ExpiresAt: expiresAt,
	})
}

func (h *TaskHandler) ConfirmPrompt(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "id")

	res, err := h.Prompts.Confirm(r.Context(), promptID)
	if err != nil {
		handleError(w, err, "confirm_prompt")
		return
	}

	switch res.Action {
	case ActionCreate:
		logger.Info("HTTP_OUT: Задача создана", zap.String("task_id", res.ResourceID))
		responseWithJSON(w, http.StatusCreated, toPayload("id", res.ResourceID))
	default:
		logger.Info("HTTP_OUT: Задача удалена", zap.String("task_id", res.ResourceID))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *TaskHandler) CancelPrompt(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "id")

	if err := h.Prompts.Cancel(promptID); err != nil {
		handleError(w, err, "cancel_prompt")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("outcome", "cancelled"))
}

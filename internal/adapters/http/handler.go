package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/PabloGalante/timeplanner-api/internal/app/assistant"
	"github.com/PabloGalante/timeplanner-api/internal/domain"
)

type Server struct {
	assistant *assistant.Service
	tasks     domain.TaskStore
	events    domain.EventStore

	// userID stands in for authentication: every request acts as this user.
	userID      domain.UserID
	chatTimeout time.Duration
	now         func() time.Time
}

func NewServer(
	svc *assistant.Service,
	tasks domain.TaskStore,
	events domain.EventStore,
	userID domain.UserID,
	chatTimeout time.Duration,
) http.Handler {
	s := &Server{
		assistant:   svc,
		tasks:       tasks,
		events:      events,
		userID:      userID,
		chatTimeout: chatTimeout,
		now:         time.Now,
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)

	r.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	r.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	r.HandleFunc("/events", s.handleCreateEvent).Methods(http.MethodPost)
	r.HandleFunc("/events/{id}", s.handleUpdateEvent).Methods(http.MethodPut)
	r.HandleFunc("/events/{id}", s.handleDeleteEvent).Methods(http.MethodDelete)

	return chainMiddlewares(r, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string   `json:"reply"`
	ToolUsed []string `json:"toolUsed"`
}

type taskResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	List      string     `json:"list"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
}

type eventResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	List      string    `json:"list"`
	CreatedAt time.Time `json:"createdAt"`
}

type createTaskRequest struct {
	Title   string     `json:"title"`
	List    string     `json:"list"`
	DueDate *time.Time `json:"dueDate"`
}

// updateTaskRequest distinguishes an absent dueDate (leave it alone) from an
// explicit null (clear it), which is why DueDate stays raw.
type updateTaskRequest struct {
	Title   *string         `json:"title"`
	List    *string         `json:"list"`
	Status  *string         `json:"status"`
	DueDate json.RawMessage `json:"dueDate"`
}

type createEventRequest struct {
	Title string     `json:"title"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
	List  string     `json:"list"`
}

type updateEventRequest struct {
	Title *string    `json:"title"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
	List  *string    `json:"list"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		UserID:    string(t.UserID),
		Title:     t.Title,
		List:      t.List,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		DueDate:   t.Due,
	}
}

func toEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		UserID:    string(e.UserID),
		Title:     e.Title,
		Start:     e.Start,
		End:       e.End,
		List:      e.List,
		CreatedAt: e.CreatedAt,
	}
}

// ─────────────────────────────────────────────
// Chat
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(w, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.chatTimeout)
	defer cancel()

	out, err := s.assistant.Chat(ctx, assistant.ChatInput{
		UserID:  s.userID,
		Message: req.Message,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:    out.Reply,
		ToolUsed: out.ToolsUsed,
	})
}

// ─────────────────────────────────────────────
// Tasks CRUD
// ─────────────────────────────────────────────

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(r.Context(), s.userID)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, "title is required")
		return
	}

	list := req.List
	if list == "" {
		list = domain.DefaultTaskList
	}

	task := &domain.Task{
		ID:        uuid.NewString(),
		UserID:    s.userID,
		Title:     strings.TrimSpace(req.Title),
		List:      list,
		Status:    domain.TaskStatusOpen,
		CreatedAt: s.now().UTC(),
		Due:       req.DueDate,
	}

	if err := s.tasks.CreateTask(r.Context(), task); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	task, err := s.tasks.GetTask(r.Context(), s.userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "task not found")
			return
		}
		internalError(w, err)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.List != nil && *req.List != "" {
		task.List = *req.List
	}
	if req.Status != nil {
		switch domain.TaskStatus(*req.Status) {
		case domain.TaskStatusOpen, domain.TaskStatusDone:
			task.Status = domain.TaskStatus(*req.Status)
		default:
			badRequest(w, "status must be open or done")
			return
		}
	}
	if len(req.DueDate) > 0 {
		if string(req.DueDate) == "null" {
			task.Due = nil
		} else {
			var due time.Time
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				badRequest(w, "dueDate must be an RFC 3339 timestamp or null")
				return
			}
			task.Due = &due
		}
	}

	if err := s.tasks.ReplaceTask(r.Context(), task); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.tasks.DeleteTask(r.Context(), s.userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "task not found")
			return
		}
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Events CRUD
// ─────────────────────────────────────────────

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time

	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")
	if (startParam == "") != (endParam == "") {
		badRequest(w, "start and end must be given together")
		return
	}
	if startParam != "" {
		s, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			badRequest(w, "start must be an RFC 3339 timestamp")
			return
		}
		e, err := time.Parse(time.RFC3339, endParam)
		if err != nil {
			badRequest(w, "end must be an RFC 3339 timestamp")
			return
		}
		from, to = &s, &e
	}

	events, err := s.events.ListEvents(r.Context(), s.userID, from, to)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, "title is required")
		return
	}
	if req.Start == nil || req.End == nil {
		badRequest(w, "start and end are required")
		return
	}

	list := req.List
	if list == "" {
		list = domain.DefaultEventList
	}

	event := &domain.Event{
		ID:        uuid.NewString(),
		UserID:    s.userID,
		Title:     strings.TrimSpace(req.Title),
		Start:     *req.Start,
		End:       *req.End,
		List:      list,
		CreatedAt: s.now().UTC(),
	}

	if err := s.events.CreateEvent(r.Context(), event); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	event, err := s.events.GetEvent(r.Context(), s.userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "event not found")
			return
		}
		internalError(w, err)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Start != nil {
		event.Start = *req.Start
	}
	if req.End != nil {
		event.End = *req.End
	}
	if req.List != nil && *req.List != "" {
		event.List = *req.List
	}

	if err := s.events.ReplaceEvent(r.Context(), event); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.events.DeleteEvent(r.Context(), s.userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "event not found")
			return
		}
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "timeplanner-api",
		"time":    s.now().UTC().Format(time.RFC3339),
	})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "internal server error",
		"details": err.Error(),
	})
}

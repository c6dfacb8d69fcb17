package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/five82/jot/internal/todoapi"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// MessageCreated accompanies a created todo.
const MessageCreated = "Todo created successfully"

// maxRequestBytes bounds POST bodies.
const maxRequestBytes = 64 << 10

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Todos   int    `json:"todos"`
}

// Handler serves the todo routes.
type Handler struct {
	store  *MemoryStore
	logger *zap.Logger
}

// NewHandler creates a Handler backed by store.
func NewHandler(store *MemoryStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the todo and health routes with the router.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/todos/", h.ListTodos).Methods(http.MethodGet)
	router.HandleFunc("/todos/", h.CreateTodo).Methods(http.MethodPost)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
		Todos:   h.store.Len(),
	})
}

// ListTodos handles GET /todos/.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list todos", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve todos", "Please try again later.")
		return
	}
	h.writeJSON(w, http.StatusOK, todoapi.ListResponse{Todos: todos})
}

// CreateTodo handles POST /todos/.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&body); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "Invalid input", "Request body must be a JSON object")
		return
	}

	todo, err := h.store.Create(r.Context(), body["description"])
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			h.logger.Warn("validation error", zap.String("detail", verr.Detail))
			h.writeError(w, http.StatusBadRequest, "Invalid input", verr.Detail)
			return
		}
		h.logger.Error("failed to create todo", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to create todo", "Please try again later.")
		return
	}

	h.logger.Info("todo created", zap.String("id", string(todo.ID)))
	h.writeJSON(w, http.StatusCreated, todoapi.CreateResponse{Todo: todo, Message: MessageCreated})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, detail string) {
	h.writeJSON(w, status, todoapi.ErrorResponse{Error: message, Detail: detail})
}

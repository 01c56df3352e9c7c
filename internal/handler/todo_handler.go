package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-taskboard/internal/middleware"
	"go-taskboard/internal/model"
	"go-taskboard/internal/service"
	"go-taskboard/pkg/apierror"
)

type TodoHandler struct {
	service *service.TodoService
}

func NewTodoHandler(service *service.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Authentication required."), "")
		return
	}

	todos, err := h.service.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, "Failed to retrieve todos.")
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Authentication required."), "")
		return
	}

	var payload model.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("Invalid JSON body."), "")
		return
	}

	todo, err := h.service.Create(r.Context(), claims.UserID, payload.Text, payload.Details)
	if err != nil {
		writeError(w, err, "Failed to create todo.")
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Authentication required."), "")
		return
	}

	id, err := todoID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	var payload model.TodoUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("Invalid JSON body."), "")
		return
	}

	if err := h.service.Update(r.Context(), id, claims.UserID, payload); err != nil {
		writeError(w, err, "Failed to update todo.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo updated successfully."})
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("Authentication required."), "")
		return
	}

	id, err := todoID(r)
	if err != nil {
		writeError(w, err, "")
		return
	}

	if err := h.service.Delete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err, "Failed to delete todo.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully."})
}

func todoID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apierror.BadRequest("Invalid todo id.")
	}
	return id, nil
}

package handlers

import (
	"errors"
	"io"
	"net/http"

	"todo_webapp/internal/domain"

	"github.com/gin-gonic/gin"
)

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Pointers tell an absent field from a zero value.
type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// bindJSON treats an empty body as {}.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// ListTodos returns every todo, newest first.
func (h *Handler) ListTodos(c *gin.Context) {
	todos, err := h.Todos.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// GetTodo returns one todo by id.
func (h *Handler) GetTodo(c *gin.Context) {
	todo, err := h.Todos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// CreateTodo stores a new todo and answers 201 with it.
func (h *Handler) CreateTodo(c *gin.Context) {
	var req createTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.Todos.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo changes only the fields present in the body.
func (h *Handler) UpdateTodo(c *gin.Context) {
	var req updateTodoRequest
	if !bindJSON(c, &req) {
		return
	}

	todo, err := h.Todos.Update(c.Request.Context(), c.Param("id"), domain.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodo removes a todo and echoes its id.
func (h *Handler) DeleteTodo(c *gin.Context) {
	id, err := h.Todos.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully", "id": id})
}

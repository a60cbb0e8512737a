package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"time-tracker/internal/storage"
)

type updateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func TaskRoutes(r *gin.RouterGroup, store storage.Provider) {

	r.GET("", func(c *gin.Context) {
		limit, offset, ok := pagination(c)
		if !ok {
			return
		}
		projectID, ok := int64Query(c, "project_id")
		if !ok {
			return
		}

		tasks, err := store.ListTasks(c.Request.Context(), projectID, limit, offset)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if tasks == nil {
			tasks = []storage.Task{}
		}

		c.JSON(http.StatusOK, tasks)
	})

	r.GET("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		task, err := store.GetTask(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, task)
	})

	r.PATCH("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		task, err := store.UpdateTask(c.Request.Context(), id, storage.TaskUpdate{
			Name:        req.Name,
			Description: req.Description,
			IsActive:    req.IsActive,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, task)
	})

	r.DELETE("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := store.DeactivateTask(c.Request.Context(), id); err != nil {
			AbortWithError(c, err)
			return
		}

		slog.Info("Deactivated task", "id", id)
		c.JSON(http.StatusOK, gin.H{"message": "Task deactivated successfully"})
	})
}

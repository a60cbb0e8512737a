package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"time-tracker/internal/storage"
)

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	EmployeeIDs []int64 `json:"employee_ids"`
}

type updateProjectRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"is_active"`
	EmployeeIDs *[]int64 `json:"employee_ids"`
}

type createTaskRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

func ProjectRoutes(r *gin.RouterGroup, store storage.Provider) {

	// Create a project with an optional initial assignment roster. Every
	// project gets a default task, so time tracking can start immediately
	// without a separate task setup step.
	r.POST("", func(c *gin.Context) {
		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		project := &storage.Project{
			Name:        req.Name,
			Description: req.Description,
		}
		if err := store.CreateProject(c.Request.Context(), project, req.EmployeeIDs); err != nil {
			AbortWithError(c, err)
			return
		}

		defaultDescription := "Default task created automatically with the project"
		task := &storage.Task{
			Name:        "Default Task - " + project.Name,
			Description: &defaultDescription,
			ProjectID:   project.ID,
		}
		if err := store.CreateTask(c.Request.Context(), task); err != nil {
			AbortWithError(c, err)
			return
		}

		employees, err := store.ProjectEmployees(c.Request.Context(), project.ID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		project.Employees = employees

		slog.Info("Created project", "id", project.ID, "name", project.Name, "default_task_id", task.ID)
		c.JSON(http.StatusCreated, project)
	})

	r.GET("", func(c *gin.Context) {
		limit, offset, ok := pagination(c)
		if !ok {
			return
		}

		projects, err := store.ListProjects(c.Request.Context(), limit, offset)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if projects == nil {
			projects = []storage.Project{}
		}

		c.JSON(http.StatusOK, projects)
	})

	r.GET("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		project, err := store.GetProject(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		employees, err := store.ProjectEmployees(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		project.Employees = employees

		c.JSON(http.StatusOK, project)
	})

	r.GET("/:id/employees", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		// 404 for a missing project rather than an empty roster.
		if _, err := store.GetProject(c.Request.Context(), id); err != nil {
			AbortWithError(c, err)
			return
		}

		employees, err := store.ProjectEmployees(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if employees == nil {
			employees = []storage.Employee{}
		}

		c.JSON(http.StatusOK, employees)
	})

	r.PATCH("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req updateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		update := storage.ProjectUpdate{
			Name:        req.Name,
			Description: req.Description,
			IsActive:    req.IsActive,
		}
		// Omitted employee_ids leaves the roster unchanged, an empty list
		// clears it.
		if req.EmployeeIDs != nil {
			ids := *req.EmployeeIDs
			if ids == nil {
				ids = []int64{}
			}
			update.EmployeeIDs = ids
		}

		project, err := store.UpdateProject(c.Request.Context(), id, update)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		employees, err := store.ProjectEmployees(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		project.Employees = employees

		c.JSON(http.StatusOK, project)
	})

	r.DELETE("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := store.DeactivateProject(c.Request.Context(), id); err != nil {
			AbortWithError(c, err)
			return
		}

		slog.Info("Deactivated project", "id", id)
		c.JSON(http.StatusOK, gin.H{"message": "Project deactivated successfully"})
	})

	r.POST("/:id/tasks", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		if _, err := store.GetProject(c.Request.Context(), id); err != nil {
			AbortWithError(c, err)
			return
		}

		task := &storage.Task{
			Name:        req.Name,
			Description: req.Description,
			ProjectID:   id,
		}
		if err := store.CreateTask(c.Request.Context(), task); err != nil {
			AbortWithError(c, err)
			return
		}

		slog.Info("Created task", "id", task.ID, "project_id", id, "name", task.Name)
		c.JSON(http.StatusCreated, task)
	})
}

package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"time-tracker/internal/storage"
	"time-tracker/internal/tracker"
)

type stopRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required"`
}

func TimeEntryRoutes(r *gin.RouterGroup, trk *tracker.Tracker) {

	// Start a session. The start timestamp is assigned by the server; a
	// second start while one is open answers 409.
	r.POST("/start", func(c *gin.Context) {
		var req tracker.StartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		if req.IPAddress == nil {
			ip := c.ClientIP()
			req.IPAddress = &ip
		}

		entry, err := trk.Start(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, entry)
	})

	r.POST("/stop", func(c *gin.Context) {
		var req stopRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			return
		}

		entry, err := trk.Stop(c.Request.Context(), req.EmployeeID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, entry)
	})

	// List an employee's entries newest first, enriched with employee,
	// project and task names. Date bounds are inclusive on start_time.
	r.GET("/employee/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		limit, offset, ok := pagination(c)
		if !ok {
			return
		}
		from, ok := dateQuery(c, "start_date")
		if !ok {
			return
		}
		to, ok := dateQuery(c, "end_date")
		if !ok {
			return
		}

		entries, err := trk.Entries(c.Request.Context(), id, from, to, limit, offset)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if entries == nil {
			entries = []storage.TimeEntryDetail{}
		}

		c.JSON(http.StatusOK, entries)
	})
}

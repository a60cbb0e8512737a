package routes

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	. "time-tracker/internal/config"
	"time-tracker/internal/screenshot"
	"time-tracker/internal/storage"
)

func ScreenshotRoutes(r *gin.RouterGroup, ingestor *screenshot.Ingestor) {

	// Upload one screenshot as multipart form data. The body read is capped
	// one byte past the configured maximum, enough for the ingestor to tell
	// an oversized upload apart without buffering an unbounded body.
	r.POST("", func(c *gin.Context) {
		employeeID, err := strconv.ParseInt(c.PostForm("employee_id"), 10, 64)
		if err != nil || employeeID <= 0 {
			AbortWithError(c, fmt.Errorf("%w: employee_id", ErrInvalidParameter))
			return
		}

		var timeEntryID *int64
		if raw := c.PostForm("time_entry_id"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || v <= 0 {
				AbortWithError(c, fmt.Errorf("%w: time_entry_id", ErrInvalidParameter))
				return
			}
			timeEntryID = &v
		}

		permissionGranted := true
		if raw := c.PostForm("permission_granted"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				AbortWithError(c, fmt.Errorf("%w: permission_granted", ErrInvalidParameter))
				return
			}
			permissionGranted = v
		}

		var deviceInfo *string
		if raw := c.PostForm("device_info"); raw != "" {
			deviceInfo = &raw
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			AbortWithError(c, fmt.Errorf("%w: file", ErrMissingParameter))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			AbortWithError(c, err)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, Cfg.Upload.MaxSize+1))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		result, err := ingestor.Upload(c.Request.Context(), screenshot.UploadRequest{
			EmployeeID:        employeeID,
			TimeEntryID:       timeEntryID,
			Filename:          fileHeader.Filename,
			ContentType:       fileHeader.Header.Get("Content-Type"),
			Content:           content,
			PermissionGranted: permissionGranted,
			DeviceInfo:        deviceInfo,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	})

	r.GET("", func(c *gin.Context) {
		limit, offset, ok := pagination(c)
		if !ok {
			return
		}
		employeeID, ok := int64Query(c, "employee_id")
		if !ok {
			return
		}
		timeEntryID, ok := int64Query(c, "time_entry_id")
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

		var permissionGranted *bool
		if raw := c.Query("permission_granted"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				AbortWithError(c, fmt.Errorf("%w: permission_granted", ErrInvalidParameter))
				return
			}
			permissionGranted = &v
		}

		screenshots, err := ingestor.List(c.Request.Context(), storage.ScreenshotFilter{
			EmployeeID:        employeeID,
			TimeEntryID:       timeEntryID,
			From:              from,
			To:                to,
			PermissionGranted: permissionGranted,
			Limit:             limit,
			Offset:            offset,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if screenshots == nil {
			screenshots = []storage.Screenshot{}
		}

		c.JSON(http.StatusOK, screenshots)
	})

	r.GET("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		result, err := ingestor.Get(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	})

	// Serve the stored image bytes. A metadata row whose file is gone on
	// disk answers 404, same as a missing row.
	r.GET("/:id/download", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		result, content, mediaType, err := ingestor.Bytes(c.Request.Context(), id)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", result.Filename))
		c.Data(http.StatusOK, mediaType, content)
	})

	r.DELETE("/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := ingestor.Delete(c.Request.Context(), id); err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Screenshot deleted successfully"})
	})
}

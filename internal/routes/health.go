package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"time-tracker/internal/storage"
)

func Health(r *gin.RouterGroup, store storage.Provider) {

	r.GET("/health", func(c *gin.Context) {
		if _, err := store.GetSchemaVersion(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})
}

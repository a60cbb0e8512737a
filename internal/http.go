package app

import (
	"github.com/gin-gonic/gin"

	"time-tracker/internal/blob"
	. "time-tracker/internal/config"
	"time-tracker/internal/email"
	"time-tracker/internal/routes"
	"time-tracker/internal/screenshot"
	"time-tracker/internal/storage"
	"time-tracker/internal/tracker"
)

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")

	// Disable caching, everything served here is live tracking data
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// HTTPServer builds the gin engine with all services wired in. The storage
// provider is passed in already migrated; everything else is constructed here
// from the loaded config.
func HTTPServer(store storage.Provider) (*gin.Engine, error) {
	blobs, err := blob.NewFileStore(Cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}

	trk := tracker.New(store)
	ingestor := screenshot.NewIngestor(store, blobs, screenshot.Config{
		MaxSize:        Cfg.Upload.MaxSize,
		JPEGQuality:    Cfg.Upload.JPEGQuality,
		AllowedFormats: Cfg.Upload.AllowedFormats,
	})
	sender := email.NewSender(Cfg.Email)

	r := gin.Default()
	r.Use(securityHeaders)
	r.Use(routes.ErrorHandler())

	routes.Health(r.Group(""), store)

	api := r.Group("/api/v1")
	routes.AuthRoutes(api.Group("/auth"), store)
	routes.EmployeeRoutes(api.Group("/employees"), store, sender)
	routes.ProjectRoutes(api.Group("/projects"), store)
	routes.TaskRoutes(api.Group("/tasks"), store)
	routes.TimeEntryRoutes(api.Group("/time-entries"), trk)
	routes.ScreenshotRoutes(api.Group("/screenshots"), ingestor)

	return r, nil
}

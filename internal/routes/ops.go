package routes

import (
	"net/http"

	"github.com/dukerupert/law7a/internal/router"
)

// RegisterOpsRoutes registers health, metrics and local image routes.
// These routes do not require authentication.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Handle(http.MethodGet, "/healthz", deps.HealthHandler)
	r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)

	if deps.UploadsDir != "" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadsDir)))
		r.Handle(http.MethodGet, "/uploads/", files)
	}
}

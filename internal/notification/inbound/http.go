package inbound

import (
	"net/http"

	"github.com/bookhivelabs/bookhive/internal/pkg/router"
)

// RegisterHTTPEndpoint mounts the notification API. Collection operations
// live under the plural prefix and single-record operations under the
// singular one, keeping static and parameter segments out of each other's way.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/notifications", end.Create)
	r.POST("/api/v1/notifications/bulk", end.CreateBulk)
	r.POST("/api/v1/notifications/export", end.Export)

	r.GET("/api/v1/notifications", end.List)
	r.GET("/api/v1/notifications/unread", end.Unread)
	r.GET("/api/v1/notifications/stats", end.Stats)
	r.PUT("/api/v1/notifications/read-all", end.MarkAllRead)
	r.DELETE("/api/v1/notifications", end.DeleteAll)
	r.GETRaw("/api/v1/notifications/stream", http.HandlerFunc(end.StreamNotifications))

	r.GET("/api/v1/notification/:id", end.Get)
	r.PATCH("/api/v1/notification/:id/read", end.MarkRead)
	r.POST("/api/v1/notification/:id/cancel", end.Cancel)
	r.DELETE("/api/v1/notification/:id", end.Delete)
}

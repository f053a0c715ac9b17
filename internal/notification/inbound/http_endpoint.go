package inbound

import (
	"strconv"

	"github.com/bookhivelabs/bookhive/internal/notification/usecase"
	"github.com/bookhivelabs/bookhive/internal/pkg/goerror"
	"github.com/bookhivelabs/bookhive/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Create creates a notification for a user.
// @Summary Create notification
// @Description Creates a notification and enqueues its delivery. Admin only.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client idempotency key"
// @Param request body CreateNotificationRequest true "Notification payload"
// @Success 200 {object} router.successResponse{data=NotificationResponse} "Created notification"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications [post]
func (h *HTTPEndpoint) Create(r *router.Request) (any, error) {
	var req CreateNotificationRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Create(r.Context(), usecase.CreateInput{
		UserID:         req.UserID,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		Data:           req.Data,
		Channels:       req.Channels,
		ScheduledAt:    req.ScheduledAt,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	return toNotificationResponse(out.Notification), nil
}

// CreateBulk creates the same notification for many users.
// @Summary Create notifications in bulk
// @Description Creates one notification per user and enqueues delivery for each. Admin only.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateBulkNotificationRequest true "Bulk notification payload"
// @Success 200 {object} router.successResponse{data=CreateBulkNotificationResponse} "Created count"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/bulk [post]
func (h *HTTPEndpoint) CreateBulk(r *router.Request) (any, error) {
	var req CreateBulkNotificationRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.CreateBulk(r.Context(), usecase.CreateBulkInput{
		UserIDs:     req.UserIDs,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		Channels:    req.Channels,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return nil, err
	}

	return CreateBulkNotificationResponse{Created: out.Created}, nil
}

// List returns the caller's notifications.
// @Summary List notifications
// @Description Returns the authenticated user's notifications, newest first.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param type query string false "Filter by type"
// @Param is_read query bool false "Filter by read state"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} router.successResponse{data=NotificationsResponse} "Notification list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications [get]
func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	in := usecase.ListInput{
		Type:   r.GetQuery("type"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := r.GetQuery("is_read"); raw != "" {
		isRead, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, goerror.NewInvalidFormat("Invalid query is_read")
		}
		in.IsRead = &isRead
	}

	out, err := h.uc.List(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return NotificationsResponse{
		Notifications: toNotificationResponses(out.Items),
		Total:         out.Total,
	}, nil
}

// Unread returns the caller's unread notifications.
// @Summary List unread notifications
// @Description Returns the authenticated user's unread notifications.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=UnreadNotificationsResponse} "Unread notifications"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/unread [get]
func (h *HTTPEndpoint) Unread(r *router.Request) (any, error) {
	out, err := h.uc.Unread(r.Context())
	if err != nil {
		return nil, err
	}

	return UnreadNotificationsResponse{
		Notifications: toNotificationResponses(out.Items),
		Count:         len(out.Items),
	}, nil
}

// Stats returns notification statistics for the caller.
// @Summary Notification statistics
// @Description Returns total, unread and per-type counts for the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=NotificationStatsResponse} "Notification statistics"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/stats [get]
func (h *HTTPEndpoint) Stats(r *router.Request) (any, error) {
	out, err := h.uc.Stats(r.Context())
	if err != nil {
		return nil, err
	}

	byType := make(map[string]NotificationTypeStatResponse, len(out.Stats.ByType))
	for typ, stat := range out.Stats.ByType {
		byType[typ] = NotificationTypeStatResponse{Total: stat.Total, Unread: stat.Unread}
	}

	return NotificationStatsResponse{
		Total:  out.Stats.Total,
		Unread: out.Stats.Unread,
		Read:   out.Stats.Read,
		ByType: byType,
	}, nil
}

// Get returns one notification.
// @Summary Get notification
// @Description Returns one notification owned by the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} router.successResponse{data=NotificationResponse} "Notification"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/{id} [get]
func (h *HTTPEndpoint) Get(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.Get(r.Context(), usecase.GetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toNotificationResponse(out.Notification), nil
}

// MarkRead marks one notification as read.
// @Summary Mark notification read
// @Description Marks one notification as read for the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/{id}/read [patch]
func (h *HTTPEndpoint) MarkRead(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.MarkRead(r.Context(), usecase.MarkReadInput{ID: id})
}

// MarkAllRead marks all of the caller's notifications as read.
// @Summary Mark all notifications read
// @Description Marks every unread notification as read for the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=MarkAllReadResponse} "Updated count"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/read-all [put]
func (h *HTTPEndpoint) MarkAllRead(r *router.Request) (any, error) {
	out, err := h.uc.MarkAllRead(r.Context())
	if err != nil {
		return nil, err
	}

	return MarkAllReadResponse{Updated: out.Updated}, nil
}

// Cancel stops delivery of a notification that has not been sent yet.
// @Summary Cancel notification
// @Description Cancels a notification unless it was already sent or cancelled.
// @Tags Notification
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Not found or already settled"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/{id}/cancel [post]
func (h *HTTPEndpoint) Cancel(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.Cancel(r.Context(), usecase.CancelInput{ID: id})
}

// Delete removes one notification.
// @Summary Delete notification
// @Description Deletes one notification owned by the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/{id} [delete]
func (h *HTTPEndpoint) Delete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.Delete(r.Context(), usecase.DeleteInput{ID: id})
}

// DeleteAll removes all of the caller's notifications.
// @Summary Delete all notifications
// @Description Deletes every notification owned by the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=DeleteAllResponse} "Deleted count"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications [delete]
func (h *HTTPEndpoint) DeleteAll(r *router.Request) (any, error) {
	out, err := h.uc.DeleteAll(r.Context())
	if err != nil {
		return nil, err
	}

	return DeleteAllResponse{Deleted: out.Deleted}, nil
}

// Export generates a CSV delivery report.
// @Summary Export delivery report
// @Description Writes a CSV delivery report to object storage and returns a download URL. Admin only.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ExportNotificationsRequest true "Report window"
// @Success 200 {object} router.successResponse{data=ExportNotificationsResponse} "Report location"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/export [post]
func (h *HTTPEndpoint) Export(r *router.Request) (any, error) {
	var req ExportNotificationsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Export(r.Context(), usecase.ExportInput{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	})
	if err != nil {
		return nil, err
	}

	return ExportNotificationsResponse{
		Rows:        out.Rows,
		ObjectKey:   out.ObjectKey,
		DownloadURL: out.DownloadURL,
	}, nil
}

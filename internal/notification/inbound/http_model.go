package inbound

import (
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
)

type CreateNotificationRequest struct {
	UserID      int64               `json:"user_id"`
	Type        string              `json:"type"`
	Title       string              `json:"title"`
	Message     string              `json:"message"`
	Data        valueobject.JSONMap `json:"data" swaggertype:"object"`
	Channels    []string            `json:"channels"`
	ScheduledAt *time.Time          `json:"scheduled_at,omitempty"`
}

type CreateBulkNotificationRequest struct {
	UserIDs     []int64             `json:"user_ids"`
	Type        string              `json:"type"`
	Title       string              `json:"title"`
	Message     string              `json:"message"`
	Data        valueobject.JSONMap `json:"data" swaggertype:"object"`
	Channels    []string            `json:"channels"`
	ScheduledAt *time.Time          `json:"scheduled_at,omitempty"`
}

type CreateBulkNotificationResponse struct {
	Created int64 `json:"created"`
}

type NotificationResponse struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"user_id"`
	Type         string              `json:"type"`
	Title        string              `json:"title"`
	Message      string              `json:"message"`
	Data         valueobject.JSONMap `json:"data" swaggertype:"object"`
	Channels     []string            `json:"channels"`
	Status       string              `json:"status"`
	IsRead       bool                `json:"is_read"`
	ReadAt       *time.Time          `json:"read_at,omitempty"`
	ScheduledAt  *time.Time          `json:"scheduled_at,omitempty"`
	SentAt       *time.Time          `json:"sent_at,omitempty"`
	RetryCount   int16               `json:"retry_count"`
	MaxRetries   int16               `json:"max_retries"`
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
}

type UnreadNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Count         int                    `json:"count"`
}

type NotificationTypeStatResponse struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

type NotificationStatsResponse struct {
	Total  int64                                   `json:"total"`
	Unread int64                                   `json:"unread"`
	Read   int64                                   `json:"read"`
	ByType map[string]NotificationTypeStatResponse `json:"by_type"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

type ExportNotificationsRequest struct {
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`
}

type ExportNotificationsResponse struct {
	Rows        int    `json:"rows"`
	ObjectKey   string `json:"object_key"`
	DownloadURL string `json:"download_url"`
}

func toNotificationResponse(n *entity.Notification) NotificationResponse {
	channels := make([]string, 0, len(n.Channels))
	for _, ch := range n.Channels {
		channels = append(channels, ch.String())
	}

	return NotificationResponse{
		ID:           n.ID,
		UserID:       n.UserID,
		Type:         n.Type.String(),
		Title:        n.Title,
		Message:      n.Message,
		Data:         n.Data,
		Channels:     channels,
		Status:       n.Status.String(),
		IsRead:       n.IsRead,
		ReadAt:       n.ReadAt,
		ScheduledAt:  n.ScheduledAt,
		SentAt:       n.SentAt,
		RetryCount:   n.RetryCount,
		MaxRetries:   n.MaxRetries,
		ErrorMessage: n.ErrorMessage,
		CreatedAt:    n.CreatedAt,
	}
}

func toNotificationResponses(ns []*entity.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		resp = append(resp, toNotificationResponse(n))
	}
	return resp
}

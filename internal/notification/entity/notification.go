package entity

import (
	"time"

	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
)

// DefaultMaxRetries is the delivery retry ceiling applied when a notification
// is created without an explicit one.
const DefaultMaxRetries int16 = 3

// Notification is the persisted record of one notification and its delivery
// lifecycle. The record store is the single source of truth for Status; queue
// job payloads only carry hints.
type Notification struct {
	ID           int64
	UserID       int64
	Type         Type
	Title        string
	Message      string
	Data         valueobject.JSONMap
	Channels     []Channel
	Status       Status
	IsRead       bool
	ReadAt       *time.Time
	ScheduledAt  *time.Time
	SentAt       *time.Time
	RetryCount   int16
	MaxRetries   int16
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Due reports whether the notification may enter processing at the given time.
func (n *Notification) Due(now time.Time) bool {
	return n.ScheduledAt == nil || !n.ScheduledAt.After(now)
}

// CanRetry reports whether the record is still eligible for an automatic
// retry. Once RetryCount reaches MaxRetries, only manual intervention can
// resurface it.
func (n *Notification) CanRetry() bool {
	return n.Status == StatusFailed && n.RetryCount < n.MaxRetries
}

// DeliveryState is the mutable delivery outcome of a processing attempt,
// applied to the record as one write after all channel results are known.
type DeliveryState struct {
	ID           int64
	Status       Status
	SentAt       *time.Time
	RetryCount   int16
	ErrorMessage string
}

// ListFilter narrows and pages a per-user notification listing.
type ListFilter struct {
	Type   Type  // TypeUnknown means no type filter
	IsRead *bool // nil means no read-state filter
	Limit  int32
	Offset int32
}

// TypeStat aggregates read-state counts for one notification type.
type TypeStat struct {
	Total  int64
	Unread int64
}

// Stats aggregates a user's notifications by read state and type.
type Stats struct {
	Total  int64
	Unread int64
	Read   int64
	ByType map[string]TypeStat
}

// ExportRow is one line of an administrative delivery report.
type ExportRow struct {
	ID           int64
	UserID       int64
	Type         Type
	Status       Status
	Channels     []Channel
	RetryCount   int16
	ErrorMessage string
	SentAt       *time.Time
	CreatedAt    time.Time
}

package entity

import (
	"strings"
)

// Channel identifies a delivery transport for a notification.
type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelInApp   Channel = 1
	ChannelEmail   Channel = 2
	ChannelSMS     Channel = 3
	ChannelPush    Channel = 4
)

func ChannelFromString(raw string) Channel {
	switch strings.TrimSpace(raw) {
	case "in_app":
		return ChannelInApp
	case "email":
		return ChannelEmail
	case "sms":
		return ChannelSMS
	case "push":
		return ChannelPush
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelInApp:
		return "in_app"
	case ChannelEmail:
		return "email"
	case ChannelSMS:
		return "sms"
	case ChannelPush:
		return "push"
	default:
		return "unknown"
	}
}

// Type classifies a notification and selects the content rendering used by
// the channel senders.
type Type int16

const (
	TypeUnknown   Type = 0
	TypeInfo      Type = 1
	TypeSuccess   Type = 2
	TypeWarning   Type = 3
	TypeError     Type = 4
	TypeOrder     Type = 5
	TypePayment   Type = 6
	TypeShipping  Type = 7
	TypePromotion Type = 8
)

func TypeFromString(raw string) Type {
	switch strings.TrimSpace(raw) {
	case "info":
		return TypeInfo
	case "success":
		return TypeSuccess
	case "warning":
		return TypeWarning
	case "error":
		return TypeError
	case "order":
		return TypeOrder
	case "payment":
		return TypePayment
	case "shipping":
		return TypeShipping
	case "promotion":
		return TypePromotion
	default:
		return TypeUnknown
	}
}

func (t Type) String() string {
	switch t {
	case TypeInfo:
		return "info"
	case TypeSuccess:
		return "success"
	case TypeWarning:
		return "warning"
	case TypeError:
		return "error"
	case TypeOrder:
		return "order"
	case TypePayment:
		return "payment"
	case TypeShipping:
		return "shipping"
	case TypePromotion:
		return "promotion"
	default:
		return "unknown"
	}
}

// Status is the delivery lifecycle state of a notification record.
type Status int16

const (
	StatusUnknown    Status = 0
	StatusPending    Status = 1
	StatusProcessing Status = 2
	StatusSent       Status = 3
	StatusFailed     Status = 4
	StatusCancelled  Status = 5
)

func StatusFromString(raw string) Status {
	switch strings.TrimSpace(raw) {
	case "pending":
		return StatusPending
	case "processing":
		return StatusProcessing
	case "sent":
		return StatusSent
	case "failed":
		return StatusFailed
	case "cancelled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further delivery attempt is possible from s.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusCancelled
}

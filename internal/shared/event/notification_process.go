package event

const NotificationProcessDestination string = "notification_process"
const NotificationProcessConsumerEngine string = "notification_process_engine"

// NotificationProcessMessage is the processing-lane job payload. The fields
// besides NotificationID are hints only; the delivery engine always re-reads
// the authoritative record before dispatching.
type NotificationProcessMessage struct {
	NotificationID int64    `json:"notification_id"`
	UserID         int64    `json:"user_id"`
	Type           string   `json:"type"`
	Channels       []string `json:"channels"`
}

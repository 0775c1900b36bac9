package notification

// UnreadResponse for the unread endpoint
type UnreadResponse struct {
	UnreadCount   int64          `json:"unread_count"`
	Notifications []Notification `json:"notifications"`
}

type ClearResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// StreamEvent is one websocket frame.
type StreamEvent struct {
	Type         string        `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
	UnreadCount  *int64        `json:"unread_count,omitempty"`
}

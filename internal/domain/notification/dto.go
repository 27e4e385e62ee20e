package notification

import "time"

// NotificationResponse for API responses
type NotificationResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Message       string  `json:"message"`
	Type          string  `json:"type"`
	ReferenceType *string `json:"reference_type,omitempty"`
	ReferenceID   *int64  `json:"reference_id,omitempty"`
	IsRead        bool    `json:"is_read"`
	CreatedAt     string  `json:"created_at"`
	ReadAt        *string `json:"read_at,omitempty"`
}

func ResponseFromEntity(n *Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:            n.ID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          string(n.Type),
		ReferenceType: n.ReferenceType,
		ReferenceID:   n.ReferenceID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &readAt
	}
	return resp
}

// ListResponse for the paginated list endpoint
type ListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Limit         int                     `json:"limit"`
	Offset        int                     `json:"offset"`
}

// CountResponse for the count endpoint
type CountResponse struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

// MarkAsReadRequest for bulk mark-read
type MarkAsReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids" binding:"required,min=1"`
}

// MarkedResponse reports how many rows a bulk mutation touched
type MarkedResponse struct {
	Marked int64 `json:"marked"`
}

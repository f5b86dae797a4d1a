package model

import (
	"time"
)

// NotificationKind classifies a server-side notification record.
type NotificationKind string

const (
	NotificationTicketCreated  NotificationKind = "ticket_created"
	NotificationTicketUpdated  NotificationKind = "ticket_updated"
	NotificationTimeOffCreated NotificationKind = "time_off_created"
	NotificationTimeOffDecided NotificationKind = "time_off_decided"
	NotificationPageCompleted  NotificationKind = "onboarding_page_completed"
	NotificationTrainingDone   NotificationKind = "training_completed"
)

// Notification is a server-side notification record created best-effort
// after a mutating action succeeds. Delivery is at most once; a lost
// notification is never surfaced to the primary flow.
type Notification struct {
	RecipientID string            `json:"recipient_id"`
	Kind        NotificationKind  `json:"kind"`
	Title       string            `json:"title"`
	Body        string            `json:"body,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
}

package model

import (
	"time"
)

// AssignmentStatus is the lifecycle state of a training module for one
// employee. Transitions are server-authoritative; the client never advances
// a status locally except optimistically before a re-fetch.
type AssignmentStatus string

const (
	TrainingNotAssigned AssignmentStatus = "not_assigned"
	TrainingUnlocked    AssignmentStatus = "unlocked"
	TrainingInProgress  AssignmentStatus = "in_progress"
	TrainingCompleted   AssignmentStatus = "completed"
)

// TrainingModule is a content unit unlocked by scanning or entering a QR
// code and completed after viewing.
type TrainingModule struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	QRCode      string           `json:"qr_code"`
	Content     string           `json:"content,omitempty"`
	VideoURL    string           `json:"video_url,omitempty"`
	Status      AssignmentStatus `json:"assignment_status"`
	UnlockedAt  *time.Time       `json:"unlocked_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// UnlockTrainingRequest unlocks a module by QR code.
type UnlockTrainingRequest struct {
	QRCode string `json:"qr_code"`
}

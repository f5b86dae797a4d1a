package model

import (
	"time"
)

// ConversationType distinguishes private and group threads.
type ConversationType string

const (
	ConversationPrivate ConversationType = "private"
	ConversationGroup   ConversationType = "group"
)

// Conversation represents a message thread. Conversations are created
// server-side and never destroyed, only soft-archived.
type Conversation struct {
	ID           string           `json:"id"`
	Type         ConversationType `json:"type"`
	Name         string           `json:"name"`
	Participants []Participant    `json:"participants"`
	LastMessage  *Message         `json:"last_message,omitempty"`
	UnreadCount  int              `json:"unread_count"`
	Archived     bool             `json:"archived,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Participant is a member of a conversation.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Message is immutable once created; its id is the uniqueness key used for
// deduplication on every fetch merge.
type Message struct {
	ID          string       `json:"id"`
	SenderID    string       `json:"sender_id"`
	SenderName  string       `json:"sender_name"`
	SenderRole  Role         `json:"sender_role"`
	Content     string       `json:"content"`
	TextContent string       `json:"text_content,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Attachment is an opaque reference to a stored file.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

// SendMessageRequest posts a new message to a conversation.
type SendMessageRequest struct {
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

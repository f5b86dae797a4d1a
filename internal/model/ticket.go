package model

import (
	"time"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in-progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// TicketCategory classifies a support ticket.
type TicketCategory string

const (
	CategoryPOSProblem TicketCategory = "pos-problem"
	CategoryEquipment  TicketCategory = "equipment"
	CategoryScheduling TicketCategory = "scheduling"
	CategoryPayroll    TicketCategory = "payroll"
	CategoryFacilities TicketCategory = "facilities"
	CategoryOther      TicketCategory = "other"
)

// TicketPriority ranks a ticket's urgency.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// Ticket is a support request raised by an employee.
type Ticket struct {
	ID          string           `json:"id"`
	EmployeeID  string           `json:"employee_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    TicketCategory   `json:"category"`
	Priority    TicketPriority   `json:"priority"`
	Status      TicketStatus     `json:"status"`
	Responses   []TicketResponse `json:"responses"`
	Archived    bool             `json:"archived"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TicketResponse is a reply on a ticket thread.
type TicketResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTicketRequest opens a new support ticket.
type CreateTicketRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
}

// UpdateTicketRequest changes a ticket's status (admin only).
type UpdateTicketRequest struct {
	Status TicketStatus `json:"status"`
}

// RespondTicketRequest adds a reply to a ticket thread.
type RespondTicketRequest struct {
	Content string `json:"content"`
}

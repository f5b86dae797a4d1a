package model

import (
	"time"
)

// TimeOffStatus is the lifecycle state of a time-off request.
type TimeOffStatus string

const (
	TimeOffPending   TimeOffStatus = "pending"
	TimeOffApproved  TimeOffStatus = "approved"
	TimeOffRejected  TimeOffStatus = "rejected"
	TimeOffCancelled TimeOffStatus = "cancelled"
)

// TimeOffType classifies a time-off request.
type TimeOffType string

const (
	TimeOffVacation TimeOffType = "vacation"
	TimeOffSick     TimeOffType = "sick"
	TimeOffPersonal TimeOffType = "personal"
	TimeOffUnpaid   TimeOffType = "unpaid"
)

// TimeOffRequest is an employee's request for days off. Dates are
// YYYY-MM-DD strings, matching the upstream wire format.
type TimeOffRequest struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	Type       TimeOffType   `json:"type"`
	Reason     string        `json:"reason,omitempty"`
	Status     TimeOffStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CreateTimeOffRequest submits a new time-off request.
type CreateTimeOffRequest struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Type      TimeOffType `json:"type"`
	Reason    string      `json:"reason,omitempty"`
}

// DecideTimeOffRequest approves or rejects a pending request (admin only).
type DecideTimeOffRequest struct {
	Status TimeOffStatus `json:"status"`
}

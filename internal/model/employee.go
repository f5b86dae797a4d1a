// Package model defines data structures for the employee-management platform.
package model

import (
	"time"
)

// Role identifies which dashboard a user belongs to.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// OnboardingStatus is the aggregate onboarding state of an employee.
type OnboardingStatus string

const (
	OnboardingIncomplete OnboardingStatus = "incomplete"
	OnboardingComplete   OnboardingStatus = "complete"
)

// Employee represents a platform user.
type Employee struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Role             Role             `json:"role"`
	Position         string           `json:"position,omitempty"`
	HiredAt          *time.Time       `json:"hired_at,omitempty"`
	OnboardingStatus OnboardingStatus `json:"onboarding_status"`
	PersonalInfo     PersonalInfo     `json:"personal_info"`
}

// PersonalInfo holds the profile fields an employee fills in during
// onboarding. MailingAddress and RequestedHours gate onboarding completeness.
type PersonalInfo struct {
	MailingAddress   string `json:"mailing_address"`
	RequestedHours   string `json:"requested_hours"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
}

// PageStatus is the completion state of a single onboarding page.
type PageStatus string

const (
	PageNotStarted PageStatus = "not_started"
	PageCompleted  PageStatus = "completed"
)

// OnboardingPage is a document an employee must digitally acknowledge.
type OnboardingPage struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	Required    bool       `json:"required"`
	Status      PageStatus `json:"status"`
	Signature   string     `json:"signature,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CompletePageRequest acknowledges an onboarding page with a signature.
type CompletePageRequest struct {
	Signature string `json:"signature"`
}

// UpdatePersonalInfoRequest updates the employee's profile fields.
type UpdatePersonalInfoRequest struct {
	MailingAddress   string `json:"mailing_address,omitempty"`
	RequestedHours   string `json:"requested_hours,omitempty"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
}

// LoginRequest authenticates an employee or admin.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the normalized outcome of a login call.
type LoginResult struct {
	Token    string   `json:"token"`
	Employee Employee `json:"employee"`
}

// Package onboarding implements the onboarding gating rules: the one-way
// page completion machine, the aggregate completeness computation, and the
// nag-every-session reminder policy.
package onboarding

import (
	"errors"
	"strings"

	"github.com/crewhub-app/sync-agent/internal/model"
)

// ErrAlreadyCompleted is returned when a completed page is acknowledged
// again; the transition is one-way.
var ErrAlreadyCompleted = errors.New("onboarding page already completed")

// ErrMissingSignature is returned when a completion carries no signature.
var ErrMissingSignature = errors.New("signature is required")

// ValidateCompletion checks that a page can transition to completed.
func ValidateCompletion(page model.OnboardingPage, signature string) error {
	if strings.TrimSpace(signature) == "" {
		return ErrMissingSignature
	}
	if page.Status == model.PageCompleted {
		return ErrAlreadyCompleted
	}
	return nil
}

// Aggregate computes the employee's aggregate onboarding status: complete if
// and only if every required page is completed and both mailing address and
// requested hours are non-empty.
func Aggregate(pages []model.OnboardingPage, info model.PersonalInfo) model.OnboardingStatus {
	for _, p := range pages {
		if p.Required && p.Status != model.PageCompleted {
			return model.OnboardingIncomplete
		}
	}
	if info.MailingAddress == "" || info.RequestedHours == "" {
		return model.OnboardingIncomplete
	}
	return model.OnboardingComplete
}

// Reminder implements the dashboard nag: shown while the aggregate status is
// incomplete, dismissible for the current session only. A new session starts
// with the dismissal cleared; nagging every session is the intended policy.
type Reminder struct {
	dismissed bool
}

// ShouldShow reports whether the reminder modal is due.
func (r *Reminder) ShouldShow(status model.OnboardingStatus) bool {
	return status == model.OnboardingIncomplete && !r.dismissed
}

// Dismiss hides the reminder for the rest of this session.
func (r *Reminder) Dismiss() {
	r.dismissed = true
}

// Reset clears the dismissal, called when a new session begins.
func (r *Reminder) Reset() {
	r.dismissed = false
}

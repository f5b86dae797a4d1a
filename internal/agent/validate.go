package agent

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/crewhub-app/sync-agent/internal/model"
)

const maxContentBytes = 100000 // ~100KB

// validateMessageContent validates message or response content.
func validateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > maxContentBytes {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// validateTicketRequest validates a new support ticket before the round trip.
func validateTicketRequest(req model.CreateTicketRequest) error {
	if req.Title == "" {
		return errors.New("title cannot be empty")
	}
	if err := validateMessageContent(req.Description); err != nil {
		return err
	}
	switch req.Category {
	case model.CategoryPOSProblem, model.CategoryEquipment, model.CategoryScheduling,
		model.CategoryPayroll, model.CategoryFacilities, model.CategoryOther:
	default:
		return errors.New("unknown ticket category")
	}
	switch req.Priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent:
	default:
		return errors.New("unknown ticket priority")
	}
	return nil
}

// validateTimeOffRequest validates dates and type before the round trip.
func validateTimeOffRequest(req model.CreateTimeOffRequest) error {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return errors.New("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return errors.New("end_date must not be before start_date")
	}
	switch req.Type {
	case model.TimeOffVacation, model.TimeOffSick, model.TimeOffPersonal, model.TimeOffUnpaid:
	default:
		return errors.New("unknown time-off type")
	}
	return nil
}

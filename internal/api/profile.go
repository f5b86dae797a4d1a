package api

import (
	"context"

	"github.com/crewhub-app/sync-agent/internal/model"
)

// profilePayload is the employee profile plus onboarding summary.
type profilePayload struct {
	Employee model.Employee         `json:"employee"`
	Pages    []model.OnboardingPage `json:"onboarding_pages"`
}

// Profile fetches the logged-in employee and their onboarding summary.
func (c *Client) Profile(ctx context.Context) (model.Employee, []model.OnboardingPage, error) {
	var payload profilePayload
	if err := c.do(ctx, "profile.get", "GET", "/employee/profile", nil, &payload); err != nil {
		return model.Employee{}, nil, err
	}
	return payload.Employee, payload.Pages, nil
}

// UpdatePersonalInfo updates profile fields and returns the fresh employee
// record.
func (c *Client) UpdatePersonalInfo(ctx context.Context, req model.UpdatePersonalInfoRequest) (model.Employee, error) {
	var payload struct {
		Employee model.Employee `json:"employee"`
	}
	if err := c.do(ctx, "profile.update", "POST", "/employee/personal-info", req, &payload); err != nil {
		return model.Employee{}, err
	}
	return payload.Employee, nil
}

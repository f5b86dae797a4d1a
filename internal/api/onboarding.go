package api

import (
	"context"

	"github.com/crewhub-app/sync-agent/internal/model"
)

type onboardingPagesPayload struct {
	Pages []model.OnboardingPage `json:"pages"`
}

// OnboardingPages lists the onboarding documents for the employee.
func (c *Client) OnboardingPages(ctx context.Context) ([]model.OnboardingPage, error) {
	var payload onboardingPagesPayload
	if err := c.do(ctx, "onboarding.list", "GET", "/employee/onboarding-pages", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Pages, nil
}

// CompleteOnboardingPage acknowledges a page with the employee's signature
// and returns the updated page.
func (c *Client) CompleteOnboardingPage(ctx context.Context, pageID, signature string) (model.OnboardingPage, error) {
	var payload struct {
		Page model.OnboardingPage `json:"page"`
	}
	err := c.do(ctx, "onboarding.complete", "POST",
		"/employee/onboarding-pages/"+pageID+"/complete",
		model.CompletePageRequest{Signature: signature}, &payload)
	if err != nil {
		return model.OnboardingPage{}, err
	}
	return payload.Page, nil
}

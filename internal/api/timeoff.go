package api

import (
	"context"

	"github.com/crewhub-app/sync-agent/internal/model"
)

type timeOffPayload struct {
	Requests []model.TimeOffRequest `json:"requests"`
}

// TimeOffRequests lists time-off requests visible to the current session.
func (c *Client) TimeOffRequests(ctx context.Context) ([]model.TimeOffRequest, error) {
	var payload timeOffPayload
	if err := c.do(ctx, "timeoff.list", "GET", c.rolePrefix()+"/time-off", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Requests, nil
}

// CreateTimeOff submits a new time-off request; it appears as pending until
// an admin decides it.
func (c *Client) CreateTimeOff(ctx context.Context, req model.CreateTimeOffRequest) (model.TimeOffRequest, error) {
	var payload struct {
		Request model.TimeOffRequest `json:"request"`
	}
	if err := c.do(ctx, "timeoff.create", "POST", "/employee/time-off", req, &payload); err != nil {
		return model.TimeOffRequest{}, err
	}
	return payload.Request, nil
}

// CancelTimeOff cancels one of the employee's own pending requests.
func (c *Client) CancelTimeOff(ctx context.Context, requestID string) (model.TimeOffRequest, error) {
	var payload struct {
		Request model.TimeOffRequest `json:"request"`
	}
	err := c.do(ctx, "timeoff.cancel", "POST", "/employee/time-off/"+requestID+"/cancel", nil, &payload)
	if err != nil {
		return model.TimeOffRequest{}, err
	}
	return payload.Request, nil
}

// DecideTimeOff approves or rejects a pending request. Admin only.
func (c *Client) DecideTimeOff(ctx context.Context, requestID string, status model.TimeOffStatus) (model.TimeOffRequest, error) {
	var payload struct {
		Request model.TimeOffRequest `json:"request"`
	}
	err := c.do(ctx, "timeoff.decide", "POST", "/admin/time-off/"+requestID,
		model.DecideTimeOffRequest{Status: status}, &payload)
	if err != nil {
		return model.TimeOffRequest{}, err
	}
	return payload.Request, nil
}

package api

import (
	"context"

	"github.com/crewhub-app/sync-agent/internal/model"
)

type trainingModulesPayload struct {
	Modules []model.TrainingModule `json:"modules"`
}

// TrainingModules lists training modules with their assignment status for
// the employee.
func (c *Client) TrainingModules(ctx context.Context) ([]model.TrainingModule, error) {
	var payload trainingModulesPayload
	if err := c.do(ctx, "training.list", "GET", "/employee/training-modules", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Modules, nil
}

// UnlockTraining unlocks the module matching a scanned QR code. Unlocking an
// already-unlocked code returns the module unchanged; the server never
// regresses a completed module.
func (c *Client) UnlockTraining(ctx context.Context, qrCode string) (model.TrainingModule, error) {
	var payload struct {
		Module model.TrainingModule `json:"module"`
	}
	err := c.do(ctx, "training.unlock", "POST", "/employee/training-modules/unlock",
		model.UnlockTrainingRequest{QRCode: qrCode}, &payload)
	if err != nil {
		return model.TrainingModule{}, err
	}
	return payload.Module, nil
}

// CompleteTraining marks a module completed after viewing.
func (c *Client) CompleteTraining(ctx context.Context, moduleID string) (model.TrainingModule, error) {
	var payload struct {
		Module model.TrainingModule `json:"module"`
	}
	err := c.do(ctx, "training.complete", "POST",
		"/employee/training-modules/"+moduleID+"/complete", nil, &payload)
	if err != nil {
		return model.TrainingModule{}, err
	}
	return payload.Module, nil
}

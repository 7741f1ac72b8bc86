package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/dermalytics/dermalytics-go/history"
)

// Verify submits a doctor's correction for a prior analysis and applies
// it to the local record. The submitting user must hold the doctor or
// admin role.
//
// Failures propagate. The correction is written to local history only
// after the backend accepts it; the model-derived panels are then
// invalidated because the statistics they show just changed.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) error {
	if req.AnalysisID == "" || req.CorrectDiagnosis == "" {
		return fmt.Errorf("api: analysis id and correct diagnosis are required")
	}

	id := c.identity()
	if id.Role != history.RoleDoctor && id.Role != history.RoleAdmin {
		return ErrNotAuthorized
	}

	if err := c.postJSON(ctx, "/api/verify-diagnosis", req, nil); err != nil {
		return err
	}

	if err := c.store.Verify(req.AnalysisID, req.CorrectDiagnosis, id.UserID); err != nil {
		// The backend accepted the verification; a record missing
		// locally (evicted, or made on another device) is not an error
		// worth failing the flow over.
		if !errors.Is(err, history.ErrRecordNotFound) && !errors.Is(err, history.ErrNotFound) {
			return err
		}
	}

	c.fetch.Cache().Clear(nsModel, nsCommunity)
	return nil
}

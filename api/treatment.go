package api

import (
	"context"
	"fmt"
)

// SuggestTreatment asks the backend for treatment recommendations for a
// diagnosis. A core flow: failures propagate, nothing is cached.
func (c *Client) SuggestTreatment(ctx context.Context, req TreatmentRequest) (TreatmentSuggestion, error) {
	if req.Disease == "" {
		return TreatmentSuggestion{}, fmt.Errorf("api: disease is required")
	}

	var out TreatmentSuggestion
	if err := c.postJSON(ctx, "/suggest_treatment", req, &out); err != nil {
		return TreatmentSuggestion{}, err
	}
	return out, nil
}

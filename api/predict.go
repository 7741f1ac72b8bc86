package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/dermalytics/dermalytics-go/history"
)

// Predict uploads a lesion image for analysis and persists the result.
//
// The returned record still carries the full visual payload (heatmap,
// processed image, raw predictions) for display; the copy written to
// history is compressed. Failures propagate: a prediction the user
// asked for must never silently turn into demo data.
func (c *Client) Predict(ctx context.Context, image []byte, filename string) (history.AnalysisRecord, error) {
	if len(image) == 0 {
		return history.AnalysisRecord{}, fmt.Errorf("api: empty image")
	}
	if filename == "" {
		filename = "lesion.jpg"
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return history.AnalysisRecord{}, fmt.Errorf("api: building upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return history.AnalysisRecord{}, fmt.Errorf("api: building upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return history.AnalysisRecord{}, fmt.Errorf("api: building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/predict", nil), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return history.AnalysisRecord{}, fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.predict.Do(req)
	if err != nil {
		return history.AnalysisRecord{}, err
	}

	var pred PredictionResponse
	if err := decodeJSON(resp, &pred); err != nil {
		return history.AnalysisRecord{}, err
	}

	now := c.now()
	id := c.identity()
	rec := history.AnalysisRecord{
		ID:             history.NewRecordID(now),
		Disease:        pred.Disease,
		Confidence:     pred.Confidence,
		IsCancer:       pred.IsCancer,
		Explanation:    pred.Explanation,
		Description:    pred.Description,
		KeyFindings:    pred.KeyFindings,
		Heatmap:        pred.Heatmap,
		ImageData:      base64.StdEncoding.EncodeToString(image),
		RawPredictions: pred.RawPredictions,
		ProcessedImage: pred.ProcessedImage,
		CreatedAt:      now,
		UserID:         id.UserID,
		UserRole:       id.Role,
	}

	c.store.Save(rec)
	return rec, nil
}

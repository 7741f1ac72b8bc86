package history

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// User roles attached to records.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Verification is the doctor correction attached to a record after
// review. Nil until a verification is submitted.
type Verification struct {
	CorrectDiagnosis string    `json:"correct_diagnosis"`
	VerifiedBy       string    `json:"verified_by"`
	VerifiedAt       time.Time `json:"verified_at"`
}

// AnalysisRecord is one completed diagnosis shown to a user.
//
// The large visual fields (Heatmap, ImageData, RawPredictions,
// ProcessedImage) exist only on the in-memory record handed back from
// the backend; Compress strips them before anything is persisted.
type AnalysisRecord struct {
	ID         string  `json:"id"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"` // 0-100
	IsCancer   bool    `json:"is_cancer"`

	Explanation string   `json:"explanation,omitempty"`
	Description string   `json:"description,omitempty"`
	KeyFindings []string `json:"key_findings,omitempty"`

	Heatmap        [][]float64 `json:"heatmap,omitempty"`
	ImageData      string      `json:"image_data,omitempty"`
	RawPredictions []float64   `json:"raw_predictions,omitempty"`
	ProcessedImage string      `json:"processed_image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id,omitempty"`
	UserRole  string    `json:"user_role,omitempty"`

	Verification *Verification `json:"verification,omitempty"`
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewRecordID generates a record id of the form
// analysis_<unix-millis>_<random>. Non-cryptographic: ids only need to
// be unique within one user's history.
func NewRecordID(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		// #nosec G404 -- record ids are not security material.
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return fmt.Sprintf("analysis_%d_%s", now.UnixMilli(), suffix)
}

package api

import "time"

// PredictionResponse is the diagnosis returned by POST /predict.
type PredictionResponse struct {
	Disease        string      `json:"disease"`
	Confidence     float64     `json:"confidence"` // 0-100
	IsCancer       bool        `json:"is_cancer"`
	Explanation    string      `json:"explanation,omitempty"`
	Description    string      `json:"description,omitempty"`
	KeyFindings    []string    `json:"key_findings,omitempty"`
	Heatmap        [][]float64 `json:"heatmap,omitempty"`
	ProcessedImage string      `json:"processed_image,omitempty"`
	RawPredictions []float64   `json:"raw_predictions,omitempty"`
}

// VerifyRequest is the doctor correction sent to /api/verify-diagnosis.
type VerifyRequest struct {
	AnalysisID       string `json:"analysis_id"`
	CorrectDiagnosis string `json:"correct_diagnosis"`
	Notes            string `json:"notes,omitempty"`
}

// RetrainingStatus is the poll target for model retraining progress.
type RetrainingStatus struct {
	InProgress       bool      `json:"in_progress"`
	Progress         float64   `json:"progress"` // 0-100
	SamplesCollected int       `json:"samples_collected"`
	SamplesNeeded    int       `json:"samples_needed"`
	LastTrained      time.Time `json:"last_trained"`
	DemoMode         bool      `json:"demo_mode,omitempty"`
}

// MetricPoint is one entry in an accuracy trend.
type MetricPoint struct {
	Date     string  `json:"date"`
	Accuracy float64 `json:"accuracy"`
}

// RetrainingMetrics is the accuracy trend from /api/retraining-metrics.
type RetrainingMetrics struct {
	AccuracyTrend []MetricPoint `json:"accuracy_trend"`
	DemoMode      bool          `json:"demo_mode,omitempty"`
}

// ModelPerformance is the admin dashboard summary.
type ModelPerformance struct {
	Accuracy         float64 `json:"accuracy"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1Score          float64 `json:"f1_score"`
	TotalPredictions int     `json:"total_predictions"`
	VerifiedCount    int     `json:"verified_count"`
	DemoMode         bool    `json:"demo_mode,omitempty"`
}

// ConditionCount is one aggregate entry in community insights.
type ConditionCount struct {
	Condition string `json:"condition"`
	Count     int    `json:"count"`
}

// CommunityInsights is the aggregate statistics panel.
type CommunityInsights struct {
	Period              string           `json:"period"`
	TotalAnalyses       int              `json:"total_analyses"`
	CancerDetectionRate float64          `json:"cancer_detection_rate"`
	TopConditions       []ConditionCount `json:"top_conditions"`
	DemoMode            bool             `json:"demo_mode,omitempty"`
}

// PreventionTip is one piece of preventive-care advice.
type PreventionTip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // high|medium|low
}

// PreventiveCare is the advice set for a skin type and concern list.
type PreventiveCare struct {
	SkinType string          `json:"skin_type"`
	Tips     []PreventionTip `json:"tips"`
	DemoMode bool            `json:"demo_mode,omitempty"`
}

// Dermatologist is one directory entry.
type Dermatologist struct {
	Name       string  `json:"name"`
	Clinic     string  `json:"clinic"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKM float64 `json:"distance_km"`
	Rating     float64 `json:"rating"`
	Phone      string  `json:"phone,omitempty"`
}

// DermatologistDirectory is the lookup result around a location.
type DermatologistDirectory struct {
	Dermatologists []Dermatologist `json:"dermatologists"`
	DemoMode       bool            `json:"demo_mode,omitempty"`
}

// TreatmentRequest asks /suggest_treatment for recommendations.
type TreatmentRequest struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	IsCancer   bool    `json:"is_cancer"`
	SkinType   string  `json:"skin_type,omitempty"`
}

// TreatmentSuggestion is the recommendation set for a diagnosis.
type TreatmentSuggestion struct {
	Recommendations []string `json:"recommendations"`
	Urgency         string   `json:"urgency"` // routine|soon|urgent
	Disclaimer      string   `json:"disclaimer,omitempty"`
}

// HealthStatus is the backend liveness answer.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

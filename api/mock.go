package api

import "time"

// Demo fixtures shown when an informational endpoint is unreachable.
// Deterministic on purpose: a flaky backend should not make the panels
// jitter between refreshes. Every fixture sets DemoMode so views can
// badge the data as illustrative.

func mockRetrainingStatus(now time.Time) RetrainingStatus {
	return RetrainingStatus{
		InProgress:       false,
		Progress:         0,
		SamplesCollected: 342,
		SamplesNeeded:    500,
		LastTrained:      now.AddDate(0, 0, -14).Truncate(24 * time.Hour),
		DemoMode:         true,
	}
}

func mockRetrainingMetrics(now time.Time) RetrainingMetrics {
	base := now.Truncate(24 * time.Hour)
	trend := make([]MetricPoint, 0, 6)
	accuracies := []float64{0.89, 0.90, 0.91, 0.91, 0.92, 0.93}
	for i, acc := range accuracies {
		day := base.AddDate(0, 0, -7*(len(accuracies)-1-i))
		trend = append(trend, MetricPoint{Date: day.Format("2006-01-02"), Accuracy: acc})
	}
	return RetrainingMetrics{AccuracyTrend: trend, DemoMode: true}
}

func mockModelPerformance() ModelPerformance {
	return ModelPerformance{
		Accuracy:         0.93,
		Precision:        0.91,
		Recall:           0.89,
		F1Score:          0.90,
		TotalPredictions: 12840,
		VerifiedCount:    1932,
		DemoMode:         true,
	}
}

func mockCommunityInsights(period string) CommunityInsights {
	return CommunityInsights{
		Period:              period,
		TotalAnalyses:       4271,
		CancerDetectionRate: 0.062,
		TopConditions: []ConditionCount{
			{Condition: "Melanocytic nevus", Count: 1730},
			{Condition: "Benign keratosis", Count: 912},
			{Condition: "Eczema", Count: 644},
			{Condition: "Melanoma", Count: 187},
		},
		DemoMode: true,
	}
}

func mockPreventiveCare(skinType string) PreventiveCare {
	return PreventiveCare{
		SkinType: skinType,
		Tips: []PreventionTip{
			{
				Title:       "Daily broad-spectrum sunscreen",
				Description: "Apply SPF 30 or higher every morning, including cloudy days.",
				Priority:    "high",
			},
			{
				Title:       "Monthly self-examination",
				Description: "Check moles for asymmetry, border changes, color variation, diameter growth and evolution.",
				Priority:    "high",
			},
			{
				Title:       "Annual dermatologist visit",
				Description: "A full-body skin examination once a year catches changes early.",
				Priority:    "medium",
			},
		},
		DemoMode: true,
	}
}

func mockDermatologists(lat, lng float64) DermatologistDirectory {
	return DermatologistDirectory{
		Dermatologists: []Dermatologist{
			{
				Name:       "Dr. A. Rivera",
				Clinic:     "City Skin Clinic",
				Latitude:   lat + 0.01,
				Longitude:  lng - 0.008,
				DistanceKM: 1.4,
				Rating:     4.8,
				Phone:      "+1-555-0134",
			},
			{
				Name:       "Dr. K. Osei",
				Clinic:     "Dermatology Associates",
				Latitude:   lat - 0.02,
				Longitude:  lng + 0.015,
				DistanceKM: 2.9,
				Rating:     4.6,
				Phone:      "+1-555-0172",
			},
		},
		DemoMode: true,
	}
}

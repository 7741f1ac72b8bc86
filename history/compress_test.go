package history

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func fullRecord() AnalysisRecord {
	return AnalysisRecord{
		ID:             "analysis_1700000000000_abc123def",
		Disease:        "Melanoma",
		Confidence:     87.5,
		IsCancer:       true,
		Explanation:    strings.Repeat("e", 800),
		Description:    strings.Repeat("d", 501),
		KeyFindings:    []string{"f1", "f2", "f3", "f4", "f5", "f6", "f7"},
		Heatmap:        [][]float64{{0.1, 0.9}, {0.4, 0.2}},
		ImageData:      "data:image/png;base64,AAAA",
		RawPredictions: []float64{0.01, 0.87, 0.12},
		ProcessedImage: "data:image/png;base64,BBBB",
		CreatedAt:      time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		UserID:         "user-1",
		UserRole:       RolePatient,
	}
}

func TestCompress_StripsLargeFields(t *testing.T) {
	got := Compress(fullRecord())

	if got.Heatmap != nil {
		t.Error("Heatmap should be stripped")
	}
	if got.ImageData != "" {
		t.Error("ImageData should be stripped")
	}
	if got.RawPredictions != nil {
		t.Error("RawPredictions should be stripped")
	}
	if got.ProcessedImage != "" {
		t.Error("ProcessedImage should be stripped")
	}

	// Non-large fields survive untouched.
	if got.Disease != "Melanoma" || got.Confidence != 87.5 || !got.IsCancer {
		t.Error("diagnostic fields should survive compression")
	}
}

func TestCompress_TruncatesText(t *testing.T) {
	got := Compress(fullRecord())

	if len(got.Explanation) != ExplanationLimit {
		t.Errorf("Explanation length = %d, want %d", len(got.Explanation), ExplanationLimit)
	}
	if len(got.Description) != ExplanationLimit {
		t.Errorf("Description length = %d, want %d", len(got.Description), ExplanationLimit)
	}

	short := AnalysisRecord{Explanation: "brief"}
	if Compress(short).Explanation != "brief" {
		t.Error("text under the limit should be unchanged")
	}
}

func TestCompress_CapsKeyFindings(t *testing.T) {
	got := Compress(fullRecord())

	if len(got.KeyFindings) != MaxKeyFindings {
		t.Fatalf("KeyFindings length = %d, want %d", len(got.KeyFindings), MaxKeyFindings)
	}
	want := []string{"f1", "f2", "f3", "f4", "f5"}
	if !reflect.DeepEqual(got.KeyFindings, want) {
		t.Errorf("KeyFindings = %v, want first five in order", got.KeyFindings)
	}
}

func TestCompress_Idempotent(t *testing.T) {
	once := Compress(fullRecord())
	twice := Compress(once)

	if !reflect.DeepEqual(once, twice) {
		t.Error("Compress(Compress(x)) should equal Compress(x)")
	}
}

func TestCompress_DoesNotMutateInput(t *testing.T) {
	in := fullRecord()
	want := fullRecord()

	_ = Compress(in)

	if !reflect.DeepEqual(in, want) {
		t.Error("Compress must not mutate its input")
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dermalytics/dermalytics-go/auth"
	"github.com/dermalytics/dermalytics-go/history"
	"github.com/dermalytics/dermalytics-go/storage"
	"github.com/dermalytics/dermalytics-go/transport"
)

func signToken(t *testing.T, sub, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "role": role})
	s, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newTestClient(t *testing.T, srv *httptest.Server, tokens auth.TokenSource) (*Client, *history.Store) {
	t.Helper()
	store := history.NewStore(storage.NewMemoryKV(), history.Options{})
	c, err := NewClient(Config{
		BaseURL: srv.URL,
		Tokens:  tokens,
		Store:   store,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c, store
}

func TestNewClient_RejectsRelativeBaseURL(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "not-a-url"}); err == nil {
		t.Fatal("NewClient should reject a relative base URL")
	}
}

func TestPredict_SavesCompressedRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("request is not multipart: %v", err)
		}
		json.NewEncoder(w).Encode(PredictionResponse{
			Disease:     "Melanoma",
			Confidence:  87.5,
			IsCancer:    true,
			Explanation: "Irregular borders and color variation.",
			Heatmap:     [][]float64{{0.1, 0.9}, {0.4, 0.2}},
		})
	}))
	defer srv.Close()

	c, store := newTestClient(t, srv, auth.StaticToken(signToken(t, "user-7", "patient")))

	rec, err := c.Predict(context.Background(), []byte("fake-jpeg-bytes"), "mole.jpg")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	idPattern := regexp.MustCompile(`^analysis_\d+_[a-z0-9]{9}$`)
	if !idPattern.MatchString(rec.ID) {
		t.Errorf("record id %q does not match the expected pattern", rec.ID)
	}
	if rec.Heatmap == nil {
		t.Error("returned record should keep the heatmap for display")
	}
	if rec.UserID != "user-7" || rec.UserRole != "patient" {
		t.Errorf("record tagged %q/%q, want user-7/patient", rec.UserID, rec.UserRole)
	}

	saved, err := store.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != rec.ID {
		t.Fatalf("history = %d records, want the new record at index 0", len(saved))
	}
	if saved[0].Heatmap != nil || saved[0].ImageData != "" {
		t.Error("persisted record should have the visual payload stripped")
	}
}

func TestPredict_ErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad image", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, store := newTestClient(t, srv, nil)

	_, err := c.Predict(context.Background(), []byte("x"), "")
	if err == nil {
		t.Fatal("Predict should surface the backend error")
	}
	apiErr, ok := transport.AsAPIError(err)
	if !ok || apiErr.Code != transport.CodeClient {
		t.Errorf("error = %v, want a client APIError", err)
	}

	if _, err := store.History(); err != history.ErrNotFound {
		t.Errorf("failed prediction must not write history, got %v", err)
	}
}

func TestCommunityInsights_CachedWithinTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(CommunityInsights{Period: "month", TotalAnalyses: 100})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	ctx := context.Background()

	first, err := c.CommunityInsights(ctx, "month")
	if err != nil {
		t.Fatalf("CommunityInsights failed: %v", err)
	}
	second, err := c.CommunityInsights(ctx, "month")
	if err != nil {
		t.Fatalf("CommunityInsights failed: %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("backend hit %d times, want 1 (second read served from cache)", got)
	}
	if first.TotalAnalyses != second.TotalAnalyses {
		t.Error("cached read should return the same data")
	}

	// A different period is a different key.
	if _, err := c.CommunityInsights(ctx, "week"); err != nil {
		t.Fatalf("CommunityInsights failed: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("backend hit %d times, want 2 after a distinct period", got)
	}
}

func TestCommunityInsights_FallbackIsNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 404 fails fast without retries.
		if hits.Add(1) == 1 {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(CommunityInsights{Period: "month", TotalAnalyses: 5280})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	ctx := context.Background()

	demo, err := c.CommunityInsights(ctx, "month")
	if err != nil {
		t.Fatalf("CommunityInsights should mask the failure, got %v", err)
	}
	if !demo.DemoMode {
		t.Error("failed fetch should return the demo fixture")
	}

	real, err := c.CommunityInsights(ctx, "month")
	if err != nil {
		t.Fatalf("CommunityInsights failed: %v", err)
	}
	if real.DemoMode || real.TotalAnalyses != 5280 {
		t.Errorf("recovered read = %+v, want live data (demo answers must not be cached)", real)
	}
}

func TestVerify_RequiresDoctorRole(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, auth.StaticToken(signToken(t, "user-7", "patient")))

	err := c.Verify(context.Background(), VerifyRequest{AnalysisID: "analysis_1_aaaaaaaaa", CorrectDiagnosis: "Eczema"})
	if err != ErrNotAuthorized {
		t.Fatalf("Verify = %v, want ErrNotAuthorized", err)
	}
	if hits.Load() != 0 {
		t.Error("unauthorized verification must not reach the backend")
	}
}

func TestVerify_WritesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/verify-diagnosis" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding verify request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, store := newTestClient(t, srv, auth.StaticToken(signToken(t, "doc-1", "doctor")))

	rec := history.AnalysisRecord{ID: "analysis_1_aaaaaaaaa", Disease: "Melanoma"}
	store.Save(rec)

	err := c.Verify(context.Background(), VerifyRequest{
		AnalysisID:       rec.ID,
		CorrectDiagnosis: "Benign keratosis",
	})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	saved, err := store.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	v := saved[0].Verification
	if v == nil || v.CorrectDiagnosis != "Benign keratosis" || v.VerifiedBy != "doc-1" {
		t.Errorf("verification = %+v, want the correction attributed to doc-1", v)
	}
}

func TestVerify_BackendRejectionPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown analysis", http.StatusNotFound)
	}))
	defer srv.Close()

	c, store := newTestClient(t, srv, auth.StaticToken(signToken(t, "doc-1", "doctor")))
	rec := history.AnalysisRecord{ID: "analysis_1_aaaaaaaaa", Disease: "Melanoma"}
	store.Save(rec)

	err := c.Verify(context.Background(), VerifyRequest{AnalysisID: rec.ID, CorrectDiagnosis: "Eczema"})
	if err == nil {
		t.Fatal("Verify should surface the backend rejection")
	}

	saved, _ := store.History()
	if saved[0].Verification != nil {
		t.Error("rejected verification must not touch local history")
	}
}

func TestSuggestTreatment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/suggest_treatment" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(TreatmentSuggestion{
			Recommendations: []string{"Schedule a biopsy"},
			Urgency:         "urgent",
		})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)

	got, err := c.SuggestTreatment(context.Background(), TreatmentRequest{Disease: "Melanoma", IsCancer: true})
	if err != nil {
		t.Fatalf("SuggestTreatment failed: %v", err)
	}
	if got.Urgency != "urgent" || len(got.Recommendations) != 1 {
		t.Errorf("suggestion = %+v", got)
	}
}

func TestSuggestTreatment_NoMockFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	if _, err := c.SuggestTreatment(context.Background(), TreatmentRequest{Disease: "Melanoma"}); err == nil {
		t.Fatal("treatment suggestion is a core flow; failures must propagate")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HealthStatus{Status: "ok", Version: "2.3.1"})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	got, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if got.Status != "ok" {
		t.Errorf("status = %q", got.Status)
	}
}

func TestRetrainingStatus_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, nil)
	got, err := c.RetrainingStatus(context.Background())
	if err != nil {
		t.Fatalf("RetrainingStatus should mask the failure, got %v", err)
	}
	if !got.DemoMode {
		t.Error("fallback status should be flagged as demo data")
	}
	if got.SamplesCollected == 0 || got.SamplesNeeded == 0 {
		t.Error("fixture should carry plausible sample counts")
	}
}

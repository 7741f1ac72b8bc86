package history

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dermalytics/dermalytics-go/storage"
)

// failKV wraps a MemoryKV and fails the first failures Sets.
type failKV struct {
	*storage.MemoryKV
	failures int
}

func (f *failKV) Set(key, value string) error {
	if f.failures > 0 {
		f.failures--
		return storage.ErrQuotaExceeded
	}
	return f.MemoryKV.Set(key, value)
}

func persisted(t *testing.T, kv storage.KV, key string) []AnalysisRecord {
	t.Helper()
	raw, ok := kv.Get(key)
	if !ok {
		return nil
	}
	var records []AnalysisRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.Fatalf("persisted history is not JSON: %v", err)
	}
	return records
}

func TestStore_SavePrependsCompressed(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, Options{})

	first := fullRecord()
	first.ID = "analysis_1_aaaaaaaaa"
	first.CreatedAt = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	second := fullRecord()
	second.ID = "analysis_2_bbbbbbbbb"
	second.CreatedAt = time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)

	if got := store.Save(first); got != WroteFull {
		t.Fatalf("Save = %v, want full", got)
	}
	if got := store.Save(second); got != WroteFull {
		t.Fatalf("Save = %v, want full", got)
	}

	records, err := store.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].ID != second.ID {
		t.Errorf("newest record should be at index 0, got %s", records[0].ID)
	}

	// Large fields never reach storage.
	raw, _ := kv.Get(DefaultKey)
	if strings.Contains(raw, "heatmap") || strings.Contains(raw, "image_data") {
		t.Error("persisted JSON must not contain heatmap or image payloads")
	}
	if records[0].Heatmap != nil || records[0].ImageData != "" {
		t.Error("loaded record should be the compressed form")
	}
}

func TestStore_CapsAtMaxItems(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, Options{})
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		rec := AnalysisRecord{
			ID:        NewRecordID(base.Add(time.Duration(i) * time.Minute)),
			Disease:   "Nevus",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		store.Save(rec)
	}

	records, err := store.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != DefaultMaxItems {
		t.Errorf("len = %d, want %d", len(records), DefaultMaxItems)
	}
	// Newest survives, oldest evicted.
	if !records[0].CreatedAt.Equal(base.Add(19 * time.Minute)) {
		t.Errorf("newest record missing, got %v", records[0].CreatedAt)
	}
}

func TestStore_QuotaPressureCapsAtTen(t *testing.T) {
	kv := storage.NewMemoryKV()
	// Small assumed quota; the filler key pushes usage past 80%.
	store := NewStore(kv, Options{QuotaBytes: 100_000})
	if err := kv.Set("filler", strings.Repeat("x", 85_000)); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	var outcome WriteOutcome
	for i := 0; i < 16; i++ {
		rec := AnalysisRecord{
			ID:        NewRecordID(base.Add(time.Duration(i) * time.Minute)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		outcome = store.Save(rec)
	}

	if outcome != WroteCapped {
		t.Errorf("outcome = %v, want capped", outcome)
	}
	records := persisted(t, kv, DefaultKey)
	if len(records) > PressureMaxItems {
		t.Errorf("persisted %d records under pressure, want <= %d", len(records), PressureMaxItems)
	}
	if len(records) == DefaultMaxItems {
		t.Error("pressure write must never persist the full 15")
	}
}

func TestStore_HardFailureKeepsFiveByPosition(t *testing.T) {
	kv := &failKV{MemoryKV: storage.NewMemoryKV(), failures: 1}
	store := NewStore(kv, Options{})
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// Seed eight records through a healthy store first.
	healthy := NewStore(kv.MemoryKV, Options{})
	for i := 0; i < 8; i++ {
		healthy.Save(AnalysisRecord{
			ID:        NewRecordID(base.Add(time.Duration(i) * time.Minute)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	// The next save fails its first write and lands on the emergency rung.
	newest := AnalysisRecord{
		ID:        NewRecordID(base.Add(time.Hour)),
		CreatedAt: base.Add(time.Hour),
	}
	if got := store.Save(newest); got != WroteEmergency {
		t.Fatalf("Save = %v, want emergency", got)
	}

	records := persisted(t, kv, DefaultKey)
	if len(records) != EmergencyMaxItems {
		t.Fatalf("persisted %d records, want %d", len(records), EmergencyMaxItems)
	}
	// First by array position: the newly saved record leads.
	if records[0].ID != newest.ID {
		t.Errorf("emergency list should keep the newest save first, got %s", records[0].ID)
	}
}

func TestStore_TotalFailureClears(t *testing.T) {
	kv := &failKV{MemoryKV: storage.NewMemoryKV(), failures: 99}
	seed := NewStore(kv.MemoryKV, Options{})
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		seed.Save(AnalysisRecord{
			ID:        NewRecordID(base.Add(time.Duration(i) * time.Minute)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	store := NewStore(kv, Options{})
	if got := store.Save(AnalysisRecord{ID: NewRecordID(base), CreatedAt: base}); got != Cleared {
		t.Fatalf("Save = %v, want cleared", got)
	}

	// Final state is a missing key, never a partial list.
	if _, ok := kv.Get(DefaultKey); ok {
		t.Error("history key should be removed after total failure")
	}
	if _, err := store.History(); !errors.Is(err, ErrNotFound) {
		t.Errorf("History after clear = %v, want ErrNotFound", err)
	}
}

func TestStore_TypedAbsence(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, Options{})

	if _, err := store.History(); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty store History = %v, want ErrNotFound", err)
	}

	if err := kv.Set(DefaultKey, "{broken"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.History(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("corrupt store History = %v, want ErrCorrupt", err)
	}
}

func TestStore_Verify(t *testing.T) {
	kv := storage.NewMemoryKV()
	verifiedAt := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	store := NewStore(kv, Options{Now: func() time.Time { return verifiedAt }})

	rec := AnalysisRecord{
		ID:        "analysis_1_ccccccccc",
		Disease:   "Basal cell carcinoma",
		CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	store.Save(rec)

	if err := store.Verify(rec.ID, "Squamous cell carcinoma", "doctor-7"); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	records, err := store.History()
	if err != nil {
		t.Fatal(err)
	}
	v := records[0].Verification
	if v == nil {
		t.Fatal("verification sub-record missing")
	}
	if v.CorrectDiagnosis != "Squamous cell carcinoma" || v.VerifiedBy != "doctor-7" {
		t.Errorf("verification = %+v", v)
	}
	if !v.VerifiedAt.Equal(verifiedAt) {
		t.Errorf("VerifiedAt = %v, want %v", v.VerifiedAt, verifiedAt)
	}

	if err := store.Verify("analysis_0_missing00", "x", "doctor-7"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Verify on unknown id = %v, want ErrRecordNotFound", err)
	}
}

func TestStore_Clear(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, Options{})
	store.Save(AnalysisRecord{ID: NewRecordID(time.Now()), CreatedAt: time.Now()})

	store.Clear()
	if _, err := store.History(); !errors.Is(err, ErrNotFound) {
		t.Errorf("History after Clear = %v, want ErrNotFound", err)
	}
}

func TestStore_ProfileAndSettings(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, Options{})

	if _, err := store.Profile(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Profile on empty store = %v, want ErrNotFound", err)
	}

	p := Profile{ID: "user-1", Name: "Ada", Role: RolePatient, SkinType: "III", Concerns: []string{"moles"}}
	if err := store.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	got, err := store.Profile()
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if got.Name != "Ada" || got.SkinType != "III" {
		t.Errorf("Profile = %+v", got)
	}

	set := Settings{Theme: "dark", Notifications: true}
	if err := store.SaveSettings(set); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	gotSet, err := store.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if gotSet.Theme != "dark" || !gotSet.Notifications {
		t.Errorf("Settings = %+v", gotSet)
	}

	_ = kv.Set("app_settings", "not-json")
	if _, err := store.Settings(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("corrupt settings = %v, want ErrCorrupt", err)
	}
}

func TestStore_CorruptHistoryStartsFresh(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := NewStore(kv, Options{})
	_ = kv.Set(DefaultKey, "{broken")

	rec := AnalysisRecord{ID: NewRecordID(time.Now()), CreatedAt: time.Now()}
	if got := store.Save(rec); got != WroteFull {
		t.Fatalf("Save over corrupt history = %v, want full", got)
	}

	records, err := store.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Errorf("history should contain only the fresh record, got %v", records)
	}
}

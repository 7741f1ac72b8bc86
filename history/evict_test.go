package history

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"
)

func recordsAt(times ...time.Time) []AnalysisRecord {
	out := make([]AnalysisRecord, len(times))
	for i, ts := range times {
		out[i] = AnalysisRecord{ID: fmt.Sprintf("analysis_%d_%09d", ts.UnixMilli(), i), CreatedAt: ts}
	}
	return out
}

func TestEvictOldest_CapsAndSorts(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// Deliberately unsorted input.
	input := recordsAt(
		base.Add(2*time.Hour),
		base,
		base.Add(5*time.Hour),
		base.Add(1*time.Hour),
		base.Add(4*time.Hour),
	)

	got := EvictOldest(input, 3)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("result not descending at %d: %v after %v", i, got[i].CreatedAt, got[i-1].CreatedAt)
		}
	}
	// The three newest must survive.
	if got[0].CreatedAt != base.Add(5*time.Hour) || got[2].CreatedAt != base.Add(2*time.Hour) {
		t.Errorf("wrong survivors: %v", got)
	}
}

func TestEvictOldest_UnderCapKeepsAll(t *testing.T) {
	base := time.Now()
	input := recordsAt(base, base.Add(time.Minute))

	got := EvictOldest(input, 15)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestEvictOldest_PureAndSubsequence(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, 30)
	for i := range times {
		times[i] = base.Add(time.Duration(rand.IntN(10_000)) * time.Second)
	}
	input := recordsAt(times...)
	inputCopy := append([]AnalysisRecord(nil), input...)

	got := EvictOldest(input, 10)

	// Input untouched.
	for i := range input {
		if input[i].ID != inputCopy[i].ID {
			t.Fatal("EvictOldest must not reorder its input")
		}
	}

	// Every survivor exists in the input.
	ids := make(map[string]bool, len(input))
	for _, r := range input {
		ids[r.ID] = true
	}
	for _, r := range got {
		if !ids[r.ID] {
			t.Fatalf("survivor %s not present in input", r.ID)
		}
	}
	if len(got) != 10 {
		t.Errorf("len = %d, want exactly 10", len(got))
	}
}

func TestEvictOldest_ZeroAndNegativeCap(t *testing.T) {
	input := recordsAt(time.Now())
	if got := EvictOldest(input, 0); len(got) != 0 {
		t.Errorf("cap 0 should return empty, got %d", len(got))
	}
	if got := EvictOldest(input, -1); len(got) != 0 {
		t.Errorf("negative cap should return empty, got %d", len(got))
	}
}

package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dermalytics/dermalytics-go/observe"
	"github.com/dermalytics/dermalytics-go/storage"
)

// Default retention and quota constants. The quota is the assumed
// browser-era figure, not an OS-reported one; usage is probed with the
// same length-sum estimate the product always used.
const (
	DefaultMaxItems   = 15
	PressureMaxItems  = 10
	EmergencyMaxItems = 5

	AssumedQuotaBytes = 5 * 1024 * 1024
	PressureThreshold = 0.8

	DefaultKey = "analysis_history"
)

// WriteOutcome reports which rung of the degradation ladder a write
// ended on. Within one write cycle the ladder only descends.
type WriteOutcome int

const (
	// WroteFull means the full list (capped at MaxItems) was stored.
	WroteFull WriteOutcome = iota
	// WroteCapped means quota pressure capped the list at PressureMaxItems.
	WroteCapped
	// WroteEmergency means a failed write forced the list down to
	// EmergencyMaxItems before a raw write succeeded.
	WroteEmergency
	// Cleared means every fallback failed and the history key was removed.
	Cleared
)

func (o WriteOutcome) String() string {
	switch o {
	case WroteFull:
		return "full"
	case WroteCapped:
		return "capped"
	case WroteEmergency:
		return "emergency"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Options configures a Store. Zero values take the package defaults.
type Options struct {
	// Key is the storage key the history list lives under.
	Key string

	// MaxItems, PressureItems and EmergencyItems are the retention
	// caps for the three rungs of the degradation ladder.
	MaxItems       int
	PressureItems  int
	EmergencyItems int

	// QuotaBytes is the assumed total quota; Threshold is the used
	// fraction past which writes pre-emptively cap the list.
	QuotaBytes int
	Threshold  float64

	// Logger receives degradation warnings. Defaults to a noop.
	Logger observe.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store retains a bounded, most-recent-first list of AnalysisRecord
// on top of a storage.KV.
//
// All mutation goes through the single write path, serialized by a
// mutex so the one-writer-per-key assumption holds under real threads.
// Save never returns an error: storage failures are absorbed by the
// ladder and reported through the WriteOutcome and warn logs.
type Store struct {
	mu   sync.Mutex
	kv   storage.KV
	opts Options
	now  func() time.Time
	log  observe.Logger
}

// NewStore creates a history store over kv.
func NewStore(kv storage.KV, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.PressureItems <= 0 {
		opts.PressureItems = PressureMaxItems
	}
	if opts.EmergencyItems <= 0 {
		opts.EmergencyItems = EmergencyMaxItems
	}
	if opts.QuotaBytes <= 0 {
		opts.QuotaBytes = AssumedQuotaBytes
	}
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = PressureThreshold
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = observe.NewNoop().Logger()
	}

	return &Store{kv: kv, opts: opts, now: now, log: log}
}

// Save compresses rec, prepends it to the stored history and persists
// the result through the degradation ladder. It never fails; the
// outcome reports how much history survived.
func (s *Store) Save(rec AnalysisRecord) WriteOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil && err != ErrNotFound {
		// Corrupt history is unrecoverable; start over rather than fail
		// the save of a fresh result.
		s.log.Warn(context.Background(), "history unreadable, starting fresh",
			observe.Field{Key: "error", Value: err.Error()})
		records = nil
	}

	compressed := Compress(rec)
	records = append([]AnalysisRecord{compressed}, records...)

	_, outcome := s.writeLocked(records)
	return outcome
}

// History returns the stored records, newest first. Absence is typed:
// ErrNotFound when nothing is stored, ErrCorrupt when the stored value
// does not parse.
func (s *Store) History() ([]AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Verify attaches a doctor correction to the record with the given id
// and rewrites the history through the regular write path.
func (s *Store) Verify(id, correctDiagnosis, verifiedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].ID == id {
			records[i].Verification = &Verification{
				CorrectDiagnosis: correctDiagnosis,
				VerifiedBy:       verifiedBy,
				VerifiedAt:       s.now(),
			}
			found = true
			break
		}
	}
	if !found {
		return ErrRecordNotFound
	}

	s.writeLocked(records)
	return nil
}

// Clear removes the history key entirely.
func (s *Store) Clear() {
	s.mu.Lock()
	s.kv.Delete(s.opts.Key)
	s.mu.Unlock()
}

// EstimatedUsage approximates bytes used across the whole store.
func (s *Store) EstimatedUsage() int {
	return storage.EstimateUsage(s.kv)
}

// QuotaBytes returns the assumed quota the store budgets against.
func (s *Store) QuotaBytes() int {
	return s.opts.QuotaBytes
}

func (s *Store) loadLocked() ([]AnalysisRecord, error) {
	raw, ok := s.kv.Get(s.opts.Key)
	if !ok {
		return nil, ErrNotFound
	}

	var records []AnalysisRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, ErrCorrupt
	}
	return records, nil
}

// writeLocked runs the degradation ladder over records and persists
// the survivors. Each rung is attempted at most once; the ladder never
// climbs back to a larger list within one write cycle.
func (s *Store) writeLocked(records []AnalysisRecord) ([]AnalysisRecord, WriteOutcome) {
	ctx := context.Background()

	records = EvictOldest(records, s.opts.MaxItems)
	outcome := WroteFull

	// Pre-emptive cap under quota pressure.
	usage := storage.EstimateUsage(s.kv)
	if float64(usage) > s.opts.Threshold*float64(s.opts.QuotaBytes) {
		records = EvictOldest(records, s.opts.PressureItems)
		outcome = WroteCapped
		s.log.Warn(ctx, "storage pressure, capping history",
			observe.Field{Key: "usage_bytes", Value: usage},
			observe.Field{Key: "cap", Value: s.opts.PressureItems})
	}

	if data, err := json.Marshal(records); err == nil {
		if s.put(s.opts.Key, string(data), s.opts.QuotaBytes) {
			return records, outcome
		}
	}

	// Emergency rung: most recent EmergencyItems by array position,
	// not re-sorted, written raw without the size pre-check.
	if len(records) > s.opts.EmergencyItems {
		records = records[:s.opts.EmergencyItems]
	}
	if data, err := json.Marshal(records); err == nil {
		if s.kv.Set(s.opts.Key, string(data)) == nil {
			s.log.Warn(ctx, "history write degraded to emergency retention",
				observe.Field{Key: "kept", Value: len(records)})
			return records, WroteEmergency
		}
	}

	// Terminal rung: clear the key and reset to empty.
	s.kv.Delete(s.opts.Key)
	s.log.Warn(ctx, "history cleared after repeated write failures")
	return nil, Cleared
}

// put writes value under key unless it exceeds maxSizeBytes. It never
// raises: failures are logged and reported as false, and the prior
// stored value is left untouched.
func (s *Store) put(key, value string, maxSizeBytes int) bool {
	if len(value) > maxSizeBytes {
		s.log.Warn(context.Background(), "value exceeds size budget",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "size_bytes", Value: len(value)},
			observe.Field{Key: "budget_bytes", Value: maxSizeBytes})
		return false
	}
	if err := s.kv.Set(key, value); err != nil {
		s.log.Warn(context.Background(), "storage write failed",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()})
		return false
	}
	return true
}

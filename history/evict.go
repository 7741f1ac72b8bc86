package history

import "sort"

// EvictOldest returns at most max records, newest first by CreatedAt.
// Pure: the input slice is not modified, and the result is a
// subsequence of the input ordering by timestamp. The caller decides
// whether to persist the result.
func EvictOldest(records []AnalysisRecord, max int) []AnalysisRecord {
	if max < 0 {
		max = 0
	}

	sorted := append([]AnalysisRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}

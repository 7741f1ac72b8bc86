package history

// Limits applied when compressing a record for storage.
const (
	// ExplanationLimit is the character budget kept from each of the
	// free-text explanation fields.
	ExplanationLimit = 500

	// MaxKeyFindings caps the persisted key findings list.
	MaxKeyFindings = 5
)

// Compress returns a storage-ready copy of rec: large visual fields
// are dropped, explanation texts are truncated to ExplanationLimit
// characters and key findings are capped at MaxKeyFindings entries.
//
// Pure and idempotent: the input is never mutated, and compressing an
// already-compressed record changes nothing beyond the copy.
func Compress(rec AnalysisRecord) AnalysisRecord {
	out := rec

	out.Heatmap = nil
	out.ImageData = ""
	out.RawPredictions = nil
	out.ProcessedImage = ""

	out.Explanation = truncate(rec.Explanation, ExplanationLimit)
	out.Description = truncate(rec.Description, ExplanationLimit)

	if len(rec.KeyFindings) > MaxKeyFindings {
		out.KeyFindings = append([]string(nil), rec.KeyFindings[:MaxKeyFindings]...)
	} else if rec.KeyFindings != nil {
		out.KeyFindings = append([]string(nil), rec.KeyFindings...)
	}

	if rec.Verification != nil {
		v := *rec.Verification
		out.Verification = &v
	}

	return out
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// Package history persists the bounded, most-recent-first list of
// completed analyses, degrading gracefully as storage space shrinks.
//
// Records are compressed before persisting: image payloads, heatmaps
// and raw prediction vectors never reach storage, explanation text is
// truncated and key findings are capped. Writes run a degradation
// ladder - full list, capped list under quota pressure, a five-item
// emergency list on write failure, then a full clear - and never
// surface storage errors to the caller.
package history

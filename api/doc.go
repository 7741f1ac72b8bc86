// Package api is the typed client for the analysis backend.
//
// Core flows (predict, verify, treatment suggestion) propagate every
// failure to the caller so the user is told the operation failed.
// Informational panels (retraining status and metrics, model
// performance, community insights, preventive care, the dermatologist
// directory) instead fall back to deterministic demo fixtures, flagged
// with DemoMode, so a view always has something to render.
//
// Successful reads are written through to a namespace-partitioned TTL
// cache; successful predictions and verifications are written through
// to the persistent history store.
package api

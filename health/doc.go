// Package health aggregates client-side health checks: backend
// reachability and local storage pressure. The UI uses the overall
// status to decide between live mode, degraded banners and demo mode.
package health

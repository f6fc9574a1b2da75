// Package instrumentation provides optional OpenTelemetry metrics for
// Graph API operations.
//
// Metrics are disabled by default; a CLI run is short-lived, so when
// enabled they are exported to stdout on shutdown rather than scraped.
// A disabled provider hands out a no-op Metrics recorder, so callers
// record unconditionally.
package instrumentation

// Package generate is the client for the WordWeave generation backend. It
// turns a word triple into a poem and a poem into a visual-theme analysis.
// Retry and backoff live behind the backend's API contract, not here; the
// client only rate-limits itself and bounds each request with a timeout.
package generate

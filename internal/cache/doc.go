// Package cache provides the durable artifact cache that sits between the
// CLI and the WordWeave generation backend. Artifacts are grouped into
// independent categories, each bounded by an entry count and a TTL, and the
// whole store is persisted as a single compressed blob so cached poems and
// theme analyses survive restarts.
package cache

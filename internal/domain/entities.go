package domain

// ProjectRecord is one row of raw source data. PID is an opaque key and is
// never parsed; several rows (e.g. from different time snapshots) may share
// one PID. Description is nil when the source cell was absent, which is
// distinct from a present-but-empty string.
type ProjectRecord struct {
	PID         string
	Description *string
}

// EmbeddingRecord pairs a project identifier with its embedding vector.
// Created once per unique PID, written once, immutable afterwards.
type EmbeddingRecord struct {
	PID    string
	Vector []float32
}

// Neighbor is one similarity hit against a reference project.
type Neighbor struct {
	PID   string
	Score float64
}

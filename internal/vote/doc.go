// Package vote implements rating aggregation: the one-vote-per-user
// toggle state machine and the engine that applies it to targets,
// author statistics, and the per-user vote record.
package vote

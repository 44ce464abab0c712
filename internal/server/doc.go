// Package server implements the HTTP API using the Echo framework.
//
// Routes: accounts/sessions, board content (posts, comments,
// identification candidates), vote toggles (rate limited), moderation
// (pin/unpin/review status), health and metrics.
// Handlers split by concern: handlers_auth.go, handlers_content.go,
// handlers_votes.go, handlers_moderation.go, handlers_health.go.
package server

// Package metrics defines the Prometheus collectors shared across the
// application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Vote metrics
var (
	// VotesApplied counts successfully applied toggles by target kind
	// and operation (liked/disliked - the operation, not the outcome).
	VotesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_applied_total",
			Help: "Successfully applied vote toggles by target kind and operation",
		},
		[]string{"kind", "op"},
	)

	// VoteToggleFailures counts toggles that failed at the store.
	VoteToggleFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vote_toggle_failures_total",
			Help: "Vote toggles that failed at the document store, by target kind",
		},
		[]string{"kind"},
	)

	// AuthorStatSkips counts toggles whose author statistic increment
	// was skipped because the author's account no longer exists.
	AuthorStatSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "author_stat_skips_total",
			Help: "Author statistic increments skipped due to unresolved author accounts",
		},
	)
)

// Consensus metrics
var (
	// ConsensusResolutions counts resolution runs by outcome
	// (promoted/reverted/frozen).
	ConsensusResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consensus_resolutions_total",
			Help: "Consensus resolution runs by outcome",
		},
		[]string{"outcome"},
	)
)

package domain

import "context"

// PromotionThreshold is the minimum candidate rating required before
// consensus resolution promotes its species onto the post.
const PromotionThreshold = 3

// ConsensusMetadata tracks per-post species-consensus state.
// ModeratorChosen freezes automatic resolution; OriginalSpecies is the
// species the post was created with and is the fallback whenever no
// candidate meets the threshold.
type ConsensusMetadata struct {
	Status          bool
	ModeratorChosen bool
	PinnedCandidate string
	OriginalSpecies string
}

// ConsensusStore abstracts per-post consensus metadata persistence.
type ConsensusStore interface {
	Init(ctx context.Context, postID, originalSpecies string) error
	Get(ctx context.Context, postID string) (*ConsensusMetadata, error)

	// SetPinnedCandidate records the automatic promotion target without
	// touching the moderator flag; empty candidateID clears it.
	SetPinnedCandidate(ctx context.Context, postID, candidateID string) error

	// Pin and Unpin drive the moderator override.
	Pin(ctx context.Context, postID, candidateID string) error
	Unpin(ctx context.Context, postID string) error

	SetStatus(ctx context.Context, postID string, status bool) error
}

// ConsensusResolver recomputes a post's displayed species from current
// candidate ratings. Implementations must be idempotent and safe to run
// concurrently for the same post.
type ConsensusResolver interface {
	Resolve(ctx context.Context, postID string) error
}

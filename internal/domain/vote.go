package domain

import (
	"context"

	"github.com/google/uuid"
)

// Direction is a user's recorded vote on a target. The zero value means
// no vote is recorded ("absent"), which is distinct from a retracted
// vote only in history, never in state.
type Direction int8

const (
	DirectionAbsent   Direction = 0
	DirectionLiked    Direction = 1
	DirectionDisliked Direction = -1
)

// Weight is the rating contribution of a direction.
func (d Direction) Weight() int64 { return int64(d) }

func (d Direction) String() string {
	switch d {
	case DirectionLiked:
		return "liked"
	case DirectionDisliked:
		return "disliked"
	default:
		return "absent"
	}
}

// ToggleResult reports what one toggle did to the store.
type ToggleResult struct {
	Previous  Direction
	Current   Direction
	Delta     int64
	NewRating int64
}

// VoteStore is the per-user vote record plus the atomic toggle primitive.
//
// ApplyToggle performs the whole toggle as one atomic unit: it reads the
// user's current direction on the target, transitions it per the toggle
// state machine (same direction retracts, opposite direction flips),
// writes or deletes the vote record field, increments the target's
// rating by the resulting delta, and, when applyStats is true,
// increments authorID's cumulative statistic for the target kind by the
// same delta. Fails with ErrVoteRecordNotFound when the user's record
// document does not exist.
type VoteStore interface {
	InitRecord(ctx context.Context, userID uuid.UUID) error
	GetDirection(ctx context.Context, userID uuid.UUID, target Target) (Direction, error)
	ApplyToggle(ctx context.Context, userID uuid.UUID, target Target, op Direction, authorID uuid.UUID, applyStats bool) (*ToggleResult, error)
}

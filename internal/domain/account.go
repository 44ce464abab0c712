package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account is a registered user in the account registry. Usernames are
// unique; content documents reference authors by username.
type Account struct {
	ID          uuid.UUID
	Username    string
	IsModerator bool
	CreatedAt   time.Time
}

// ProfileStatistics are the cumulative per-user counters mutated as a
// side effect of content creation and voting. The counters live in the
// document store; identity fields come from the account registry.
type ProfileStatistics struct {
	Username                 string
	IsModerator              bool
	TotalPosts               int64
	TotalComments            int64
	TotalIdentifications     int64
	TotalPostRating          int64
	TotalCommentRating       int64
	TotalIdentificationRating int64
	AccountCreatedAt         time.Time
}

// AccountRepository abstracts the account registry.
type AccountRepository interface {
	Create(ctx context.Context, username string) (*Account, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	SetModerator(ctx context.Context, userID uuid.UUID, isModerator bool) error
}

// StatsStore abstracts the profile-statistic counter documents.
type StatsStore interface {
	InitCounters(ctx context.Context, userID uuid.UUID) error
	IncrContentCount(ctx context.Context, userID uuid.UUID, kind TargetKind, delta int64) error
	GetCounters(ctx context.Context, userID uuid.UUID) (*ProfileStatistics, error)
}

package domain

import (
	"context"

	"github.com/google/uuid"
)

// BoardService is the application layer contract - handlers route all
// operations through here.
type BoardService interface {
	RegisterAccount(ctx context.Context, username string) (*Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	GetAccountByID(ctx context.Context, userID uuid.UUID) (*Account, error)

	CreatePost(ctx context.Context, userID uuid.UUID, title, description, species string, latitude, longitude float64) (*Post, error)
	GetPost(ctx context.Context, postID string) (*Post, error)
	ListTopPosts(ctx context.Context, limit int64) ([]Post, error)

	CreateComment(ctx context.Context, userID uuid.UUID, postID, body string) (*Comment, error)
	ListComments(ctx context.Context, postID string) ([]Comment, error)

	CreateIdentification(ctx context.Context, userID uuid.UUID, postID, body, species string) (*Identification, error)
	ListIdentifications(ctx context.Context, postID string) ([]Identification, error)

	ToggleLike(ctx context.Context, userID uuid.UUID, target Target) (*ToggleResult, error)
	ToggleDislike(ctx context.Context, userID uuid.UUID, target Target) (*ToggleResult, error)
	GetVoteDirection(ctx context.Context, userID uuid.UUID, target Target) (Direction, error)

	IsModerator(ctx context.Context, userID uuid.UUID) (bool, error)
	PinCandidate(ctx context.Context, postID, candidateID string) error
	UnpinCandidate(ctx context.Context, postID string) error
	SetReviewStatus(ctx context.Context, postID string, status bool) error
	GetConsensusMetadata(ctx context.Context, postID string) (*ConsensusMetadata, error)

	GetProfileStatistics(ctx context.Context, username string) (*ProfileStatistics, error)
}

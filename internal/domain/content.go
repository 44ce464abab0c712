package domain

import (
	"context"
	"time"
)

// TargetKind discriminates the three votable content kinds.
// Identifications are a tagged variant of comments, not a subtype:
// they share the comment fields plus a proposed species.
type TargetKind string

const (
	KindPost           TargetKind = "post"
	KindComment        TargetKind = "comment"
	KindIdentification TargetKind = "identification"
)

// Target addresses one votable document. For posts, ID equals PostID.
type Target struct {
	Kind   TargetKind
	PostID string
	ID     string
}

// Post is a sighting. Species is the displayed species, which consensus
// resolution or a moderator pin may overwrite; the as-posted value is
// preserved in the post's ConsensusMetadata.
type Post struct {
	ID          string
	Author      string
	Title       string
	Description string
	Species     string
	Latitude    float64
	Longitude   float64
	Rating      int64
	CreatedAt   time.Time
}

type Comment struct {
	ID        string
	PostID    string
	Author    string
	Body      string
	Rating    int64
	CreatedAt time.Time
}

// Identification is a species-identification candidate scoped to one post.
type Identification struct {
	ID        string
	PostID    string
	Author    string
	Body      string
	Species   string
	Rating    int64
	CreatedAt time.Time
}

// ContentStore abstracts votable content persistence in the document store.
type ContentStore interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, postID string) (*Post, error)
	SetPostSpecies(ctx context.Context, postID, species string) error
	ListTopPosts(ctx context.Context, limit int64) ([]Post, error)

	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*Comment, error)
	ListComments(ctx context.Context, postID string) ([]Comment, error)

	CreateIdentification(ctx context.Context, ident *Identification) error
	GetIdentification(ctx context.Context, postID, candidateID string) (*Identification, error)
	ListIdentifications(ctx context.Context, postID string) ([]Identification, error)

	// TopIdentification returns the highest-rated candidate for a post.
	// Ties break to the lexicographically smallest candidate ID. ok is
	// false when the post has no candidates.
	TopIdentification(ctx context.Context, postID string) (candidateID string, rating int64, ok bool, err error)
}

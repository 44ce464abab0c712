package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ayang007/flora-fauna/internal/domain"
)

// Redis hash field names shared by content documents.
const (
	fieldAuthor      = "author"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldSpecies     = "species"
	fieldBody        = "body"
	fieldLatitude    = "latitude"
	fieldLongitude   = "longitude"
	fieldRating      = "rating"
	fieldCreatedAt   = "created_at"
)

// ContentStore implements domain.ContentStore on Redis hashes plus
// rating-ordered sorted-set indexes.
type ContentStore struct {
	rdb *goredis.Client
}

func NewContentStore(rdb *goredis.Client) *ContentStore {
	return &ContentStore{rdb: rdb}
}

// --- Posts ---

func (s *ContentStore) CreatePost(ctx context.Context, post *domain.Post) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, postKey(post.ID), map[string]any{
		fieldAuthor:      post.Author,
		fieldTitle:       post.Title,
		fieldDescription: post.Description,
		fieldSpecies:     post.Species,
		fieldLatitude:    strconv.FormatFloat(post.Latitude, 'f', -1, 64),
		fieldLongitude:   strconv.FormatFloat(post.Longitude, 'f', -1, 64),
		fieldRating:      strconv.FormatInt(post.Rating, 10),
		fieldCreatedAt:   strconv.FormatInt(post.CreatedAt.UnixMilli(), 10),
	})
	pipe.ZAdd(ctx, postsIndexKey, goredis.Z{Score: float64(post.Rating), Member: post.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (s *ContentStore) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	data, err := s.rdb.HGetAll(ctx, postKey(postID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return parsePost(postID, data), nil
}

func (s *ContentStore) SetPostSpecies(ctx context.Context, postID, species string) error {
	exists, err := s.rdb.Exists(ctx, postKey(postID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if exists == 0 {
		return domain.ErrPostNotFound
	}
	if err := s.rdb.HSet(ctx, postKey(postID), fieldSpecies, species).Err(); err != nil {
		return fmt.Errorf("failed to set post species: %w", err)
	}
	return nil
}

func (s *ContentStore) ListTopPosts(ctx context.Context, limit int64) ([]domain.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	ids, err := s.rdb.ZRevRange(ctx, postsIndexKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.GetPost(ctx, id)
		if err == domain.ErrPostNotFound {
			continue // index entry outlived the document
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

// --- Comments ---

func (s *ContentStore) CreateComment(ctx context.Context, comment *domain.Comment) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, commentKey(comment.PostID, comment.ID), map[string]any{
		fieldAuthor:    comment.Author,
		fieldBody:      comment.Body,
		fieldRating:    strconv.FormatInt(comment.Rating, 10),
		fieldCreatedAt: strconv.FormatInt(comment.CreatedAt.UnixMilli(), 10),
	})
	pipe.ZAdd(ctx, commentsIndexKey(comment.PostID), goredis.Z{Score: float64(comment.Rating), Member: comment.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (s *ContentStore) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	data, err := s.rdb.HGetAll(ctx, commentKey(postID, commentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrCommentNotFound
	}
	return &domain.Comment{
		ID:        commentID,
		PostID:    postID,
		Author:    data[fieldAuthor],
		Body:      data[fieldBody],
		Rating:    parseInt(data[fieldRating]),
		CreatedAt: parseTime(data[fieldCreatedAt]),
	}, nil
}

func (s *ContentStore) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	ids, err := s.rdb.ZRevRange(ctx, commentsIndexKey(postID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		comment, err := s.GetComment(ctx, postID, id)
		if err == domain.ErrCommentNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, nil
}

// --- Identification candidates ---

func (s *ContentStore) CreateIdentification(ctx context.Context, ident *domain.Identification) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, identKey(ident.PostID, ident.ID), map[string]any{
		fieldAuthor:    ident.Author,
		fieldBody:      ident.Body,
		fieldSpecies:   ident.Species,
		fieldRating:    strconv.FormatInt(ident.Rating, 10),
		fieldCreatedAt: strconv.FormatInt(ident.CreatedAt.UnixMilli(), 10),
	})
	pipe.ZAdd(ctx, identsIndexKey(ident.PostID), goredis.Z{Score: float64(ident.Rating), Member: ident.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create identification: %w", err)
	}
	return nil
}

func (s *ContentStore) GetIdentification(ctx context.Context, postID, candidateID string) (*domain.Identification, error) {
	data, err := s.rdb.HGetAll(ctx, identKey(postID, candidateID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get identification: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrIdentificationNotFound
	}
	return &domain.Identification{
		ID:        candidateID,
		PostID:    postID,
		Author:    data[fieldAuthor],
		Body:      data[fieldBody],
		Species:   data[fieldSpecies],
		Rating:    parseInt(data[fieldRating]),
		CreatedAt: parseTime(data[fieldCreatedAt]),
	}, nil
}

func (s *ContentStore) ListIdentifications(ctx context.Context, postID string) ([]domain.Identification, error) {
	ids, err := s.rdb.ZRevRange(ctx, identsIndexKey(postID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list identifications: %w", err)
	}

	idents := make([]domain.Identification, 0, len(ids))
	for _, id := range ids {
		ident, err := s.GetIdentification(ctx, postID, id)
		if err == domain.ErrIdentificationNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		idents = append(idents, *ident)
	}
	return idents, nil
}

// TopIdentification returns the highest-rated candidate. Equal top
// ratings break to the lexicographically smallest candidate ID, which
// keeps resolution deterministic under ties.
func (s *ContentStore) TopIdentification(ctx context.Context, postID string) (string, int64, bool, error) {
	key := identsIndexKey(postID)
	top, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, 0).Result()
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to read top identification: %w", err)
	}
	if len(top) == 0 {
		return "", 0, false, nil
	}

	score := top[0].Score
	scoreArg := strconv.FormatFloat(score, 'f', -1, 64)

	// ZRANGEBYSCORE orders equal scores lexicographically ascending, so
	// the first member is the tie-break winner.
	tied, err := s.rdb.ZRangeByScore(ctx, key, &goredis.ZRangeBy{
		Min: scoreArg, Max: scoreArg, Offset: 0, Count: 1,
	}).Result()
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to tie-break top identification: %w", err)
	}
	if len(tied) == 0 {
		// Score moved between the two reads; caller re-resolves on the
		// next rating change.
		return top[0].Member.(string), int64(score), true, nil
	}
	return tied[0], int64(score), true, nil
}

// --- Parsing helpers ---

func parsePost(postID string, data map[string]string) *domain.Post {
	return &domain.Post{
		ID:          postID,
		Author:      data[fieldAuthor],
		Title:       data[fieldTitle],
		Description: data[fieldDescription],
		Species:     data[fieldSpecies],
		Latitude:    parseFloat(data[fieldLatitude]),
		Longitude:   parseFloat(data[fieldLongitude]),
		Rating:      parseInt(data[fieldRating]),
		CreatedAt:   parseTime(data[fieldCreatedAt]),
	}
}

func parseInt(raw string) int64 {
	n, _ := strconv.ParseInt(raw, 10, 64)
	return n
}

func parseFloat(raw string) float64 {
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func parseTime(raw string) time.Time {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

var _ domain.ContentStore = (*ContentStore)(nil)

package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ayang007/flora-fauna/internal/domain"
)

const (
	fieldTotalPosts  = "total_posts"
	fieldTotalComms  = "total_comments"
	fieldTotalIdents = "total_identifications"
)

// StatsStore keeps cumulative per-user counters in a Redis hash. Rating
// totals on the same hash are incremented directly by the vote toggle
// script; this store only touches the content counters.
type StatsStore struct {
	rdb *goredis.Client
}

func NewStatsStore(rdb *goredis.Client) *StatsStore {
	return &StatsStore{rdb: rdb}
}

func (s *StatsStore) InitCounters(ctx context.Context, userID uuid.UUID) error {
	err := s.rdb.HSet(ctx, statsKey(userID), map[string]any{
		fieldTotalPosts:         "0",
		fieldTotalComms:         "0",
		fieldTotalIdents:        "0",
		"total_post_rating":     "0",
		"total_comment_rating":  "0",
		"total_ident_rating":    "0",
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to init counters: %w", err)
	}
	return nil
}

func (s *StatsStore) IncrContentCount(ctx context.Context, userID uuid.UUID, kind domain.TargetKind, delta int64) error {
	var field string
	switch kind {
	case domain.KindPost:
		field = fieldTotalPosts
	case domain.KindComment:
		field = fieldTotalComms
	case domain.KindIdentification:
		field = fieldTotalIdents
	default:
		return fmt.Errorf("unknown target kind %q", kind)
	}
	if err := s.rdb.HIncrBy(ctx, statsKey(userID), field, delta).Err(); err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}
	return nil
}

func (s *StatsStore) GetCounters(ctx context.Context, userID uuid.UUID) (*domain.ProfileStatistics, error) {
	data, err := s.rdb.HGetAll(ctx, statsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get counters: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return &domain.ProfileStatistics{
		TotalPosts:                parseInt(data[fieldTotalPosts]),
		TotalComments:             parseInt(data[fieldTotalComms]),
		TotalIdentifications:      parseInt(data[fieldTotalIdents]),
		TotalPostRating:           parseInt(data["total_post_rating"]),
		TotalCommentRating:        parseInt(data["total_comment_rating"]),
		TotalIdentificationRating: parseInt(data["total_ident_rating"]),
	}, nil
}

var _ domain.StatsStore = (*StatsStore)(nil)

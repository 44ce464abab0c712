package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ayang007/flora-fauna/internal/domain"
)

const (
	fieldStatus          = "status"
	fieldModeratorChosen = "moderator_chosen"
	fieldPinnedCandidate = "pinned_candidate"
	fieldOriginalSpecies = "original_species"
)

// ConsensusStore keeps per-post consensus metadata in a Redis hash.
type ConsensusStore struct {
	rdb *goredis.Client
}

func NewConsensusStore(rdb *goredis.Client) *ConsensusStore {
	return &ConsensusStore{rdb: rdb}
}

func (s *ConsensusStore) Init(ctx context.Context, postID, originalSpecies string) error {
	err := s.rdb.HSet(ctx, consensusKey(postID), map[string]any{
		fieldStatus:          "0",
		fieldModeratorChosen: "0",
		fieldPinnedCandidate: "",
		fieldOriginalSpecies: originalSpecies,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to init consensus metadata: %w", err)
	}
	return nil
}

func (s *ConsensusStore) Get(ctx context.Context, postID string) (*domain.ConsensusMetadata, error) {
	data, err := s.rdb.HGetAll(ctx, consensusKey(postID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get consensus metadata: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.ErrConsensusNotFound
	}
	return &domain.ConsensusMetadata{
		Status:          data[fieldStatus] == "1",
		ModeratorChosen: data[fieldModeratorChosen] == "1",
		PinnedCandidate: data[fieldPinnedCandidate],
		OriginalSpecies: data[fieldOriginalSpecies],
	}, nil
}

func (s *ConsensusStore) SetPinnedCandidate(ctx context.Context, postID, candidateID string) error {
	if err := s.exists(ctx, postID); err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, consensusKey(postID), fieldPinnedCandidate, candidateID).Err(); err != nil {
		return fmt.Errorf("failed to set pinned candidate: %w", err)
	}
	return nil
}

func (s *ConsensusStore) Pin(ctx context.Context, postID, candidateID string) error {
	if err := s.exists(ctx, postID); err != nil {
		return err
	}
	err := s.rdb.HSet(ctx, consensusKey(postID),
		fieldModeratorChosen, "1",
		fieldPinnedCandidate, candidateID,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to pin candidate: %w", err)
	}
	return nil
}

func (s *ConsensusStore) Unpin(ctx context.Context, postID string) error {
	if err := s.exists(ctx, postID); err != nil {
		return err
	}
	err := s.rdb.HSet(ctx, consensusKey(postID),
		fieldModeratorChosen, "0",
		fieldPinnedCandidate, "",
	).Err()
	if err != nil {
		return fmt.Errorf("failed to unpin candidate: %w", err)
	}
	return nil
}

func (s *ConsensusStore) SetStatus(ctx context.Context, postID string, status bool) error {
	if err := s.exists(ctx, postID); err != nil {
		return err
	}
	raw := "0"
	if status {
		raw = "1"
	}
	if err := s.rdb.HSet(ctx, consensusKey(postID), fieldStatus, raw).Err(); err != nil {
		return fmt.Errorf("failed to set review status: %w", err)
	}
	return nil
}

func (s *ConsensusStore) exists(ctx context.Context, postID string) error {
	n, err := s.rdb.Exists(ctx, consensusKey(postID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check consensus metadata: %w", err)
	}
	if n == 0 {
		return domain.ErrConsensusNotFound
	}
	return nil
}

var _ domain.ConsensusStore = (*ConsensusStore)(nil)

package consensus

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ayang007/flora-fauna/internal/domain"
	"github.com/ayang007/flora-fauna/internal/metrics"
)

// Resolver implements domain.ConsensusResolver. Resolution always
// recomputes from the current candidate ratings, never from prior
// resolution state, so it is idempotent and reversible: a candidate
// falling back below the threshold reverts the post to its original
// species on the next run.
type Resolver struct {
	content domain.ContentStore
	meta    domain.ConsensusStore
	group   singleflight.Group
}

func NewResolver(content domain.ContentStore, meta domain.ConsensusStore) *Resolver {
	return &Resolver{content: content, meta: meta}
}

// Resolve recomputes the post's displayed species. Concurrent calls for
// the same post collapse into one run; rating changes that land mid-run
// are picked up by the resolution that follows their own toggle.
func (r *Resolver) Resolve(ctx context.Context, postID string) error {
	_, err, _ := r.group.Do(postID, func() (any, error) {
		return nil, r.resolve(ctx, postID)
	})
	return err
}

func (r *Resolver) resolve(ctx context.Context, postID string) error {
	meta, err := r.meta.Get(ctx, postID)
	if err != nil {
		return err
	}

	// A moderator pin freezes automatic resolution entirely.
	if meta.ModeratorChosen {
		metrics.ConsensusResolutions.WithLabelValues("frozen").Inc()
		return nil
	}

	candidateID, rating, ok, err := r.content.TopIdentification(ctx, postID)
	if err != nil {
		return err
	}

	if ok && rating >= domain.PromotionThreshold {
		ident, err := r.content.GetIdentification(ctx, postID, candidateID)
		if err != nil {
			return err
		}
		if err := r.content.SetPostSpecies(ctx, postID, ident.Species); err != nil {
			return fmt.Errorf("failed to promote species: %w", err)
		}
		if err := r.meta.SetPinnedCandidate(ctx, postID, candidateID); err != nil {
			return fmt.Errorf("failed to record promoted candidate: %w", err)
		}
		metrics.ConsensusResolutions.WithLabelValues("promoted").Inc()
		return nil
	}

	// No candidate meets the threshold - fall back to the species the
	// post was created with.
	if err := r.content.SetPostSpecies(ctx, postID, meta.OriginalSpecies); err != nil {
		return fmt.Errorf("failed to revert species: %w", err)
	}
	if err := r.meta.SetPinnedCandidate(ctx, postID, ""); err != nil {
		return fmt.Errorf("failed to clear promoted candidate: %w", err)
	}
	metrics.ConsensusResolutions.WithLabelValues("reverted").Inc()
	return nil
}

var _ domain.ConsensusResolver = (*Resolver)(nil)

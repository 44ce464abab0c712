package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/ayang007/flora-fauna/internal/domain"
)

const roleCacheTTL = 30 * time.Second

// Overlay implements the moderator operations on post consensus state.
// A post is either Automatic (species driven by consensus resolution) or
// Pinned (species fixed by a moderator); PinCandidate moves it to Pinned,
// UnpinCandidate moves it back and immediately recomputes the automatic
// state so no stale pin survives the transition.
//
// Role enforcement is the caller's job: the overlay exposes IsModerator
// as an advisory check and assumes the caller rejected non-moderators.
type Overlay struct {
	accounts domain.AccountRepository
	content  domain.ContentStore
	meta     domain.ConsensusStore
	resolver domain.ConsensusResolver
	roles    *roleCache
}

func NewOverlay(accounts domain.AccountRepository, content domain.ContentStore, meta domain.ConsensusStore, resolver domain.ConsensusResolver, clock clockwork.Clock) *Overlay {
	return &Overlay{
		accounts: accounts,
		content:  content,
		meta:     meta,
		resolver: resolver,
		roles:    newRoleCache(roleCacheTTL, clock),
	}
}

// IsModerator reports whether the user carries the moderator flag.
func (o *Overlay) IsModerator(ctx context.Context, userID uuid.UUID) (bool, error) {
	if isMod, ok := o.roles.get(userID); ok {
		return isMod, nil
	}

	account, err := o.accounts.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	o.roles.set(userID, account.IsModerator)
	return account.IsModerator, nil
}

// PinCandidate fixes the post's displayed species to the candidate's
// proposal, bypassing the promotion threshold, and freezes automatic
// resolution until UnpinCandidate.
func (o *Overlay) PinCandidate(ctx context.Context, postID, candidateID string) error {
	ident, err := o.content.GetIdentification(ctx, postID, candidateID)
	if err != nil {
		return err
	}

	if err := o.meta.Pin(ctx, postID, candidateID); err != nil {
		return fmt.Errorf("failed to pin candidate: %w", err)
	}
	if err := o.content.SetPostSpecies(ctx, postID, ident.Species); err != nil {
		return fmt.Errorf("failed to set pinned species: %w", err)
	}
	return nil
}

// UnpinCandidate releases the moderator pin and immediately recomputes
// the automatic consensus state.
func (o *Overlay) UnpinCandidate(ctx context.Context, postID string) error {
	if err := o.meta.Unpin(ctx, postID); err != nil {
		return fmt.Errorf("failed to unpin candidate: %w", err)
	}
	return o.resolver.Resolve(ctx, postID)
}

// SetReviewStatus sets the moderation triage flag. It has no effect on
// ratings or species resolution.
func (o *Overlay) SetReviewStatus(ctx context.Context, postID string, status bool) error {
	return o.meta.SetStatus(ctx, postID, status)
}

// GetMetadata returns the post's consensus metadata.
func (o *Overlay) GetMetadata(ctx context.Context, postID string) (*domain.ConsensusMetadata, error) {
	return o.meta.Get(ctx, postID)
}

// InvalidateRole drops the cached moderator flag for a user.
func (o *Overlay) InvalidateRole(userID uuid.UUID) {
	o.roles.invalidate(userID)
}

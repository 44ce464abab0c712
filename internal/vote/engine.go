package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ayang007/flora-fauna/internal/domain"
	"github.com/ayang007/flora-fauna/internal/metrics"
)

// Engine applies like/dislike toggles. One toggle adjusts the target's
// rating, the author's cumulative statistic, and the acting user's vote
// record as a single atomic store operation; identification toggles then
// trigger consensus resolution for the post.
//
// The acting user is an explicit argument on every call - the engine
// holds no per-user state.
type Engine struct {
	content  domain.ContentStore
	votes    domain.VoteStore
	accounts domain.AccountRepository
	resolver domain.ConsensusResolver
}

func NewEngine(content domain.ContentStore, votes domain.VoteStore, accounts domain.AccountRepository, resolver domain.ConsensusResolver) *Engine {
	return &Engine{content: content, votes: votes, accounts: accounts, resolver: resolver}
}

// ToggleLike toggles the user's like on the target.
func (e *Engine) ToggleLike(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
	return e.toggle(ctx, userID, target, domain.DirectionLiked)
}

// ToggleDislike toggles the user's dislike on the target.
func (e *Engine) ToggleDislike(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
	return e.toggle(ctx, userID, target, domain.DirectionDisliked)
}

// GetDirection reads the user's current vote on the target.
func (e *Engine) GetDirection(ctx context.Context, userID uuid.UUID, target domain.Target) (domain.Direction, error) {
	return e.votes.GetDirection(ctx, userID, target)
}

func (e *Engine) toggle(ctx context.Context, userID uuid.UUID, target domain.Target, op domain.Direction) (*domain.ToggleResult, error) {
	author, err := e.targetAuthor(ctx, target)
	if err != nil {
		return nil, err
	}

	// A vanished author account is a skipped statistic, not a failed
	// toggle: the target still exists and the vote still counts.
	applyStats := true
	var authorID uuid.UUID
	account, err := e.accounts.GetByUsername(ctx, author)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		applyStats = false
		metrics.AuthorStatSkips.Inc()
		slog.Warn("author account not found, skipping statistic",
			"author", author, "target_kind", string(target.Kind), "target_id", target.ID)
	case err != nil:
		return nil, fmt.Errorf("failed to resolve author %q: %w", author, err)
	default:
		authorID = account.ID
	}

	result, err := e.votes.ApplyToggle(ctx, userID, target, op, authorID, applyStats)
	if err != nil {
		metrics.VoteToggleFailures.WithLabelValues(string(target.Kind)).Inc()
		return nil, err
	}

	metrics.VotesApplied.WithLabelValues(string(target.Kind), op.String()).Inc()

	if target.Kind == domain.KindIdentification {
		if err := e.resolver.Resolve(ctx, target.PostID); err != nil {
			// The rating change is already durable; resolution reruns
			// from scratch on the next candidate rating change.
			slog.Error("consensus resolution failed after toggle",
				"post_id", target.PostID, "error", err)
		}
	}

	return result, nil
}

// targetAuthor verifies the target exists and returns its author username.
func (e *Engine) targetAuthor(ctx context.Context, target domain.Target) (string, error) {
	switch target.Kind {
	case domain.KindPost:
		post, err := e.content.GetPost(ctx, target.PostID)
		if err != nil {
			return "", err
		}
		return post.Author, nil
	case domain.KindComment:
		comment, err := e.content.GetComment(ctx, target.PostID, target.ID)
		if err != nil {
			return "", err
		}
		return comment.Author, nil
	case domain.KindIdentification:
		ident, err := e.content.GetIdentification(ctx, target.PostID, target.ID)
		if err != nil {
			return "", err
		}
		return ident.Author, nil
	default:
		return "", fmt.Errorf("unknown target kind %q", target.Kind)
	}
}

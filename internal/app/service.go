package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/ayang007/flora-fauna/internal/domain"
	"github.com/ayang007/flora-fauna/internal/moderation"
	"github.com/ayang007/flora-fauna/internal/vote"
)

// Service wires the vote engine, consensus resolver, and moderation
// overlay over the content, vote, and account stores.
type Service struct {
	accounts domain.AccountRepository
	content  domain.ContentStore
	votes    domain.VoteStore
	stats    domain.StatsStore
	meta     domain.ConsensusStore
	engine   *vote.Engine
	overlay  *moderation.Overlay
	clock    clockwork.Clock
}

func NewService(accounts domain.AccountRepository, content domain.ContentStore, votes domain.VoteStore, stats domain.StatsStore, meta domain.ConsensusStore, engine *vote.Engine, overlay *moderation.Overlay, clock clockwork.Clock) *Service {
	return &Service{
		accounts: accounts,
		content:  content,
		votes:    votes,
		stats:    stats,
		meta:     meta,
		engine:   engine,
		overlay:  overlay,
		clock:    clock,
	}
}

// --- Accounts ---

// RegisterAccount creates the account row and seeds the vote-record and
// statistic documents every later operation assumes exist.
func (s *Service) RegisterAccount(ctx context.Context, username string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}

	account, err := s.accounts.Create(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.votes.InitRecord(ctx, account.ID); err != nil {
		return nil, fmt.Errorf("failed to seed vote record: %w", err)
	}
	if err := s.stats.InitCounters(ctx, account.ID); err != nil {
		return nil, fmt.Errorf("failed to seed statistics: %w", err)
	}

	slog.Info("account registered", "user_id", account.ID.String(), "username", username)
	return account, nil
}

func (s *Service) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}

func (s *Service) GetAccountByID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, userID)
}

// --- Content ---

// CreatePost writes the post and its consensus metadata. The metadata
// keeps the as-posted species so resolution can fall back to it.
func (s *Service) CreatePost(ctx context.Context, userID uuid.UUID, title, description, species string, latitude, longitude float64) (*domain.Post, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		ID:          uuid.NewString(),
		Author:      account.Username,
		Title:       title,
		Description: description,
		Species:     species,
		Latitude:    latitude,
		Longitude:   longitude,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.content.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	if err := s.meta.Init(ctx, post.ID, species); err != nil {
		return nil, fmt.Errorf("failed to init consensus metadata: %w", err)
	}
	if err := s.stats.IncrContentCount(ctx, userID, domain.KindPost, 1); err != nil {
		slog.Error("failed to bump post count", "user_id", userID.String(), "error", err)
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return s.content.GetPost(ctx, postID)
}

func (s *Service) ListTopPosts(ctx context.Context, limit int64) ([]domain.Post, error) {
	return s.content.ListTopPosts(ctx, limit)
}

func (s *Service) CreateComment(ctx context.Context, userID uuid.UUID, postID, body string) (*domain.Comment, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.content.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Author:    account.Username,
		Body:      body,
		CreatedAt: s.clock.Now(),
	}
	if err := s.content.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.stats.IncrContentCount(ctx, userID, domain.KindComment, 1); err != nil {
		slog.Error("failed to bump comment count", "user_id", userID.String(), "error", err)
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	return s.content.ListComments(ctx, postID)
}

func (s *Service) CreateIdentification(ctx context.Context, userID uuid.UUID, postID, body, species string) (*domain.Identification, error) {
	if strings.TrimSpace(species) == "" {
		return nil, fmt.Errorf("species must not be empty")
	}
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.content.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	ident := &domain.Identification{
		ID:        uuid.NewString(),
		PostID:    postID,
		Author:    account.Username,
		Body:      body,
		Species:   species,
		CreatedAt: s.clock.Now(),
	}
	if err := s.content.CreateIdentification(ctx, ident); err != nil {
		return nil, err
	}
	if err := s.stats.IncrContentCount(ctx, userID, domain.KindIdentification, 1); err != nil {
		slog.Error("failed to bump identification count", "user_id", userID.String(), "error", err)
	}
	return ident, nil
}

func (s *Service) ListIdentifications(ctx context.Context, postID string) ([]domain.Identification, error) {
	return s.content.ListIdentifications(ctx, postID)
}

// --- Voting ---

func (s *Service) ToggleLike(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
	return s.engine.ToggleLike(ctx, userID, target)
}

func (s *Service) ToggleDislike(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
	return s.engine.ToggleDislike(ctx, userID, target)
}

func (s *Service) GetVoteDirection(ctx context.Context, userID uuid.UUID, target domain.Target) (domain.Direction, error) {
	return s.engine.GetDirection(ctx, userID, target)
}

// --- Moderation ---

func (s *Service) IsModerator(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.overlay.IsModerator(ctx, userID)
}

func (s *Service) PinCandidate(ctx context.Context, postID, candidateID string) error {
	return s.overlay.PinCandidate(ctx, postID, candidateID)
}

func (s *Service) UnpinCandidate(ctx context.Context, postID string) error {
	return s.overlay.UnpinCandidate(ctx, postID)
}

func (s *Service) SetReviewStatus(ctx context.Context, postID string, status bool) error {
	return s.overlay.SetReviewStatus(ctx, postID, status)
}

func (s *Service) GetConsensusMetadata(ctx context.Context, postID string) (*domain.ConsensusMetadata, error) {
	return s.overlay.GetMetadata(ctx, postID)
}

// --- Profiles ---

// GetProfileStatistics merges the registry identity with the counter
// document mutated by voting and content creation.
func (s *Service) GetProfileStatistics(ctx context.Context, username string) (*domain.ProfileStatistics, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.GetCounters(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	stats.Username = account.Username
	stats.IsModerator = account.IsModerator
	stats.AccountCreatedAt = account.CreatedAt
	return stats, nil
}

var _ domain.BoardService = (*Service)(nil)

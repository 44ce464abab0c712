package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/ayang007/flora-fauna/internal/domain"
	apperrors "github.com/ayang007/flora-fauna/internal/errors"
	"github.com/ayang007/flora-fauna/internal/platform/config"
)

// --- Mock board service ---

type mockBoardService struct {
	registerAccountFn      func(ctx context.Context, username string) (*domain.Account, error)
	getAccountByUsernameFn func(ctx context.Context, username string) (*domain.Account, error)
	getAccountByIDFn       func(ctx context.Context, userID uuid.UUID) (*domain.Account, error)

	createPostFn   func(ctx context.Context, userID uuid.UUID, title, description, species string, latitude, longitude float64) (*domain.Post, error)
	getPostFn      func(ctx context.Context, postID string) (*domain.Post, error)
	listTopPostsFn func(ctx context.Context, limit int64) ([]domain.Post, error)

	createCommentFn func(ctx context.Context, userID uuid.UUID, postID, body string) (*domain.Comment, error)
	listCommentsFn  func(ctx context.Context, postID string) ([]domain.Comment, error)

	createIdentificationFn func(ctx context.Context, userID uuid.UUID, postID, body, species string) (*domain.Identification, error)
	listIdentificationsFn  func(ctx context.Context, postID string) ([]domain.Identification, error)

	toggleLikeFn       func(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error)
	toggleDislikeFn    func(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error)
	getVoteDirectionFn func(ctx context.Context, userID uuid.UUID, target domain.Target) (domain.Direction, error)

	isModeratorFn          func(ctx context.Context, userID uuid.UUID) (bool, error)
	pinCandidateFn         func(ctx context.Context, postID, candidateID string) error
	unpinCandidateFn       func(ctx context.Context, postID string) error
	setReviewStatusFn      func(ctx context.Context, postID string, status bool) error
	getConsensusMetadataFn func(ctx context.Context, postID string) (*domain.ConsensusMetadata, error)

	getProfileStatisticsFn func(ctx context.Context, username string) (*domain.ProfileStatistics, error)
}

func (m *mockBoardService) RegisterAccount(ctx context.Context, username string) (*domain.Account, error) {
	if m.registerAccountFn != nil {
		return m.registerAccountFn(ctx, username)
	}
	return &domain.Account{ID: uuid.New(), Username: username, CreatedAt: time.Now()}, nil
}

func (m *mockBoardService) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.getAccountByUsernameFn != nil {
		return m.getAccountByUsernameFn(ctx, username)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *mockBoardService) GetAccountByID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(ctx, userID)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *mockBoardService) CreatePost(ctx context.Context, userID uuid.UUID, title, description, species string, latitude, longitude float64) (*domain.Post, error) {
	if m.createPostFn != nil {
		return m.createPostFn(ctx, userID, title, description, species, latitude, longitude)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBoardService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	if m.getPostFn != nil {
		return m.getPostFn(ctx, postID)
	}
	return nil, domain.ErrPostNotFound
}

func (m *mockBoardService) ListTopPosts(ctx context.Context, limit int64) ([]domain.Post, error) {
	if m.listTopPostsFn != nil {
		return m.listTopPostsFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockBoardService) CreateComment(ctx context.Context, userID uuid.UUID, postID, body string) (*domain.Comment, error) {
	if m.createCommentFn != nil {
		return m.createCommentFn(ctx, userID, postID, body)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBoardService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if m.listCommentsFn != nil {
		return m.listCommentsFn(ctx, postID)
	}
	return nil, nil
}

func (m *mockBoardService) CreateIdentification(ctx context.Context, userID uuid.UUID, postID, body, species string) (*domain.Identification, error) {
	if m.createIdentificationFn != nil {
		return m.createIdentificationFn(ctx, userID, postID, body, species)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBoardService) ListIdentifications(ctx context.Context, postID string) ([]domain.Identification, error) {
	if m.listIdentificationsFn != nil {
		return m.listIdentificationsFn(ctx, postID)
	}
	return nil, nil
}

func (m *mockBoardService) ToggleLike(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
	if m.toggleLikeFn != nil {
		return m.toggleLikeFn(ctx, userID, target)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBoardService) ToggleDislike(ctx context.Context, userID uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
	if m.toggleDislikeFn != nil {
		return m.toggleDislikeFn(ctx, userID, target)
	}
	return nil, errors.New("not implemented")
}

func (m *mockBoardService) GetVoteDirection(ctx context.Context, userID uuid.UUID, target domain.Target) (domain.Direction, error) {
	if m.getVoteDirectionFn != nil {
		return m.getVoteDirectionFn(ctx, userID, target)
	}
	return domain.DirectionAbsent, nil
}

func (m *mockBoardService) IsModerator(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.isModeratorFn != nil {
		return m.isModeratorFn(ctx, userID)
	}
	return false, nil
}

func (m *mockBoardService) PinCandidate(ctx context.Context, postID, candidateID string) error {
	if m.pinCandidateFn != nil {
		return m.pinCandidateFn(ctx, postID, candidateID)
	}
	return nil
}

func (m *mockBoardService) UnpinCandidate(ctx context.Context, postID string) error {
	if m.unpinCandidateFn != nil {
		return m.unpinCandidateFn(ctx, postID)
	}
	return nil
}

func (m *mockBoardService) SetReviewStatus(ctx context.Context, postID string, status bool) error {
	if m.setReviewStatusFn != nil {
		return m.setReviewStatusFn(ctx, postID, status)
	}
	return nil
}

func (m *mockBoardService) GetConsensusMetadata(ctx context.Context, postID string) (*domain.ConsensusMetadata, error) {
	if m.getConsensusMetadataFn != nil {
		return m.getConsensusMetadataFn(ctx, postID)
	}
	return nil, domain.ErrConsensusNotFound
}

func (m *mockBoardService) GetProfileStatistics(ctx context.Context, username string) (*domain.ProfileStatistics, error) {
	if m.getProfileStatisticsFn != nil {
		return m.getProfileStatisticsFn(ctx, username)
	}
	return nil, domain.ErrAccountNotFound
}

// --- Test helpers ---

func newTestServer(t *testing.T, app domain.BoardService) *Server {
	t.Helper()

	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Port:          "8080",
			TopPostsLimit: 5,
			VoteRateLimit: 100,
			VoteRateBurst: 100,
		},
		app:          app,
		sessionStore: store,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayang007/flora-fauna/internal/domain"
)

func TestHandleVotePost_Like(t *testing.T) {
	userID := uuid.New()
	app := &mockBoardService{
		toggleLikeFn: func(_ context.Context, gotUser uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, domain.KindPost, target.Kind)
			assert.Equal(t, "p1", target.PostID)
			assert.Equal(t, "p1", target.ID)
			return &domain.ToggleResult{
				Previous:  domain.DirectionAbsent,
				Current:   domain.DirectionLiked,
				Delta:     1,
				NewRating: 3,
			}, nil
		},
	}

	srv := newTestServer(t, app)
	c, rec := newJSONContext(srv, http.MethodPost, "/api/posts/p1/like", "")
	c.SetParamNames("postID")
	c.SetParamValues("p1")
	c.Set("userID", userID)

	require.NoError(t, callHandler(srv.handleVotePost(true), c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp toggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "absent", resp.Previous)
	assert.Equal(t, "liked", resp.Current)
	assert.Equal(t, int64(1), resp.Delta)
	assert.Equal(t, int64(3), resp.NewRating)
}

func TestHandleVoteIdentification_Dislike(t *testing.T) {
	app := &mockBoardService{
		toggleDislikeFn: func(_ context.Context, _ uuid.UUID, target domain.Target) (*domain.ToggleResult, error) {
			assert.Equal(t, domain.KindIdentification, target.Kind)
			assert.Equal(t, "p1", target.PostID)
			assert.Equal(t, "i1", target.ID)
			return &domain.ToggleResult{
				Previous:  domain.DirectionLiked,
				Current:   domain.DirectionDisliked,
				Delta:     -2,
				NewRating: 1,
			}, nil
		},
	}

	srv := newTestServer(t, app)
	c, rec := newJSONContext(srv, http.MethodPost, "/api/posts/p1/identifications/i1/dislike", "")
	c.SetParamNames("postID", "id")
	c.SetParamValues("p1", "i1")
	c.Set("userID", uuid.New())

	require.NoError(t, callHandler(srv.handleVoteIdentification(false), c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp toggleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(-2), resp.Delta)
}

func TestHandleVoteComment_TargetMissing(t *testing.T) {
	app := &mockBoardService{
		toggleLikeFn: func(_ context.Context, _ uuid.UUID, _ domain.Target) (*domain.ToggleResult, error) {
			return nil, domain.ErrCommentNotFound
		},
	}

	srv := newTestServer(t, app)
	c, rec := newJSONContext(srv, http.MethodPost, "/api/posts/p1/comments/c1/like", "")
	c.SetParamNames("postID", "id")
	c.SetParamValues("p1", "c1")
	c.Set("userID", uuid.New())

	require.NoError(t, callHandler(srv.handleVoteComment(true), c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleVotePost_MissingVoteRecord(t *testing.T) {
	app := &mockBoardService{
		toggleLikeFn: func(_ context.Context, _ uuid.UUID, _ domain.Target) (*domain.ToggleResult, error) {
			return nil, domain.ErrVoteRecordNotFound
		},
	}

	srv := newTestServer(t, app)
	c, rec := newJSONContext(srv, http.MethodPost, "/api/posts/p1/like", "")
	c.SetParamNames("postID")
	c.SetParamValues("p1")
	c.Set("userID", uuid.New())

	require.NoError(t, callHandler(srv.handleVotePost(true), c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleGetVoteDirection_DefaultsToPost(t *testing.T) {
	app := &mockBoardService{
		getVoteDirectionFn: func(_ context.Context, _ uuid.UUID, target domain.Target) (domain.Direction, error) {
			assert.Equal(t, domain.KindPost, target.Kind)
			assert.Equal(t, "p1", target.ID)
			return domain.DirectionDisliked, nil
		},
	}

	srv := newTestServer(t, app)
	c, rec := newJSONContext(srv, http.MethodGet, "/api/posts/p1/votes", "")
	c.SetParamNames("postID")
	c.SetParamValues("p1")
	c.Set("userID", uuid.New())

	require.NoError(t, callHandler(srv.handleGetVoteDirection, c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"disliked"`)
}

func TestHandleGetVoteDirection_CommentRequiresID(t *testing.T) {
	srv := newTestServer(t, &mockBoardService{})
	c, rec := newJSONContext(srv, http.MethodGet, "/api/posts/p1/votes?kind=comment", "")
	c.SetParamNames("postID")
	c.SetParamValues("p1")
	c.Set("userID", uuid.New())

	require.NoError(t, callHandler(srv.handleGetVoteDirection, c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetVoteDirection_UnknownKind(t *testing.T) {
	srv := newTestServer(t, &mockBoardService{})
	c, rec := newJSONContext(srv, http.MethodGet, "/api/posts/p1/votes?kind=bogus", "")
	c.SetParamNames("postID")
	c.SetParamValues("p1")
	c.Set("userID", uuid.New())

	require.NoError(t, callHandler(srv.handleGetVoteDirection, c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

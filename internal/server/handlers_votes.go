package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayang007/flora-fauna/internal/domain"
	apperrors "github.com/ayang007/flora-fauna/internal/errors"
)

type toggleResponse struct {
	Previous  string `json:"previous"`
	Current   string `json:"current"`
	Delta     int64  `json:"delta"`
	NewRating int64  `json:"new_rating"`
}

func toToggleResponse(result *domain.ToggleResult) toggleResponse {
	return toggleResponse{
		Previous:  result.Previous.String(),
		Current:   result.Current.String(),
		Delta:     result.Delta,
		NewRating: result.NewRating,
	}
}

func (s *Server) handleVotePost(like bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		postID := c.Param("postID")
		target := domain.Target{Kind: domain.KindPost, PostID: postID, ID: postID}
		return s.toggle(c, target, like)
	}
}

func (s *Server) handleVoteComment(like bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := domain.Target{
			Kind:   domain.KindComment,
			PostID: c.Param("postID"),
			ID:     c.Param("id"),
		}
		return s.toggle(c, target, like)
	}
}

func (s *Server) handleVoteIdentification(like bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		target := domain.Target{
			Kind:   domain.KindIdentification,
			PostID: c.Param("postID"),
			ID:     c.Param("id"),
		}
		return s.toggle(c, target, like)
	}
}

func (s *Server) toggle(c echo.Context, target domain.Target, like bool) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var result *domain.ToggleResult
	if like {
		result, err = s.app.ToggleLike(ctx, userID, target)
	} else {
		result, err = s.app.ToggleDislike(ctx, userID, target)
	}

	switch {
	case errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrIdentificationNotFound):
		return apperrors.NotFoundError("vote target not found").
			WithContext("kind", string(target.Kind)).
			WithContext("post_id", target.PostID).
			WithContext("id", target.ID)
	case errors.Is(err, domain.ErrVoteRecordNotFound):
		return apperrors.UnauthorizedError("account no longer exists")
	case err != nil:
		return apperrors.InternalError("failed to apply vote", err)
	}

	if err := c.JSON(http.StatusOK, toToggleResponse(result)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// handleGetVoteDirection reports the caller's recorded vote on a target.
// Kind and ID come from query parameters; kind defaults to "post".
func (s *Server) handleGetVoteDirection(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	postID := c.Param("postID")
	kind := domain.TargetKind(c.QueryParam("kind"))
	if kind == "" {
		kind = domain.KindPost
	}

	target := domain.Target{Kind: kind, PostID: postID, ID: c.QueryParam("id")}
	switch kind {
	case domain.KindPost:
		target.ID = postID
	case domain.KindComment, domain.KindIdentification:
		if target.ID == "" {
			return apperrors.ValidationError("id query parameter is required").
				WithContext("kind", string(kind))
		}
	default:
		return apperrors.ValidationError("unknown target kind").
			WithContext("kind", string(kind))
	}

	direction, err := s.app.GetVoteDirection(c.Request().Context(), userID, target)
	if errors.Is(err, domain.ErrVoteRecordNotFound) {
		return apperrors.UnauthorizedError("account no longer exists")
	}
	if err != nil {
		return apperrors.InternalError("failed to read vote direction", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"direction": direction.String()}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

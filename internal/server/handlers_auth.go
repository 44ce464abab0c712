package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ayang007/flora-fauna/internal/domain"
	apperrors "github.com/ayang007/flora-fauna/internal/errors"
)

type registerRequest struct {
	Username string `json:"username"`
}

type accountResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	IsModerator bool   `json:"is_moderator"`
}

func toAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		ID:          account.ID.String(),
		Username:    account.Username,
		IsModerator: account.IsModerator,
	}
}

func (s *Server) handleRegisterAccount(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return apperrors.ValidationError("username must not be empty")
	}

	account, err := s.app.RegisterAccount(c.Request().Context(), username)
	if errors.Is(err, domain.ErrUsernameTaken) {
		return apperrors.ConflictError("username already taken").WithContext("username", username)
	}
	if err != nil {
		return apperrors.InternalError("failed to register account", err)
	}

	if err := s.saveSession(c, account.ID); err != nil {
		return apperrors.InternalError("failed to save session", err)
	}

	if err := c.JSON(http.StatusCreated, toAccountResponse(account)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogin(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return apperrors.ValidationError("username must not be empty")
	}

	account, err := s.app.GetAccountByUsername(c.Request().Context(), username)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.NotFoundError("account not found").WithContext("username", username)
	}
	if err != nil {
		return apperrors.InternalError("failed to load account", err)
	}

	if err := s.saveSession(c, account.ID); err != nil {
		return apperrors.InternalError("failed to save session", err)
	}

	if err := c.JSON(http.StatusOK, toAccountResponse(account)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogout(c echo.Context) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		session, _ = s.sessionStore.New(c.Request(), sessionName)
	}
	session.Options.MaxAge = -1

	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to clear session", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) saveSession(c echo.Context, userID uuid.UUID) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		// Stale or tampered cookie; start over with a fresh session.
		session, err = s.sessionStore.New(c.Request(), sessionName)
		if err != nil {
			return err
		}
	}
	session.Values[sessionKeyUserID] = userID.String()
	return session.Save(c.Request(), c.Response().Writer)
}

type statisticsResponse struct {
	Username                  string `json:"username"`
	IsModerator               bool   `json:"is_moderator"`
	TotalPosts                int64  `json:"total_posts"`
	TotalComments             int64  `json:"total_comments"`
	TotalIdentifications      int64  `json:"total_identifications"`
	TotalPostRating           int64  `json:"total_post_rating"`
	TotalCommentRating        int64  `json:"total_comment_rating"`
	TotalIdentificationRating int64  `json:"total_identification_rating"`
}

func toStatisticsResponse(stats *domain.ProfileStatistics) statisticsResponse {
	return statisticsResponse{
		Username:                  stats.Username,
		IsModerator:               stats.IsModerator,
		TotalPosts:                stats.TotalPosts,
		TotalComments:             stats.TotalComments,
		TotalIdentifications:      stats.TotalIdentifications,
		TotalPostRating:           stats.TotalPostRating,
		TotalCommentRating:        stats.TotalCommentRating,
		TotalIdentificationRating: stats.TotalIdentificationRating,
	}
}

func (s *Server) handleProfile(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}
	ctx := c.Request().Context()

	account, err := s.app.GetAccountByID(ctx, userID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.UnauthorizedError("account no longer exists")
	}
	if err != nil {
		return apperrors.InternalError("failed to load account", err)
	}

	stats, err := s.app.GetProfileStatistics(ctx, account.Username)
	if err != nil {
		return apperrors.InternalError("failed to load statistics", err)
	}

	if err := c.JSON(http.StatusOK, toStatisticsResponse(stats)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUserStatistics(c echo.Context) error {
	username := c.Param("username")

	stats, err := s.app.GetProfileStatistics(c.Request().Context(), username)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.NotFoundError("account not found").WithContext("username", username)
	}
	if err != nil {
		return apperrors.InternalError("failed to load statistics", err)
	}

	if err := c.JSON(http.StatusOK, toStatisticsResponse(stats)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

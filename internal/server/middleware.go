package server

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ayang007/flora-fauna/internal/domain"
	apperrors "github.com/ayang007/flora-fauna/internal/errors"
	"github.com/ayang007/flora-fauna/internal/platform/correlation"
)

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// requireAuth resolves the session into a user ID and stores it in the
// echo context under "userID".
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessionStore.Get(c.Request(), sessionName)
		if err != nil {
			return apperrors.UnauthorizedError("invalid session")
		}

		raw, ok := session.Values[sessionKeyUserID].(string)
		if !ok {
			return apperrors.UnauthorizedError("login required")
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.UnauthorizedError("invalid session")
		}

		c.Set("userID", userID)
		return next(c)
	}
}

// requireModerator gates moderation routes. Must run after requireAuth.
func (s *Server) requireModerator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := c.Get("userID").(uuid.UUID)
		if !ok {
			return apperrors.InternalError("invalid user ID in context", nil)
		}

		isModerator, err := s.app.IsModerator(c.Request().Context(), userID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return apperrors.UnauthorizedError("account no longer exists")
		}
		if err != nil {
			return apperrors.InternalError("failed to resolve moderator role", err).
				WithContext("user_id", userID.String())
		}
		if !isModerator {
			return apperrors.ForbiddenError("moderator role required").
				WithContext("user_id", userID.String())
		}

		return next(c)
	}
}

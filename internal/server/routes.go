package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/ayang007/flora-fauna/internal/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(correlationMiddleware)
	s.echo.Use(apperrors.Middleware())

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	// Accounts and sessions
	api.POST("/accounts", s.handleRegisterAccount)
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout, s.requireAuth)
	api.GET("/profile", s.handleProfile, s.requireAuth)
	api.GET("/users/:username/statistics", s.handleUserStatistics)

	// Board content
	api.GET("/posts", s.handleListPosts)
	api.POST("/posts", s.handleCreatePost, s.requireAuth)
	api.GET("/posts/:postID", s.handleGetPost)
	api.GET("/posts/:postID/comments", s.handleListComments)
	api.POST("/posts/:postID/comments", s.handleCreateComment, s.requireAuth)
	api.GET("/posts/:postID/identifications", s.handleListIdentifications)
	api.POST("/posts/:postID/identifications", s.handleCreateIdentification, s.requireAuth)

	// Votes are the hot path, throttled per client IP.
	votes := api.Group("", s.requireAuth, newRateLimiter(s.config.VoteRateLimit, s.config.VoteRateBurst))
	votes.POST("/posts/:postID/like", s.handleVotePost(true))
	votes.POST("/posts/:postID/dislike", s.handleVotePost(false))
	votes.POST("/posts/:postID/comments/:id/like", s.handleVoteComment(true))
	votes.POST("/posts/:postID/comments/:id/dislike", s.handleVoteComment(false))
	votes.POST("/posts/:postID/identifications/:id/like", s.handleVoteIdentification(true))
	votes.POST("/posts/:postID/identifications/:id/dislike", s.handleVoteIdentification(false))
	api.GET("/posts/:postID/votes", s.handleGetVoteDirection, s.requireAuth)

	// Moderation
	mod := api.Group("/moderation", s.requireAuth, s.requireModerator)
	mod.GET("/posts/:postID/consensus", s.handleGetConsensus)
	mod.POST("/posts/:postID/consensus/pin", s.handlePinCandidate)
	mod.DELETE("/posts/:postID/consensus/pin", s.handleUnpinCandidate)
	mod.PUT("/posts/:postID/review-status", s.handleSetReviewStatus)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}

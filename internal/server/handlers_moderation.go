package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ayang007/flora-fauna/internal/domain"
	apperrors "github.com/ayang007/flora-fauna/internal/errors"
)

type consensusResponse struct {
	Status          bool   `json:"status"`
	ModeratorChosen bool   `json:"moderator_chosen"`
	PinnedCandidate string `json:"pinned_candidate,omitempty"`
	OriginalSpecies string `json:"original_species"`
}

func (s *Server) handleGetConsensus(c echo.Context) error {
	postID := c.Param("postID")

	meta, err := s.app.GetConsensusMetadata(c.Request().Context(), postID)
	if errors.Is(err, domain.ErrConsensusNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if err != nil {
		return apperrors.InternalError("failed to load consensus metadata", err)
	}

	response := consensusResponse{
		Status:          meta.Status,
		ModeratorChosen: meta.ModeratorChosen,
		PinnedCandidate: meta.PinnedCandidate,
		OriginalSpecies: meta.OriginalSpecies,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type pinRequest struct {
	CandidateID string `json:"candidate_id"`
}

func (s *Server) handlePinCandidate(c echo.Context) error {
	postID := c.Param("postID")

	var req pinRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.CandidateID) == "" {
		return apperrors.ValidationError("candidate_id must not be empty")
	}

	err := s.app.PinCandidate(c.Request().Context(), postID, req.CandidateID)
	if errors.Is(err, domain.ErrIdentificationNotFound) {
		return apperrors.NotFoundError("identification not found").
			WithContext("post_id", postID).
			WithContext("candidate_id", req.CandidateID)
	}
	if errors.Is(err, domain.ErrConsensusNotFound) || errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if err != nil {
		return apperrors.InternalError("failed to pin candidate", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUnpinCandidate(c echo.Context) error {
	postID := c.Param("postID")

	err := s.app.UnpinCandidate(c.Request().Context(), postID)
	if errors.Is(err, domain.ErrConsensusNotFound) || errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if err != nil {
		return apperrors.InternalError("failed to unpin candidate", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

type reviewStatusRequest struct {
	Status bool `json:"status"`
}

func (s *Server) handleSetReviewStatus(c echo.Context) error {
	postID := c.Param("postID")

	var req reviewStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	err := s.app.SetReviewStatus(c.Request().Context(), postID, req.Status)
	if errors.Is(err, domain.ErrConsensusNotFound) || errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if err != nil {
		return apperrors.InternalError("failed to set review status", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

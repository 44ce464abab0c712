package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ayang007/flora-fauna/internal/domain"
	apperrors "github.com/ayang007/flora-fauna/internal/errors"
)

type postResponse struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Species     string    `json:"species"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Rating      int64     `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPostResponse(post *domain.Post) postResponse {
	return postResponse{
		ID:          post.ID,
		Author:      post.Author,
		Title:       post.Title,
		Description: post.Description,
		Species:     post.Species,
		Latitude:    post.Latitude,
		Longitude:   post.Longitude,
		Rating:      post.Rating,
		CreatedAt:   post.CreatedAt,
	}
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Rating    int64     `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(comment *domain.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Author:    comment.Author,
		Body:      comment.Body,
		Rating:    comment.Rating,
		CreatedAt: comment.CreatedAt,
	}
}

type identificationResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Species   string    `json:"species"`
	Rating    int64     `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func toIdentificationResponse(ident *domain.Identification) identificationResponse {
	return identificationResponse{
		ID:        ident.ID,
		PostID:    ident.PostID,
		Author:    ident.Author,
		Body:      ident.Body,
		Species:   ident.Species,
		Rating:    ident.Rating,
		CreatedAt: ident.CreatedAt,
	}
}

func sessionUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalError("invalid user ID in context", nil)
	}
	return userID, nil
}

// --- Posts ---

type createPostRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Species     string  `json:"species"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func (s *Server) handleCreatePost(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.ValidationError("title must not be empty")
	}
	if strings.TrimSpace(req.Species) == "" {
		return apperrors.ValidationError("species must not be empty")
	}

	post, err := s.app.CreatePost(c.Request().Context(), userID, req.Title, req.Description, req.Species, req.Latitude, req.Longitude)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.UnauthorizedError("account no longer exists")
	}
	if err != nil {
		return apperrors.InternalError("failed to create post", err)
	}

	if err := c.JSON(http.StatusCreated, toPostResponse(post)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetPost(c echo.Context) error {
	postID := c.Param("postID")

	post, err := s.app.GetPost(c.Request().Context(), postID)
	if errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if err != nil {
		return apperrors.InternalError("failed to load post", err)
	}

	if err := c.JSON(http.StatusOK, toPostResponse(post)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListPosts(c echo.Context) error {
	posts, err := s.app.ListTopPosts(c.Request().Context(), int64(s.config.TopPostsLimit))
	if err != nil {
		return apperrors.InternalError("failed to list posts", err)
	}

	response := make([]postResponse, 0, len(posts))
	for i := range posts {
		response = append(response, toPostResponse(&posts[i]))
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// --- Comments ---

type createCommentRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleCreateComment(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("postID")

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Body) == "" {
		return apperrors.ValidationError("body must not be empty")
	}

	comment, err := s.app.CreateComment(c.Request().Context(), userID, postID, req.Body)
	if errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.UnauthorizedError("account no longer exists")
	}
	if err != nil {
		return apperrors.InternalError("failed to create comment", err)
	}

	if err := c.JSON(http.StatusCreated, toCommentResponse(comment)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListComments(c echo.Context) error {
	postID := c.Param("postID")

	comments, err := s.app.ListComments(c.Request().Context(), postID)
	if errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if err != nil {
		return apperrors.InternalError("failed to list comments", err)
	}

	response := make([]commentResponse, 0, len(comments))
	for i := range comments {
		response = append(response, toCommentResponse(&comments[i]))
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// --- Identification candidates ---

type createIdentificationRequest struct {
	Body    string `json:"body"`
	Species string `json:"species"`
}

func (s *Server) handleCreateIdentification(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("postID")

	var req createIdentificationRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Species) == "" {
		return apperrors.ValidationError("species must not be empty")
	}

	ident, err := s.app.CreateIdentification(c.Request().Context(), userID, postID, req.Body, req.Species)
	if errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		return apperrors.UnauthorizedError("account no longer exists")
	}
	if err != nil {
		return apperrors.InternalError("failed to create identification", err)
	}

	if err := c.JSON(http.StatusCreated, toIdentificationResponse(ident)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListIdentifications(c echo.Context) error {
	postID := c.Param("postID")

	idents, err := s.app.ListIdentifications(c.Request().Context(), postID)
	if errors.Is(err, domain.ErrPostNotFound) {
		return apperrors.NotFoundError("post not found").WithContext("post_id", postID)
	}
	if err != nil {
		return apperrors.InternalError("failed to list identifications", err)
	}

	response := make([]identificationResponse, 0, len(idents))
	for i := range idents {
		response = append(response, toIdentificationResponse(&idents[i]))
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

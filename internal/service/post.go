// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, checks tokens, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Services take primitives and return domain errors (apperror), never HTTP
// types or status codes. Handlers translate. Services receive repository
// INTERFACES, not *sqlite.DB, so tests inject in-memory mocks and the storage
// backend can change without touching this package.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"github.com/sakif/bloglist/internal/apperror"
	"github.com/sakif/bloglist/internal/model"
	"github.com/sakif/bloglist/internal/repository"
)

// PostService handles business logic for blog posts.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewPostService creates a PostService. The caller decides which repository
// implementations to inject (SQLite in main, mocks in tests).
func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

// List returns every post with its owner's summary inlined.
func (s *PostService) List(ctx context.Context) ([]model.PostWithOwner, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// GetByID returns one post.
//
// THE 400 / 404 SPLIT:
// A syntactically invalid id ("5555555555xxxxxxxxxx") fails the xid parse and
// is a validation error (400). A well-formed id with no matching row is a
// NotFound (404). Id parsing and lookup are different failure points and the
// API keeps them distinguishable.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

// Create validates and stores a new post owned by the given principal.
//
// The principal must resolve to a stored user. A verified token whose
// subject no longer exists is an authentication failure, not a store error.
func (s *PostService) Create(ctx context.Context, userID, title, author, url string, likes int) (*model.Post, error) {
	if title == "" || url == "" {
		return nil, apperror.ValidationFailed("title", "No title or URL")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Missing or invalid token")
		}
		s.logger.Error("failed to look up post owner",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("looking up post owner: %w", err)
	}

	post := &model.Post{
		Title:  title,
		Author: author,
		URL:    url,
		Likes:  likes,
		UserID: user.ID,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("title", post.Title),
		slog.String("owner", user.Username),
	)

	return post, nil
}

// UpdateLikes sets a post's likes count and returns the updated post.
// Only the likes field changes; title, author, url and owner are untouched.
//
// Note the asymmetry with Delete: this operation enforces no ownership (or
// any authentication at all). That matches the original API surface; see
// DESIGN.md before "fixing" it.
func (s *PostService) UpdateLikes(ctx context.Context, id string, likes int) (*model.Post, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	post, err := s.posts.UpdateLikes(ctx, id, likes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post likes updated",
		slog.String("id", post.ID),
		slog.Int("likes", post.Likes),
	)

	return post, nil
}

// Delete removes a post. Only the original poster may delete it: the post's
// owner reference must match the verified principal id.
func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	if err := validateID(id); err != nil {
		return err
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return apperror.Unauthorized("Post removal is allowed only to the original poster")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.String("id", id))
	return nil
}

// validateID rejects ids that could never name a record. All record ids are
// xids, so anything that doesn't parse as one is malformed input, not a miss.
func validateID(id string) error {
	if _, err := xid.FromString(id); err != nil {
		return apperror.ValidationFailed("id", "invalid id")
	}
	return nil
}

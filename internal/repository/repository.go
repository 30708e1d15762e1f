package repository

import (
	"context"

	"github.com/sakif/bloglist/internal/model"
)

// PostRepository is the storage contract for blog posts.
// List returns every post with its owner summary inlined; the service layer
// imposes no pagination because the API exposes the full set.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context) ([]model.PostWithOwner, error)
	UpdateLikes(ctx context.Context, id string, likes int) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository is the storage contract for user accounts.
// CreateUser must enforce username uniqueness atomically (not
// check-then-insert); implementations return apperror.ErrConflict when the
// name is taken.
//
// The user methods carry a User suffix so one storage type can implement
// both repositories without its method sets colliding.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

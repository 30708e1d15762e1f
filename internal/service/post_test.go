package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/rs/xid"

	"github.com/sakif/bloglist/internal/apperror"
	"github.com/sakif/bloglist/internal/model"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// Hand-written in-memory fakes of the repository interfaces. The services
// only ever see the interfaces, so swapping SQLite for a map is invisible to
// the code under test — and the tests run without any database.
//
// Ids are real xids, because the service's id validation parses them.

type mockPostRepo struct {
	posts map[string]*model.Post
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*model.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	result := *post
	return &result, nil
}

func (m *mockPostRepo) List(_ context.Context) ([]model.PostWithOwner, error) {
	result := make([]model.PostWithOwner, 0, len(m.posts))
	for _, p := range m.posts {
		result = append(result, model.PostWithOwner{
			ID:     p.ID,
			Title:  p.Title,
			Author: p.Author,
			URL:    p.URL,
			Likes:  p.Likes,
			User:   model.Owner{ID: p.UserID},
		})
	}
	return result, nil
}

func (m *mockPostRepo) UpdateLikes(_ context.Context, id string, likes int) (*model.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	post.Likes = likes
	result := *post
	return &result, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(m.posts, id)
	return nil
}

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict("Username must be unique")
		}
	}
	user.ID = xid.New().String()
	if user.Posts == nil {
		user.Posts = []model.PostRef{}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestPostService(t *testing.T) (*PostService, *mockPostRepo, *mockUserRepo) {
	t.Helper()
	posts := newMockPostRepo()
	users := newMockUserRepo()
	svc := NewPostService(posts, users, testLogger())
	return svc, posts, users
}

func addMockUser(t *testing.T, users *mockUserRepo, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Name: "Test User", PasswordHash: "hash", Adult: true}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("setup: creating user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestPostCreate_Success(t *testing.T) {
	svc, _, users := newTestPostService(t)
	user := addMockUser(t, users, "poster")

	post, err := svc.Create(context.Background(), user.ID, "New Test Add", "Bob", "https://www.altavista.com", 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if post.ID == "" {
		t.Error("expected post to have an ID")
	}
	if post.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", post.UserID, user.ID)
	}
	if post.Title != "New Test Add" {
		t.Errorf("Title = %q, want %q", post.Title, "New Test Add")
	}
}

func TestPostCreate_MissingTitleOrURL(t *testing.T) {
	svc, posts, users := newTestPostService(t)
	user := addMockUser(t, users, "poster")

	cases := []struct {
		name       string
		title, url string
	}{
		{name: "no title", title: "", url: "https://x.test"},
		{name: "no url", title: "Has Title", url: ""},
		{name: "neither", title: "", url: ""},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), user.ID, tt.title, "Ralphy", tt.url, 0)
			if err == nil {
				t.Fatal("Create() should fail without title or url")
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
			if err.Error() != "No title or URL" {
				t.Errorf("message = %q, want %q", err.Error(), "No title or URL")
			}
		})
	}

	if len(posts.posts) != 0 {
		t.Errorf("store has %d posts after failed creates, want 0", len(posts.posts))
	}
}

func TestPostCreate_UnknownPrincipal(t *testing.T) {
	svc, _, _ := newTestPostService(t)

	// A verified token whose user was deleted: authentication failure,
	// not a 404 and not a store error
	_, err := svc.Create(context.Background(), xid.New().String(), "Title", "", "https://x.test", 0)
	if err == nil {
		t.Fatal("Create() should fail for an unknown principal")
	}
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestPostGetByID_MalformedID(t *testing.T) {
	svc, _, _ := newTestPostService(t)

	// Well-formed length, invalid xid alphabet — parsing fails, lookup never runs
	_, err := svc.GetByID(context.Background(), "5555555555xxxxxxxxxx")
	if err == nil {
		t.Fatal("GetByID() should fail for a malformed id")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation (malformed id is 400, not 404)", err)
	}
}

func TestPostGetByID_ValidButAbsent(t *testing.T) {
	svc, _, _ := newTestPostService(t)

	_, err := svc.GetByID(context.Background(), xid.New().String())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound (well-formed id with no record is 404)", err)
	}
}

// =========================================================================
// UPDATE LIKES TESTS
// =========================================================================

func TestPostUpdateLikes_OnlyLikesChange(t *testing.T) {
	svc, _, users := newTestPostService(t)
	user := addMockUser(t, users, "poster")

	post, err := svc.Create(context.Background(), user.ID, "Likeable", "Pedro", "https://www.askjeeves.com", 0)
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	updated, err := svc.UpdateLikes(context.Background(), post.ID, 6)
	if err != nil {
		t.Fatalf("UpdateLikes() error = %v", err)
	}

	if updated.Likes != 6 {
		t.Errorf("Likes = %d, want 6", updated.Likes)
	}
	if updated.Title != post.Title || updated.URL != post.URL || updated.Author != post.Author {
		t.Error("UpdateLikes() changed fields other than likes")
	}
}

func TestPostUpdateLikes_MalformedID(t *testing.T) {
	svc, _, _ := newTestPostService(t)

	_, err := svc.UpdateLikes(context.Background(), "5555555555xxxxxxxxxx", 4)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestPostDelete_ByOwner(t *testing.T) {
	svc, posts, users := newTestPostService(t)
	user := addMockUser(t, users, "owner")

	post, err := svc.Create(context.Background(), user.ID, "Freudian Slip", "Sigmund Freud", "https://www.delethis.com", 0)
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), post.ID, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(posts.posts) != 0 {
		t.Errorf("store has %d posts after delete, want 0", len(posts.posts))
	}
}

func TestPostDelete_NotOwner(t *testing.T) {
	svc, posts, users := newTestPostService(t)
	owner := addMockUser(t, users, "owner")
	intruder := addMockUser(t, users, "intruder")

	post, err := svc.Create(context.Background(), owner.ID, "Mine", "", "https://x.test", 0)
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	err = svc.Delete(context.Background(), post.ID, intruder.ID)
	if err == nil {
		t.Fatal("Delete() should fail for a non-owner")
	}
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if err.Error() != "Post removal is allowed only to the original poster" {
		t.Errorf("message = %q, want the ownership message", err.Error())
	}
	if len(posts.posts) != 1 {
		t.Errorf("store has %d posts, want 1 — nothing may be deleted", len(posts.posts))
	}
}

func TestPostDelete_MalformedID(t *testing.T) {
	svc, _, users := newTestPostService(t)
	user := addMockUser(t, users, "owner")

	err := svc.Delete(context.Background(), "5555555555xxxxxxxxxx", user.ID)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

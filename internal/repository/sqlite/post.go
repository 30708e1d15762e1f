package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/bloglist/internal/apperror"
	"github.com/sakif/bloglist/internal/model"
	"github.com/sakif/bloglist/internal/repository"
)

// Compile-time check that *DB implements repository.PostRepository.
// `var _ X = (*Y)(nil)` assigns a nil *Y to an X; if *Y is missing a method
// the compiler errors here instead of at some distant call site.
var _ repository.PostRepository = (*DB)(nil)

// Create inserts a new post owned by post.UserID.
//
// The owner reference is covered by the foreign key on posts.user_id, so the
// insert itself is the atomic "create post and link it to its user" step —
// there is no second write to a denormalized post list that could be lost
// between requests.
func (db *DB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, author, url, likes, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Author,
		post.URL,
		post.Likes,
		post.UserID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetByID retrieves a single post by its id.
// sql.ErrNoRows is not a database failure — it just means no matching row —
// so it is translated to the domain's NotFound error here.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, author, url, likes, user_id, created_at, updated_at
		 FROM posts
		 WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.Title,
		&p.Author,
		&p.URL,
		&p.Likes,
		&p.UserID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &p, nil
}

// List returns every post with its owner's id, username and name inlined.
// A single JOIN replaces the document store's populate step.
func (db *DB) List(ctx context.Context) ([]model.PostWithOwner, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.title, p.author, p.url, p.likes,
		        u.id, u.username, u.name
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.PostWithOwner{}
	for rows.Next() {
		var p model.PostWithOwner
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Author, &p.URL, &p.Likes,
			&p.User.ID, &p.User.Username, &p.User.Name,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// UpdateLikes sets the likes count of the post with the given id, leaving
// every other field untouched, and returns the updated post.
func (db *DB) UpdateLikes(ctx context.Context, id string, likes int) (*model.Post, error) {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET likes = ?, updated_at = ? WHERE id = ?`,
		likes,
		time.Now(),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating likes for post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("post", id)
	}

	return db.GetByID(ctx, id)
}

// Delete removes a post by its id.
// Same pattern as UpdateLikes — RowsAffected detects "not found".
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

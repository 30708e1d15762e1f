package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/bloglist/internal/apperror"
	"github.com/sakif/bloglist/internal/model"
	"github.com/sakif/bloglist/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user.
//
// Username uniqueness is NOT checked here with a SELECT first — the UNIQUE
// constraint on users.username is the authority. The service layer does a
// friendly pre-check, but two concurrent registrations can both pass it;
// whichever insert loses the race gets the constraint violation, which is
// translated to the same conflict error. Check-then-insert alone would let
// both through.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Posts == nil {
		user.Posts = []model.PostRef{}
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, name, password_hash, adult, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Name,
		user.PasswordHash,
		user.Adult,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return apperror.Conflict("Username must be unique")
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.Username, err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column. modernc.org/sqlite exposes no typed constraint error, so the
// message is the only signal ("UNIQUE constraint failed: users.username").
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

// GetUserByID retrieves a user by their internal id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, name, password_hash, adult, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return u, nil
}

// GetUserByUsername retrieves a user by their username (case-sensitive exact
// match — TEXT columns compare with BINARY collation by default).
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, name, password_hash, adult, created_at, updated_at
		 FROM users WHERE username = ?`,
		username,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by username %s: %w", username, err)
	}

	return u, nil
}

// ListUsers returns every user with their owned posts inlined as PostRefs.
//
// Two queries instead of one JOIN: the users query and a posts query grouped
// in memory. A LEFT JOIN would repeat each user row per post and still need
// the same grouping pass.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, name, password_hash, adult, created_at, updated_at
		 FROM users
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Adult,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		u.Posts = []model.PostRef{}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	refs, err := db.postRefsByUser(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if list, ok := refs[users[i].ID]; ok {
			users[i].Posts = list
		}
	}

	return users, nil
}

// postRefsByUser loads every post as a PostRef, keyed by owning user id.
func (db *DB) postRefsByUser(ctx context.Context) (map[string][]model.PostRef, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, likes, author, title, url, user_id
		 FROM posts
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing post refs: %w", err)
	}
	defer rows.Close()

	refs := make(map[string][]model.PostRef)
	for rows.Next() {
		var ref model.PostRef
		var userID string
		if err := rows.Scan(&ref.ID, &ref.Likes, &ref.Author, &ref.Title, &ref.URL, &userID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post ref row: %w", err)
		}
		refs[userID] = append(refs[userID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post refs: %w", err)
	}

	return refs, nil
}

// scanUser reads one user row. Callers translate sql.ErrNoRows themselves so
// the error can name the lookup key that missed.
func (db *DB) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.PasswordHash,
		&u.Adult,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Posts = []model.PostRef{}
	return &u, nil
}

// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Post represents a single blog post.
// The `json:"..."` tags tell Go's encoding/json package how to serialize/deserialize
// this struct to/from JSON. The `db:"..."` tags document the column each field
// maps to in the posts table.
//
// UserID is the owner reference: the id of the User that created the post.
// Every post has exactly one owner, set at creation time and never changed.
type Post struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Author    string    `json:"author"    db:"author"` // display name of the writer, not the owning account
	URL       string    `json:"url"       db:"url"`
	Likes     int       `json:"likes"     db:"likes"`
	UserID    string    `json:"user"      db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Owner is the slice of a User that gets inlined into post listings:
// just enough to show who wrote the post, never the password hash.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// PostWithOwner is the listing view of a post — the post fields with the
// owning user's summary inlined in place of the bare user id.
type PostWithOwner struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	User   Owner  `json:"user"`
}

// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY json:"-" ON PasswordHash?
// The dash tells encoding/json to NEVER serialize this field. Users are
// returned directly from the list and registration endpoints, so the hash
// must be unserializable by construction — not filtered by every handler
// that happens to touch a User.
//
// Posts is the list of posts this user owns, in the shape the users listing
// exposes ({id, likes, author, title, url}). It is derived from the posts
// table at read time rather than stored on the user row, so a post and its
// owner link can never disagree.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"` // unique, immutable after registration
	Name         string    `json:"name"      db:"name"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Adult        bool      `json:"adult"     db:"adult"`
	Posts        []PostRef `json:"posts"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PostRef is the slice of a Post inlined into user listings.
type PostRef struct {
	ID     string `json:"id"`
	Likes  int    `json:"likes"`
	Author string `json:"author"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

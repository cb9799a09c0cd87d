// Package session owns the current sign-in state: the API token and the user
// record it belongs to. The store is the single source of truth for "is a
// user currently logged in"; the HTTP client and the route guard both read
// it and never keep their own copy.
package session

import (
	"context"
	"encoding/json"
	"time"
)

// User is the account record returned by the portal on login or register.
// Role is informational only: it drives which dashboard to show, not what
// the server permits.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

// clone returns a copy so callers can never mutate the stored record.
func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Store persists the session across process restarts.
//
// All reads fail soft: a corrupt or unreadable store reads as "no session",
// never as an error. HasToken reports only that a token exists, not that it
// is still valid; validity is discovered by the next API call.
type Store interface {
	// Save replaces the whole session in one write.
	Save(ctx context.Context, token string, user *User) error
	// Clear removes the session. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
	// CurrentUser returns the stored user record, or (nil, false).
	CurrentUser(ctx context.Context) (*User, bool)
	// Token returns the stored token, or ("", false).
	Token(ctx context.Context) (string, bool)
	// HasToken reports whether a token is stored.
	HasToken(ctx context.Context) bool
}

// record is the single composite value a store persists. Keeping token and
// user in one value means a reader can never observe a half-written session;
// the inconsistent token-without-user state can only come from the server
// itself or from corrupt storage.
type record struct {
	Token   string    `json:"token"`
	User    *User     `json:"user,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// decodeRecord parses a stored session value. A token with an undecodable
// user field still yields the token: the guard detects the missing user and
// repairs the session by clearing it, instead of the corruption hiding the
// stale token forever.
func decodeRecord(data []byte) (record, error) {
	var raw struct {
		Token   string          `json:"token"`
		User    json.RawMessage `json:"user"`
		SavedAt time.Time       `json:"saved_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return record{}, err
	}

	rec := record{Token: raw.Token, SavedAt: raw.SavedAt}
	if len(raw.User) > 0 {
		var u *User
		if err := json.Unmarshal(raw.User, &u); err == nil {
			rec.User = u
		}
	}
	return rec, nil
}

package session

import (
	"errors"
)

// ErrNoSession is returned by Store implementations when no session has been
// persisted (or it has been cleared).
var ErrNoSession = errors.New("no stored session")

// Session is the full set of persisted identity and credential fields for the
// current logged-in user. It is overwritten wholesale on every login and on
// every successful token refresh, and deleted entirely on logout or on an
// unrecoverable authorization failure.
//
// An access token is always paired with the refresh token that can renew it;
// a Session never carries a refresh token without its (possibly stale) access
// token.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       *int64 `json:"userId,omitempty"` // not all server responses include it
	Username     string `json:"username"`
	IsAdmin      bool   `json:"isAdmin"`
	IsModerator  bool   `json:"isModerator"`
}

// IsZero reports whether the session carries no credentials at all.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Store persists the session across process restarts.
//
// AccessToken and RefreshToken never fail: they return the empty string when
// no session (or no such field) is stored. Save overwrites all session fields
// idempotently. Clear removes everything and is a no-op when nothing is
// stored.
type Store interface {
	// Current returns the stored session, or ErrNoSession when none exists.
	Current() (Session, error)

	// AccessToken returns the stored access token, or "" when absent.
	AccessToken() string

	// RefreshToken returns the stored refresh token, or "" when absent.
	RefreshToken() string

	// Save overwrites the stored session with the given one.
	Save(session Session) error

	// Clear removes the stored session. Calling it with no session stored
	// is not an error.
	Clear() error
}

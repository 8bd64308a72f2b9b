package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/wastelessapp/wasteless-go/session"
)

// TokenResponse is the wire shape returned by the login and refresh
// endpoints. The access token arrives under the "token" key.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       *int64 `json:"userId,omitempty"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"isAdmin"`
	IsModerator  bool   `json:"isModerator"`
}

// Session converts the wire shape into the persisted session shape.
func (tr TokenResponse) Session() session.Session {
	return session.Session{
		AccessToken:  tr.Token,
		RefreshToken: tr.RefreshToken,
		UserID:       tr.UserID,
		Username:     tr.Username,
		IsAdmin:      tr.IsAdmin,
		IsModerator:  tr.IsModerator,
	}
}

// Refresh exchanges the stored refresh token for a new session and reports
// whether it succeeded. With no refresh token stored the session is cleared
// and no network call is made. A non-success response clears the session.
// Transport-level failures are swallowed and reported as false — a background
// refresh attempt must never crash the caller.
//
// Concurrent callers that each observe a 401 coalesce into a single refresh
// call; all of them see the shared outcome.
func (c *Client) Refresh(ctx context.Context) bool {
	ok, _, _ := c.refreshing.Do("refresh", func() (any, error) {
		return c.refreshSession(ctx), nil
	})
	refreshed, _ := ok.(bool)
	return refreshed
}

func (c *Client) refreshSession(ctx context.Context) bool {
	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		c.logger.Debug().Msg("refresh requested with no stored refresh token")
		_ = c.store.Clear()
		return false
	}

	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RouteRefreshToken, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("token refresh transport failure")
		return false
	}
	defer drainBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("token refresh rejected, clearing session")
		_ = c.store.Clear()
		return false
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		c.logger.Debug().Err(err).Msg("token refresh response malformed, clearing session")
		_ = c.store.Clear()
		return false
	}

	if err := c.store.Save(tr.Session()); err != nil {
		c.logger.Debug().Err(err).Msg("failed to persist refreshed session")
		return false
	}

	c.logger.Debug().Str("username", tr.Username).Msg("session refreshed")
	return true
}

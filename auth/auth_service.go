// Package auth provides the login, registration, and logout entry points for
// the Wasteless API. Login and registration are single-request operations: no
// retry, no state machine, and neither ever carries a bearer token from a
// prior session.
package auth

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/wastelessapp/wasteless-go/client"
	"github.com/wastelessapp/wasteless-go/session"
)

// Service wraps the auth endpoints.
type Service struct {
	client *client.Client
}

// NewService creates an auth Service over the shared API client.
func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[auth.NewService] client is required")
	}
	return &Service{client: c}, nil
}

// LoginRequest is the credential payload for POST /api/sessions. The server
// accepts either an email address or a username in the same field.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// RegisterRequest is the payload for POST /api/users.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResult is the registration response.
type RegisterResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a session and persists it. The returned
// session is exactly what was stored.
func (s *Service) Login(ctx context.Context, emailOrUsername, password string) (session.Session, error) {
	if err := ValidateCredentials(emailOrUsername, password); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login] invalid credentials")
	}

	var tr client.TokenResponse
	err := s.client.DoJSON(ctx, http.MethodPost, client.RouteSessions, &tr,
		client.NoAuth(),
		client.JSON(LoginRequest{EmailOrUsername: emailOrUsername, Password: password}),
	)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login]")
	}

	sess := tr.Session()
	if sess.Username == "" {
		// Some server builds omit the username field; the access token
		// payload carries it either way.
		sess.Username = UsernameFromToken(sess.AccessToken)
	}

	if err := s.client.Store().Save(sess); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login] persist session")
	}
	return sess, nil
}

// Register creates a new account. It does not log the user in; callers chain
// a Login when they want a session.
func (s *Service) Register(ctx context.Context, username, email, password string) (RegisterResult, error) {
	if err := ValidateRegistration(username, email, password); err != nil {
		return RegisterResult{}, errors.Wrap(err, "[Service.Register] invalid registration")
	}

	var result RegisterResult
	err := s.client.DoJSON(ctx, http.MethodPost, client.RouteUsers, &result,
		client.NoAuth(),
		client.JSON(RegisterRequest{Username: username, Email: email, Password: password}),
	)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "[Service.Register]")
	}
	return result, nil
}

// Logout deletes the stored session. The Wasteless API keeps no server-side
// session state for the client to tear down, so this never makes a network
// call and is safe to call when already logged out.
func (s *Service) Logout() error {
	if err := s.client.Store().Clear(); err != nil {
		return errors.Wrap(err, "[Service.Logout] clear session")
	}
	return nil
}

// Current returns the stored session, or session.ErrNoSession when logged out.
func (s *Service) Current() (session.Session, error) {
	return s.client.Store().Current()
}

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/wastelessapp/wasteless-go/auth"
	"github.com/wastelessapp/wasteless-go/client"
	"github.com/wastelessapp/wasteless-go/session/storefake"
)

const (
	testUsername = "alice"
	testEmail    = "alice@example.com"
	testPassword = "Secret123"
)

type testFixture struct {
	store   *storefake.FakeStore
	service *auth.Service
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storefake.NewFakeStore()
	c, err := client.New(server.URL, store)
	require.NoError(t, err)

	service, err := auth.NewService(c)
	require.NoError(t, err)

	return &testFixture{store: store, service: service}
}

func TestLogin_StoresReturnedSession(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, client.RouteSessions, r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"), "login must never carry a bearer token")

		var in auth.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "alice", in.EmailOrUsername)
		require.Equal(t, "Secret123", in.Password)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(client.TokenResponse{
			Token:        "a1",
			RefreshToken: "r1",
			Username:     "alice",
		})
	})

	sess, err := f.service.Login(context.Background(), "alice", "Secret123")
	require.NoError(t, err)
	require.Equal(t, "alice", sess.Username)

	require.Equal(t, "a1", f.store.AccessToken())
	require.Equal(t, "r1", f.store.RefreshToken())

	stored, err := f.store.Current()
	require.NoError(t, err)
	require.Equal(t, "alice", stored.Username)
}

func TestLogin_SurfacesServerMessage(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	})

	_, err := f.service.Login(context.Background(), "alice", "WrongPass1")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid credentials", apiErr.Message)
	require.Equal(t, 0, f.store.Saves(), "failed login must not store a session")
}

func TestLogin_UsernameFallsBackToTokenClaim(t *testing.T) {
	token := signedTestToken(t, jwtlib.MapClaims{"username": "alice", "sub": "42"})

	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(client.TokenResponse{
			Token:        token,
			RefreshToken: "r1",
		})
	})

	sess, err := f.service.Login(context.Background(), "alice", "Secret123")
	require.NoError(t, err)
	require.Equal(t, "alice", sess.Username, "username must be recovered from the token payload")
}

func TestLogin_ValidatesInputBeforeNetworkCall(t *testing.T) {
	called := false
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := f.service.Login(context.Background(), "", "Secret123")
	require.Error(t, err)
	require.False(t, called, "client-side validation failures are detected before any network call")
}

func TestRegister_HappyPath(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, client.RouteUsers, r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(auth.RegisterResult{
			Message:  "user created",
			Username: testUsername,
			Email:    testEmail,
		})
	})

	result, err := f.service.Register(context.Background(), testUsername, testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, "user created", result.Message)
	require.Equal(t, 0, f.store.Saves(), "registration does not log the user in")
}

func TestRegister_Validation(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected for invalid registration input")
	})

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  string
	}{
		{"short username", "ab", testEmail, testPassword, "between 3 and 30"},
		{"bad username chars", "alice!", testEmail, testPassword, "letters, digits"},
		{"missing email", testUsername, "", testPassword, "email is required"},
		{"bad email", testUsername, "not-an-email", testPassword, "invalid email"},
		{"short password", testUsername, testEmail, "Ab1", "at least 8 characters"},
		{"no uppercase", testUsername, testEmail, "secret123", "uppercase"},
		{"no lowercase", testUsername, testEmail, "SECRET123", "lowercase"},
		{"no number", testUsername, testEmail, "SecretPass", "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Register(context.Background(), tt.username, tt.email, tt.password)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogout_ClearsSessionAndIsIdempotent(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(client.TokenResponse{Token: "a1", RefreshToken: "r1", Username: "alice"})
	})

	_, err := f.service.Login(context.Background(), "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout())
	require.NoError(t, f.service.Logout(), "logging out twice must not fail")

	_, err = f.service.Current()
	require.Error(t, err)
}

func TestUsernameFromToken(t *testing.T) {
	t.Run("username claim", func(t *testing.T) {
		token := signedTestToken(t, jwtlib.MapClaims{"username": "alice"})
		require.Equal(t, "alice", auth.UsernameFromToken(token))
	})

	t.Run("falls back to sub", func(t *testing.T) {
		token := signedTestToken(t, jwtlib.MapClaims{"sub": "alice"})
		require.Equal(t, "alice", auth.UsernameFromToken(token))
	})

	t.Run("malformed token", func(t *testing.T) {
		require.Empty(t, auth.UsernameFromToken("not-a-jwt"))
	})
}

func signedTestToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

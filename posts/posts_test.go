package posts_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wastelessapp/wasteless-go/client"
	"github.com/wastelessapp/wasteless-go/posts"
	"github.com/wastelessapp/wasteless-go/session"
	"github.com/wastelessapp/wasteless-go/session/storefake"
)

func setupService(t *testing.T, handler http.HandlerFunc) *posts.Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storefake.NewFakeStore()
	require.NoError(t, store.Save(session.Session{AccessToken: "a1", RefreshToken: "r1", Username: "alice"}))

	c, err := client.New(server.URL, store)
	require.NoError(t, err)

	service, err := posts.NewService(c)
	require.NoError(t, err)
	return service
}

func TestFeed_PassesPaging(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, client.RoutePosts, r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("size"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"username":"bob","content":"reused my jars","likeCount":3}]`))
	})

	feed, err := service.Feed(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, "bob", feed[0].Username)
	require.Equal(t, 3, feed[0].LikeCount)
}

func TestLikeUnlike_ReturnServerCount(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/posts/5/likes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"likeCount":4}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"likeCount":3}`))
		}
	})

	count, err := service.Like(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 4, count)

	count, err = service.Unlike(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestCreate_TextOnlyUsesJSON(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"content":"compost update"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"username":"alice","content":"compost update"}`))
	})

	created, err := service.Create(context.Background(), "compost update", nil)
	require.NoError(t, err)
	require.Equal(t, int64(9), created.ID)
}

func TestCreate_WithPhotoUsesMultipart(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "compost update", r.FormValue("content"))

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "bin.jpg", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "jpegdata", string(data))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(posts.Post{ID: 10, Username: "alice", Content: "compost update"})
	})

	photo := &client.FormFile{Field: "photo", Filename: "bin.jpg", Content: strings.NewReader("jpegdata")}
	created, err := service.Create(context.Background(), "compost update", photo)
	require.NoError(t, err)
	require.Equal(t, int64(10), created.ID)
}

func TestComments_RoundTrip(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/posts/5/comments":
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			_ = json.NewEncoder(w).Encode(posts.Comment{ID: 1, PostID: 5, Username: "alice", Content: in["content"]})
		case r.Method == http.MethodGet && r.URL.Path == "/api/posts/5/comments":
			_, _ = w.Write([]byte(`[{"id":1,"postId":5,"username":"alice","content":"nice work"}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/comments/1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	created, err := service.AddComment(context.Background(), 5, "nice work")
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	list, err := service.Comments(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "nice work", list[0].Content)

	require.NoError(t, service.DeleteComment(context.Background(), 1))
}

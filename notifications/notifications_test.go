package notifications_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wastelessapp/wasteless-go/client"
	"github.com/wastelessapp/wasteless-go/notifications"
	"github.com/wastelessapp/wasteless-go/session"
	"github.com/wastelessapp/wasteless-go/session/storefake"
)

func setupService(t *testing.T, handler http.HandlerFunc) *notifications.Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storefake.NewFakeStore()
	require.NoError(t, store.Save(session.Session{AccessToken: "a1", RefreshToken: "r1", Username: "alice"}))

	c, err := client.New(server.URL, store)
	require.NoError(t, err)

	service, err := notifications.NewService(c)
	require.NoError(t, err)
	return service
}

func TestUnreadCount(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/notifications/unread-count", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":3}`))
	})

	count, err := service.UnreadCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestMarkReadPaths(t *testing.T) {
	var paths []string
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, service.MarkRead(context.Background(), 7))
	require.NoError(t, service.MarkAllRead(context.Background()))
	require.Equal(t, []string{"/api/notifications/7/read", "/api/notifications/read-all"}, paths)
}

func TestList_DecodesNotifications(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, client.RouteNotifications, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"type":"like","message":"bob liked your post","read":false}]`))
	})

	list, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "like", list[0].Type)
	require.False(t, list[0].Read)
}

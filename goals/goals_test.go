package goals_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wastelessapp/wasteless-go/client"
	"github.com/wastelessapp/wasteless-go/goals"
	"github.com/wastelessapp/wasteless-go/session"
	"github.com/wastelessapp/wasteless-go/session/storefake"
)

func setupService(t *testing.T, handler http.HandlerFunc) *goals.Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storefake.NewFakeStore()
	require.NoError(t, store.Save(session.Session{AccessToken: "a1", RefreshToken: "r1", Username: "alice"}))

	c, err := client.New(server.URL, store)
	require.NoError(t, err)

	service, err := goals.NewService(c)
	require.NoError(t, err)
	return service
}

func TestGoals_CRUDPaths(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/42/waste-goals":
			_, _ = w.Write([]byte(`[{"id":1,"userId":42,"category":"plastic","target":2,"unit":"kg","period":"weekly"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/users/42/waste-goals":
			var in goals.WasteGoal
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in.ID = 2
			in.UserID = 42
			_ = json.NewEncoder(w).Encode(in)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/users/42/waste-goals/2":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	list, err := service.List(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "plastic", list[0].Category)

	created, err := service.Create(context.Background(), 42, goals.WasteGoal{Category: "food", Target: 1, Unit: "kg", Period: "weekly"})
	require.NoError(t, err)
	require.Equal(t, int64(2), created.ID)

	require.NoError(t, service.Delete(context.Background(), 42, 2))
}

func TestProgress_SumsLogsAgainstTarget(t *testing.T) {
	service := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, client.RouteLogs, r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("goalId"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"goalId":7,"amount":0.5,"unit":"kg"},
			{"id":2,"goalId":7,"amount":1.25,"unit":"kg"}
		]`))
	})

	goal := goals.WasteGoal{ID: 7, Target: 3.5, Unit: "kg"}
	progress, err := service.Progress(context.Background(), goal)
	require.NoError(t, err)
	require.InDelta(t, 1.75, progress.Logged, 0.001)
	require.InDelta(t, 0.5, progress.Fraction(), 0.001)
}

func TestProgress_ZeroTarget(t *testing.T) {
	p := goals.Progress{Goal: goals.WasteGoal{Target: 0}, Logged: 5}
	require.Zero(t, p.Fraction())
}

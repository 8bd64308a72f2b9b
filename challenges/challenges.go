// Package challenges binds the time-boxed community challenge endpoints,
// including participation and leaderboards.
package challenges

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/wastelessapp/wasteless-go/client"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Challenge is a time-boxed community challenge.
type Challenge struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	Participants int       `json:"participantCount"`
	Joined       bool      `json:"joined"`
}

// Active reports whether the challenge window contains the current time.
func (c Challenge) Active() bool {
	now := NowTimeFunc()
	return !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}

// LeaderboardEntry is one ranked row of a challenge leaderboard.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// Service wraps the challenge endpoints.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[challenges.NewService] client is required")
	}
	return &Service{client: c}, nil
}

// List returns all visible challenges.
func (s *Service) List(ctx context.Context) ([]Challenge, error) {
	var out []Challenge
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RouteChallenges, &out); err != nil {
		return nil, errors.Wrap(err, "[Service.List]")
	}
	return out, nil
}

// Get returns one challenge.
func (s *Service) Get(ctx context.Context, id int64) (Challenge, error) {
	var out Challenge
	if err := s.client.DoJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%d", client.RouteChallenges, id), &out); err != nil {
		return Challenge{}, errors.Wrap(err, "[Service.Get]")
	}
	return out, nil
}

// Join enrols the caller in a challenge.
func (s *Service) Join(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d/participants", client.RouteChallenges, id)
	err := s.client.DoJSON(ctx, http.MethodPost, path, nil)
	return errors.Wrap(err, "[Service.Join]")
}

// Leave withdraws the caller from a challenge.
func (s *Service) Leave(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d/participants", client.RouteChallenges, id)
	err := s.client.DoJSON(ctx, http.MethodDelete, path, nil)
	return errors.Wrap(err, "[Service.Leave]")
}

// LogProgress records a contribution towards a challenge the caller joined.
func (s *Service) LogProgress(ctx context.Context, id int64, amount float64, note string) error {
	path := fmt.Sprintf("%s/%d/logs", client.RouteChallenges, id)
	err := s.client.DoJSON(ctx, http.MethodPost, path, nil,
		client.JSON(map[string]any{"amount": amount, "note": note}))
	return errors.Wrap(err, "[Service.LogProgress]")
}

// Leaderboard returns the ranked standings of a challenge.
func (s *Service) Leaderboard(ctx context.Context, id int64) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	path := fmt.Sprintf("%s/%d/leaderboard", client.RouteChallenges, id)
	if err := s.client.DoJSON(ctx, http.MethodGet, path, &out); err != nil {
		return nil, errors.Wrap(err, "[Service.Leaderboard]")
	}
	return out, nil
}

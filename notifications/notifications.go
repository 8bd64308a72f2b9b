// Package notifications binds the notification endpoints.
package notifications

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/wastelessapp/wasteless-go/client"
)

// Notification is a single notification row.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"` // e.g. "like", "comment", "follow", "challenge"
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service wraps the notification endpoints.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[notifications.NewService] client is required")
	}
	return &Service{client: c}, nil
}

// List returns the caller's notifications, newest first.
func (s *Service) List(ctx context.Context) ([]Notification, error) {
	var out []Notification
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RouteNotifications, &out); err != nil {
		return nil, errors.Wrap(err, "[Service.List]")
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RouteNotifications+"/unread-count", &out); err != nil {
		return 0, errors.Wrap(err, "[Service.UnreadCount]")
	}
	return out.Count, nil
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/%d/read", client.RouteNotifications, id)
	err := s.client.DoJSON(ctx, http.MethodPut, path, nil)
	return errors.Wrap(err, "[Service.MarkRead]")
}

// MarkAllRead marks every notification as read.
func (s *Service) MarkAllRead(ctx context.Context) error {
	err := s.client.DoJSON(ctx, http.MethodPut, client.RouteNotifications+"/read-all", nil)
	return errors.Wrap(err, "[Service.MarkAllRead]")
}

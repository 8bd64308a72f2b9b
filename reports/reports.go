// Package reports binds the content-report endpoints. Submitting is open to
// every user; listing and resolving are moderator operations, enforced by the
// server.
package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/wastelessapp/wasteless-go/client"
)

// Report statuses as returned by the API.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusRejected = "rejected"
)

// Report flags a post or comment for moderation.
type Report struct {
	ID         int64     `json:"id"`
	TargetType string    `json:"targetType"` // "post" or "comment"
	TargetID   int64     `json:"targetId"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Service wraps the report endpoints.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[reports.NewService] client is required")
	}
	return &Service{client: c}, nil
}

// Submit files a report against a post or comment.
func (s *Service) Submit(ctx context.Context, targetType string, targetID int64, reason string) (Report, error) {
	var out Report
	err := s.client.DoJSON(ctx, http.MethodPost, client.RouteReports, &out,
		client.JSON(map[string]any{"targetType": targetType, "targetId": targetID, "reason": reason}))
	if err != nil {
		return Report{}, errors.Wrap(err, "[Service.Submit]")
	}
	return out, nil
}

// List returns open reports for moderation.
func (s *Service) List(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RouteReports, &out); err != nil {
		return nil, errors.Wrap(err, "[Service.List]")
	}
	return out, nil
}

// Resolve closes a report with the given status.
func (s *Service) Resolve(ctx context.Context, id int64, status string) (Report, error) {
	var out Report
	path := fmt.Sprintf("%s/%d/resolve", client.RouteReports, id)
	if err := s.client.DoJSON(ctx, http.MethodPut, path, &out, client.JSON(map[string]string{"status": status})); err != nil {
		return Report{}, errors.Wrap(err, "[Service.Resolve]")
	}
	return out, nil
}

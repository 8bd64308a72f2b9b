// Package feedback binds the app-feedback endpoints.
package feedback

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/wastelessapp/wasteless-go/client"
)

// Feedback is a user-submitted feedback entry.
type Feedback struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service wraps the feedback endpoints.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[feedback.NewService] client is required")
	}
	return &Service{client: c}, nil
}

// Submit sends feedback about the app.
func (s *Service) Submit(ctx context.Context, subject, message string) error {
	err := s.client.DoJSON(ctx, http.MethodPost, client.RouteFeedback, nil,
		client.JSON(map[string]string{"subject": subject, "message": message}))
	return errors.Wrap(err, "[Service.Submit]")
}

// List returns all feedback entries. The server restricts this to admins.
func (s *Service) List(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RouteFeedback, &out); err != nil {
		return nil, errors.Wrap(err, "[Service.List]")
	}
	return out, nil
}

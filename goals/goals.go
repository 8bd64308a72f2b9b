// Package goals binds the waste-goal and waste-log endpoints. Goals are set
// per user and category; logs record waste amounts against a goal over its
// period.
package goals

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/wastelessapp/wasteless-go/client"
)

// WasteGoal is a per-user waste-reduction target.
type WasteGoal struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Category  string    `json:"category"` // e.g. "plastic", "food", "paper"
	Target    float64   `json:"target"`
	Unit      string    `json:"unit"`   // e.g. "kg", "items"
	Period    string    `json:"period"` // e.g. "weekly", "monthly"
	CreatedAt time.Time `json:"createdAt"`
}

// WasteLog records an amount of waste against a goal.
type WasteLog struct {
	ID       int64     `json:"id"`
	GoalID   int64     `json:"goalId"`
	Amount   float64   `json:"amount"`
	Unit     string    `json:"unit"`
	Note     string    `json:"note,omitempty"`
	LoggedAt time.Time `json:"loggedAt"`
}

// Progress is the logged total measured against a goal's target.
type Progress struct {
	Goal   WasteGoal
	Logged float64
}

// Fraction reports logged/target, or 0 when the goal has no target.
func (p Progress) Fraction() float64 {
	if p.Goal.Target <= 0 {
		return 0
	}
	return p.Logged / p.Goal.Target
}

// Service wraps the waste-goal and waste-log endpoints.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[goals.NewService] client is required")
	}
	return &Service{client: c}, nil
}

func goalsPath(userID int64) string {
	return fmt.Sprintf("%s/%d/waste-goals", client.RouteUsers, userID)
}

// List returns the waste goals of a user.
func (s *Service) List(ctx context.Context, userID int64) ([]WasteGoal, error) {
	var out []WasteGoal
	if err := s.client.DoJSON(ctx, http.MethodGet, goalsPath(userID), &out); err != nil {
		return nil, errors.Wrap(err, "[Service.List]")
	}
	return out, nil
}

// Create sets a new waste goal for a user.
func (s *Service) Create(ctx context.Context, userID int64, goal WasteGoal) (WasteGoal, error) {
	var out WasteGoal
	if err := s.client.DoJSON(ctx, http.MethodPost, goalsPath(userID), &out, client.JSON(goal)); err != nil {
		return WasteGoal{}, errors.Wrap(err, "[Service.Create]")
	}
	return out, nil
}

// Update replaces a waste goal.
func (s *Service) Update(ctx context.Context, userID int64, goal WasteGoal) (WasteGoal, error) {
	var out WasteGoal
	path := fmt.Sprintf("%s/%d", goalsPath(userID), goal.ID)
	if err := s.client.DoJSON(ctx, http.MethodPut, path, &out, client.JSON(goal)); err != nil {
		return WasteGoal{}, errors.Wrap(err, "[Service.Update]")
	}
	return out, nil
}

// Delete removes a waste goal.
func (s *Service) Delete(ctx context.Context, userID, goalID int64) error {
	path := fmt.Sprintf("%s/%d", goalsPath(userID), goalID)
	err := s.client.DoJSON(ctx, http.MethodDelete, path, nil)
	return errors.Wrap(err, "[Service.Delete]")
}

// LogWaste records a waste item against a goal.
func (s *Service) LogWaste(ctx context.Context, log WasteLog) (WasteLog, error) {
	var out WasteLog
	if err := s.client.DoJSON(ctx, http.MethodPost, client.RouteLogs, &out, client.JSON(log)); err != nil {
		return WasteLog{}, errors.Wrap(err, "[Service.LogWaste]")
	}
	return out, nil
}

// Logs returns the waste logs recorded against a goal.
func (s *Service) Logs(ctx context.Context, goalID int64) ([]WasteLog, error) {
	query := url.Values{"goalId": []string{strconv.FormatInt(goalID, 10)}}

	var out []WasteLog
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RouteLogs, &out, client.Query(query)); err != nil {
		return nil, errors.Wrap(err, "[Service.Logs]")
	}
	return out, nil
}

// DeleteLog removes a waste log entry.
func (s *Service) DeleteLog(ctx context.Context, logID int64) error {
	err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", client.RouteLogs, logID), nil)
	return errors.Wrap(err, "[Service.DeleteLog]")
}

// Progress fetches a goal's logs and sums them against its target.
func (s *Service) Progress(ctx context.Context, goal WasteGoal) (Progress, error) {
	logs, err := s.Logs(ctx, goal.ID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "[Service.Progress]")
	}

	var logged float64
	for _, l := range logs {
		logged += l.Amount
	}
	return Progress{Goal: goal, Logged: logged}, nil
}

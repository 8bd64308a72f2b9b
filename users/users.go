// Package users binds the profile and follow endpoints.
package users

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/wastelessapp/wasteless-go/client"
)

// Profile is a user's public profile.
type Profile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Bio         string    `json:"bio,omitempty"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	Followers   int       `json:"followerCount"`
	Following   int       `json:"followingCount"`
	IsAdmin     bool      `json:"isAdmin"`
	IsModerator bool      `json:"isModerator"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// FollowUser is a row in a followers/following listing.
type FollowUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Service wraps the user endpoints.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[users.NewService] client is required")
	}
	return &Service{client: c}, nil
}

// Get returns a user's profile by id.
func (s *Service) Get(ctx context.Context, userID int64) (Profile, error) {
	var out Profile
	if err := s.client.DoJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%d", client.RouteUsers, userID), &out); err != nil {
		return Profile{}, errors.Wrap(err, "[Service.Get]")
	}
	return out, nil
}

// GetByUsername returns a user's profile by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (Profile, error) {
	var out Profile
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RouteUsers+"/"+username, &out); err != nil {
		return Profile{}, errors.Wrap(err, "[Service.GetByUsername]")
	}
	return out, nil
}

// UpdateBio replaces the caller's profile bio.
func (s *Service) UpdateBio(ctx context.Context, userID int64, bio string) (Profile, error) {
	var out Profile
	err := s.client.DoJSON(ctx, http.MethodPut, fmt.Sprintf("%s/%d", client.RouteUsers, userID), &out,
		client.JSON(map[string]string{"bio": bio}))
	if err != nil {
		return Profile{}, errors.Wrap(err, "[Service.UpdateBio]")
	}
	return out, nil
}

// UploadPhoto replaces the caller's profile photo via multipart upload.
func (s *Service) UploadPhoto(ctx context.Context, userID int64, photo client.FormFile) (Profile, error) {
	contentType, body, err := client.MultipartForm(nil, photo)
	if err != nil {
		return Profile{}, errors.Wrap(err, "[Service.UploadPhoto] encode multipart")
	}

	var out Profile
	path := fmt.Sprintf("%s/%d/photo", client.RouteUsers, userID)
	if err := s.client.DoJSON(ctx, http.MethodPut, path, &out, client.RawBody(contentType, body)); err != nil {
		return Profile{}, errors.Wrap(err, "[Service.UploadPhoto]")
	}
	return out, nil
}

// Follow makes the caller follow the given user.
func (s *Service) Follow(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("%s/%d/followers", client.RouteUsers, userID)
	err := s.client.DoJSON(ctx, http.MethodPost, path, nil)
	return errors.Wrap(err, "[Service.Follow]")
}

// Unfollow makes the caller unfollow the given user.
func (s *Service) Unfollow(ctx context.Context, userID int64) error {
	path := fmt.Sprintf("%s/%d/followers", client.RouteUsers, userID)
	err := s.client.DoJSON(ctx, http.MethodDelete, path, nil)
	return errors.Wrap(err, "[Service.Unfollow]")
}

// Followers lists the users following the given user.
func (s *Service) Followers(ctx context.Context, userID int64) ([]FollowUser, error) {
	var out []FollowUser
	path := fmt.Sprintf("%s/%d/followers", client.RouteUsers, userID)
	if err := s.client.DoJSON(ctx, http.MethodGet, path, &out); err != nil {
		return nil, errors.Wrap(err, "[Service.Followers]")
	}
	return out, nil
}

// Following lists the users the given user follows.
func (s *Service) Following(ctx context.Context, userID int64) ([]FollowUser, error) {
	var out []FollowUser
	path := fmt.Sprintf("%s/%d/following", client.RouteUsers, userID)
	if err := s.client.DoJSON(ctx, http.MethodGet, path, &out); err != nil {
		return nil, errors.Wrap(err, "[Service.Following]")
	}
	return out, nil
}

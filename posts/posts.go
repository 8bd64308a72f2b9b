// Package posts binds the post, like, save, and comment endpoints.
package posts

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

// Post is a feed post as returned by the API.
type Post struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Content      string    `json:"content"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	Liked        bool      `json:"liked"`
	Saved        bool      `json:"saved"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Comment belongs to a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service wraps the post endpoints.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[posts.NewService] client is required")
	}
	return &Service{client: c}, nil
}

// Feed returns a page of posts from the followed-users feed.
func (s *Service) Feed(ctx context.Context, page, size int) ([]Post, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var out []Post
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RoutePosts, &out, client.Query(query)); err != nil {
		return nil, errors.Wrap(err, "[Service.Feed]")
	}
	return out, nil
}

// Get returns a single post.
func (s *Service) Get(ctx context.Context, id int64) (Post, error) {
	var out Post
	if err := s.client.DoJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%d", client.RoutePosts, id), &out); err != nil {
		return Post{}, errors.Wrap(err, "[Service.Get]")
	}
	return out, nil
}

// Create publishes a new post. A nil photo creates a text-only post via JSON;
// with a photo the post is submitted as multipart form data, the photo part
// passed through with its own boundary content type.
func (s *Service) Create(ctx context.Context, content string, photo *client.FormFile) (Post, error) {
	var out Post

	if photo == nil {
		err := s.client.DoJSON(ctx, http.MethodPost, client.RoutePosts, &out,
			client.JSON(map[string]string{"content": content}))
		if err != nil {
			return Post{}, errors.Wrap(err, "[Service.Create]")
		}
		return out, nil
	}

	contentType, body, err := client.MultipartForm(map[string]string{"content": content}, *photo)
	if err != nil {
		return Post{}, errors.Wrap(err, "[Service.Create] encode multipart")
	}
	err = s.client.DoJSON(ctx, http.MethodPost, client.RoutePosts, &out, client.RawBody(contentType, body))
	if err != nil {
		return Post{}, errors.Wrap(err, "[Service.Create]")
	}
	return out, nil
}

// Delete removes one of the caller's own posts.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", client.RoutePosts, id), nil)
	return errors.Wrap(err, "[Service.Delete]")
}

// likeCountResponse is the body returned by the like/unlike endpoints.
type likeCountResponse struct {
	LikeCount int `json:"likeCount"`
}

// Like likes a post and returns the new like count.
func (s *Service) Like(ctx context.Context, id int64) (int, error) {
	var out likeCountResponse
	err := s.client.DoJSON(ctx, http.MethodPost, fmt.Sprintf("%s/%d/likes", client.RoutePosts, id), &out)
	if err != nil {
		return 0, errors.Wrap(err, "[Service.Like]")
	}
	return out.LikeCount, nil
}

// Unlike removes the caller's like and returns the new like count.
func (s *Service) Unlike(ctx context.Context, id int64) (int, error) {
	var out likeCountResponse
	err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d/likes", client.RoutePosts, id), &out)
	if err != nil {
		return 0, errors.Wrap(err, "[Service.Unlike]")
	}
	return out.LikeCount, nil
}

// Save bookmarks a post for the caller.
func (s *Service) Save(ctx context.Context, id int64) error {
	err := s.client.DoJSON(ctx, http.MethodPost, fmt.Sprintf("%s/%d/saves", client.RoutePosts, id), nil)
	return errors.Wrap(err, "[Service.Save]")
}

// Unsave removes a bookmark.
func (s *Service) Unsave(ctx context.Context, id int64) error {
	err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d/saves", client.RoutePosts, id), nil)
	return errors.Wrap(err, "[Service.Unsave]")
}

// Saved returns the caller's saved posts.
func (s *Service) Saved(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := s.client.DoJSON(ctx, http.MethodGet, client.RoutePosts+"/saved", &out); err != nil {
		return nil, errors.Wrap(err, "[Service.Saved]")
	}
	return out, nil
}

// Comments returns the comments of a post.
func (s *Service) Comments(ctx context.Context, postID int64) ([]Comment, error) {
	var out []Comment
	err := s.client.DoJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%d/comments", client.RoutePosts, postID), &out)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Comments]")
	}
	return out, nil
}

// AddComment posts a comment on a post.
func (s *Service) AddComment(ctx context.Context, postID int64, content string) (Comment, error) {
	var out Comment
	err := s.client.DoJSON(ctx, http.MethodPost, fmt.Sprintf("%s/%d/comments", client.RoutePosts, postID), &out,
		client.JSON(map[string]string{"content": content}))
	if err != nil {
		return Comment{}, errors.Wrap(err, "[Service.AddComment]")
	}
	return out, nil
}

// DeleteComment removes one of the caller's own comments.
func (s *Service) DeleteComment(ctx context.Context, commentID int64) error {
	err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", client.RouteComments, commentID), nil)
	return errors.Wrap(err, "[Service.DeleteComment]")
}

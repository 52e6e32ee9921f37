package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// UserService reads profiles and manages follows.
type UserService struct {
	client  *client.Client
	cookies CookieClearer
}

func NewUserService(c *client.Client, cookies CookieClearer) *UserService {
	return &UserService{client: c, cookies: cookies}
}

// Me fetches the current user's profile from the backend.
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	u, err := getJSON[models.User](ctx, s.client, "/api/users/me")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Get fetches another user's profile.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	if err := requireID(id, "user"); err != nil {
		return nil, err
	}
	u, err := getJSON[models.User](ctx, s.client, idPath("/api/users/%s", id))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Search finds users by username.
func (s *UserService) Search(ctx context.Context, username string) ([]models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: search username", shared.ErrMissingArgument)
	}
	return getJSON[[]models.User](ctx, s.client, "/api/users/search?username="+url.QueryEscape(username))
}

// IsFollowing reports whether the current user follows id.
func (s *UserService) IsFollowing(ctx context.Context, id int64) (bool, error) {
	if err := requireID(id, "user"); err != nil {
		return false, err
	}
	st, err := getJSON[models.FollowStatus](ctx, s.client, idPath("/api/users/friends/is-following/%s", id))
	return st.Following, err
}

// Follow starts following id.
func (s *UserService) Follow(ctx context.Context, id int64) error {
	if err := requireID(id, "user"); err != nil {
		return err
	}
	return postJSON(ctx, s.client, idPath("/api/users/friends/follow/%s", id), nil, nil)
}

// Unfollow stops following id.
func (s *UserService) Unfollow(ctx context.Context, id int64) error {
	if err := requireID(id, "user"); err != nil {
		return err
	}
	return deleteResource(ctx, s.client, idPath("/api/users/friends/unfollow/%s", id))
}

// Anonymize irreversibly strips the current user's personal data, then drops the local session.
func (s *UserService) Anonymize(ctx context.Context) error {
	if err := postJSON(ctx, s.client, "/api/users/anonymize-me", nil, nil); err != nil {
		return err
	}

	var errs []error
	if err := s.client.Session().Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.cookies != nil {
		if err := s.cookies.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

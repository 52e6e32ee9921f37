package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// AdminService exposes the moderation endpoints. Every call requires the stored
// user to hold the ADMIN role; the backend enforces the same rule.
type AdminService struct {
	client *client.Client
}

func NewAdminService(c *client.Client) *AdminService {
	return &AdminService{client: c}
}

func (s *AdminService) requireAdmin(ctx context.Context) error {
	u, err := currentUser(ctx, s.client)
	if err != nil {
		return err
	}
	if !u.IsAdmin() {
		return fmt.Errorf("%w: %s is not an administrator", shared.ErrForbidden, u.Username)
	}
	return nil
}

// Songs lists every song on the platform.
func (s *AdminService) Songs(ctx context.Context) ([]models.Song, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return getJSON[[]models.Song](ctx, s.client, "/api/admin/songs")
}

// Users lists every user on the platform.
func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return getJSON[[]models.User](ctx, s.client, "/api/admin/users")
}

// DeleteSong removes a song.
func (s *AdminService) DeleteSong(ctx context.Context, id int64) error {
	if err := requireID(id, "song"); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return deleteResource(ctx, s.client, idPath("/api/admin/songs/%s", id))
}

// DeleteUser removes a user account.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := requireID(id, "user"); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return deleteResource(ctx, s.client, idPath("/api/admin/users/%s", id))
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// PlaylistService manages the current user's playlists.
type PlaylistService struct {
	client *client.Client
}

func NewPlaylistService(c *client.Client) *PlaylistService {
	return &PlaylistService{client: c}
}

// Mine lists the current user's playlists.
func (s *PlaylistService) Mine(ctx context.Context) ([]models.Playlist, error) {
	return getJSON[[]models.Playlist](ctx, s.client, "/api/playlists/user")
}

// Get fetches a playlist with its songs.
func (s *PlaylistService) Get(ctx context.Context, id int64) (*models.Playlist, error) {
	if err := requireID(id, "playlist"); err != nil {
		return nil, err
	}
	p, err := getJSON[models.Playlist](ctx, s.client, idPath("/api/playlists/%s", id))
	if err != nil {
		if client.IsSessionEnded(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %d: %v", shared.ErrPlaylistNotFound, id, err)
	}
	if p.SongCount == 0 {
		p.SongCount = len(p.Songs)
	}
	return &p, nil
}

// Create makes a new playlist.
func (s *PlaylistService) Create(ctx context.Context, name string, public bool) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	var p models.Playlist
	if err := postJSON(ctx, s.client, "/api/playlists", models.CreatePlaylistRequest{Name: name, IsPublic: public}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddSong appends a song to a playlist.
func (s *PlaylistService) AddSong(ctx context.Context, playlistID, songID int64) error {
	if err := requireID(playlistID, "playlist"); err != nil {
		return err
	}
	if err := requireID(songID, "song"); err != nil {
		return err
	}
	return postJSON(ctx, s.client, "/api/playlists/songs", models.AddSongRequest{PlaylistID: playlistID, SongID: songID}, nil)
}

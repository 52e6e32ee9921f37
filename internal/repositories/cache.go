package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/sinewave/internal/models"
)

// CacheAdapter stores songs and playlists fetched from the API.
//
// Known remote IDs are refreshed in place, new ones are inserted. Unique
// constraint races between concurrent writers are treated as success.
type CacheAdapter struct {
	songs     *SongRepository
	playlists *PlaylistRepository
}

// NewCacheAdapter creates a new CacheAdapter over the given repositories
func NewCacheAdapter(songs *SongRepository, playlists *PlaylistRepository) *CacheAdapter {
	return &CacheAdapter{songs: songs, playlists: playlists}
}

// CacheSongs upserts songs by remote ID.
func (a *CacheAdapter) CacheSongs(songs []models.Song) error {
	for _, s := range songs {
		existing, err := a.songs.GetByRemoteID(s.ID)
		switch {
		case err == nil:
			existing.SetSong(s)
			if err := a.songs.Update(existing); err != nil {
				return fmt.Errorf("failed to refresh song %d: %w", s.ID, err)
			}
		case errors.Is(err, ErrNotFound):
			if err := a.songs.Create(models.NewCachedSong(s)); err != nil && !isUniqueViolation(err) {
				return fmt.Errorf("failed to cache song %d: %w", s.ID, err)
			}
		default:
			return err
		}
	}
	return nil
}

// CachePlaylists upserts playlists by remote ID.
func (a *CacheAdapter) CachePlaylists(playlists []models.Playlist) error {
	for _, p := range playlists {
		existing, err := a.playlists.GetByRemoteID(p.ID)
		switch {
		case err == nil:
			existing.SetPlaylist(p)
			if err := a.playlists.Update(existing); err != nil {
				return fmt.Errorf("failed to refresh playlist %d: %w", p.ID, err)
			}
		case errors.Is(err, ErrNotFound):
			if err := a.playlists.Create(models.NewCachedPlaylist(p)); err != nil && !isUniqueViolation(err) {
				return fmt.Errorf("failed to cache playlist %d: %w", p.ID, err)
			}
		default:
			return err
		}
	}
	return nil
}

// Songs returns cached songs, optionally filtered by a title substring.
func (a *CacheAdapter) Songs(title string) ([]models.Song, error) {
	cached, err := a.songs.List(map[string]any{"title": title})
	if err != nil {
		return nil, err
	}
	out := make([]models.Song, 0, len(cached))
	for _, c := range cached {
		out = append(out, c.Song())
	}
	return out, nil
}

// Playlists returns cached playlists.
func (a *CacheAdapter) Playlists() ([]models.Playlist, error) {
	cached, err := a.playlists.List(nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.Playlist, 0, len(cached))
	for _, c := range cached {
		out = append(out, c.Playlist())
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

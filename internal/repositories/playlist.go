package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

const playlistColumns = `id, sequence, remote_id, name, is_public, song_count, created_at, updated_at, deleted_at`

// PlaylistRepository implements models.Repository[*models.CachedPlaylist].
type PlaylistRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.CachedPlaylist] = (*PlaylistRepository)(nil)

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts playlist with a generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.CachedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	playlist.SetID(shared.GenerateID())
	playlist.SetSequence(sequence)

	p := playlist.Playlist()
	query := `
		INSERT INTO playlists (id, sequence, remote_id, name, is_public, song_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		playlist.ID(), sequence, p.ID, p.Name, p.IsPublic, p.SongCount,
		playlist.CreatedAt(), playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.CachedPlaylist, error) {
	row := r.db.QueryRow(`SELECT `+playlistColumns+` FROM playlists WHERE id = ? AND deleted_at IS NULL`, id)
	return scanPlaylist(row)
}

// GetByRemoteID retrieves a playlist by its API ID
func (r *PlaylistRepository) GetByRemoteID(remoteID int64) (*models.CachedPlaylist, error) {
	row := r.db.QueryRow(`SELECT `+playlistColumns+` FROM playlists WHERE remote_id = ? AND deleted_at IS NULL`, remoteID)
	return scanPlaylist(row)
}

// Update overwrites the cached fields of playlist
func (r *PlaylistRepository) Update(playlist *models.CachedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	p := playlist.Playlist()
	result, err := r.db.Exec(`
		UPDATE playlists
		SET name = ?, is_public = ?, song_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, p.Name, p.IsPublic, p.SongCount, now, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return checkAffected(result, "playlist", playlist.ID())
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE playlists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return checkAffected(result, "playlist", id)
}

// List retrieves live playlists. Criteria: "public" (bool).
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.CachedPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE deleted_at IS NULL`
	args := []any{}

	if public, ok := criteria["public"].(bool); ok {
		query += " AND is_public = ?"
		args = append(args, public)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.CachedPlaylist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return playlists, nil
}

func scanPlaylist(row scanner) (*models.CachedPlaylist, error) {
	var (
		id, name             string
		sequence, songCount  int
		remoteID             int64
		public               bool
		createdAt, updatedAt time.Time
		deletedAt            sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &name, &public, &songCount, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: playlist", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	p := models.NewCachedPlaylist(models.Playlist{ID: remoteID, Name: name, IsPublic: public, SongCount: songCount})
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	p.Restore(id, sequence, createdAt, updatedAt, deleted)
	return p, nil
}

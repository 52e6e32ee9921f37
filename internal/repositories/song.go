package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

const songColumns = `id, sequence, remote_id, title, artist_name, genre_name, duration, file_url, created_at, updated_at, deleted_at`

// SongRepository implements models.Repository[*models.CachedSong].
type SongRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.CachedSong] = (*SongRepository)(nil)

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts song with a generated ID and sequence
func (r *SongRepository) Create(song *models.CachedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	song.SetID(shared.GenerateID())
	song.SetSequence(sequence)

	s := song.Song()
	query := `
		INSERT INTO songs (id, sequence, remote_id, title, artist_name, genre_name, duration, file_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		song.ID(), sequence, s.ID, s.Title, s.ArtistName, s.GenreName, s.Duration, s.FileURL,
		song.CreatedAt(), song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}
	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.CachedSong, error) {
	row := r.db.QueryRow(`SELECT `+songColumns+` FROM songs WHERE id = ? AND deleted_at IS NULL`, id)
	return scanSong(row)
}

// GetByRemoteID retrieves a song by its API ID
func (r *SongRepository) GetByRemoteID(remoteID int64) (*models.CachedSong, error) {
	row := r.db.QueryRow(`SELECT `+songColumns+` FROM songs WHERE remote_id = ? AND deleted_at IS NULL`, remoteID)
	return scanSong(row)
}

// Update overwrites the cached fields of song
func (r *SongRepository) Update(song *models.CachedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	s := song.Song()
	query := `
		UPDATE songs
		SET title = ?, artist_name = ?, genre_name = ?, duration = ?, file_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query, s.Title, s.ArtistName, s.GenreName, s.Duration, s.FileURL, now, song.ID())
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	return checkAffected(result, "song", song.ID())
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE songs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return checkAffected(result, "song", id)
}

// List retrieves live songs, optionally filtered by "artist", "genre" or a "title" substring
func (r *SongRepository) List(criteria map[string]any) ([]*models.CachedSong, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE deleted_at IS NULL`
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist_name = ?"
		args = append(args, artist)
	}
	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre_name = ?"
		args = append(args, genre)
	}
	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title LIKE ?"
		args = append(args, "%"+title+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.CachedSong
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return songs, nil
}

func scanSong(row scanner) (*models.CachedSong, error) {
	var (
		id, title, artist, genre, fileURL string
		sequence, duration                int
		remoteID                          int64
		createdAt, updatedAt              time.Time
		deletedAt                         sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &title, &artist, &genre, &duration, &fileURL, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: song", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.NewCachedSong(models.Song{
		ID:         remoteID,
		Title:      title,
		ArtistName: artist,
		GenreName:  genre,
		Duration:   duration,
		FileURL:    fileURL,
	})
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	song.Restore(id, sequence, createdAt, updatedAt, deleted)
	return song, nil
}

package models

import (
	"errors"
	"time"
)

// entity carries the bookkeeping fields shared by persisted models.
type entity struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newEntity() entity {
	now := time.Now()
	return entity{createdAt: now, updatedAt: now}
}

func (e *entity) ID() string {
	return e.id
}

func (e *entity) SetID(id string) {
	e.id = id
}

func (e *entity) Sequence() int {
	return e.sequence
}

func (e *entity) SetSequence(n int) {
	e.sequence = n
}

func (e *entity) CreatedAt() time.Time {
	return e.createdAt
}

func (e *entity) UpdatedAt() time.Time {
	return e.updatedAt
}

func (e *entity) SetUpdatedAt(t time.Time) {
	e.updatedAt = t
}

func (e *entity) DeletedAt() *time.Time {
	return e.deletedAt
}

func (e *entity) IsDeleted() bool {
	return e.deletedAt != nil
}

// Restore sets the bookkeeping fields read back from storage.
func (e *entity) Restore(id string, sequence int, created, updated time.Time, deleted *time.Time) {
	e.id, e.sequence, e.createdAt, e.updatedAt, e.deletedAt = id, sequence, created, updated, deleted
}

// CachedSong is a locally cached [Song].
type CachedSong struct {
	entity
	song Song
}

// NewCachedSong wraps s for persistence.
func NewCachedSong(s Song) *CachedSong {
	return &CachedSong{entity: newEntity(), song: s}
}

func (c *CachedSong) Song() Song {
	return c.song
}

func (c *CachedSong) SetSong(s Song) {
	c.song = s
}

func (c *CachedSong) RemoteID() int64 {
	return c.song.ID
}

func (c *CachedSong) Validate() error {
	if c.song.ID <= 0 {
		return errors.New("song remote id is required")
	}
	if c.song.Title == "" {
		return errors.New("song title is required")
	}
	return nil
}

// CachedPlaylist is a locally cached [Playlist] without its songs.
type CachedPlaylist struct {
	entity
	playlist Playlist
}

// NewCachedPlaylist wraps p for persistence.
func NewCachedPlaylist(p Playlist) *CachedPlaylist {
	p.Songs = nil
	return &CachedPlaylist{entity: newEntity(), playlist: p}
}

func (c *CachedPlaylist) Playlist() Playlist {
	return c.playlist
}

func (c *CachedPlaylist) SetPlaylist(p Playlist) {
	p.Songs = nil
	c.playlist = p
}

func (c *CachedPlaylist) RemoteID() int64 {
	return c.playlist.ID
}

func (c *CachedPlaylist) Validate() error {
	if c.playlist.ID <= 0 {
		return errors.New("playlist remote id is required")
	}
	if c.playlist.Name == "" {
		return errors.New("playlist name is required")
	}
	return nil
}

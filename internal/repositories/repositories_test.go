package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "songs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for unknown sequence table")
	}
}

func TestSongRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		song := models.NewCachedSong(models.Song{ID: 5, Title: "X", ArtistName: "A", GenreName: "Rock", Duration: 200})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}
		if song.ID() == "" || song.Sequence() != 1 {
			t.Errorf("expected id and sequence to be set, got %q/%d", song.ID(), song.Sequence())
		}

		got, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Song().Title != "X" || got.RemoteID() != 5 || got.Song().Duration != 200 {
			t.Errorf("unexpected song %+v", got.Song())
		}

		byRemote, err := repo.GetByRemoteID(5)
		if err != nil {
			t.Fatalf("failed to get by remote id: %v", err)
		}
		if byRemote.ID() != song.ID() {
			t.Errorf("expected same row, got %s", byRemote.ID())
		}
	})

	t.Run("Create Invalid", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		if err := repo.Create(models.NewCachedSong(models.Song{Title: "no id"})); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		song := models.NewCachedSong(models.Song{ID: 5, Title: "X"})
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		song.SetSong(models.Song{ID: 5, Title: "X (Remastered)"})
		if err := repo.Update(song); err != nil {
			t.Fatalf("failed to update: %v", err)
		}

		got, _ := repo.Get(song.ID())
		if got.Song().Title != "X (Remastered)" {
			t.Errorf("expected updated title, got %s", got.Song().Title)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		song := models.NewCachedSong(models.Song{ID: 5, Title: "X"})
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Delete(song.ID()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get(song.ID()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(song.ID()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}

		// A soft-deleted remote id can be cached again.
		if err := repo.Create(models.NewCachedSong(models.Song{ID: 5, Title: "X"})); err != nil {
			t.Errorf("expected re-create after soft delete, got %v", err)
		}
	})

	t.Run("List With Criteria", func(t *testing.T) {
		repo := NewSongRepository(setupTestDB(t))
		for _, s := range []models.Song{
			{ID: 1, Title: "Blue Monday", ArtistName: "New Order", GenreName: "Synth"},
			{ID: 2, Title: "Blue Train", ArtistName: "Coltrane", GenreName: "Jazz"},
			{ID: 3, Title: "Giant Steps", ArtistName: "Coltrane", GenreName: "Jazz"},
		} {
			if err := repo.Create(models.NewCachedSong(s)); err != nil {
				t.Fatalf("failed to create: %v", err)
			}
		}

		tc := []struct {
			name     string
			criteria map[string]any
			want     int
		}{
			{name: "all", criteria: nil, want: 3},
			{name: "artist", criteria: map[string]any{"artist": "Coltrane"}, want: 2},
			{name: "genre", criteria: map[string]any{"genre": "Synth"}, want: 1},
			{name: "title", criteria: map[string]any{"title": "Blue"}, want: 2},
			{name: "combined", criteria: map[string]any{"title": "Blue", "artist": "Coltrane"}, want: 1},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				songs, err := repo.List(tt.criteria)
				if err != nil {
					t.Fatalf("failed to list: %v", err)
				}
				if len(songs) != tt.want {
					t.Errorf("expected %d songs, got %d", tt.want, len(songs))
				}
			})
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("CRUD", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		p := models.NewCachedPlaylist(models.Playlist{ID: 4, Name: "Mix", IsPublic: true, SongCount: 3})

		if err := repo.Create(p); err != nil {
			t.Fatalf("failed to create: %v", err)
		}

		got, err := repo.GetByRemoteID(4)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.Playlist().Name != "Mix" || !got.Playlist().IsPublic || got.Playlist().SongCount != 3 {
			t.Errorf("unexpected playlist %+v", got.Playlist())
		}

		got.SetPlaylist(models.Playlist{ID: 4, Name: "Mix 2", SongCount: 4})
		if err := repo.Update(got); err != nil {
			t.Fatalf("failed to update: %v", err)
		}

		private, err := repo.List(map[string]any{"public": false})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(private) != 1 || private[0].Playlist().Name != "Mix 2" {
			t.Errorf("expected renamed private playlist, got %d rows", len(private))
		}

		if err := repo.Delete(got.ID()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		all, _ := repo.List(nil)
		if len(all) != 0 {
			t.Errorf("expected no live playlists, got %d", len(all))
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		if _, err := repo.Get("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCacheAdapter(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCacheAdapter(NewSongRepository(db), NewPlaylistRepository(db))

	if err := cache.CacheSongs([]models.Song{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}); err != nil {
		t.Fatalf("failed to cache songs: %v", err)
	}
	if err := cache.CacheSongs([]models.Song{{ID: 2, Title: "B (Live)"}}); err != nil {
		t.Fatalf("failed to re-cache songs: %v", err)
	}

	songs, err := cache.Songs("")
	if err != nil {
		t.Fatalf("failed to list songs: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected deduplicated songs, got %d", len(songs))
	}
	if songs[1].Title != "B (Live)" {
		t.Errorf("expected refreshed title, got %s", songs[1].Title)
	}

	filtered, _ := cache.Songs("Live")
	if len(filtered) != 1 {
		t.Errorf("expected one match, got %d", len(filtered))
	}

	if err := cache.CachePlaylists([]models.Playlist{{ID: 4, Name: "Mix"}, {ID: 4, Name: "Mix"}}); err != nil {
		t.Fatalf("failed to cache playlists: %v", err)
	}
	playlists, err := cache.Playlists()
	if err != nil {
		t.Fatalf("failed to list playlists: %v", err)
	}
	if len(playlists) != 1 {
		t.Errorf("expected one playlist, got %d", len(playlists))
	}

	if err := cache.CacheSongs([]models.Song{{ID: 9}}); err == nil {
		t.Error("expected validation error for untitled song")
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sinewave/internal/formatter"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeSongs(cmd *cli.Command, songs []models.Song) error {
	r.cacheSongs(songs)
	if songs == nil {
		songs = []models.Song{}
	}
	return r.writeResult(cmd, songs, func() string {
		if len(songs) == 0 {
			return "No songs found"
		}
		return formatter.SongTable(songs)
	})
}

// SongsSearch searches songs by title.
func (r *Runner) SongsSearch(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrMissingArgument)
	}

	r.logger.Debug("searching songs", "title", title)
	songs, err := r.services.Songs.Search(ctx, title)
	if err != nil {
		return err
	}
	return r.writeSongs(cmd, songs)
}

// SongsMine lists the signed-in user's uploads.
func (r *Runner) SongsMine(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.services.Songs.Mine(ctx)
	if err != nil {
		return err
	}
	return r.writeSongs(cmd, songs)
}

// SongsByUser lists another user's uploads.
func (r *Runner) SongsByUser(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "user-id")
	if err != nil {
		return err
	}
	songs, err := r.services.Songs.ByUser(ctx, id)
	if err != nil {
		return err
	}
	return r.writeSongs(cmd, songs)
}

// SongsGet shows a single song.
func (r *Runner) SongsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	song, err := r.services.Songs.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.writeSongs(cmd, []models.Song{*song})
}

// SongsUpload sends an audio file to the media host.
func (r *Runner) SongsUpload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	r.logger.Info("uploading song", "path", path)
	resp, err := r.services.Songs.Upload(ctx, path)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}
	if resp.Song != nil {
		r.cacheSongs([]models.Song{*resp.Song})
		return r.writePlain("✓ Uploaded %s (id %d)\n", resp.Song.Title, resp.Song.ID)
	}
	if resp.Message != "" {
		return r.writePlain("✓ %s\n", resp.Message)
	}
	return r.writePlain("✓ Uploaded %s\n", path)
}

// SongsPlay downloads a song and hands it to the system player.
func (r *Runner) SongsPlay(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	song, err := r.services.Songs.Get(ctx, id)
	if err != nil {
		return err
	}

	path, err := r.services.Player.Play(ctx, *song)
	if err != nil {
		return err
	}
	r.logger.Debug("playing", "song", song.Title, "file", path)
	return r.writePlain("▶ Playing %s - %s\n", song.ArtistName, song.Title)
}

// SongsCached lists songs from the local cache without contacting the API.
func (r *Runner) SongsCached(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.cacheAdapter()
	if err != nil {
		return err
	}

	songs, err := cache.Songs(cmd.String("title"))
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	if songs == nil {
		songs = []models.Song{}
	}

	return r.writeResult(cmd, songs, func() string {
		if len(songs) == 0 {
			return "No cached songs. Listings like `sinewave songs mine` fill the cache."
		}
		return formatter.SongTable(songs)
	})
}

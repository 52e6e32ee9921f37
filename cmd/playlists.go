package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/sinewave/internal/formatter"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
	"github.com/desertthunder/sinewave/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) cachePlaylists(playlists []models.Playlist) {
	cache, err := r.cacheAdapter()
	if err != nil {
		return
	}
	if err := cache.CachePlaylists(playlists); err != nil {
		r.logger.Warn("failed to cache playlists", "error", err)
	}
}

// PlaylistsList lists the signed-in user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.services.Playlists.Mine(ctx)
	if err != nil {
		return err
	}
	r.cachePlaylists(playlists)
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	return r.writeResult(cmd, playlists, func() string {
		if len(playlists) == 0 {
			return "No playlists yet. Create one with `sinewave playlists create <name>`."
		}
		return formatter.PlaylistTable(playlists)
	})
}

// PlaylistsCreate creates a playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrMissingArgument)
	}

	p, err := r.services.Playlists.Create(ctx, name, cmd.Bool("public"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Created %s playlist %q (id %d)\n", shared.VisibilityString(p.IsPublic), p.Name, p.ID)
}

// PlaylistsAdd appends a song to a playlist.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := idArg(cmd, "playlist-id")
	if err != nil {
		return err
	}
	songID, err := idArg(cmd, "song-id")
	if err != nil {
		return err
	}

	if err := r.services.Playlists.AddSong(ctx, playlistID, songID); err != nil {
		return err
	}
	return r.writePlain("✓ Added song %d to playlist %d\n", songID, playlistID)
}

// PlaylistsShow shows a playlist with its songs.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	p, err := r.services.Playlists.Get(ctx, id)
	if err != nil {
		return err
	}
	r.cachePlaylists([]models.Playlist{*p})
	r.cacheSongs(p.Songs)

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}

	r.writePlainHeader(p.Name)
	r.writePlain("Visibility: %s\nSongs:      %d\nLength:     %s\n\n",
		shared.VisibilityString(p.IsPublic), len(p.Songs), shared.FormatDuration(p.Duration()))
	if len(p.Songs) == 0 {
		return r.writePlain("This playlist is empty\n")
	}
	return r.writePlain("%s\n", formatter.SongTable(p.Songs))
}

// PlaylistsExport exports playlists with a worker pool, printing progress as it goes.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	ids, err := r.exportIDs(ctx, cmd)
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:     r.config.Export.Format,
		OutputDir:  cmd.String("output"),
		NumWorkers: r.config.Export.Workers,
		RateLimit:  r.config.Export.RateLimit,
	}
	if f := cmd.String("format"); f != "" {
		opts.Format = f
	}
	if w := cmd.Int("workers"); w > 0 {
		opts.NumWorkers = int(w)
	}
	if rl := cmd.Float("rate-limit"); rl > 0 {
		opts.RateLimit = rl
	}

	r.logger.Info("exporting playlists", "count", len(ids), "format", opts.Format)

	progress := make(chan tasks.ProgressUpdate, len(ids)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Export(ctx, progress, ids, opts)
	close(progress)
	<-done

	if result != nil {
		r.writePlainln("Exported %d/%d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
		for _, res := range result.Results {
			if !res.Success && res.Error != nil {
				r.logger.Warn("export failed", "playlist", res.PlaylistID, "error", res.Error)
			}
		}
	}
	if err != nil {
		return err
	}

	// nothing exported: exit non-zero with the first failure
	if result.FailedExports > 0 && result.SuccessfulExports == 0 {
		for _, res := range result.Results {
			if res.Error != nil {
				return fmt.Errorf("%w: every export failed: %w", shared.ErrAPIRequest, res.Error)
			}
		}
	}
	return nil
}

func (r *Runner) exportIDs(ctx context.Context, cmd *cli.Command) ([]int64, error) {
	args := cmd.Args().Slice()
	all := cmd.Bool("all")

	if all && len(args) > 0 {
		return nil, fmt.Errorf("%w: pass playlist IDs or --all, not both", shared.ErrInvalidFlag)
	}

	if all {
		playlists, err := r.services.Playlists.Mine(ctx)
		if err != nil {
			return nil, err
		}
		r.cachePlaylists(playlists)
		ids := make([]int64, 0, len(playlists))
		for _, p := range playlists {
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: you have no playlists to export", shared.ErrPlaylistNotFound)
		}
		return ids, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one playlist ID or --all", shared.ErrMissingArgument)
	}

	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: playlist ID must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package main

import (
	"context"

	"github.com/desertthunder/sinewave/internal/formatter"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/urfave/cli/v3"
)

// AdminSongs lists every song on the backend.
func (r *Runner) AdminSongs(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.services.Admin.Songs(ctx)
	if err != nil {
		return err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return r.writeResult(cmd, songs, func() string { return formatter.SongTable(songs) })
}

// AdminUsers lists every account.
func (r *Runner) AdminUsers(ctx context.Context, cmd *cli.Command) error {
	users, err := r.services.Admin.Users(ctx)
	if err != nil {
		return err
	}
	return r.writeUsers(cmd, users)
}

func (r *Runner) AdminDeleteSong(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.services.Admin.DeleteSong(ctx, id); err != nil {
		return err
	}
	r.logger.Info("song deleted", "id", id)
	return r.writePlain("✓ Deleted song %d\n", id)
}

func (r *Runner) AdminDeleteUser(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.services.Admin.DeleteUser(ctx, id); err != nil {
		return err
	}
	r.logger.Info("user deleted", "id", id)
	return r.writePlain("✓ Deleted user %d\n", id)
}

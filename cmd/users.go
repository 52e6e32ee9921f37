package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sinewave/internal/formatter"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeUsers(cmd *cli.Command, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return r.writeResult(cmd, users, func() string {
		if len(users) == 0 {
			return "No users found"
		}
		return formatter.UserTable(users)
	})
}

// UsersMe shows the signed-in user's profile as the backend reports it.
func (r *Runner) UsersMe(ctx context.Context, cmd *cli.Command) error {
	u, err := r.services.Users.Me(ctx)
	if err != nil {
		return err
	}
	return r.writeUsers(cmd, []models.User{*u})
}

func (r *Runner) UsersGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	u, err := r.services.Users.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.writeUsers(cmd, []models.User{*u})
}

func (r *Runner) UsersSearch(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username is required", shared.ErrMissingArgument)
	}
	users, err := r.services.Users.Search(ctx, username)
	if err != nil {
		return err
	}
	return r.writeUsers(cmd, users)
}

func (r *Runner) UsersFollow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.services.Users.Follow(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Following user %d\n", id)
}

func (r *Runner) UsersUnfollow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.services.Users.Unfollow(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Unfollowed user %d\n", id)
}

// UsersFollowing reports whether the signed-in user follows another user.
func (r *Runner) UsersFollowing(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	following, err := r.services.Users.IsFollowing(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.FollowStatus{Following: following}, cmd.Bool("pretty"))
	}
	if following {
		return r.writePlain("You follow user %d\n", id)
	}
	return r.writePlain("You do not follow user %d\n", id)
}

// UsersAnonymize scrubs the account's personal data. It signs the user out.
func (r *Runner) UsersAnonymize(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: anonymization cannot be undone, pass --yes to confirm", shared.ErrMissingArgument)
	}
	if err := r.services.Users.Anonymize(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Account anonymized and signed out\n")
}

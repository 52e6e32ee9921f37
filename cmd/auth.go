package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in and stores the returned session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")
	if password == "" {
		return fmt.Errorf("%w: --password (or SINEWAVE_PASSWORD) is required", shared.ErrMissingArgument)
	}

	r.logger.Info("signing in", "username", username)

	user, err := r.services.Auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", user.DisplayName())
}

// AuthRegister creates an account. When the backend also returns a session the user is signed in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	req := models.RegisterRequest{
		Firstname: cmd.String("firstname"),
		Lastname:  cmd.String("lastname"),
		Username:  cmd.String("username"),
		Email:     cmd.String("email"),
		Password:  cmd.String("password"),
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	user, signedIn, err := r.services.Auth.Register(ctx, req)
	if err != nil {
		return err
	}

	if !signedIn {
		return r.writePlain("✓ Account created. Run `sinewave auth login` to sign in.\n")
	}
	return r.writePlain("✓ Account created, signed in as %s\n", user.DisplayName())
}

// AuthLogout ends the session on the backend and clears local state.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.services.Auth.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthRefresh renews the access token through the refresh cookie.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	user, err := r.services.Auth.Refresh(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return err
		}
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return r.writePlain("✓ Session renewed for %s\n", user.DisplayName())
}

type statusOutput struct {
	LoggedIn  bool         `json:"logged_in"`
	User      *models.User `json:"user,omitempty"`
	Subject   string       `json:"subject,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Expired   bool         `json:"expired"`
}

// AuthStatus shows the stored session without contacting the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	st, err := r.services.Auth.Status(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := statusOutput{LoggedIn: st.LoggedIn, Subject: st.Subject, ExpiresAt: st.ExpiresAt, Expired: st.Expired}
		if st.LoggedIn {
			out.User = &st.User
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if !st.LoggedIn {
		return r.writePlain("Not signed in\n")
	}

	r.writePlainHeader("Session")
	r.writePlain("User:     %s (%s)\n", st.User.Username, st.User.DisplayName())
	if st.User.Role != "" {
		r.writePlain("Role:     %s\n", st.User.Role)
	}
	if st.ExpiresAt != nil {
		state := "valid"
		if st.Expired {
			state = "expired, renews on next request"
		}
		r.writePlain("Expires:  %s (%s)\n", st.ExpiresAt.Local().Format(time.RFC1123), state)
	}
	return nil
}

// package services implements the SineWave REST API on top of the authenticated request client
package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/shared"
)

// CookieClearer drops persisted cookies on logout.
type CookieClearer interface {
	Clear() error
}

// Options configures [New].
type Options struct {
	MediaURL string
	Cookies  CookieClearer
	Logger   *log.Logger
	// Opener hands downloaded media to the OS. Defaults to [shared.OpenDefault].
	Opener func(path string) error
}

// Services bundles every API service over one [client.Client].
type Services struct {
	Auth      *AuthService
	Songs     *SongService
	Playlists *PlaylistService
	Users     *UserService
	Admin     *AdminService
	API       *APIService
	Player    *Player
}

// New wires all services to c.
func New(c *client.Client, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Services{
		Auth:      NewAuthService(c, opts.Cookies, opts.Logger),
		Songs:     NewSongService(c, opts.MediaURL),
		Playlists: NewPlaylistService(c),
		Users:     NewUserService(c, opts.Cookies),
		Admin:     NewAdminService(c),
		API:       NewAPIService(c),
		Player:    NewPlayer(c.Session(), opts.MediaURL, opts.Opener, opts.Logger),
	}
}

// call performs req and decodes a successful JSON response into out (when non-nil).
func call(ctx context.Context, c *client.Client, target string, req client.Request, out any) error {
	resp, err := c.Do(ctx, target, req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	return resp.Decode(out)
}

func getJSON[T any](ctx context.Context, c *client.Client, target string) (T, error) {
	var out T
	err := call(ctx, c, target, client.Request{Method: http.MethodGet}, &out)
	return out, err
}

func postJSON(ctx context.Context, c *client.Client, target string, body, out any) error {
	req := client.Request{Method: http.MethodPost}
	if body != nil {
		req.Body = client.JSONBody(body)
	}
	return call(ctx, c, target, req, out)
}

func deleteResource(ctx context.Context, c *client.Client, target string) error {
	return call(ctx, c, target, client.Request{Method: http.MethodDelete}, nil)
}

func requireID(id int64, what string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s id must be positive", shared.ErrInvalidArgument, what)
	}
	return nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, strconv.FormatInt(id, 10))
}

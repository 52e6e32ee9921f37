package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/session"
	"github.com/desertthunder/sinewave/internal/shared"
)

// Player downloads a song's audio file with the session's bearer token and opens it locally.
//
// Media downloads bypass the renewal protocol: a 401 here is reported, not retried.
type Player struct {
	session  session.Manager
	mediaURL string
	opener   func(string) error
	logger   *log.Logger
	dir      string
}

func NewPlayer(m session.Manager, mediaURL string, opener func(string) error, logger *log.Logger) *Player {
	if opener == nil {
		opener = shared.OpenDefault
	}
	return &Player{session: m, mediaURL: strings.TrimRight(mediaURL, "/"), opener: opener, logger: logger, dir: os.TempDir()}
}

// Download fetches song's audio into the player's directory and returns the file path.
//
// An HTTP client carried in ctx under [oauth2.HTTPClient] is used as the base transport.
func (p *Player) Download(ctx context.Context, song models.Song) (string, error) {
	src, err := p.sourceURL(song)
	if err != nil {
		return "", err
	}

	httpClient := oauth2.NewClient(ctx, session.NewTokenSource(ctx, p.session))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: download returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	dst := filepath.Join(p.dir, fmt.Sprintf("sinewave-%d%s", song.ID, extension(src)))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}

	_, err = io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A partial download is never handed to the player.
		os.Remove(dst)
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return dst, nil
}

// Play downloads song and hands the file to the system player.
func (p *Player) Play(ctx context.Context, song models.Song) (string, error) {
	dst, err := p.Download(ctx, song)
	if err != nil {
		return "", err
	}
	p.logger.Info("playing", "title", song.Title, "file", dst)
	if err := p.opener(dst); err != nil {
		return dst, err
	}
	return dst, nil
}

func (p *Player) sourceURL(song models.Song) (string, error) {
	if song.FileURL == "" {
		return "", fmt.Errorf("%w: song %d has no audio file", shared.ErrSongNotFound, song.ID)
	}
	ref, err := url.Parse(song.FileURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid file URL %q", shared.ErrInvalidInput, song.FileURL)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if p.mediaURL == "" {
		return "", fmt.Errorf("%w: api.media_url is required to resolve %q", shared.ErrMissingConfig, song.FileURL)
	}
	return p.mediaURL + "/" + strings.TrimLeft(song.FileURL, "/"), nil
}

func extension(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ".mp3"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".mp3"
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// SongService searches, lists and uploads songs.
type SongService struct {
	client   *client.Client
	mediaURL string
}

func NewSongService(c *client.Client, mediaURL string) *SongService {
	return &SongService{client: c, mediaURL: strings.TrimRight(mediaURL, "/")}
}

// Search finds songs whose title matches title.
func (s *SongService) Search(ctx context.Context, title string) ([]models.Song, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: search title", shared.ErrMissingArgument)
	}
	return getJSON[[]models.Song](ctx, s.client, "/api/songs/search?title="+url.QueryEscape(title))
}

// Mine lists songs uploaded by the current user.
func (s *SongService) Mine(ctx context.Context) ([]models.Song, error) {
	return getJSON[[]models.Song](ctx, s.client, "/api/user/songs")
}

// ByUser lists songs uploaded by another user.
func (s *SongService) ByUser(ctx context.Context, userID int64) ([]models.Song, error) {
	if err := requireID(userID, "user"); err != nil {
		return nil, err
	}
	return getJSON[[]models.Song](ctx, s.client, idPath("/api/songs/user/%s", userID))
}

// Get fetches a single song.
func (s *SongService) Get(ctx context.Context, id int64) (*models.Song, error) {
	if err := requireID(id, "song"); err != nil {
		return nil, err
	}
	song, err := getJSON[models.Song](ctx, s.client, idPath("/api/songs/%s", id))
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// Upload sends an audio file to the media host as the multipart field "file".
func (s *SongService) Upload(ctx context.Context, path string) (*models.UploadResponse, error) {
	if s.mediaURL == "" {
		return nil, fmt.Errorf("%w: api.media_url is required for uploads", shared.ErrMissingConfig)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	resp, err := s.client.Upload(ctx, s.mediaURL+"/upload", nil,
		client.FilePart{Field: "file", Filename: filepath.Base(path), Content: f})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var out models.UploadResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		out.Message = strings.TrimSpace(string(resp.Body))
	}
	if out.Message == "" {
		out.Message = "Uploaded: " + filepath.Base(path)
	}
	return &out, nil
}

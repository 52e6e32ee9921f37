package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/services"
	"github.com/desertthunder/sinewave/internal/shared"
)

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains the signed-in user's library as returned by the API.
type DumpResult struct {
	Profile   any              // /api/users/me
	Songs     any              // Uploaded songs
	Playlists any              // Own playlists
	Errors    []EndpointResult // Failed endpoint fetches
}

// DumpData is the JSON form of a [DumpResult].
type DumpData struct {
	Profile   any              `json:"profile,omitempty"`
	Songs     any              `json:"songs,omitempty"`
	Playlists any              `json:"playlists,omitempty"`
	Errors    []DumpErrorEntry `json:"errors,omitempty"`
}

// DumpErrorEntry names a failed endpoint.
type DumpErrorEntry struct {
	Endpoint string `json:"endpoint"`
	Error    string `json:"error"`
}

// Data converts r to its JSON form.
func (r *DumpResult) Data() DumpData {
	d := DumpData{Profile: r.Profile, Songs: r.Songs, Playlists: r.Playlists}
	for _, e := range r.Errors {
		d.Errors = append(d.Errors, DumpErrorEntry{Endpoint: e.Endpoint, Error: e.Error.Error()})
	}
	return d
}

type endpointOperation struct {
	path    string
	target  *any
	phase   Phase
	message string
}

// PlaylistFetcher loads a playlist together with its songs.
type PlaylistFetcher interface {
	Get(ctx context.Context, id int64) (*models.Playlist, error)
}

// APIClient defines the interface for making raw API requests.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// Cacher persists fetched songs and playlists.
type Cacher interface {
	CacheSongs(songs []models.Song) error
	CachePlaylists(playlists []models.Playlist) error
}

// LibraryEngine runs export and dump operations against the API.
type LibraryEngine struct {
	playlists PlaylistFetcher
	api       APIClient
	cache     Cacher
}

// NewLibraryEngine creates a new LibraryEngine. Either dependency may be nil, in which case the operation that needs it fails with [shared.ErrServiceUnavailable].
func NewLibraryEngine(playlists PlaylistFetcher, api APIClient) *LibraryEngine {
	return &LibraryEngine{playlists: playlists, api: api}
}

// SetCache enables caching of exported playlists.
func (e *LibraryEngine) SetCache(c Cacher) {
	e.cache = c
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *LibraryEngine) cachePlaylist(p *models.Playlist) {
	if e.cache == nil {
		return
	}
	_ = e.cache.CachePlaylists([]models.Playlist{*p})
	if len(p.Songs) > 0 {
		_ = e.cache.CacheSongs(p.Songs)
	}
}

// Dump fetches the profile, uploaded songs and playlists of the signed-in user.
//
// Endpoint failures are collected in [DumpResult.Errors]. A session that ends
// mid-dump stops the run since every later request would fail the same way.
func (e *LibraryEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{Errors: []EndpointResult{}}

	endpoints := []endpointOperation{
		{path: "/api/users/me", target: &result.Profile, phase: FetchProfile, message: "Fetching profile..."},
		{path: "/api/user/songs", target: &result.Songs, phase: FetchSongs, message: "Fetching songs..."},
		{path: "/api/playlists/user", target: &result.Playlists, phase: FetchPlaylists, message: "Fetching playlists..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		switch {
		case err != nil:
			if client.IsSessionEnded(err) {
				return result, err
			}
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.path, Error: err})
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode),
			})
		default:
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}

package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/services"
)

// Library is the subset of the API the TUI drives.
type Library interface {
	Search(ctx context.Context, title string) ([]models.Song, error)
	MySongs(ctx context.Context) ([]models.Song, error)
	Playlists(ctx context.Context) ([]models.Playlist, error)
	Playlist(ctx context.Context, id int64) (*models.Playlist, error)
	AddSong(ctx context.Context, playlistID, songID int64) error
	Play(ctx context.Context, song models.Song) (string, error)
}

type serviceLibrary struct {
	svc *services.Services
}

// NewLibrary adapts the API services to [Library].
func NewLibrary(svc *services.Services) Library {
	return serviceLibrary{svc: svc}
}

func (l serviceLibrary) Search(ctx context.Context, title string) ([]models.Song, error) {
	return l.svc.Songs.Search(ctx, title)
}

func (l serviceLibrary) MySongs(ctx context.Context) ([]models.Song, error) {
	return l.svc.Songs.Mine(ctx)
}

func (l serviceLibrary) Playlists(ctx context.Context) ([]models.Playlist, error) {
	return l.svc.Playlists.Mine(ctx)
}

func (l serviceLibrary) Playlist(ctx context.Context, id int64) (*models.Playlist, error) {
	return l.svc.Playlists.Get(ctx, id)
}

func (l serviceLibrary) AddSong(ctx context.Context, playlistID, songID int64) error {
	return l.svc.Playlists.AddSong(ctx, playlistID, songID)
}

func (l serviceLibrary) Play(ctx context.Context, song models.Song) (string, error) {
	return l.svc.Player.Play(ctx, song)
}

// Navigator forwards session terminations to a running program as a switch to [LoginView].
//
// Terminations before [Navigator.Attach] or after the program exits are dropped.
type Navigator struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach directs subsequent terminations to p. Pass nil to detach.
func (n *Navigator) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// ToLogin implements client.Navigator.
func (n *Navigator) ToLogin(_ context.Context, reason error) {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()

	if p != nil {
		go p.Send(loginRequiredMsg(reason))
	}
}

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongsView ViewState = iota
	PlaylistsView
	PlaylistSongsView
	LoginView
)

func (v ViewState) String() string {
	switch v {
	case SongsView:
		return "songs"
	case PlaylistsView:
		return "playlists"
	case PlaylistSongsView:
		return "playlist_songs"
	case LoginView:
		return "login"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	lib           Library
	logger        *log.Logger
	width         int
	height        int
	songList      list.Model
	playlistList  list.Model
	playlistSongs list.Model
	search        textinput.Model
	searching     bool
	status        string
	statusErr     bool
	loginReason   error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, lib Library, logger *log.Logger) *Model {
	search := textinput.New()
	search.Placeholder = "song title"
	search.Prompt = "/ "

	return &Model{
		ctx:           ctx,
		view:          SongsView,
		lib:           lib,
		logger:        logger,
		songList:      newList("My Songs", nil, 0, 0),
		playlistList:  newList("My Playlists", nil, 0, 0),
		playlistSongs: newList("Playlist", nil, 0, 0),
		search:        search,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// CurrentView reports the active view.
func (m *Model) CurrentView() ViewState {
	return m.view
}

// Init loads the user's songs and playlists.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchMySongs(), m.fetchPlaylists())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.songList, &m.playlistList, &m.playlistSongs} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLoginRequired:
		reason, _ := msg.data.(error)
		m.toLogin(reason)
		return m, nil

	case MsgSongsFetched:
		res := msg.data.(songsResult)
		if m.failed(res.err) {
			return m, nil
		}
		m.songList.Title = res.title
		cmd := m.songList.SetItems(songItems(res.songs))
		m.songList.ResetSelected()
		m.setStatus(fmt.Sprintf("%d songs", len(res.songs)))
		return m, cmd

	case MsgPlaylistsFetched:
		res := msg.data.(playlistsResult)
		if m.failed(res.err) {
			return m, nil
		}
		return m, m.playlistList.SetItems(playlistItems(res.playlists))

	case MsgPlaylistFetched:
		res := msg.data.(playlistResult)
		if m.failed(res.err) {
			return m, nil
		}
		m.playlistSongs.Title = fmt.Sprintf("%s (%s)", res.playlist.Name, shared.FormatDuration(res.playlist.Duration()))
		cmd := m.playlistSongs.SetItems(songItems(res.playlist.Songs))
		m.playlistSongs.ResetSelected()
		m.view = PlaylistSongsView
		return m, cmd

	case MsgSongAdded, MsgPlayed:
		res := msg.data.(actionResult)
		if m.failed(res.err) {
			return m, nil
		}
		m.setStatus(res.message)
		if msg.kind == MsgSongAdded {
			return m, m.fetchPlaylists()
		}
		return m, nil
	}
	return m, nil
}

// failed routes err to the login view or the status line and reports whether there was one.
func (m *Model) failed(err error) bool {
	if err == nil {
		return false
	}
	if client.IsSessionEnded(err) {
		m.toLogin(err)
		return true
	}
	if m.logger != nil {
		m.logger.Error("request failed", "view", m.view, "error", err)
	}
	m.status = err.Error()
	m.statusErr = true
	return true
}

func (m *Model) toLogin(reason error) {
	if m.logger != nil {
		m.logger.Warn("session ended", "reason", reason)
	}
	m.view = LoginView
	m.loginReason = reason
	m.searching = false
	m.search.Blur()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	if m.view == LoginView {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.search):
		m.view = SongsView
		m.searching = true
		m.search.SetValue("")
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.tab):
		if m.view == SongsView {
			m.view = PlaylistsView
		} else {
			m.view = SongsView
		}
		return m, nil

	case key.Matches(msg, m.keys.back):
		switch m.view {
		case PlaylistSongsView:
			m.view = PlaylistsView
		case SongsView:
			return m, m.fetchMySongs()
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if m.view == PlaylistsView {
			if p, ok := m.selectedPlaylist(); ok {
				return m, m.fetchPlaylist(p.ID)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.play):
		if s, ok := m.selectedSong(); ok {
			m.setStatus(fmt.Sprintf("Loading %s...", s.Title))
			return m, m.play(s)
		}
		return m, nil

	case key.Matches(msg, m.keys.add):
		if m.view != SongsView {
			return m, nil
		}
		s, ok := m.selectedSong()
		if !ok {
			return m, nil
		}
		p, ok := m.selectedPlaylist()
		if !ok {
			m.status = "no playlist selected, pick one in the playlists view"
			m.statusErr = true
			return m, nil
		}
		return m, m.addSong(p, s)
	}

	return m.updateList(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		query := strings.TrimSpace(m.search.Value())
		if query == "" {
			return m, m.fetchMySongs()
		}
		return m, m.fetchSearch(query)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SongsView:
		m.songList, cmd = m.songList.Update(msg)
	case PlaylistsView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case PlaylistSongsView:
		m.playlistSongs, cmd = m.playlistSongs.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedSong() (models.Song, bool) {
	var item list.Item
	switch m.view {
	case SongsView:
		item = m.songList.SelectedItem()
	case PlaylistSongsView:
		item = m.playlistSongs.SelectedItem()
	}
	if s, ok := item.(songItem); ok {
		return s.song, true
	}
	return models.Song{}, false
}

// selectedPlaylist is the highlighted entry of the playlists view, which is also the target of "add".
func (m *Model) selectedPlaylist() (models.Playlist, bool) {
	if p, ok := m.playlistList.SelectedItem().(playlistItem); ok {
		return p.playlist, true
	}
	return models.Playlist{}, false
}

func (m *Model) fetchMySongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.lib.MySongs(m.ctx)
		return songsFetchedMsg("My Songs", songs, err)
	}
}

func (m *Model) fetchSearch(query string) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.lib.Search(m.ctx, query)
		return songsFetchedMsg(fmt.Sprintf("Search: %s", query), songs, err)
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.lib.Playlists(m.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchPlaylist(id int64) tea.Cmd {
	return func() tea.Msg {
		p, err := m.lib.Playlist(m.ctx, id)
		return playlistFetchedMsg(p, err)
	}
}

func (m *Model) addSong(p models.Playlist, s models.Song) tea.Cmd {
	return func() tea.Msg {
		err := m.lib.AddSong(m.ctx, p.ID, s.ID)
		return songAddedMsg(fmt.Sprintf("Added %s to %s", s.Title, p.Name), err)
	}
}

func (m *Model) play(s models.Song) tea.Cmd {
	return func() tea.Msg {
		_, err := m.lib.Play(m.ctx, s)
		return playedMsg(fmt.Sprintf("Playing %s", s.Title), err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	var keys []key.Binding

	switch m.view {
	case LoginView:
		return m.renderLogin()
	case SongsView:
		body = m.songList.View()
		keys = []key.Binding{m.keys.search, m.keys.play, m.keys.add, m.keys.tab, m.keys.quit}
		if m.searching {
			body = m.search.View() + "\n\n" + body
		}
	case PlaylistsView:
		body = m.playlistList.View()
		keys = []key.Binding{m.keys.enter, m.keys.tab, m.keys.quit}
	case PlaylistSongsView:
		body = m.playlistSongs.View()
		keys = []key.Binding{m.keys.play, m.keys.back, m.keys.quit}
	}

	return fmt.Sprintf("%s\n%s\n\n%s", body, m.renderStatus(), m.help.ShortHelpView(keys))
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.failure.Render(m.status)
	}
	return styles.status.Render(m.status)
}

func (m *Model) renderLogin() string {
	title := styles.heading.Render("Session ended")
	reason := ""
	if m.loginReason != nil {
		reason = styles.notice.Render(m.loginReason.Error()) + "\n\n"
	}
	hint := styles.hint.Render("Run `sinewave auth login` to sign in again.")
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, reason, hint, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sinewave/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsFetched MsgKind = iota
	MsgPlaylistsFetched
	MsgPlaylistFetched
	MsgSongAdded
	MsgPlayed
	MsgLoginRequired
)

type songsResult struct {
	title string
	songs []models.Song
	err   error
}

type playlistsResult struct {
	playlists []models.Playlist
	err       error
}

type playlistResult struct {
	playlist *models.Playlist
	err      error
}

type actionResult struct {
	message string
	err     error
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(title string, songs []models.Song, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsResult{title, songs, err}}
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsResult{playlists, err}}
}

// playlistFetchedMsg is the constructor for [MsgPlaylistFetched]
func playlistFetchedMsg(p *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistFetched, data: playlistResult{p, err}}
}

// songAddedMsg is the constructor for [MsgSongAdded]
func songAddedMsg(message string, err error) Msg {
	return Msg{kind: MsgSongAdded, data: actionResult{message, err}}
}

// playedMsg is the constructor for [MsgPlayed]
func playedMsg(message string, err error) Msg {
	return Msg{kind: MsgPlayed, data: actionResult{message, err}}
}

// loginRequiredMsg is the constructor for [MsgLoginRequired]
func loginRequiredMsg(reason error) Msg {
	return Msg{kind: MsgLoginRequired, data: reason}
}

// Package ui implements an interactive terminal client using bubbletea's Elm architecture.
//
// The TUI provides four views:
//  1. [SongsView] : Uploaded songs or search results, with playback
//  2. [PlaylistsView] : The signed-in user's playlists
//  3. [PlaylistSongsView] : Songs of the opened playlist
//  4. [LoginView] : Shown once the session has ended
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every request goes through the authenticated client, so an expired access token is renewed transparently.
// When renewal fails the client's navigator ([Navigator]) switches the program to [LoginView].
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui

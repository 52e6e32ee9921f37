// Package models defines the data model of the sinewave client.
//
// The package contains two categories of types:
//
// 1. API schemas: request and response bodies exchanged with the SineWave backend
//   - [AuthResponse] : token and user returned by login, register and refresh
//   - [User] : typed view over the opaque user profile
//   - [Song], [Playlist], [FollowStatus] : resource payloads
//   - [LoginRequest], [RegisterRequest], [CreatePlaylistRequest], [AddSongRequest]
//
// 2. Persistent entities: locally cached copies of API resources
//   - [CachedSong] : a song seen in a listing, keyed by its remote ID
//   - [CachedPlaylist] : a playlist seen in a listing
//
// Persistent entities implement the [Model] interface and are stored through a [Repository].
package models

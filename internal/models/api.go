package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIncompleteAuth is returned when an auth response lacks its token or user.
var ErrIncompleteAuth = errors.New("auth response missing token or user")

// RoleAdmin is the role carried by administrator accounts.
const RoleAdmin = "ADMIN"

// AuthResponse is the body returned by login, register and refresh.
//
// User is kept as raw JSON: the client stores and forwards it without interpreting it.
type AuthResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Validate reports whether both token and user are present.
func (r AuthResponse) Validate() error {
	if r.Token == "" || !HasUser(r.User) {
		return ErrIncompleteAuth
	}
	return nil
}

// HasUser reports whether raw holds a user value rather than nothing or null.
func HasUser(raw json.RawMessage) bool {
	s := string(raw)
	return s != "" && s != "null"
}

// User is a typed view over a user profile.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// ParseUser decodes a stored user profile.
func ParseUser(raw json.RawMessage) (User, error) {
	var u User
	if !HasUser(raw) {
		return u, ErrIncompleteAuth
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return u, fmt.Errorf("failed to decode user: %w", err)
	}
	return u, nil
}

// IsAdmin reports whether the user has the administrator role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	switch {
	case u.Firstname != "" && u.Lastname != "":
		return u.Firstname + " " + u.Lastname
	case u.Firstname != "":
		return u.Firstname
	default:
		return u.Username
	}
}

// Song is a track hosted by SineWave. Duration is in seconds.
type Song struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artistName,omitempty"`
	GenreName  string `json:"genreName,omitempty"`
	Duration   int    `json:"duration,omitempty"`
	FileURL    string `json:"fileUrl,omitempty"`
	UploaderID int64  `json:"uploaderId,omitempty"`
}

// Playlist is a named, ordered collection of songs.
type Playlist struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsPublic  bool   `json:"isPublic"`
	SongCount int    `json:"songCount"`
	Songs     []Song `json:"songs,omitempty"`
}

// Duration sums the duration of the playlist's songs.
func (p Playlist) Duration() int {
	total := 0
	for _, s := range p.Songs {
		total += s.Duration
	}
	return total
}

// FollowStatus is returned by the is-following endpoint.
type FollowStatus struct {
	Following bool `json:"following"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate checks the fields the backend requires.
func (r RegisterRequest) Validate() error {
	if r.Username == "" || r.Password == "" || r.Email == "" {
		return errors.New("username, email and password are required")
	}
	return nil
}

// CreatePlaylistRequest is the body of POST /api/playlists.
type CreatePlaylistRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"isPublic"`
}

// AddSongRequest is the body of POST /api/playlists/songs.
type AddSongRequest struct {
	PlaylistID int64 `json:"playlistId"`
	SongID     int64 `json:"songId"`
}

// APIError is the error body the backend returns with non-2xx statuses.
type APIError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Text returns the most descriptive message available.
func (e APIError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// UploadResponse is returned by the media host after an upload.
type UploadResponse struct {
	Message string `json:"message,omitempty"`
	Song    *Song  `json:"song,omitempty"`
	FileURL string `json:"fileUrl,omitempty"`
}

// Package services implements the SineWave REST API on top of [client.Client].
//
// # Services
//
// Each resource family has its own service, bundled by [Services]:
//   - [AuthService] : login, registration, logout, explicit refresh and session status
//   - [SongService] : search, listings and multipart uploads to the media host
//   - [PlaylistService] : the current user's playlists
//   - [UserService] : profiles, follows and account anonymization
//   - [AdminService] : moderation endpoints, gated on the ADMIN role
//   - [APIService] : raw access to arbitrary paths
//   - [Player] : authenticated media download and local playback
//
// # Authentication
//
// Every call except media downloads goes through the client's renewal protocol,
// so an expired token is renewed transparently. When renewal is impossible the
// call fails with [shared.ErrRefreshFailed] or [shared.ErrSessionExpired] and the
// session is already cleared.
//
// The [Player] authenticates with an [oauth2.TokenSource] over the stored session.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : non-2xx response, with the backend's message when present
//   - [shared.ErrAuthFailed] : wrong username or password
//   - [shared.ErrForbidden] : admin call without the ADMIN role
//   - [shared.ErrNotAuthenticated] : no stored session
//   - [shared.ErrMalformedResponse] : body did not match the expected schema
//   - [shared.ErrTransport] : the request never completed
package services

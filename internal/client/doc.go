// Package client implements the authenticated request client used for every call
// to the SineWave API.
//
// [Client.Do] attaches the current access token, sends the request with the
// session cookie jar and, when the server answers 401, renews the token once
// through POST /api/auth/refresh and resends the identical request. A second 401
// or a failed renewal terminates the session: the logout endpoint is notified on
// a best-effort basis, the session is cleared and the [Navigator] is sent to the
// login view. Callers therefore never observe a raw 401 from a protected endpoint.
//
// Concurrent calls that hit 401 at the same time share one renewal.
//
// Responses from the auth endpoints themselves (login, register, refresh and
// logout) are returned as-is, whatever their status.
package client

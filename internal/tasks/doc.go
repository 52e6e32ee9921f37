// Package tasks runs multi-request library operations with real-time progress reporting.
//
// # Core Operations
//
// [LibraryEngine] provides two operations:
//
//  1. [LibraryEngine.Export] : Export playlists to disk
//     - Fetches each playlist (with songs) through the authenticated client
//     - Writes json, csv, markdown or txt files from a bounded worker pool
//     - Shares one rate limiter between workers
//     - Writes export_manifest.json summarizing successes and failures
//
//  2. [LibraryEngine.Dump] : Snapshot the signed-in user's library
//     - Retrieves profile, uploaded songs and playlists
//     - Collects per-endpoint failures instead of aborting
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Caching
//
// The optional [Cacher] receives every exported playlist and its songs so they can be browsed offline.
// Cache errors are ignored so they never fail an export.
package tasks

// Package repositories caches API resources in the local SQLite database.
//
// [SongRepository] and [PlaylistRepository] implement models.Repository for
// [models.CachedSong] and [models.CachedPlaylist]. Rows are soft deleted and carry
// a per-table sequence number. [CacheAdapter] feeds listings fetched from the API
// into the repositories, deduplicating by remote ID.
package repositories

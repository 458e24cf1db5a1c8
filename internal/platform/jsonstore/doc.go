// Package jsonstore implements the store interfaces over three JSON
// containers, one per entity kind (creators.json, content_sets.json,
// cards.json), under a single data directory.
//
// Each container is read fully into memory on first access and kept cached
// until a write to that kind replaces it. Writes are full-container
// rewrites staged to a temporary file and atomically renamed into place, so
// a crash mid-write leaves the prior container intact. Each kind has its
// own lock: reads never block on writes to a different kind.
package jsonstore

package driven

import (
	"context"

	"github.com/m3uhub/iptvd/internal/playlist"
)

// PlaylistRepository defines the persistence contract for playlists. It is a
// driven port with two interchangeable adapters: an embedded BoltDB store and
// an external MongoDB store. Callers must observe identical semantics from
// both; the backend is selected once at process startup.
type PlaylistRepository interface {
	// Insert stores a playlist under the given key, overwriting any
	// previous value.
	Insert(ctx context.Context, id string, pl playlist.Playlist) error

	// InsertMany stores a batch of playlists, each keyed by its own
	// StorageID.
	InsertMany(ctx context.Context, pls []playlist.Playlist) error

	// Find retrieves a playlist by key. Returns
	// playlist.ErrPlaylistNotFound if the key is absent; any other error
	// is a backend failure.
	Find(ctx context.Context, id string) (playlist.Playlist, error)

	// FindAll retrieves every stored playlist. The result is never nil.
	// The full keyspace is read in one pass; there is no pagination.
	FindAll(ctx context.Context) ([]playlist.Playlist, error)

	// Update applies a shallow top-level merge of patch onto the stored
	// entity (playlist.MergeTopLevel semantics: provided fields replace
	// matching top-level fields, nested structures wholesale) and returns
	// the updated entity. Returns playlist.ErrPlaylistNotFound if the key
	// is absent, without mutating anything.
	Update(ctx context.Context, id string, patch map[string]any) (playlist.Playlist, error)

	// Delete removes a playlist by key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every stored playlist.
	DeleteAll(ctx context.Context) error

	// Ping checks that the backend is reachable and operational.
	Ping(ctx context.Context) error

	// Close releases the backend connection or file handle. The handle is
	// process-scoped: acquired once at startup, closed on shutdown.
	Close(ctx context.Context) error
}

package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/m3uhub/iptvd/internal/metrics"
	"github.com/m3uhub/iptvd/internal/playlist"
)

const playlistsBucket = "playlists"

// PlaylistBoltRepository implements the PlaylistRepository port on an
// embedded BoltDB file. Entities are stored as JSON under their StorageID.
type PlaylistBoltRepository struct {
	db *bbolt.DB
}

// NewPlaylistBoltRepository creates a BoltDB-backed playlist repository.
// It initializes the required bucket if it doesn't exist.
func NewPlaylistBoltRepository(db *bbolt.DB) (*PlaylistBoltRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(playlistsBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &PlaylistBoltRepository{db: db}, nil
}

// Insert stores a playlist as JSON under the given key.
func (r *PlaylistBoltRepository) Insert(ctx context.Context, id string, pl playlist.Playlist) (err error) {
	defer func() { metrics.ObserveStorage("bolt", "insert", err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(pl)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(playlistsBucket)).Put([]byte(id), data)
	})
}

// InsertMany stores a batch of playlists in a single write transaction.
func (r *PlaylistBoltRepository) InsertMany(ctx context.Context, pls []playlist.Playlist) (err error) {
	defer func() { metrics.ObserveStorage("bolt", "insertMany", err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))
		for _, pl := range pls {
			data, err := json.Marshal(pl)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(pl.StorageID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Find retrieves a playlist by key.
func (r *PlaylistBoltRepository) Find(ctx context.Context, id string) (pl playlist.Playlist, err error) {
	defer func() { metrics.ObserveStorage("bolt", "find", err) }()

	if err = ctx.Err(); err != nil {
		return playlist.Playlist{}, err
	}

	err = r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(playlistsBucket)).Get([]byte(id))
		if data == nil {
			return playlist.ErrPlaylistNotFound
		}
		return json.Unmarshal(data, &pl)
	})
	if err != nil {
		return playlist.Playlist{}, err
	}

	return pl, nil
}

// FindAll iterates the whole bucket and returns every stored playlist.
func (r *PlaylistBoltRepository) FindAll(ctx context.Context) (pls []playlist.Playlist, err error) {
	defer func() { metrics.ObserveStorage("bolt", "findAll", err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	pls = []playlist.Playlist{}
	err = r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(playlistsBucket)).ForEach(func(k, v []byte) error {
			var pl playlist.Playlist
			if err := json.Unmarshal(v, &pl); err != nil {
				return fmt.Errorf("decoding playlist %q: %w", k, err)
			}
			pls = append(pls, pl)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return pls, nil
}

// Update performs the caller-side read-merge-write: the stored JSON document
// is decoded, merged shallowly with the patch via playlist.MergeTopLevel and
// written back. The read and write happen in one transaction, but two
// concurrent updates are still last-writer-wins at the request level.
func (r *PlaylistBoltRepository) Update(ctx context.Context, id string, patch map[string]any) (pl playlist.Playlist, err error) {
	defer func() { metrics.ObserveStorage("bolt", "update", err) }()

	if err = ctx.Err(); err != nil {
		return playlist.Playlist{}, err
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))

		data := bucket.Get([]byte(id))
		if data == nil {
			return playlist.ErrPlaylistNotFound
		}

		var existing map[string]any
		if err := json.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("decoding playlist %q: %w", id, err)
		}

		merged, err := json.Marshal(playlist.MergeTopLevel(existing, patch))
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(id), merged); err != nil {
			return err
		}

		return json.Unmarshal(merged, &pl)
	})
	if err != nil {
		return playlist.Playlist{}, err
	}

	return pl, nil
}

// Delete removes a playlist by key. Deleting an absent key is a no-op.
func (r *PlaylistBoltRepository) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveStorage("bolt", "delete", err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(playlistsBucket)).Delete([]byte(id))
	})
}

// DeleteAll removes every playlist, key by key, inside a single write
// transaction so an interruption cannot leave a partially-deleted store.
func (r *PlaylistBoltRepository) DeleteAll(ctx context.Context) (err error) {
	defer func() { metrics.ObserveStorage("bolt", "deleteAll", err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(playlistsBucket))

		var keys [][]byte
		if err := bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		}); err != nil {
			return err
		}

		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping verifies the database file is accessible.
func (r *PlaylistBoltRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(playlistsBucket)) == nil {
			return errors.New("playlists bucket not found")
		}
		return nil
	})
}

// Close closes the underlying database file.
func (r *PlaylistBoltRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

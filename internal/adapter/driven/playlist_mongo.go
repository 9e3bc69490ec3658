package driven

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m3uhub/iptvd/internal/metrics"
	"github.com/m3uhub/iptvd/internal/playlist"
)

// PlaylistMongoRepository implements the PlaylistRepository port on an
// external MongoDB collection. The connection is established lazily on the
// first operation and kept open for the process lifetime; a dropped
// connection surfaces as an error on the next call, never retried silently.
type PlaylistMongoRepository struct {
	uri        string
	database   string
	collection string
	logger     *slog.Logger

	mu     sync.Mutex
	client *mongo.Client
	coll   *mongo.Collection
}

// NewPlaylistMongoRepository creates a MongoDB-backed playlist repository.
// No connection is made here; see connect.
func NewPlaylistMongoRepository(uri, database, collection string, logger *slog.Logger) *PlaylistMongoRepository {
	return &PlaylistMongoRepository{
		uri:        uri,
		database:   database,
		collection: collection,
		logger:     logger,
	}
}

// connect establishes the client connection once. Calling it again is a
// no-op while a client exists; a failed attempt leaves the repository
// unconnected so the next operation retries the dial.
func (r *PlaylistMongoRepository) connect(ctx context.Context) (*mongo.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.coll != nil {
		return r.coll, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(r.uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	r.client = client
	r.coll = client.Database(r.database).Collection(r.collection)
	r.logger.Info("connected to MongoDB", "database", r.database, "collection", r.collection)

	return r.coll, nil
}

// Insert stores a playlist document keyed by _id, overwriting any previous
// document with the same key.
func (r *PlaylistMongoRepository) Insert(ctx context.Context, id string, pl playlist.Playlist) (err error) {
	defer func() { metrics.ObserveStorage("mongo", "insert", err) }()

	coll, err := r.connect(ctx)
	if err != nil {
		return err
	}

	pl.StorageID = id
	opts := options.Replace().SetUpsert(true)
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": id}, pl, opts)
	return err
}

// InsertMany stores a batch of playlist documents.
func (r *PlaylistMongoRepository) InsertMany(ctx context.Context, pls []playlist.Playlist) (err error) {
	defer func() { metrics.ObserveStorage("mongo", "insertMany", err) }()

	coll, err := r.connect(ctx)
	if err != nil {
		return err
	}

	docs := make([]any, len(pls))
	for i, pl := range pls {
		docs[i] = pl
	}

	_, err = coll.InsertMany(ctx, docs)
	return err
}

// Find retrieves a playlist document by _id.
func (r *PlaylistMongoRepository) Find(ctx context.Context, id string) (pl playlist.Playlist, err error) {
	defer func() { metrics.ObserveStorage("mongo", "find", err) }()

	coll, err := r.connect(ctx)
	if err != nil {
		return playlist.Playlist{}, err
	}

	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&pl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return playlist.Playlist{}, playlist.ErrPlaylistNotFound
	}
	if err != nil {
		return playlist.Playlist{}, err
	}

	return pl, nil
}

// FindAll retrieves every playlist document in the collection.
func (r *PlaylistMongoRepository) FindAll(ctx context.Context) (pls []playlist.Playlist, err error) {
	defer func() { metrics.ObserveStorage("mongo", "findAll", err) }()

	coll, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	pls = []playlist.Playlist{}
	if err = cursor.All(ctx, &pls); err != nil {
		return nil, err
	}

	return pls, nil
}

// Update delegates the shallow merge to MongoDB's $set operator across the
// patch's top-level fields, which matches the embedded backend's
// MergeTopLevel semantics, then reads the updated document back.
func (r *PlaylistMongoRepository) Update(ctx context.Context, id string, patch map[string]any) (pl playlist.Playlist, err error) {
	defer func() { metrics.ObserveStorage("mongo", "update", err) }()

	coll, err := r.connect(ctx)
	if err != nil {
		return playlist.Playlist{}, err
	}

	// _id is immutable in MongoDB; patching it would fail the update.
	set := make(bson.M, len(patch))
	for k, v := range patch {
		if k == "_id" {
			continue
		}
		set[k] = v
	}

	if len(set) > 0 {
		result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return playlist.Playlist{}, err
		}
		if result.MatchedCount == 0 {
			return playlist.Playlist{}, playlist.ErrPlaylistNotFound
		}
	}

	return r.Find(ctx, id)
}

// Delete removes a playlist document by _id. Deleting an absent key is a
// no-op.
func (r *PlaylistMongoRepository) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.ObserveStorage("mongo", "delete", err) }()

	coll, err := r.connect(ctx)
	if err != nil {
		return err
	}

	_, err = coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteAll removes every document in one bulk operation, a stronger
// atomicity guarantee than the embedded backend's key iteration.
func (r *PlaylistMongoRepository) DeleteAll(ctx context.Context) (err error) {
	defer func() { metrics.ObserveStorage("mongo", "deleteAll", err) }()

	coll, err := r.connect(ctx)
	if err != nil {
		return err
	}

	_, err = coll.DeleteMany(ctx, bson.D{})
	return err
}

// Ping verifies the MongoDB deployment is reachable.
func (r *PlaylistMongoRepository) Ping(ctx context.Context) error {
	if _, err := r.connect(ctx); err != nil {
		return err
	}
	return r.client.Ping(ctx, nil)
}

// Close disconnects the client if a connection was ever established.
func (r *PlaylistMongoRepository) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}

	err := r.client.Disconnect(ctx)
	r.client = nil
	r.coll = nil
	return err
}

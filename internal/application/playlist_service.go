package application

import (
	"context"

	"github.com/m3uhub/iptvd/internal/playlist"
	"github.com/m3uhub/iptvd/internal/port/driven"
)

// PlaylistService provides the CRUD use cases over stored playlists. It
// depends only on the repository port, so it is agnostic to which backend
// was selected at startup.
type PlaylistService struct {
	repo driven.PlaylistRepository
}

// NewPlaylistService creates a PlaylistService with the given repository.
func NewPlaylistService(repo driven.PlaylistRepository) *PlaylistService {
	return &PlaylistService{repo: repo}
}

// Add persists a playlist under its StorageID and returns the stored entity
// as read back from the backend.
func (s *PlaylistService) Add(ctx context.Context, pl playlist.Playlist) (playlist.Playlist, error) {
	if err := s.repo.Insert(ctx, pl.StorageID, pl); err != nil {
		return playlist.Playlist{}, err
	}
	return s.repo.Find(ctx, pl.StorageID)
}

// AddMany persists a batch of playlists, each keyed by its own StorageID.
func (s *PlaylistService) AddMany(ctx context.Context, pls []playlist.Playlist) error {
	return s.repo.InsertMany(ctx, pls)
}

// Get retrieves a playlist by id. Returns playlist.ErrPlaylistNotFound if
// the id is absent.
func (s *PlaylistService) Get(ctx context.Context, id string) (playlist.Playlist, error) {
	return s.repo.Find(ctx, id)
}

// List retrieves all stored playlists.
func (s *PlaylistService) List(ctx context.Context) ([]playlist.Playlist, error) {
	return s.repo.FindAll(ctx)
}

// Update applies a shallow top-level merge of patch onto the stored entity
// and returns the result. Returns playlist.ErrPlaylistNotFound if the id is
// absent.
func (s *PlaylistService) Update(ctx context.Context, id string, patch map[string]any) (playlist.Playlist, error) {
	return s.repo.Update(ctx, id, patch)
}

// Delete removes a playlist by id. Deleting an absent id is not an error.
func (s *PlaylistService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteAll removes every stored playlist.
func (s *PlaylistService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

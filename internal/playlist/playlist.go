// Package playlist contains the playlist domain model and the pure
// transforms applied to it during ingestion and updates.
package playlist

import (
	"errors"

	"github.com/m3uhub/iptvd/internal/m3u"
)

// ErrPlaylistNotFound is returned when a playlist does not exist in storage.
var ErrPlaylistNotFound = errors.New("playlist not found")

// Item is a single channel entry of a stored playlist. The generated ID is
// assigned at normalization time and is stable for the life of the playlist;
// all parser-provided attributes are carried alongside it.
type Item struct {
	ID       string `json:"id" bson:"id"`
	m3u.Item `bson:",inline"`
}

// Content is the structured playlist body: the header attributes reported by
// the parser plus the ordered channel items.
type Content struct {
	Header m3u.Header `json:"header" bson:"header"`
	Items  []Item     `json:"items" bson:"items"`
}

// Playlist is the persisted entity. StorageID ("_id") is the storage key on
// both backends; ID is a second, independent identifier kept for client
// compatibility. Count is a snapshot of len(Playlist.Items) taken at
// normalization, never re-derived afterwards.
type Playlist struct {
	StorageID   string   `json:"_id" bson:"_id"`
	ID          string   `json:"id" bson:"id"`
	Filename    string   `json:"filename" bson:"filename"`
	Title       string   `json:"title" bson:"title"`
	Count       int      `json:"count" bson:"count"`
	Playlist    Content  `json:"playlist" bson:"playlist"`
	ImportDate  string   `json:"importDate" bson:"importDate"`
	LastUsage   string   `json:"lastUsage" bson:"lastUsage"`
	Favorites   []string `json:"favorites" bson:"favorites"`
	AutoRefresh bool     `json:"autoRefresh" bson:"autoRefresh"`
	URL         string   `json:"url" bson:"url"`
}

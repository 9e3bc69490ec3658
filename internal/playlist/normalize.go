package playlist

import (
	"math/rand/v2"
	"time"

	"github.com/m3uhub/iptvd/internal/m3u"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomID generates a short base-36 identifier. It is intentionally
// non-cryptographic: collision probability is negligible at the scale of a
// personal playlist library, and the ids are never used in an adversarial
// context.
func RandomID() string {
	b := make([]byte, 11)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}

// Normalizer turns parser output into a canonical Playlist entity. The clock
// and the id source are injectable so tests can run deterministically.
type Normalizer struct {
	Now   func() time.Time
	NewID func() string
}

// NewNormalizer returns a Normalizer backed by the wall clock and RandomID.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		Now:   time.Now,
		NewID: RandomID,
	}
}

// Normalize builds a Playlist entity from a parsed playlist. It assigns the
// entity identifiers, stamps importDate and lastUsage with the current time,
// gives every item a fresh id while keeping all parser attributes, and
// snapshots the item count. The result is ephemeral: persisting it is the
// caller's decision.
func (n *Normalizer) Normalize(title string, parsed m3u.Playlist, sourceURL string) Playlist {
	items := make([]Item, len(parsed.Items))
	for i, it := range parsed.Items {
		items[i] = Item{
			ID:   n.NewID(),
			Item: it,
		}
	}

	now := n.Now().UTC().Format(time.RFC3339)

	return Playlist{
		StorageID: n.NewID(),
		ID:        n.NewID(),
		Filename:  title,
		Title:     title,
		Count:     len(items),
		Playlist: Content{
			Header: parsed.Header,
			Items:  items,
		},
		ImportDate:  now,
		LastUsage:   now,
		Favorites:   []string{},
		AutoRefresh: false,
		URL:         sourceURL,
	}
}

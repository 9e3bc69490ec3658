package playlist

import "strings"

// UntitledPlaylist is the title given to playlists whose source URL carries
// no usable last segment.
const UntitledPlaylist = "Playlist without title"

// LastURLSegment returns the part of the URL after the last "/", which is
// used as the playlist title and filename. URLs that are empty, a single
// character or contain no "/" yield UntitledPlaylist.
func LastURLSegment(url string) string {
	idx := strings.LastIndex(url, "/")
	if len(url) <= 1 || idx < 0 {
		return UntitledPlaylist
	}
	return url[idx+1:]
}

package application

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m3uhub/iptvd/internal/epg"
	"github.com/m3uhub/iptvd/internal/m3u"
	"github.com/m3uhub/iptvd/internal/metrics"
	"github.com/m3uhub/iptvd/internal/playlist"
	"github.com/m3uhub/iptvd/internal/port/driven"
)

// IngestService runs the ingestion pipeline: fetch, decompress when needed,
// parse, normalize. It never retries; the first failure propagates to the
// caller. Results are ephemeral: persisting them is a separate, explicit
// write through the playlist service.
type IngestService struct {
	fetcher    driven.ResourceFetcher
	normalizer *playlist.Normalizer
}

// NewIngestService creates an IngestService with the given fetcher and
// normalizer.
func NewIngestService(fetcher driven.ResourceFetcher, normalizer *playlist.Normalizer) *IngestService {
	return &IngestService{
		fetcher:    fetcher,
		normalizer: normalizer,
	}
}

// ImportPlaylist fetches an M3U resource, parses it and returns the
// normalized playlist entity. The title is derived from the URL's last
// segment.
func (s *IngestService) ImportPlaylist(ctx context.Context, url string) (playlist.Playlist, error) {
	text, err := s.fetcher.FetchText(ctx, url)
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues("playlist", "error").Inc()
		return playlist.Playlist{}, err
	}
	metrics.UpstreamFetches.WithLabelValues("playlist", "ok").Inc()

	parsed, err := m3u.Parse(text)
	if err != nil {
		metrics.ParseFailures.WithLabelValues("playlist").Inc()
		return playlist.Playlist{}, fmt.Errorf("parsing playlist: %w", err)
	}

	title := playlist.LastURLSegment(url)
	return s.normalizer.Normalize(title, parsed, url), nil
}

// FetchGuide fetches an EPG resource and returns the parsed guide.
// Decompression is selected purely by URL suffix: a ".gz" URL is fetched as
// raw bytes and gunzipped, anything else is treated as UTF-8 text. A
// non-gzip payload behind a ".gz" name fails with a decode error.
func (s *IngestService) FetchGuide(ctx context.Context, url string) (epg.Guide, error) {
	url = strings.TrimSpace(url)

	var text string
	if strings.HasSuffix(url, ".gz") {
		raw, err := s.fetcher.FetchBytes(ctx, url)
		if err != nil {
			metrics.UpstreamFetches.WithLabelValues("epg", "error").Inc()
			return epg.Guide{}, err
		}
		metrics.UpstreamFetches.WithLabelValues("epg", "ok").Inc()

		text, err = gunzip(raw)
		if err != nil {
			return epg.Guide{}, err
		}
	} else {
		var err error
		text, err = s.fetcher.FetchText(ctx, url)
		if err != nil {
			metrics.UpstreamFetches.WithLabelValues("epg", "error").Inc()
			return epg.Guide{}, err
		}
		metrics.UpstreamFetches.WithLabelValues("epg", "ok").Inc()
	}

	guide, err := epg.Parse(text)
	if err != nil {
		metrics.ParseFailures.WithLabelValues("epg").Inc()
		return epg.Guide{}, err
	}

	return guide, nil
}

// gunzip inflates a gzip payload into text.
func gunzip(raw []byte) (string, error) {
	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decompressing gzip payload: %w", err)
	}
	defer reader.Close()

	out, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decompressing gzip payload: %w", err)
	}

	return string(out), nil
}

package application

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/m3uhub/iptvd/internal/epg"
	"github.com/m3uhub/iptvd/internal/playlist"
	"github.com/m3uhub/iptvd/internal/port/driven"
)

// stubFetcher serves canned responses per URL, in place of the network.
type stubFetcher struct {
	responses map[string][]byte
	err       error
}

func (f *stubFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.responses[url]
	if !ok {
		return nil, &driven.UpstreamError{StatusCode: http.StatusNotFound, Status: "404 Not Found"}
	}
	return body, nil
}

func (f *stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	body, err := f.FetchBytes(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func fixedNormalizer() *playlist.Normalizer {
	n := 0
	return &playlist.Normalizer{
		Now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func TestIngestService_ImportPlaylist(t *testing.T) {
	t.Run("fetches, parses and normalizes a playlist", func(t *testing.T) {
		fetcher := &stubFetcher{responses: map[string][]byte{
			"http://host/list.m3u": []byte("#EXTM3U\n#EXTINF:-1,Ch1\nhttp://x/1\n"),
		}}
		service := NewIngestService(fetcher, fixedNormalizer())

		pl, err := service.ImportPlaylist(context.Background(), "http://host/list.m3u")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if pl.Title != "list.m3u" {
			t.Errorf("title = %q, want list.m3u", pl.Title)
		}
		if pl.Count != 1 {
			t.Errorf("count = %d, want 1", pl.Count)
		}
		if len(pl.Playlist.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(pl.Playlist.Items))
		}
		item := pl.Playlist.Items[0]
		if item.Name != "Ch1" || item.URL != "http://x/1" {
			t.Errorf("item = %+v", item)
		}
		if item.ID == "" {
			t.Error("item id was not assigned")
		}
		if pl.URL != "http://host/list.m3u" {
			t.Errorf("url = %q", pl.URL)
		}
	})

	t.Run("upstream failure propagates without retry", func(t *testing.T) {
		service := NewIngestService(&stubFetcher{responses: map[string][]byte{}}, fixedNormalizer())

		_, err := service.ImportPlaylist(context.Background(), "http://host/missing.m3u")

		var upstream *driven.UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("err = %v, want UpstreamError", err)
		}
		if upstream.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", upstream.StatusCode)
		}
	})
}

const guideXML = `<tv>
  <channel id="one"><display-name>One</display-name></channel>
  <programme start="20240501120000 +0000" stop="20240501130000 +0000" channel="one"><title>News</title></programme>
</tv>`

func gzipped(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	return buf.Bytes()
}

func TestIngestService_FetchGuide(t *testing.T) {
	t.Run("plain xml url", func(t *testing.T) {
		fetcher := &stubFetcher{responses: map[string][]byte{
			"http://host/guide.xml": []byte(guideXML),
		}}
		service := NewIngestService(fetcher, fixedNormalizer())

		guide, err := service.FetchGuide(context.Background(), "http://host/guide.xml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(guide.Channels) != 1 || len(guide.Programs) != 1 {
			t.Errorf("guide = %+v", guide)
		}
	})

	t.Run("gz url yields the same guide as the decompressed xml", func(t *testing.T) {
		fetcher := &stubFetcher{responses: map[string][]byte{
			"http://host/guide.xml.gz": gzipped(t, guideXML),
		}}
		service := NewIngestService(fetcher, fixedNormalizer())

		viaGz, err := service.FetchGuide(context.Background(), "http://host/guide.xml.gz")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		direct, err := epg.Parse(guideXML)
		if err != nil {
			t.Fatalf("direct parse failed: %v", err)
		}

		if !reflect.DeepEqual(viaGz, direct) {
			t.Errorf("gz result = %+v, want %+v", viaGz, direct)
		}
	})

	t.Run("surrounding whitespace in the url is trimmed", func(t *testing.T) {
		fetcher := &stubFetcher{responses: map[string][]byte{
			"http://host/guide.xml": []byte(guideXML),
		}}
		service := NewIngestService(fetcher, fixedNormalizer())

		if _, err := service.FetchGuide(context.Background(), " http://host/guide.xml \n"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("gz-named resource with a non-gzip payload fails", func(t *testing.T) {
		fetcher := &stubFetcher{responses: map[string][]byte{
			"http://host/guide.xml.gz": []byte(guideXML),
		}}
		service := NewIngestService(fetcher, fixedNormalizer())

		if _, err := service.FetchGuide(context.Background(), "http://host/guide.xml.gz"); err == nil {
			t.Error("expected decompression error")
		}
	})

	t.Run("malformed xml fails", func(t *testing.T) {
		fetcher := &stubFetcher{responses: map[string][]byte{
			"http://host/guide.xml": []byte("<tv><channel></tv>"),
		}}
		service := NewIngestService(fetcher, fixedNormalizer())

		if _, err := service.FetchGuide(context.Background(), "http://host/guide.xml"); err == nil {
			t.Error("expected parse error")
		}
	})
}

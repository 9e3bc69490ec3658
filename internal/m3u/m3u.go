// Package m3u parses extended-M3U playlist text into structured channel
// entries. It is a pure, synchronous capability: no I/O, no validation
// beyond its own tolerance for malformed lines, which are skipped.
package m3u

import (
	"bufio"
	"regexp"
	"strings"
)

var (
	reAttr    = regexp.MustCompile(`([a-zA-Z0-9-]+)="([^"]*)"`)
	reHTTPOpt = regexp.MustCompile(`(http-referrer|http-user-agent)=(.+)`)
)

// Header holds the attributes of the #EXTM3U line plus the raw line itself.
type Header struct {
	Attrs map[string]string `json:"attrs" bson:"attrs"`
	Raw   string            `json:"raw" bson:"raw"`
}

// TVG groups the tvg-* attributes of an EXTINF line.
type TVG struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Logo     string `json:"logo" bson:"logo"`
	URL      string `json:"url" bson:"url"`
	Language string `json:"language" bson:"language"`
	Country  string `json:"country" bson:"country"`
	Rec      string `json:"rec" bson:"rec"`
}

// Group holds the group-title attribute.
type Group struct {
	Title string `json:"title" bson:"title"`
}

// HTTPHeaders carries per-channel HTTP options declared via #EXTVLCOPT.
type HTTPHeaders struct {
	Referrer  string `json:"referrer" bson:"referrer"`
	UserAgent string `json:"user-agent" bson:"user-agent"`
}

// Item is one channel entry: the display name after the last comma of the
// EXTINF line, its attributes, and the URL from the following line. Line is
// the 1-based line number of the EXTINF directive.
type Item struct {
	Name  string      `json:"name" bson:"name"`
	TVG   TVG         `json:"tvg" bson:"tvg"`
	Group Group       `json:"group" bson:"group"`
	HTTP  HTTPHeaders `json:"http" bson:"http"`
	URL   string      `json:"url" bson:"url"`
	Raw   string      `json:"raw" bson:"raw"`
	Line  int         `json:"line" bson:"line"`
}

// Playlist is the parse result: header metadata plus the ordered items.
type Playlist struct {
	Header Header `json:"header" bson:"header"`
	Items  []Item `json:"items" bson:"items"`
}

// Parse reads extended-M3U text and returns the structured playlist.
// Tolerance policy: an EXTINF with no following URL is dropped, a URL with
// no preceding EXTINF is dropped, comment lines between the two are allowed.
// A playlist with zero items is valid.
func Parse(text string) (Playlist, error) {
	pl := Playlist{
		Header: Header{Attrs: map[string]string{}},
		Items:  []Item{},
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending *Item
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "#EXTM3U"):
			pl.Header.Raw = line
			for _, m := range reAttr.FindAllStringSubmatch(line, -1) {
				pl.Header.Attrs[m[1]] = m[2]
			}

		case strings.HasPrefix(line, "#EXTINF:"):
			// A previous EXTINF without a URL is malformed and dropped.
			item := parseExtinf(line, lineNo)
			pending = &item

		case strings.HasPrefix(line, "#EXTVLCOPT:"):
			if pending == nil {
				continue
			}
			if m := reHTTPOpt.FindStringSubmatch(line); m != nil {
				switch m[1] {
				case "http-referrer":
					pending.HTTP.Referrer = strings.TrimSpace(m[2])
				case "http-user-agent":
					pending.HTTP.UserAgent = strings.TrimSpace(m[2])
				}
				pending.Raw += "\n" + line
			}

		case strings.HasPrefix(line, "#"):
			continue

		default:
			if pending == nil {
				continue
			}
			pending.URL = line
			pl.Items = append(pl.Items, *pending)
			pending = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Playlist{}, err
	}

	return pl, nil
}

func parseExtinf(line string, lineNo int) Item {
	item := Item{
		Raw:  line,
		Line: lineNo,
	}

	for _, m := range reAttr.FindAllStringSubmatch(line, -1) {
		value := m[2]
		switch m[1] {
		case "tvg-id":
			item.TVG.ID = value
		case "tvg-name":
			item.TVG.Name = value
		case "tvg-logo":
			item.TVG.Logo = value
		case "tvg-url":
			item.TVG.URL = value
		case "tvg-language":
			item.TVG.Language = value
		case "tvg-country":
			item.TVG.Country = value
		case "tvg-rec":
			item.TVG.Rec = value
		case "group-title":
			item.Group.Title = value
		}
	}

	item.Name = displayName(line)

	return item
}

// displayName extracts the text after the comma that ends the attribute list.
// Searching from the last quoted attribute keeps commas inside attribute
// values (group-title="News, US") from truncating the name.
func displayName(line string) string {
	rest := line
	if i := strings.LastIndex(line, `"`); i >= 0 {
		rest = line[i+1:]
	}
	if j := strings.Index(rest, ","); j >= 0 {
		return strings.TrimSpace(rest[j+1:])
	}
	return ""
}

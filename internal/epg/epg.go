// Package epg parses XMLTV electronic program guide documents. Like the m3u
// package it is a pure capability: text in, structured guide out.
package epg

import (
	"encoding/xml"
	"fmt"
)

// LocalizedText is a text element with an optional language attribute, the
// XMLTV convention for display names, titles and descriptions.
type LocalizedText struct {
	Value string `xml:",chardata" json:"value"`
	Lang  string `xml:"lang,attr" json:"lang,omitempty"`
}

// Icon is a channel or programme icon.
type Icon struct {
	Src string `xml:"src,attr" json:"src"`
}

// Channel is a channel listing from the guide.
type Channel struct {
	ID           string          `xml:"id,attr" json:"id"`
	DisplayNames []LocalizedText `xml:"display-name" json:"displayName"`
	Icons        []Icon          `xml:"icon" json:"icon"`
	URLs         []string        `xml:"url" json:"url"`
}

// Program is a single programme entry. Start and Stop keep the raw XMLTV
// timestamp strings; interpreting them is left to the consumer.
type Program struct {
	Start        string          `xml:"start,attr" json:"start"`
	Stop         string          `xml:"stop,attr" json:"stop"`
	Channel      string          `xml:"channel,attr" json:"channel"`
	Titles       []LocalizedText `xml:"title" json:"title"`
	Descriptions []LocalizedText `xml:"desc" json:"desc"`
	Categories   []LocalizedText `xml:"category" json:"category"`
	Icons        []Icon          `xml:"icon" json:"icon"`
}

// Guide is the parse result: channel listings plus programme listings.
type Guide struct {
	Channels []Channel `json:"channels"`
	Programs []Program `json:"programs"`
}

type document struct {
	XMLName  xml.Name  `xml:"tv"`
	Channels []Channel `xml:"channel"`
	Programs []Program `xml:"programme"`
}

// Parse reads an XMLTV document and returns the structured guide. A
// structurally invalid document returns an error; partial results are never
// returned.
func Parse(text string) (Guide, error) {
	var doc document
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return Guide{}, fmt.Errorf("parsing XMLTV document: %w", err)
	}

	guide := Guide{
		Channels: doc.Channels,
		Programs: doc.Programs,
	}
	if guide.Channels == nil {
		guide.Channels = []Channel{}
	}
	if guide.Programs == nil {
		guide.Programs = []Program{}
	}

	return guide, nil
}

package capture

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata describes a replayed file.
type Metadata struct {
	Title  string
	Artist string
}

// Label is "Artist - Title", or just the title when the artist is unknown.
func (m Metadata) Label() string {
	if m.Artist == "" {
		return m.Title
	}
	return m.Artist + " - " + m.Title
}

// ReadMetadata reads ID3v2 tags from an MP3 file, falling back to filename.
func ReadMetadata(path string) Metadata {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err == nil {
			defer tag.Close()
			m := Metadata{
				Title:  strings.TrimSpace(tag.Title()),
				Artist: strings.TrimSpace(tag.Artist()),
			}
			if m.Title != "" {
				return m
			}
		}
	}

	base := filepath.Base(path)
	return Metadata{Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

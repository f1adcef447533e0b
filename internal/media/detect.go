package media

import (
	"path/filepath"
	"slices"
	"strings"
)

var replayExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt reports whether files with this extension can be replayed
// into the visualizer.
func IsSupportedExt(ext string) bool {
	return replayExts[strings.ToLower(ext)]
}

// IsSupportedPath is IsSupportedExt on the extension of path.
func IsSupportedPath(path string) bool {
	return IsSupportedExt(filepath.Ext(path))
}

// SupportedExtsList returns a human-readable list of replayable formats.
func SupportedExtsList() string {
	exts := make([]string, 0, len(replayExts))
	for ext := range replayExts {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}

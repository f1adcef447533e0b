package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedExtIgnoresCase(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".Flac", ".ogg"} {
		assert.True(t, IsSupportedExt(ext), ext)
	}
	for _, ext := range []string{".aac", ".m4a", "", ".txt"} {
		assert.False(t, IsSupportedExt(ext), ext)
	}
}

func TestIsSupportedPath(t *testing.T) {
	assert.True(t, IsSupportedPath("/music/song.FLAC"))
	assert.False(t, IsSupportedPath("/music/playlist.m3u"))
}

func TestSupportedExtsListIsSorted(t *testing.T) {
	assert.Equal(t, ".flac, .mp3, .ogg, .wav", SupportedExtsList())
}

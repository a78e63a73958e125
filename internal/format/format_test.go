package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{754, "12:34"},
		{3600, "1:00:00"},
		{3723, "1:02:03"},
		{36000, "10:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Duration(tt.seconds))
	}
}

func TestLongDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{3723, "1h 2m 3s"},
		{3600, "1h"},
		{3660, "1h 1m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LongDuration(tt.seconds))
	}
}

func TestFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FileSize(tt.bytes))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Go from Scratch", "go-from-scratch"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"C++ & Go!", "c-go"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.title))
	}
}

func TestMediaTypes(t *testing.T) {
	assert.True(t, IsImageType("image/png"))
	assert.True(t, IsImageType("image/webp"))
	assert.False(t, IsImageType("image/tiff"))
	assert.False(t, IsImageType(""))

	assert.True(t, IsVideoType("video/mp4"))
	assert.False(t, IsVideoType("video/avi"))
	assert.False(t, IsVideoType("image/png"))
}

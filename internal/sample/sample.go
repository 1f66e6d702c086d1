// Package sample provides the opaque audio handle passed between the
// workflow controller and the recognition backend.
package sample

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrEmpty is returned when a file holds no data.
	ErrEmpty = errors.New("audio file is empty")
	// ErrNotAudio is returned when sniffed content is not audio.
	ErrNotAudio = errors.New("not an audio file")
)

// containerTypes are sniffed as video but routinely carry audio-only
// recordings (browser and phone recorders).
var containerTypes = []string{"video/webm", "video/mp4", "application/ogg"}

// Sample is an in-memory audio recording with its file name and sniffed
// content type. The zero value is the empty sample.
type Sample struct {
	name        string
	data        []byte
	contentType string
}

// Load reads an audio file from disk. The content must sniff as audio.
func Load(path string) (Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to read audio file: %w", err)
	}

	if len(data) == 0 {
		return Sample{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmpty)
	}

	mt := mimetype.Detect(data)
	if !isAudio(mt) {
		return Sample{}, fmt.Errorf("%s is %s: %w", filepath.Base(path), mt.String(), ErrNotAudio)
	}

	return Sample{
		name:        filepath.Base(path),
		data:        data,
		contentType: mt.String(),
	}, nil
}

// FromBytes wraps raw bytes as a sample without validating the content.
func FromBytes(name string, data []byte) Sample {
	if len(data) == 0 {
		return Sample{name: name}
	}

	return Sample{
		name:        name,
		data:        data,
		contentType: mimetype.Detect(data).String(),
	}
}

// Name returns the file name the sample was loaded from.
func (s Sample) Name() string { return s.name }

// Len returns the size of the sample in bytes.
func (s Sample) Len() int { return len(s.data) }

// IsEmpty reports whether the sample carries no audio.
func (s Sample) IsEmpty() bool { return len(s.data) == 0 }

// ContentType returns the sniffed MIME type, or "" for the empty sample.
func (s Sample) ContentType() string { return s.contentType }

// Reader returns a fresh reader over the sample data.
func (s Sample) Reader() io.Reader { return bytes.NewReader(s.data) }

func isAudio(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") {
			return true
		}
	}

	return mimetype.EqualsAny(mt.String(), containerTypes...)
}

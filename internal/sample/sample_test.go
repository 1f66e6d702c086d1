package sample_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/internal/sample/sampletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WAV(t *testing.T) {
	path := sampletest.WriteWAV(t, t.TempDir(), "alice.wav")

	s, err := sample.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "alice.wav", s.Name())
	assert.Equal(t, "audio/wav", s.ContentType())
	assert.False(t, s.IsEmpty())

	data, err := io.ReadAll(s.Reader())
	require.NoError(t, err)
	assert.Equal(t, sampletest.WAV([]byte("alice.wav")), data)
	assert.Equal(t, len(data), s.Len())
}

func TestLoad_Rejects(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.wav")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	text := filepath.Join(dir, "notes.wav")
	require.NoError(t, os.WriteFile(text, []byte("definitely not audio\n"), 0o600))

	_, err := sample.Load(empty)
	require.ErrorIs(t, err, sample.ErrEmpty)

	_, err = sample.Load(text)
	require.ErrorIs(t, err, sample.ErrNotAudio)
	assert.Contains(t, err.Error(), "text/plain")

	_, err = sample.Load(filepath.Join(dir, "missing.wav"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestZeroSample(t *testing.T) {
	var s sample.Sample

	assert.True(t, s.IsEmpty())
	assert.Equal(t, "", s.ContentType())
	assert.True(t, sample.FromBytes("x.wav", nil).IsEmpty())
}

func TestReaderIsFresh(t *testing.T) {
	s := sampletest.Sample("bob")

	first, err := io.ReadAll(s.Reader())
	require.NoError(t, err)
	second, err := io.ReadAll(s.Reader())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Package sampletest builds audio fixtures for tests.
package sampletest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/speakerid/internal/sample"
	"github.com/stretchr/testify/require"
)

// WAV returns a minimal RIFF/WAVE file with the given PCM payload.
func WAV(payload []byte) []byte {
	buf := make([]byte, 0, 44+len(payload))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(payload))) //nolint:gosec // test fixture
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)      // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1)      // mono
	buf = binary.LittleEndian.AppendUint32(buf, 16_000) // sample rate
	buf = binary.LittleEndian.AppendUint32(buf, 32_000) // byte rate
	buf = binary.LittleEndian.AppendUint16(buf, 2)      // block align
	buf = binary.LittleEndian.AppendUint16(buf, 16)     // bits per sample

	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload))) //nolint:gosec // test fixture
	buf = append(buf, payload...)

	return buf
}

// Sample returns an in-memory WAV sample whose payload is the name itself,
// so distinct names give distinct samples.
func Sample(name string) sample.Sample {
	return sample.FromBytes(name+".wav", WAV([]byte(name)))
}

// WriteWAV writes a WAV fixture into dir and returns its path.
func WriteWAV(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	//nolint:gosec // Test file
	require.NoError(t, os.WriteFile(path, WAV([]byte(name)), 0o644))

	return path
}

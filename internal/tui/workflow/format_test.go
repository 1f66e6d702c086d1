package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/speakerid/internal/sample/sampletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.n))
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "voices/a.wav"), expandHome("~/voices/a.wav"))
	assert.Equal(t, "/abs/a.wav", expandHome("/abs/a.wav"))
	assert.Equal(t, "~user/a.wav", expandHome("~user/a.wav"))
}

func TestDescribeSample(t *testing.T) {
	s := sampletest.Sample("alice")

	got := describeSample(s)
	assert.Contains(t, got, "alice.wav")
	assert.Contains(t, got, "audio/wav")
	assert.Contains(t, got, formatBytes(s.Len()))
}

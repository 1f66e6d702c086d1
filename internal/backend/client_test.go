package backend_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alkime/speakerid/internal/backend"
	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/internal/sample/sampletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedPart is one file part as the server saw it.
type capturedPart struct {
	filename    string
	contentType string
	data        []byte
}

// captured holds what a fake backend received.
type captured struct {
	path        string
	requestID   string
	numSpeakers []string
	names       []string
	files       []capturedPart
	audio       []capturedPart
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()

	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.requestID = r.Header.Get("X-Request-ID")

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		got.numSpeakers = r.MultipartForm.Value["num_speakers"]
		got.names = r.MultipartForm.Value["names"]
		got.files = readParts(t, r, "files")
		got.audio = readParts(t, r, "audio")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, got
}

func readParts(t *testing.T, r *http.Request, field string) []capturedPart {
	t.Helper()

	var parts []capturedPart
	for _, fh := range r.MultipartForm.File[field] {
		f, err := fh.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		f.Close()

		parts = append(parts, capturedPart{
			filename:    fh.Filename,
			contentType: fh.Header.Get("Content-Type"),
			data:        data,
		})
	}

	return parts
}

func newClient(url string) *backend.Client {
	return backend.NewClient(backend.ClientConfig{
		BaseURL: url + "/",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestEnroll_WireFormat(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"message":"ok"}`)

	alice := sampletest.Sample("alice")
	bob := sampletest.Sample("bob")

	err := newClient(srv.URL).Enroll(context.Background(), backend.EnrollRequest{
		NumSpeakers: 2,
		Speakers: []backend.Speaker{
			{Name: "Alice", Sample: alice},
			{Name: "Bob", Sample: bob},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/enroll", got.path)
	assert.NotEmpty(t, got.requestID)
	assert.Equal(t, []string{"2"}, got.numSpeakers)
	assert.Equal(t, []string{"Alice", "Bob"}, got.names)

	require.Len(t, got.files, 2)
	assert.Equal(t, "alice.wav", got.files[0].filename)
	assert.Equal(t, "bob.wav", got.files[1].filename)
	assert.Equal(t, "audio/wav", got.files[0].contentType)
	assert.Equal(t, sampletest.WAV([]byte("alice")), got.files[0].data)
	assert.Equal(t, sampletest.WAV([]byte("bob")), got.files[1].data)
}

func TestEnroll_BackendError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
	}{
		{name: "reason passed through", status: 400, body: `{"error":"Speaker 2 sample too short"}`, wantReason: "Speaker 2 sample too short"},
		{name: "error not a string", status: 500, body: `{"error":{"code":7}}`, wantReason: ""},
		{name: "no error field", status: 500, body: `{}`, wantReason: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)

			err := newClient(srv.URL).Enroll(context.Background(), backend.EnrollRequest{
				NumSpeakers: 2,
				Speakers: []backend.Speaker{
					{Name: "A", Sample: sampletest.Sample("a")},
					{Name: "B", Sample: sampletest.Sample("b")},
				},
			})

			var be *backend.BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, backend.OpEnroll, be.Op)
			assert.Equal(t, tt.status, be.StatusCode)
			assert.Equal(t, tt.wantReason, be.Reason)
		})
	}
}

func TestRejection_UnreadableBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "html body", status: 502, body: `<html>bad gateway</html>`},
		{name: "empty body", status: 500, body: ``},
		{name: "truncated json", status: 400, body: `{"error":"Speaker`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)

			_, err := newClient(srv.URL).Transcribe(context.Background(), backend.TranscribeRequest{
				Recording: sampletest.Sample("meeting"),
			})

			var te *backend.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, backend.OpTranscribe, te.Op)
			require.ErrorIs(t, err, backend.ErrMalformedResponse)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))

			var be *backend.BackendError
			assert.False(t, errors.As(err, &be))
		})
	}
}

func TestTranscribe(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"transcription":"hello world"}`)

	text, err := newClient(srv.URL).Transcribe(context.Background(), backend.TranscribeRequest{
		Recording: sampletest.Sample("meeting"),
	})
	require.NoError(t, err)

	assert.Equal(t, "hello world", text)
	assert.Equal(t, "/transcribe", got.path)
	require.Len(t, got.audio, 1)
	assert.Equal(t, "meeting.wav", got.audio[0].filename)
	assert.Empty(t, got.files)
	assert.Empty(t, got.names)
}

func TestTranscribe_Failures(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusConflict, `{"error":"No speakers enrolled"}`)

		_, err := newClient(srv.URL).Transcribe(context.Background(), backend.TranscribeRequest{
			Recording: sampletest.Sample("meeting"),
		})

		var be *backend.BackendError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "No speakers enrolled", be.Reason)
	})

	t.Run("malformed success body", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, `{"text":"wrong field"}`)

		_, err := newClient(srv.URL).Transcribe(context.Background(), backend.TranscribeRequest{
			Recording: sampletest.Sample("meeting"),
		})

		var te *backend.TransportError
		require.ErrorAs(t, err, &te)
		assert.ErrorIs(t, err, backend.ErrMalformedResponse)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newClient(url).Transcribe(context.Background(), backend.TranscribeRequest{
			Recording: sampletest.Sample("meeting"),
		})

		var te *backend.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, backend.OpTranscribe, te.Op)
		assert.False(t, errors.Is(err, backend.ErrMalformedResponse))
	})
}

func TestTranscribe_EmptyTranscriptionAndUnnamedSample(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"transcription":""}`)

	text, err := newClient(srv.URL).Transcribe(context.Background(), backend.TranscribeRequest{
		Recording: sample.FromBytes("", sampletest.WAV([]byte("x"))),
	})
	require.NoError(t, err)
	assert.Equal(t, "", text, "an empty transcription is still a success")
	require.Len(t, got.audio, 1)
	assert.Equal(t, "blob", got.audio[0].filename)
}

func TestEnrollRequest_Names(t *testing.T) {
	req := backend.EnrollRequest{Speakers: []backend.Speaker{{Name: "Ann"}, {Name: "Ben"}, {Name: "Cat"}}}

	assert.Equal(t, []string{"Ann", "Ben", "Cat"}, req.Names())
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "backend enroll failed (400): nope",
		(&backend.BackendError{Op: backend.OpEnroll, StatusCode: 400, Reason: "nope"}).Error())
	assert.Equal(t, "backend transcribe failed (503)",
		(&backend.BackendError{Op: backend.OpTranscribe, StatusCode: 503}).Error())
}

package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/pkg/collections"
)

// Multipart field names of the backend contract.
const (
	FieldNumSpeakers = "num_speakers"
	FieldNames       = "names"
	FieldFiles       = "files"
	FieldAudio       = "audio"
)

// Speaker is one enrolled voice.
type Speaker struct {
	Name   string
	Sample sample.Sample
}

// EnrollRequest is the body of POST /enroll. Speakers are sent in order so
// the backend can pair names[i] with files[i].
type EnrollRequest struct {
	NumSpeakers int
	Speakers    []Speaker
}

// Names returns the speaker names in roster order.
func (r EnrollRequest) Names() []string {
	return collections.Apply(r.Speakers, func(s Speaker) string { return s.Name })
}

// TranscribeRequest is the body of POST /transcribe.
type TranscribeRequest struct {
	Recording sample.Sample
}

func (r EnrollRequest) encode() (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField(FieldNumSpeakers, strconv.Itoa(r.NumSpeakers)); err != nil {
		return nil, "", fmt.Errorf("failed to write %s: %w", FieldNumSpeakers, err)
	}

	for _, sp := range r.Speakers {
		if err := mw.WriteField(FieldNames, sp.Name); err != nil {
			return nil, "", fmt.Errorf("failed to write %s: %w", FieldNames, err)
		}

		if err := writeSample(mw, FieldFiles, sp.Sample); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return &body, mw.FormDataContentType(), nil
}

func (r TranscribeRequest) encode() (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := writeSample(mw, FieldAudio, r.Recording); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	return &body, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeSample adds a file part carrying the sample's own content type.
func writeSample(mw *multipart.Writer, field string, s sample.Sample) error {
	filename := s.Name()
	if filename == "" {
		filename = "blob"
	}

	contentType := s.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", field, err)
	}

	if _, err := io.Copy(part, s.Reader()); err != nil {
		return fmt.Errorf("failed to write %s part: %w", field, err)
	}

	return nil
}

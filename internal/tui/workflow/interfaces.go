package workflow

import (
	"context"

	"github.com/alkime/speakerid/internal/backend"
)

// Backend submits enrollments and transcriptions to the recognition service.
type Backend interface {
	Enroll(ctx context.Context, req backend.EnrollRequest) error
	Transcribe(ctx context.Context, req backend.TranscribeRequest) (string, error)
}

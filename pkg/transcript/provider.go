package transcript

import (
	"context"
)

// TranscriptProvider fetches the spoken-word transcript of a video.
// Implementations return *apperror.ProviderError on failure, including
// videos that have no captions at all.
type TranscriptProvider interface {
	Fetch(ctx context.Context, videoId string) (string, error)
}

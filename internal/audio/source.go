package audio

import (
	"context"
	"errors"
)

var (
	ErrMicUnavailable    = errors.New("audio: microphone unavailable")
	ErrUnsupportedFormat = errors.New("audio: unsupported file format")
)

// Source delivers mono frames to a callback. Start blocks until ctx is done
// or the source is exhausted. The frame slice is reused between calls.
type Source interface {
	Start(ctx context.Context, fn func(frame []float32)) error
	Close() error
}

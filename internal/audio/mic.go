package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Mic reads the default input device through PortAudio.
type Mic struct {
	SampleRate      float64
	FramesPerBuffer int

	mu     sync.Mutex
	stream *portaudio.Stream
}

func NewMic(sampleRate float64, framesPerBuffer int) *Mic {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFrameSize
	}
	return &Mic{SampleRate: sampleRate, FramesPerBuffer: framesPerBuffer}
}

// Start opens the input stream and forwards every buffer to fn. Any failure to
// acquire the device wraps ErrMicUnavailable.
func (m *Mic) Start(ctx context.Context, fn func(frame []float32)) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}
	defer portaudio.Terminate()

	stream, err := portaudio.OpenDefaultStream(1, 0, m.SampleRate, m.FramesPerBuffer, func(in []float32) {
		fn(in)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}

	m.mu.Lock()
	m.stream = stream
	m.mu.Unlock()

	logger().Info("microphone started", "sample_rate", m.SampleRate, "frames", m.FramesPerBuffer)
	<-ctx.Done()
	logger().Debug("microphone stopping", "reason", ctx.Err())

	return m.Close()
}

// Close stops the stream if it is running.
func (m *Mic) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil
	}
	stream := m.stream
	m.stream = nil

	if err := stream.Stop(); err != nil {
		logger().Warn("stopping microphone stream", "error", err)
	}
	return stream.Close()
}

package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// File plays a decoded audio file as a Source. Stereo input is mixed down to
// mono.
type File struct {
	Path      string
	FrameSize int
	// Pace delivers frames in real time. Without it the file is read as fast
	// as the callback allows.
	Pace bool
	Loop bool

	streamer beep.StreamSeekCloser
	format   beep.Format
}

// OpenFile decodes a WAV, MP3 or FLAC file, chosen by extension.
func OpenFile(path string, frameSize int) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if frameSize <= 0 {
		frameSize = DefaultFrameSize
	}
	logger().Debug("audio file opened", "path", path, "sample_rate", int(format.SampleRate), "channels", format.NumChannels)

	return &File{
		Path:      path,
		FrameSize: frameSize,
		Pace:      true,
		streamer:  streamer,
		format:    format,
	}, nil
}

func (f *File) SampleRate() float64 { return float64(f.format.SampleRate) }

func (f *File) Duration() time.Duration {
	return f.format.SampleRate.D(f.streamer.Len())
}

func (f *File) Start(ctx context.Context, fn func(frame []float32)) error {
	buf := make([][2]float64, f.FrameSize)
	mono := make([]float32, f.FrameSize)

	var tick <-chan time.Time
	if f.Pace {
		t := time.NewTicker(f.format.SampleRate.D(f.FrameSize))
		defer t.Stop()
		tick = t.C
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, ok := f.streamer.Stream(buf)
		for i := 0; i < n; i++ {
			mono[i] = float32((buf[i][0] + buf[i][1]) / 2)
		}
		if n > 0 {
			fn(mono[:n])
		}

		if !ok {
			if err := f.streamer.Err(); err != nil {
				return fmt.Errorf("failed to stream %s: %w", f.Path, err)
			}
			if !f.Loop || f.streamer.Len() == 0 {
				logger().Debug("audio file finished", "path", f.Path)
				return nil
			}
			if err := f.streamer.Seek(0); err != nil {
				return fmt.Errorf("failed to rewind %s: %w", f.Path, err)
			}
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}
	}
}

// Close releases the decoder and the underlying file.
func (f *File) Close() error {
	return f.streamer.Close()
}

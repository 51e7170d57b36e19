// Package audio turns microphone or file input into a small, fixed-size array
// of frequency levels for audio-reactive visuals.
//
// A Source pushes mono frames into a callback; an Analyzer windows each frame,
// runs an FFT and folds the magnitudes into log-spaced bands in [0,1]:
//
//	a := audio.NewAnalyzer(audio.Options{SampleRate: 44100})
//	mic := audio.NewMic(44100, audio.DefaultFrameSize)
//	err := mic.Start(ctx, a.Write)
//	if errors.Is(err, audio.ErrMicUnavailable) {
//		// keep rendering with an inactive analyzer
//	}
package audio

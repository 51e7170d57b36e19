package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/motionkit/internal/mathx"
)

const (
	DefaultFrameSize  = 1024
	DefaultBins       = 32
	DefaultSmoothing  = 0.8
	DefaultSampleRate = 44100

	// Smoothing is tuned for frames of this rate and rescaled for others.
	smoothingRefFPS = float64(DefaultSampleRate) / DefaultFrameSize

	MinDecibels = -100.0
	MaxDecibels = -30.0

	bassCutoff = 250.0
	highCutoff = 4000.0
)

// Spectrum holds one level per band, low frequencies first, each in [0,1].
type Spectrum []float64

// Peak returns the loudest band level.
func (s Spectrum) Peak() float64 {
	p := 0.0
	for _, v := range s {
		p = max(p, v)
	}
	return p
}

type Options struct {
	FrameSize  int     `yaml:"frame_size" json:"frame_size"`
	Bins       int     `yaml:"bins" json:"bins"`
	Smoothing  float64 `yaml:"smoothing" json:"smoothing"`
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

func (o Options) withDefaults() Options {
	if o.FrameSize < 8 {
		o.FrameSize = DefaultFrameSize
	}
	if o.Bins <= 0 {
		o.Bins = DefaultBins
	}
	// Bin 0 is DC, so half-1 bins are left to share out.
	o.Bins = min(o.Bins, o.FrameSize/2-1)
	if o.Smoothing <= 0 || o.Smoothing >= 1 {
		o.Smoothing = DefaultSmoothing
	}
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	return o
}

// Analyzer converts audio frames into a Spectrum. Write may be called from an
// audio callback thread while Spectrum and Levels are read from the render
// loop.
type Analyzer struct {
	opts Options
	// retain is the share of the previous magnitude kept per frame.
	retain float64

	mu       sync.Mutex
	window   []float64
	pending  []float64
	windowed []float64
	smoothed []float64
	levels   []float64
	edges    []int
	bands    Spectrum
	bass     float64
	mid      float64
	high     float64
	frames   int
}

func NewAnalyzer(opts Options) *Analyzer {
	opts = opts.withDefaults()
	n := opts.FrameSize
	half := n / 2

	window := make([]float64, n)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	frameDur := float64(n) / opts.SampleRate

	return &Analyzer{
		opts:     opts,
		retain:   1 - mathx.DampFactor(1-opts.Smoothing, frameDur, smoothingRefFPS),
		window:   window,
		pending:  make([]float64, 0, n),
		windowed: make([]float64, n),
		smoothed: make([]float64, half),
		levels:   make([]float64, half),
		edges:    bandEdges(opts.Bins, half),
		bands:    make(Spectrum, opts.Bins),
	}
}

// bandEdges splits FFT bins 1..half into n log-spaced bands, each at least
// one bin wide. Band b covers [edges[b], edges[b+1]).
func bandEdges(n, half int) []int {
	edges := make([]int, n+1)
	edges[0] = 1
	for b := 1; b <= n; b++ {
		e := int(math.Round(math.Pow(float64(half), float64(b)/float64(n))))
		edges[b] = min(max(e, edges[b-1]+1), half-(n-b))
	}
	edges[n] = half
	return edges
}

func (a *Analyzer) Options() Options { return a.opts }

// Write buffers samples and analyzes every complete frame.
func (a *Analyzer) Write(samples []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range samples {
		a.pending = append(a.pending, float64(s))
		if len(a.pending) == a.opts.FrameSize {
			a.process(a.pending)
			a.pending = a.pending[:0]
		}
	}
}

// Process analyzes one frame directly. Short frames are zero padded.
func (a *Analyzer) Process(frame []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.process(frame)
}

func (a *Analyzer) process(frame []float64) {
	n := a.opts.FrameSize
	for i := range a.windowed {
		v := 0.0
		if i < len(frame) {
			v = frame[i]
		}
		a.windowed[i] = v * a.window[i]
	}

	spectrum := fft.FFTReal(a.windowed)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		a.smoothed[k] = a.retain*a.smoothed[k] + (1-a.retain)*mag
		a.levels[k] = normalizeDB(a.smoothed[k])
	}

	for b := range a.bands {
		lo, hi := a.edges[b], a.edges[b+1]
		sum := 0.0
		for k := lo; k < hi; k++ {
			sum += a.levels[k]
		}
		a.bands[b] = sum / float64(hi-lo)
	}

	a.bass, a.mid, a.high = a.rangeLevel(0, bassCutoff), a.rangeLevel(bassCutoff, highCutoff), a.rangeLevel(highCutoff, a.opts.SampleRate/2)
	a.frames++
}

// normalizeDB maps a linear magnitude onto [0,1] between MinDecibels and
// MaxDecibels. Silence maps to 0.
func normalizeDB(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	return mathx.Clamp01((db - MinDecibels) / (MaxDecibels - MinDecibels))
}

func (a *Analyzer) rangeLevel(fromHz, toHz float64) float64 {
	binHz := a.opts.SampleRate / float64(a.opts.FrameSize)
	lo := max(int(math.Ceil(fromHz/binHz)), 1)
	hi := min(int(math.Ceil(toHz/binHz)), len(a.levels))
	if hi <= lo {
		return 0
	}
	sum := 0.0
	for k := lo; k < hi; k++ {
		sum += a.levels[k]
	}
	return sum / float64(hi-lo)
}

// Spectrum returns a copy of the current band levels.
func (a *Analyzer) Spectrum() Spectrum {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(Spectrum, len(a.bands))
	copy(out, a.bands)
	return out
}

// Levels returns the average level below 250 Hz, between 250 Hz and 4 kHz,
// and above 4 kHz.
func (a *Analyzer) Levels() (bass, mid, high float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bass, a.mid, a.high
}

// Frames is the number of frames analyzed so far.
func (a *Analyzer) Frames() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

// BandFrequency returns the lower edge of band b in Hz.
func (a *Analyzer) BandFrequency(b int) float64 {
	if b < 0 || b >= len(a.bands) {
		return 0
	}
	return float64(a.edges[b]) * a.opts.SampleRate / float64(a.opts.FrameSize)
}

func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = a.pending[:0]
	clear(a.smoothed)
	clear(a.levels)
	clear(a.bands)
	a.bass, a.mid, a.high = 0, 0, 0
	a.frames = 0
}

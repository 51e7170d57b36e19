package control

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/motionkit/internal/dynamo"
)

var ErrMalformedKeyframe = errors.New("control: malformed keyframe")

// Keyframe sets the target from At seconds on.
type Keyframe struct {
	At     float64    `yaml:"at" json:"at"`
	Target dynamo.Vec `yaml:"target" json:"target"`
}

// Keyframes holds the initial target until the first keyframe time, then
// each keyframe's target until the next one.
type Keyframes struct {
	initial dynamo.Input
	frames  []Keyframe
}

func NewKeyframes(initial dynamo.Vec, frames ...Keyframe) *Keyframes {
	sorted := append([]Keyframe(nil), frames...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Keyframes{initial: dynamo.Input(initial.Clone()), frames: sorted}
}

func (k *Keyframes) Drive(x dynamo.State, t float64) dynamo.Input {
	u := k.initial
	for _, f := range k.frames {
		if t < f.At {
			break
		}
		u = dynamo.Input(f.Target)
	}
	return u
}

func (k *Keyframes) Len() int { return len(k.frames) }

// ParseKeyframes reads "time:value" pairs separated by commas, e.g.
// "0.5:200,1.2:40". Vector targets separate components with spaces.
func ParseKeyframes(s string) ([]Keyframe, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var frames []Keyframe
	for _, part := range strings.Split(s, ",") {
		at, value, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKeyframe, part)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(at), 64)
		if err != nil || t < 0 {
			return nil, fmt.Errorf("%w: bad time in %q", ErrMalformedKeyframe, part)
		}
		var target dynamo.Vec
		for _, field := range strings.Fields(value) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad value in %q", ErrMalformedKeyframe, part)
			}
			target = append(target, v)
		}
		if len(target) == 0 {
			return nil, fmt.Errorf("%w: missing value in %q", ErrMalformedKeyframe, part)
		}
		frames = append(frames, Keyframe{At: t, Target: target})
	}
	return frames, nil
}

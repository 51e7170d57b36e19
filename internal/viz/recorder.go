package viz

import (
	"errors"
	"image"
	"image/gif"
	"os"
)

var ErrNoFrames = errors.New("viz: no frames captured")

// SaveGIF writes frames as a looping animation at roughly 50 fps.
func SaveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

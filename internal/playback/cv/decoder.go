// Package cv decodes clips with OpenCV through gocv.
package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"movie-quiz/internal/playback"
)

// Decoder opens videos and scales every frame to a fixed size.
type Decoder struct {
	size image.Point
}

func NewDecoder(width, height int) *Decoder {
	return &Decoder{size: image.Pt(width, height)}
}

func (d *Decoder) Open(path string) (playback.FrameSource, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", playback.ErrVideoOpen, path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s", playback.ErrVideoOpen, path)
	}
	return &source{
		vc:     vc,
		size:   d.size,
		frame:  gocv.NewMat(),
		scaled: gocv.NewMat(),
		rgba:   gocv.NewMat(),
	}, nil
}

type source struct {
	vc     *gocv.VideoCapture
	size   image.Point
	frame  gocv.Mat
	scaled gocv.Mat
	rgba   gocv.Mat
}

// Next reads one BGR frame, resizes it and converts it to RGBA.
func (s *source) Next() (image.Image, bool) {
	if ok := s.vc.Read(&s.frame); !ok || s.frame.Empty() {
		return nil, false
	}
	gocv.Resize(s.frame, &s.scaled, s.size, 0, 0, gocv.InterpolationLinear)
	gocv.CvtColor(s.scaled, &s.rgba, gocv.ColorBGRToRGBA)

	img := image.NewRGBA(image.Rect(0, 0, s.size.X, s.size.Y))
	copy(img.Pix, s.rgba.ToBytes())
	return img, true
}

func (s *source) Close() error {
	s.frame.Close()
	s.scaled.Close()
	s.rgba.Close()
	return s.vc.Close()
}

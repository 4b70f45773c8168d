// Package playback drives clip playback one frame per tick.
//
// The loop never sleeps or spawns goroutines. Each tick is handed to a
// Scheduler, which is expected to run it on the same thread of control as
// every other UI callback.
package playback

import (
	"errors"
	"image"
	"log"
	"time"
)

var ErrVideoOpen = errors.New("video open failed")

type State int

const (
	StateIdle State = iota
	StatePlaying
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// FrameSource yields display-ready frames until it is exhausted.
type FrameSource interface {
	Next() (image.Image, bool)
	Close() error
}

type Decoder interface {
	Open(path string) (FrameSource, error)
}

// Scheduler runs fn once after d. The returned func cancels it if it has
// not run yet.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// Surface receives each decoded frame.
type Surface interface {
	ShowFrame(img image.Image)
}

type Loop struct {
	decoder  Decoder
	sched    Scheduler
	surface  Surface
	interval time.Duration

	state  State
	gen    uint64
	src    FrameSource
	cancel func()
	onDone func()
	frames int
}

func NewLoop(decoder Decoder, sched Scheduler, surface Surface, interval time.Duration) *Loop {
	return &Loop{
		decoder:  decoder,
		sched:    sched,
		surface:  surface,
		interval: interval,
	}
}

// Play satisfies quiz.Player.
func (l *Loop) Play(path string, onDone func()) { l.Open(path, onDone) }

// Open starts playback of path. A file that cannot be opened plays zero
// frames, so the first tick finishes the loop and calls onDone.
func (l *Loop) Open(path string, onDone func()) {
	l.Stop()

	l.gen++
	l.state = StatePlaying
	l.onDone = onDone
	l.frames = 0

	src, err := l.decoder.Open(path)
	if err != nil {
		log.Printf("Warning: %v", err)
		src = nil
	}
	l.src = src
	l.schedule(0)
}

// Stop ends playback without calling onDone. It releases the decoder and
// drops any pending tick. Calling it when nothing is playing is a no-op.
func (l *Loop) Stop() {
	if l.state != StatePlaying {
		return
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.release()
	l.onDone = nil
	l.state = StateFinished
	log.Printf("Playback stopped after %d frames", l.frames)
}

func (l *Loop) State() State { return l.state }

// Frames is the number of frames rendered since the last Open.
func (l *Loop) Frames() int { return l.frames }

func (l *Loop) schedule(d time.Duration) {
	gen := l.gen
	l.cancel = l.sched.After(d, func() { l.tick(gen) })
}

func (l *Loop) tick(gen uint64) {
	if l.state != StatePlaying || gen != l.gen {
		return
	}
	l.cancel = nil

	if l.src != nil {
		if img, ok := l.src.Next(); ok {
			l.frames++
			l.surface.ShowFrame(img)
			l.schedule(l.interval)
			return
		}
	}

	l.release()
	l.state = StateFinished
	done := l.onDone
	l.onDone = nil
	log.Printf("Playback finished after %d frames", l.frames)
	if done != nil {
		done()
	}
}

func (l *Loop) release() {
	if l.src == nil {
		return
	}
	if err := l.src.Close(); err != nil {
		log.Printf("Error releasing video: %v", err)
	}
	l.src = nil
}

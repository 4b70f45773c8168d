// internal/quiz/service.go
package quiz

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"movie-quiz/internal/models"
)

var (
	ErrEmptyStore   = errors.New("no quiz data")
	ErrNotAnswering = errors.New("no question is waiting for an answer")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseOptions
	PhaseOver
	PhaseEmpty
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseOptions:
		return "options"
	case PhaseOver:
		return "over"
	case PhaseEmpty:
		return "empty"
	}
	return "unknown"
}

// Player plays a clip and calls onDone once it has run out of frames.
type Player interface {
	Play(path string, onDone func())
	Stop()
}

// Service runs one game session: a streak of rounds that ends on the first
// wrong answer.
type Service struct {
	repo   *Repository
	player Player
	rng    *rand.Rand

	phase   Phase
	score   int
	current models.QuizRecord
	options []string
}

func NewService(repo *Repository, player Player, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		repo:   repo,
		player: player,
		rng:    rng,
	}
}

func (s *Service) StartGame() error {
	s.score = 0
	return s.NextQuestion()
}

// NextQuestion draws a record uniformly at random, with replacement, and
// starts its clip. Options are shown when playback completes.
func (s *Service) NextQuestion() error {
	s.options = nil
	if s.repo.Len() == 0 {
		s.phase = PhaseEmpty
		return ErrEmptyStore
	}

	s.current = s.repo.At(s.rng.Intn(s.repo.Len()))
	s.phase = PhasePlaying
	log.Printf("Round started: %s (score %d)", s.current.Filename, s.score)
	s.player.Play(s.current.Filename, s.ShowOptions)
	return nil
}

// ShowOptions shuffles a copy of the current record's options. The stored
// order is left alone.
func (s *Service) ShowOptions() {
	if s.phase != PhasePlaying {
		return
	}
	opts := append([]string(nil), s.current.Options...)
	s.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	s.options = opts
	s.phase = PhaseOptions
}

// CheckAnswer scores the selection. A correct answer starts the next round
// and returns true; anything else ends the game.
func (s *Service) CheckAnswer(selected string) (bool, error) {
	if s.phase != PhaseOptions {
		return false, ErrNotAnswering
	}
	if selected == s.current.Correct {
		s.score++
		return true, s.NextQuestion()
	}
	s.phase = PhaseOver
	s.options = nil
	log.Printf("Game over with score %d", s.score)
	return false, nil
}

// Abort stops any running clip and leaves the session idle.
func (s *Service) Abort() {
	if s.phase == PhasePlaying {
		s.player.Stop()
	}
	s.phase = PhaseIdle
	s.options = nil
}

func (s *Service) Phase() Phase { return s.phase }

func (s *Service) Score() int { return s.score }

func (s *Service) Current() models.QuizRecord { return s.current.Clone() }

func (s *Service) Options() []string { return append([]string(nil), s.options...) }

package quiz

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"movie-quiz/internal/models"
)

type fakePlayer struct {
	played []string
	onDone func()
	stops  int
}

func (f *fakePlayer) Play(path string, onDone func()) {
	f.played = append(f.played, path)
	f.onDone = onDone
}

func (f *fakePlayer) Stop() { f.stops++ }

// finish simulates the clip running out of frames.
func (f *fakePlayer) finish() {
	done := f.onDone
	f.onDone = nil
	if done != nil {
		done()
	}
}

func newTestService(t *testing.T, records []models.QuizRecord) (*Service, *fakePlayer) {
	t.Helper()
	repo := newTestRepository(t)
	if len(records) > 0 {
		if err := repo.Save(records); err != nil {
			t.Fatal(err)
		}
	}
	player := &fakePlayer{}
	return NewService(repo, player, rand.New(rand.NewSource(1))), player
}

func matrixRecord() models.QuizRecord {
	return models.QuizRecord{
		Filename: "a.mp4",
		Correct:  "Matrix",
		Options:  []string{"Matrix", "Up", "Cars", "Alien", "Her"},
	}
}

func TestServiceStartGameEmptyStore(t *testing.T) {
	svc, player := newTestService(t, nil)

	err := svc.StartGame()
	if !errors.Is(err, ErrEmptyStore) {
		t.Fatalf("expected ErrEmptyStore, got %v", err)
	}
	if svc.Phase() != PhaseEmpty {
		t.Fatalf("phase = %v, want empty", svc.Phase())
	}
	if len(player.played) != 0 {
		t.Fatalf("nothing should play on an empty store")
	}
}

func TestServiceMatrixScenario(t *testing.T) {
	svc, player := newTestService(t, []models.QuizRecord{matrixRecord()})

	if err := svc.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if svc.Phase() != PhasePlaying || player.played[0] != "a.mp4" {
		t.Fatalf("expected a.mp4 to play, phase=%v played=%v", svc.Phase(), player.played)
	}
	if cur := svc.Current(); cur.Correct != "Matrix" || cur.Filename != "a.mp4" {
		t.Fatalf("current record = %+v", cur)
	}

	player.finish()
	if svc.Phase() != PhaseOptions {
		t.Fatalf("phase after playback = %v", svc.Phase())
	}
	got := svc.Options()
	sort.Strings(got)
	want := []string{"Alien", "Cars", "Her", "Matrix", "Up"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("options = %v, want permutation of %v", svc.Options(), want)
		}
	}

	ok, err := svc.CheckAnswer("Matrix")
	if err != nil || !ok {
		t.Fatalf("CheckAnswer(correct) = %v, %v", ok, err)
	}
	if svc.Score() != 1 {
		t.Fatalf("score = %d, want 1", svc.Score())
	}
	if svc.Phase() != PhasePlaying || len(player.played) != 2 || player.played[1] != "a.mp4" {
		t.Fatalf("expected the same record to replay, phase=%v played=%v", svc.Phase(), player.played)
	}

	player.finish()
	ok, err = svc.CheckAnswer("Up")
	if err != nil || ok {
		t.Fatalf("CheckAnswer(wrong) = %v, %v", ok, err)
	}
	if svc.Phase() != PhaseOver {
		t.Fatalf("phase = %v, want over", svc.Phase())
	}
	if svc.Score() != 1 {
		t.Fatalf("final score = %d, want 1", svc.Score())
	}
}

func TestServiceCorrectAnswerAlwaysIncrementsByOne(t *testing.T) {
	svc, player := newTestService(t, []models.QuizRecord{matrixRecord()})
	if err := svc.StartGame(); err != nil {
		t.Fatal(err)
	}
	for round := 1; round <= 25; round++ {
		player.finish()
		if _, err := svc.CheckAnswer("Matrix"); err != nil {
			t.Fatal(err)
		}
		if svc.Score() != round {
			t.Fatalf("round %d: score = %d", round, svc.Score())
		}
	}
}

func TestServiceShuffleDoesNotTouchStore(t *testing.T) {
	svc, player := newTestService(t, []models.QuizRecord{matrixRecord()})
	if err := svc.StartGame(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		player.finish()
		if _, err := svc.CheckAnswer("Matrix"); err != nil {
			t.Fatal(err)
		}
	}
	stored := svc.repo.At(0).Options
	if stored[0] != "Matrix" || stored[4] != "Her" {
		t.Fatalf("stored option order changed: %v", stored)
	}
}

func TestServiceCheckAnswerOutsideOptions(t *testing.T) {
	svc, _ := newTestService(t, []models.QuizRecord{matrixRecord()})
	if err := svc.StartGame(); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CheckAnswer("Matrix"); !errors.Is(err, ErrNotAnswering) {
		t.Fatalf("expected ErrNotAnswering while playing, got %v", err)
	}
	if svc.Score() != 0 {
		t.Fatalf("score changed outside options: %d", svc.Score())
	}
}

func TestServiceStartGameResetsScore(t *testing.T) {
	svc, player := newTestService(t, []models.QuizRecord{matrixRecord()})
	_ = svc.StartGame()
	player.finish()
	_, _ = svc.CheckAnswer("Matrix")
	player.finish()
	_, _ = svc.CheckAnswer("Cars")

	if err := svc.StartGame(); err != nil {
		t.Fatal(err)
	}
	if svc.Score() != 0 {
		t.Fatalf("score not reset: %d", svc.Score())
	}
}

func TestServiceAbortStopsPlayback(t *testing.T) {
	svc, player := newTestService(t, []models.QuizRecord{matrixRecord()})
	_ = svc.StartGame()
	svc.Abort()
	if player.stops != 1 {
		t.Fatalf("expected one Stop, got %d", player.stops)
	}
	if svc.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", svc.Phase())
	}
	// A late completion must not reopen the options screen.
	player.finish()
	if svc.Phase() != PhaseIdle {
		t.Fatalf("late completion changed phase to %v", svc.Phase())
	}
}

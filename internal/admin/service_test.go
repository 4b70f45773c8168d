package admin

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"movie-quiz/internal/models"
	"movie-quiz/internal/quiz"
)

type fakeImporter struct {
	calls []string
	err   error
}

func (f *fakeImporter) Import(sourcePath string) (string, error) {
	f.calls = append(f.calls, sourcePath)
	if sourcePath == "" {
		return "", quiz.ErrNoFileSelected
	}
	if f.err != nil {
		return "", f.err
	}
	return filepath.Join("media", filepath.Base(sourcePath)), nil
}

func newTestService(t *testing.T) (*Service, *quiz.Repository) {
	t.Helper()
	repo := quiz.NewRepository(filepath.Join(t.TempDir(), "quiz_data.json"))
	if err := repo.Save([]models.QuizRecord{
		{Filename: "media/old.mp4", Correct: "Alien", Options: []string{"Up", "Cars", "Her", "Heat", "Alien"}},
	}); err != nil {
		t.Fatal(err)
	}
	return NewService(repo, &fakeImporter{}), repo
}

func TestSaveBuildsOptionsDecoysThenCorrect(t *testing.T) {
	svc, repo := newTestService(t)
	svc.BeginAdd()
	if _, err := svc.SelectFile("/home/me/clip.mp4"); err != nil {
		t.Fatalf("SelectFile failed: %v", err)
	}
	svc.SetFields("  Matrix ", []string{"Up", " Cars", "Alien", "Her"})

	rec, err := svc.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := models.QuizRecord{
		Filename: filepath.Join("media", "clip.mp4"),
		Correct:  "Matrix",
		Options:  []string{"Up", "Cars", "Alien", "Her", "Matrix"},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("record = %+v, want %+v", rec, want)
	}
	if !rec.HasCorrectOption() {
		t.Fatalf("correct title not among options")
	}
	if repo.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", repo.Len())
	}
	if svc.Form() != (Form{}) {
		t.Fatalf("draft should be cleared after save: %+v", svc.Form())
	}
}

func TestSaveWithEmptyDecoyLeavesStoreUntouched(t *testing.T) {
	svc, repo := newTestService(t)
	before, err := os.ReadFile(repo.Path())
	if err != nil {
		t.Fatal(err)
	}

	svc.BeginAdd()
	if _, err := svc.SelectFile("/tmp/clip.mp4"); err != nil {
		t.Fatal(err)
	}
	svc.SetFields("Matrix", []string{"Up", "   ", "Alien", "Her"})

	if _, err := svc.Save(); !errors.Is(err, ErrIncompleteForm) {
		t.Fatalf("expected ErrIncompleteForm, got %v", err)
	}
	if repo.Len() != 1 {
		t.Fatalf("record appended despite validation failure")
	}
	after, err := os.ReadFile(repo.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("store file changed on disk")
	}
	if svc.Form().Correct != "Matrix" || svc.Form().File == "" {
		t.Fatalf("draft should be kept for correction: %+v", svc.Form())
	}
}

func TestSaveWithoutFile(t *testing.T) {
	svc, repo := newTestService(t)
	svc.BeginAdd()
	svc.SetFields("Matrix", []string{"Up", "Cars", "Alien", "Her"})

	if _, err := svc.Save(); !errors.Is(err, quiz.ErrNoFileSelected) {
		t.Fatalf("expected ErrNoFileSelected, got %v", err)
	}
	if repo.Len() != 1 {
		t.Fatalf("record appended without a file")
	}
}

func TestSelectFileCancelledKeepsDraft(t *testing.T) {
	svc, _ := newTestService(t)
	svc.BeginAdd()
	if _, err := svc.SelectFile("/tmp/clip.mp4"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SelectFile(""); !errors.Is(err, quiz.ErrNoFileSelected) {
		t.Fatalf("expected ErrNoFileSelected, got %v", err)
	}
	if svc.Form().File != filepath.Join("media", "clip.mp4") {
		t.Fatalf("cancel should keep the earlier selection, got %q", svc.Form().File)
	}
}

func TestTitlesInStoreOrder(t *testing.T) {
	svc, _ := newTestService(t)
	svc.BeginAdd()
	_, _ = svc.SelectFile("/tmp/b.mp4")
	svc.SetFields("Heat", []string{"a", "b", "c", "d"})
	if _, err := svc.Save(); err != nil {
		t.Fatal(err)
	}

	if got := svc.Titles(); !reflect.DeepEqual(got, []string{"Alien", "Heat"}) {
		t.Fatalf("Titles = %v", got)
	}
}

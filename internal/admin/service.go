package admin

import (
	"errors"
	"strings"

	"movie-quiz/internal/models"
	"movie-quiz/internal/quiz"
)

const DecoyCount = 4

var ErrIncompleteForm = errors.New("fill in all fields")

// Importer places a picked file in the media directory.
type Importer interface {
	Import(sourcePath string) (string, error)
}

// Form is the add-quiz draft. It survives failed saves so the user can fix
// whatever was missing.
type Form struct {
	File    string
	Correct string
	Decoys  [DecoyCount]string
}

type Service struct {
	repo     *quiz.Repository
	importer Importer
	form     Form
}

func NewService(repo *quiz.Repository, importer Importer) *Service {
	return &Service{repo: repo, importer: importer}
}

// BeginAdd starts a fresh draft.
func (s *Service) BeginAdd() { s.form = Form{} }

func (s *Service) Form() Form { return s.form }

// SelectFile imports sourcePath and attaches the result to the draft. An
// empty path means the picker was cancelled and leaves the draft as is.
func (s *Service) SelectFile(sourcePath string) (string, error) {
	dest, err := s.importer.Import(sourcePath)
	if err != nil {
		return "", err
	}
	s.form.File = dest
	return dest, nil
}

func (s *Service) SetFields(correct string, decoys []string) {
	s.form.Correct = correct
	for i := range s.form.Decoys {
		if i < len(decoys) {
			s.form.Decoys[i] = decoys[i]
		} else {
			s.form.Decoys[i] = ""
		}
	}
}

// Save validates the draft and appends it to the store. Options are
// stored as the decoys followed by the correct title.
func (s *Service) Save() (models.QuizRecord, error) {
	if s.form.File == "" {
		return models.QuizRecord{}, quiz.ErrNoFileSelected
	}
	correct := strings.TrimSpace(s.form.Correct)
	if correct == "" {
		return models.QuizRecord{}, ErrIncompleteForm
	}
	options := make([]string, 0, DecoyCount+1)
	for _, decoy := range s.form.Decoys {
		decoy = strings.TrimSpace(decoy)
		if decoy == "" {
			return models.QuizRecord{}, ErrIncompleteForm
		}
		options = append(options, decoy)
	}
	options = append(options, correct)

	record := models.QuizRecord{
		Filename: s.form.File,
		Correct:  correct,
		Options:  options,
	}
	if err := s.repo.Append(record); err != nil {
		return models.QuizRecord{}, err
	}
	s.form = Form{}
	return record, nil
}

// Titles lists the correct title of every record in store order.
func (s *Service) Titles() []string {
	records := s.repo.All()
	titles := make([]string, 0, len(records))
	for _, rec := range records {
		titles = append(titles, rec.Correct)
	}
	return titles
}

// internal/quiz/repository.go
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"movie-quiz/internal/models"
)

// StoreLoadError reports a quiz file that exists but cannot be decoded.
type StoreLoadError struct {
	Path string
	Err  error
}

func (e *StoreLoadError) Error() string {
	return fmt.Sprintf("load quiz store %s: %v", e.Path, e.Err)
}

func (e *StoreLoadError) Unwrap() error { return e.Err }

// Repository keeps the ordered record list in memory and mirrors it to a
// JSON file on every change. It is owned by the app loop and is not safe
// for concurrent use.
type Repository struct {
	path    string
	records []models.QuizRecord
}

func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) Path() string { return r.path }

// Load replaces the in-memory list with the file contents. A missing file
// yields an empty store.
func (r *Repository) Load() error {
	records, err := ReadRecords(r.path)
	if err != nil {
		return err
	}
	r.records = records
	log.Printf("Loaded %d quiz records from %s", len(records), r.path)
	return nil
}

// Save overwrites the file with records and adopts them as the in-memory list.
func (r *Repository) Save(records []models.QuizRecord) error {
	if err := WriteRecords(r.path, records); err != nil {
		return err
	}
	r.records = records
	return nil
}

// Append adds one record and persists the whole list. On a failed write the
// in-memory list is left as it was.
func (r *Repository) Append(record models.QuizRecord) error {
	next := make([]models.QuizRecord, 0, len(r.records)+1)
	next = append(next, r.records...)
	next = append(next, record.Clone())
	if err := r.Save(next); err != nil {
		log.Printf("Error saving quiz store: %v", err)
		return err
	}
	log.Printf("Appended quiz record %q (%d total)", record.Correct, len(next))
	return nil
}

// All returns a copy of the records in store order.
func (r *Repository) All() []models.QuizRecord {
	out := make([]models.QuizRecord, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Clone()
	}
	return out
}

func (r *Repository) Len() int { return len(r.records) }

// At returns a copy of the record at index i.
func (r *Repository) At(i int) models.QuizRecord { return r.records[i].Clone() }

// QuarantineCorrupt moves an undecodable store file aside so the next save
// does not overwrite it, and returns the new name.
func (r *Repository) QuarantineCorrupt() (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%d", r.path, time.Now().Unix())
	if err := os.Rename(r.path, dest); err != nil {
		return "", fmt.Errorf("quarantine quiz store: %w", err)
	}
	return dest, nil
}

// ReadRecords decodes the JSON array at path. A missing or empty file
// returns an empty list and nil error.
func ReadRecords(path string) ([]models.QuizRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.QuizRecord{}, nil
		}
		return nil, fmt.Errorf("open quiz store: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read quiz store: %w", err)
	}
	if len(data) == 0 {
		return []models.QuizRecord{}, nil
	}
	var records []models.QuizRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StoreLoadError{Path: path, Err: err}
	}
	if records == nil {
		records = []models.QuizRecord{}
	}
	return records, nil
}

// WriteRecords writes records to path as indented JSON through a temp file
// and a rename.
func WriteRecords(path string, records []models.QuizRecord) error {
	if records == nil {
		records = []models.QuizRecord{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode quiz store: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

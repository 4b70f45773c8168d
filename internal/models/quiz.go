// internal/models/quiz.go
package models

// QuizRecord pairs a video clip with its correct title and the titles
// offered to the player. Options holds the decoys followed by the correct
// title; presentation order is decided per round.
type QuizRecord struct {
	Filename string   `json:"filename"`
	Correct  string   `json:"correct"`
	Options  []string `json:"options"`
}

// HasCorrectOption reports whether Correct is one of Options.
func (r QuizRecord) HasCorrectOption() bool {
	for _, opt := range r.Options {
		if opt == r.Correct {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slice memory with r.
func (r QuizRecord) Clone() QuizRecord {
	out := r
	out.Options = append([]string(nil), r.Options...)
	return out
}

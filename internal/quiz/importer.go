package quiz

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

var ErrNoFileSelected = errors.New("no file selected")

// Importer moves picked videos into the media directory.
type Importer struct {
	mediaDir string
}

func NewImporter(mediaDir string) *Importer {
	return &Importer{mediaDir: mediaDir}
}

// Import moves sourcePath to mediaDir/<basename> and returns the destination.
// When the destination already exists it is reused as-is and the source is
// not touched; files are matched by name only.
func (i *Importer) Import(sourcePath string) (string, error) {
	if sourcePath == "" {
		return "", ErrNoFileSelected
	}
	if err := os.MkdirAll(i.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	dest := filepath.Join(i.mediaDir, filepath.Base(sourcePath))
	if _, err := os.Stat(dest); err == nil {
		log.Printf("Media %s already present, reusing it", dest)
		return dest, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", dest, err)
	}

	if err := moveFile(sourcePath, dest); err != nil {
		return "", err
	}
	log.Printf("Imported %s to %s", sourcePath, dest)
	return dest, nil
}

// moveFile renames src to dst, copying across filesystems when rename fails.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy media: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}
	in.Close()
	if err := os.Remove(src); err != nil {
		log.Printf("Warning: copied %s but could not remove it: %v", src, err)
	}
	return nil
}

package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNotVideo = errors.New("not a video file")

// Listing is one directory of the picker, relative to the picker root.
type Listing struct {
	Path   string   // relative path from root ("" for root)
	Parent string   // relative path to parent ("" at root)
	Dirs   []string // child directory names
	Files  []string // video file names
}

// List reads root/rel and keeps directories plus files whose extension is
// in exts (lower-case, with dot). Hidden entries are skipped.
func List(root, rel string, exts []string) (Listing, error) {
	listing := Listing{Path: cleanRel(rel)}
	if listing.Path != "" {
		listing.Parent = parentOf(listing.Path)
	}

	dir := filepath.Join(root, listing.Path)
	if !IsSubpath(root, dir) {
		return listing, os.ErrPermission
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return listing, err
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			listing.Dirs = append(listing.Dirs, name)
			continue
		}
		if hasExt(name, exts) {
			listing.Files = append(listing.Files, name)
		}
	}

	sortFold(listing.Dirs)
	sortFold(listing.Files)
	return listing, nil
}

// Resolve maps a picker-relative path to a filesystem path under root.
func Resolve(root, rel string) (string, error) {
	p := filepath.Join(root, cleanRel(rel))
	if !IsSubpath(root, p) {
		return "", os.ErrPermission
	}
	return p, nil
}

// CheckVideo returns ErrNotVideo unless path is a regular file whose
// extension is in exts.
func CheckVideo(path string, exts []string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() || !hasExt(path, exts) {
		return fmt.Errorf("%w: %s", ErrNotVideo, filepath.Base(path))
	}
	return nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Join builds the relative path of a child entry.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// IsSubpath reports whether p is root or inside it.
func IsSubpath(root, p string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absP, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absP)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func cleanRel(rel string) string {
	rel = filepath.Clean(filepath.FromSlash(rel))
	rel = strings.TrimPrefix(rel, string(filepath.Separator))
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func parentOf(rel string) string {
	i := strings.LastIndex(rel, "/")
	if i < 0 {
		return ""
	}
	return rel[:i]
}

func sortFold(names []string) {
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li == lj {
			return names[i] < names[j]
		}
		return li < lj
	})
}

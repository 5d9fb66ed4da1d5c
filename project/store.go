package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotFound    = errors.New("project file not found")
	ErrInvalidPath = errors.New("invalid project path")
)

// File names inside a project directory.
const (
	ScriptFile           = "script.md"
	TranscriptionFile    = "transcription.json"
	TranscriptionSRTFile = "transcription.srt"
	ImageSelectionFile   = "image_selection.json"
	StoryboardsDir       = "storyboards"
)

// SanitizePath cleans p and rejects directory traversal.
func SanitizePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: directory traversal in %q", ErrInvalidPath, p)
		}
	}
	return filepath.Clean(p), nil
}

// Store reads and writes the files of one project directory.
type Store struct {
	Root string
}

// Open returns a Store for an existing project directory.
func Open(root string) (*Store, error) {
	clean, err := SanitizePath(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, clean)
	}
	return &Store{Root: clean}, nil
}

func (s *Store) path(elem ...string) string {
	return filepath.Join(append([]string{s.Root}, elem...)...)
}

// LoadScript returns the full narration script.
func (s *Store) LoadScript() (string, error) {
	b, err := readFile(s.path(ScriptFile))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LoadTranscription reads transcription.json.
func (s *Store) LoadTranscription() ([]TranscriptionWord, error) {
	var words []TranscriptionWord
	if err := readJSON(s.path(TranscriptionFile), &words); err != nil {
		return nil, err
	}
	return words, nil
}

// SaveTranscription writes transcription.json.
func (s *Store) SaveTranscription(words []TranscriptionWord) error {
	return WriteJSON(s.path(TranscriptionFile), words)
}

// CreateSRT opens transcription.srt for writing.
func (s *Store) CreateSRT() (io.WriteCloser, error) {
	return os.Create(s.path(TranscriptionSRTFile))
}

// LoadStoryboard reads storyboards/<style>.json.
func (s *Store) LoadStoryboard(style Style) ([]StoryboardRow, error) {
	var rows []StoryboardRow
	if err := readJSON(s.path(StoryboardsDir, string(style)+".json"), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveStoryboard writes storyboards/<style>.json.
func (s *Store) SaveStoryboard(style Style, rows []StoryboardRow) error {
	if err := os.MkdirAll(s.path(StoryboardsDir), 0o755); err != nil {
		return err
	}
	return WriteJSON(s.path(StoryboardsDir, string(style)+".json"), rows)
}

// LoadImageSelection reads image_selection.json. A missing file is an
// empty selection.
func (s *Store) LoadImageSelection() (ImageSelection, error) {
	sel := ImageSelection{}
	err := readJSON(s.path(ImageSelectionFile), &sel)
	if errors.Is(err, ErrNotFound) {
		return ImageSelection{}, nil
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// SaveImageSelection writes image_selection.json.
func (s *Store) SaveImageSelection(sel ImageSelection) error {
	return WriteJSON(s.path(ImageSelectionFile), sel)
}

// Styles lists the known styles that have a storyboard on disk.
func (s *Store) Styles() ([]Style, error) {
	entries, err := os.ReadDir(s.path(StoryboardsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Style
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		st, err := ParseStyle(name)
		if err != nil || string(st) != name {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return styleRank(out[i]) < styleRank(out[j]) })
	return out, nil
}

func styleRank(st Style) int {
	for i, s := range Styles {
		if s == st {
			return i
		}
	}
	return len(Styles)
}

// WriteJSON writes v to path as indented JSON.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return b, nil
}

func readJSON(path string, v any) error {
	b, err := readFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s decode: %w", filepath.Base(path), err)
	}
	return nil
}

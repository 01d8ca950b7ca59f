// Package gallery keeps a library of puzzle images between runs.
//
// Entries hold the encoded image bytes as uploaded, so a puzzle can be
// restarted from the library with any piece count.
package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/jigsaw"
)

var (
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("gallery: entry not found")

	// ErrEmptyImage is returned when saving an entry without image data.
	ErrEmptyImage = errors.New("gallery: empty image")
)

// Entry is one saved puzzle image.
type Entry struct {
	ID        string    `json:"id"`
	Image     []byte    `json:"image"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Store persists puzzle images.
type Store interface {
	// Save stores an image under a generated name and returns its id.
	Save(ctx context.Context, image []byte) (string, error)
	// SaveNamed stores an image under the given name and returns its id.
	SaveNamed(ctx context.Context, image []byte, name string) (string, error)
	// List returns every entry in insertion order.
	List(ctx context.Context) ([]Entry, error)
	// Get returns the entry with the given id.
	Get(ctx context.Context, id string) (Entry, error)
	// Delete removes the entry with the given id. Deleting an unknown id
	// is not an error.
	Delete(ctx context.Context, id string) error
}

// FileStore keeps all entries in a single JSON array file.
//
// A missing or unreadable file reads as an empty library, and entries
// that cannot be decoded are skipped, so a damaged file never blocks
// starting a new puzzle. The first write after such a read moves the
// damaged file to BackupPath instead of discarding it. FileStore is safe for concurrent use within one
// process.
type FileStore struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock sets the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewFileStore returns a store backed by the file at path. The file and
// its directory are created on the first save.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store. The entry is named "Puzzle N" where N is its
// position in the library.
func (s *FileStore) Save(ctx context.Context, image []byte) (string, error) {
	return s.SaveNamed(ctx, image, "")
}

// SaveNamed implements Store. The name is trimmed and normalized to NFC;
// an empty name falls back to the generated one.
func (s *FileStore) SaveNamed(ctx context.Context, image []byte, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(image) == 0 {
		return "", ErrEmptyImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForUpdate()
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	ms := now.UnixMilli()
	for slices.ContainsFunc(entries, func(e Entry) bool { return e.ID == entryID(ms) }) {
		ms++
	}

	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		name = fmt.Sprintf("Puzzle %d", len(entries)+1)
	}

	e := Entry{
		ID:        entryID(ms),
		Image:     slices.Clone(image),
		Name:      name,
		Timestamp: now,
	}
	if err := s.store(append(entries, e)); err != nil {
		return "", err
	}
	jigsaw.Logger().Debug("gallery: saved", "id", e.ID, "name", e.Name, "bytes", len(image))
	return e.ID, nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, _ := s.load()
	return entries, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, id string) (Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadForUpdate()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(entries, func(e Entry) bool { return e.ID == id })
	return s.store(kept)
}

// load reads the library, degrading to an empty list on any failure.
// damaged reports that the file held data which could not be decoded.
func (s *FileStore) load() (entries []Entry, damaged bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			jigsaw.Logger().Warn("gallery: cannot read library", "path", s.path, "err", err)
		}
		return nil, false
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		jigsaw.Logger().Warn("gallery: library is not a JSON array", "path", s.path, "err", err)
		return nil, true
	}

	entries = make([]Entry, 0, len(raw))
	for i, r := range raw {
		var e Entry
		if err := json.Unmarshal(r, &e); err != nil || e.ID == "" || len(e.Image) == 0 {
			jigsaw.Logger().Warn("gallery: skipping entry", "index", i, "err", err)
			damaged = true
			continue
		}
		entries = append(entries, e)
	}
	return entries, damaged
}

// loadForUpdate is load for callers about to rewrite the library. A damaged
// file is first moved to BackupPath so the undecodable data survives.
func (s *FileStore) loadForUpdate() ([]Entry, error) {
	entries, damaged := s.load()
	if !damaged {
		return entries, nil
	}
	backup := s.BackupPath()
	if err := os.Rename(s.path, backup); err != nil {
		return nil, fmt.Errorf("gallery: keep damaged library: %w", err)
	}
	jigsaw.Logger().Warn("gallery: damaged library moved aside", "path", s.path, "backup", backup)
	return entries, nil
}

// BackupPath is where a damaged library file is moved before the store
// overwrites it. An older backup at the same path is replaced.
func (s *FileStore) BackupPath() string { return s.path + ".corrupt" }

// store replaces the library file atomically.
func (s *FileStore) store(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("gallery: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("gallery: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gallery-*.json")
	if err != nil {
		return fmt.Errorf("gallery: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("gallery: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("gallery: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("gallery: %w", err)
	}
	return nil
}

func entryID(ms int64) string { return fmt.Sprintf("puzzle_%d", ms) }

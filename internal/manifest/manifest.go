package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/schemaidx/blobstore"
)

const (
	ManifestFileName = "MANIFEST"
	CurrentFileName  = "CURRENT"
	// CurrentVersion is the version of the manifest format.
	CurrentVersion = 1
)

// Manifest describes an index at a specific point in time.
type Manifest struct {
	Version          int
	ID               uint64
	CreatedAt        time.Time
	Name             string
	LayoutIdentifier int64
	LayoutMajor      int
	LayoutMinor      int
	NextSegmentID    uint64
	Segments         []SegmentInfo
}

// New creates a manifest for an empty index.
func New(name string, identifier int64, major, minor int) *Manifest {
	return &Manifest{
		Version:          CurrentVersion,
		CreatedAt:        time.Now(),
		Name:             name,
		LayoutIdentifier: identifier,
		LayoutMajor:      major,
		LayoutMinor:      minor,
		NextSegmentID:    1,
	}
}

// SegmentInfo describes one segment blob.
type SegmentInfo struct {
	ID         uint64
	EntryCount uint64
	Size       int64
	Path       string // relative to the index directory
}

// EntryCount returns the total number of entries across segments.
func (m *Manifest) EntryCount() uint64 {
	var n uint64
	for _, s := range m.Segments {
		n += s.EntryCount
	}
	return n
}

// Clone returns a deep copy of m.
func (m *Manifest) Clone() *Manifest {
	c := *m
	c.Segments = append([]SegmentInfo(nil), m.Segments...)
	return &c
}

// Store loads and saves the manifest of one index directory.
type Store struct {
	store blobstore.BlobStore
	dir   string
	mu    sync.Mutex
}

// NewStore creates a manifest store rooted at dir.
func NewStore(store blobstore.BlobStore, dir string) *Store {
	return &Store{store: store, dir: dir}
}

func (s *Store) path(name string) string {
	return path.Join(s.dir, name)
}

func versionFileName(id uint64) string {
	return fmt.Sprintf("%s-%06d.bin", ManifestFileName, id)
}

// Load loads the current manifest.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx, CurrentFileName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(string(current))
	data, err := s.read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", name, err)
	}

	return ReadBinary(bytes.NewReader(data))
}

func (s *Store) read(ctx context.Context, name string) ([]byte, error) {
	b, err := s.store.Open(ctx, s.path(name))
	if err != nil {
		return nil, err
	}
	defer b.Close()

	return blobstore.ReadAll(ctx, b)
}

// Save persists m as the next manifest version and points CURRENT at it.
// The previous version is removed once CURRENT is updated.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := m.ID
	m.ID++

	var buf bytes.Buffer
	if err := m.WriteBinary(&buf); err != nil {
		m.ID = prev
		return err
	}

	name := versionFileName(m.ID)
	if err := s.store.Put(ctx, s.path(name), buf.Bytes()); err != nil {
		m.ID = prev
		return err
	}
	if err := s.store.Put(ctx, s.path(CurrentFileName), []byte(name)); err != nil {
		m.ID = prev
		return err
	}

	if prev > 0 {
		_ = s.store.Delete(ctx, s.path(versionFileName(prev)))
	}
	return nil
}

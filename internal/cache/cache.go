// Package cache keeps lint results per file on disk so unchanged files are
// not analyzed twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	tt "github.com/gnolang/shapelint/internal/types"
)

// schemaVersion changes whenever the on-disk layout does. A mismatch drops
// the stored entries.
const schemaVersion uint16 = 1

const (
	cacheFileName = "lint_cache.mp"
	// DefaultMaxAge bounds how long an entry is trusted.
	DefaultMaxAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash         string    `msgpack:"hash"`
	LastModified time.Time `msgpack:"mtime"`
}

// Entry is the cached lint result of one file.
type Entry struct {
	Metadata     fileMetadata `msgpack:"meta"`
	Issues       []tt.Issue   `msgpack:"issues"`
	CreatedAt    time.Time    `msgpack:"created"`
	LastAccessed time.Time    `msgpack:"accessed"`
}

type payload struct {
	Schema       uint16            `msgpack:"schema"`
	Entries      map[string]Entry  `msgpack:"entries"`
	Dependencies map[string]string `msgpack:"deps"`
}

// Cache maps file names to their last lint result. Entries are dropped when
// the file content, modification time or any dependency (such as the config
// file) changes, or when they get older than the maximum age.
type Cache struct {
	dir string

	mu               sync.RWMutex
	entries          map[string]Entry
	dirty            bool
	maxAge           time.Duration
	dependencyFiles  []string
	dependencyHashes map[string]string
}

// New opens the cache stored in dir, creating the directory if needed.
// dependencies are files whose change invalidates every entry.
func New(dir string, dependencies ...string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:              dir,
		entries:          make(map[string]Entry),
		maxAge:           DefaultMaxAge,
		dependencyFiles:  dependencies,
		dependencyHashes: make(map[string]string),
	}

	stored, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	if err := c.updateDependencyHashes(); err != nil {
		return nil, err
	}
	if stored != nil && stored.Schema == schemaVersion && sameHashes(stored.Dependencies, c.dependencyHashes) {
		c.entries = stored.Entries
	}
	if c.entries == nil {
		c.entries = make(map[string]Entry)
	}
	return c, nil
}

// Dir returns the directory the cache lives in.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

func (c *Cache) load() (*payload, error) {
	f, err := os.Open(c.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		// unreadable caches are rebuilt from scratch
		return nil, nil
	}
	return &p, nil
}

// save writes the cache atomically. The caller holds the write lock.
func (c *Cache) save() error {
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(f.Name())

	p := payload{Schema: schemaVersion, Entries: c.entries, Dependencies: c.dependencyHashes}
	if err := msgpack.NewEncoder(f).Encode(&p); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(f.Name(), c.path())
}

// Set stores the issues of filename. The change reaches disk on the next
// Flush.
func (c *Cache) Set(filename string, issues []tt.Issue) error {
	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[filename] = Entry{
		Metadata:     metadata,
		Issues:       issues,
		CreatedAt:    now,
		LastAccessed: now,
	}
	c.dirty = true
	return nil
}

// Flush writes the cache to disk if it changed since the last write.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	if err := c.save(); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Get returns the cached issues of filename if the entry is still valid.
func (c *Cache) Get(filename string) ([]tt.Issue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		c.dirty = true
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Issues, true
}

func (c *Cache) isEntryInvalid(filename string, entry Entry) bool {
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	current, err := getFileMetadata(filename)
	if err != nil || current.Hash != entry.Metadata.Hash || !current.LastModified.Equal(entry.Metadata.LastModified) {
		return true
	}

	return c.haveDependenciesChanged()
}

func (c *Cache) haveDependenciesChanged() bool {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil || hash != c.dependencyHashes[file] {
			return true
		}
	}
	return false
}

func (c *Cache) updateDependencyHashes() error {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return fmt.Errorf("failed to get hash for %s: %w", file, err)
		}
		c.dependencyHashes[file] = hash
	}
	return nil
}

// SetMaxAge changes how long entries are trusted. Zero disables the limit.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxAge = d
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if err := c.save(); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func sameHashes(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func getFileMetadata(filename string) (fileMetadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	hash, err := hashReader(f)
	if err != nil {
		return fileMetadata{}, err
	}

	info, err := f.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{Hash: hash, LastModified: info.ModTime()}, nil
}

func getFileHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return hashReader(f)
}

func hashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

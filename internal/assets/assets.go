// Package assets loads the text printed on the page: the built-in page
// or a user file, with a small in-memory cache.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultPageName is the name of the built-in page.
const DefaultPageName = "page.txt"

//go:embed page.txt
var embedded embed.FS

// ErrNotUTF8 is returned for page files that are not valid UTF-8.
var ErrNotUTF8 = errors.New("assets: text is not valid UTF-8")

// Manager resolves asset names against search directories, falling back
// to the files built into the binary.
type Manager struct {
	dirs  []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a search directory.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) {
	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()
}

// Load reads an asset. Paths that name an existing file are read
// directly; otherwise the search directories and then the built-in
// files are tried.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	data, err := m.read(path)
	if err != nil {
		return nil, err
	}
	m.cache.Set(path, data)
	return data, nil
}

func (m *Manager) read(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !filepath.IsAbs(path) {
		for i := len(m.dirs) - 1; i >= 0; i-- {
			data, err := os.ReadFile(filepath.Join(m.dirs[i], path))
			if err == nil {
				return data, nil
			}
		}
	}

	data, err := embedded.ReadFile(filepath.ToSlash(path))
	if err == nil {
		return data, nil
	}

	return nil, fmt.Errorf("asset not found: %s", path)
}

// PageText returns the text to print. An empty path selects the built-in
// page without looking at the file system. One trailing line break is
// dropped so a file ending in a newline does not get an extra blank line.
func (m *Manager) PageText(path string) (string, error) {
	if path == "" {
		return DefaultPage(), nil
	}

	data, err := m.Load(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotUTF8)
	}

	text := string(data)
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return text, nil
}

// Close drops cached assets.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirs = nil
	m.cache.Clear()
}

// DefaultPage returns the built-in page text.
func DefaultPage() string {
	data, _ := embedded.ReadFile(DefaultPageName)
	return strings.TrimSuffix(string(data), "\n")
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.data[key]
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
}

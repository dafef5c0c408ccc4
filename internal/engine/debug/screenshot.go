// Package debug holds developer helpers for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes numbered PNG captures into a directory.
type Screenshots struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshots creates a capture handler. An empty dir means the
// working directory.
func NewScreenshots(outputDir, prefix string) *Screenshots {
	return &Screenshots{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Save writes img as PNG and returns the file name. Captures within the
// same second get a counter suffix instead of overwriting each other.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	base := s.Filename()
	name := base
	for i := 2; ; i++ {
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			name = fmt.Sprintf("%s_%d.png", base[:len(base)-len(".png")], i)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating file: %w", err)
		}

		if err := png.Encode(f, img); err != nil {
			f.Close()
			return "", fmt.Errorf("encoding PNG: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing %s: %w", name, err)
		}
		return name, nil
	}
}

// Filename returns the name the next capture would start from.
func (s *Screenshots) Filename() string {
	timestamp := s.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", s.prefix, timestamp)
	if s.outputDir != "" {
		filename = filepath.Join(s.outputDir, filename)
	}
	return filename
}

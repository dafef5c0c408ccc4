package paper

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// EncodePNG writes the page image as PNG.
func EncodePNG(w io.Writer, t *Texture) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, t.Image); err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}
	return nil
}

// SavePNG writes the page image to path, creating parent directories.
func SavePNG(path string, t *Texture) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := EncodePNG(file, t); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

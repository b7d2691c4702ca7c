package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fleveque/namesmith/internal/model"
)

// FileSystem writes downloaded logos to disk for the CLI.
// Files land at {baseDir}/{Name}_logo.png and {baseDir}/{Name}_logo.svg,
// the same names the web download actions use. Names come from the model, so
// anything that could act as a path element is flattened to "_" first and
// every file stays directly inside baseDir.
type FileSystem struct {
	baseDir string
}

// ExportedFile is one file Export wrote.
type ExportedFile struct {
	Path  string
	Bytes int
}

var pathElements = strings.NewReplacer("/", "_", `\`, "_", "..", "_")

// NewFileSystem creates a new FileSystem exporter, ensuring the base directory exists.
func NewFileSystem(baseDir string) (*FileSystem, error) {
	// MkdirAll creates the directory and all parents (like mkdir -p).
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &FileSystem{baseDir: baseDir}, nil
}

// LogoPath returns the filesystem path for a result's logo in the given format.
func (fs *FileSystem) LogoPath(name, ext string) string {
	return filepath.Join(fs.baseDir, model.DownloadFilename(pathElements.Replace(name), ext))
}

// Export writes whichever payloads the result has and returns the files written.
// A failed result (no payloads) writes nothing and is not an error.
func (fs *FileSystem) Export(result model.GeneratedResult) ([]ExportedFile, error) {
	var written []ExportedFile

	if result.HasPNG() {
		data, err := base64.StdEncoding.DecodeString(result.PNGBase64)
		if err != nil {
			return written, fmt.Errorf("decoding PNG for %s: %w", result.Name, err)
		}
		path := fs.LogoPath(result.Name, "png")
		if err := fs.write(path, data); err != nil {
			return written, err
		}
		written = append(written, ExportedFile{Path: path, Bytes: len(data)})
	}

	if result.HasSVG() {
		path := fs.LogoPath(result.Name, "svg")
		if err := fs.write(path, []byte(result.SVGCode)); err != nil {
			return written, err
		}
		written = append(written, ExportedFile{Path: path, Bytes: len(result.SVGCode)})
	}

	return written, nil
}

// Exists checks if an exported logo file exists on disk.
func (fs *FileSystem) Exists(name, ext string) bool {
	_, err := os.Stat(fs.LogoPath(name, ext))
	return err == nil
}

func (fs *FileSystem) write(path string, data []byte) error {
	if filepath.Dir(path) != filepath.Clean(fs.baseDir) {
		return fmt.Errorf("refusing to write %s outside %s", path, fs.baseDir)
	}
	// 0644: owner rw, group r, others r: standard for non-executable files.
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing logo file: %w", err)
	}
	return nil
}

// Package export builds the self-contained Markdown document for one item.
// It walks the item -> updates -> replies tree in a single pass, triggering
// asset resolution and download inline per node.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robby/pulsedump/internal/fsutil"
)

// DocumentFilename is the fixed name of the generated Markdown file,
// regardless of the item being exported.
const DocumentFilename = "README.md"

// imagesDirName is the subdirectory holding all downloaded binary assets.
const imagesDirName = "images"

// Manifest tracks the on-disk layout and accumulated content of a single
// export run. Nothing in it survives across exports.
type Manifest struct {
	Dir       string // output directory, named after the sanitized item title
	ImagesDir string // subdirectory for downloaded assets

	fragments  []string
	downloaded map[string]struct{}
}

// NewManifest creates the export directory layout under parent. The
// directory is named after the sanitized item name, falling back to
// "task_<id>" when the item has no name.
func NewManifest(parent, itemName, itemID string) (*Manifest, error) {
	name := fsutil.SanitizeFilename(itemName)
	if name == "" {
		name = "task_" + itemID
	}

	dir := filepath.Join(parent, name)
	imagesDir := filepath.Join(dir, imagesDirName)

	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	return &Manifest{
		Dir:        dir,
		ImagesDir:  imagesDir,
		downloaded: make(map[string]struct{}),
	}, nil
}

// Append adds one Markdown fragment to the document.
func (m *Manifest) Append(fragment string) {
	m.fragments = append(m.fragments, fragment)
}

// ImagePath returns the local destination for a downloaded file and the
// relative path used to reference it from the document.
func (m *Manifest) ImagePath(filename string) (dest, rel string) {
	return filepath.Join(m.ImagesDir, filename), imagesDirName + "/" + filename
}

// MarkDownloaded records a local filename written during this export.
// Two assets sanitizing to the same name overwrite each other; the second
// write wins and the name is recorded once.
func (m *Manifest) MarkDownloaded(filename string) {
	m.downloaded[filename] = struct{}{}
}

// DownloadedCount reports how many distinct local files were written.
func (m *Manifest) DownloadedCount() int {
	return len(m.downloaded)
}

// Document assembles the final Markdown text from the ordered fragments.
func (m *Manifest) Document() string {
	return strings.Join(m.fragments, "\n")
}

// WriteDocument writes the assembled document to README.md in the export
// directory and returns its path.
func (m *Manifest) WriteDocument() (string, error) {
	path := filepath.Join(m.Dir, DocumentFilename)
	if err := os.WriteFile(path, []byte(m.Document()), 0o644); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}
	return path, nil
}

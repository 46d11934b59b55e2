package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirLoader loads assets from a directory on disk, mirroring the
// embedded layout (styles/*.css, templates/*.html). Used to override the
// built-in letter design without rebuilding.
type DirLoader struct {
	base string
}

// NewDirLoader validates the base directory and creates a DirLoader.
func NewDirLoader(base string) (*DirLoader, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrInvalidAssetPath, base)
	}
	return &DirLoader{base: base}, nil
}

// LoadStyle loads styles/<name>.css from the base directory.
func (d *DirLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(d.base, "styles", name+".css")
	content, err := os.ReadFile(path) // #nosec G304 -- name validated, base user-chosen
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadTemplate loads templates/<name>.html from the base directory.
func (d *DirLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(d.base, "templates", name+".html")
	content, err := os.ReadFile(path) // #nosec G304 -- name validated, base user-chosen
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ Loader = (*DirLoader)(nil)

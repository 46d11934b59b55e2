package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names with path separators or traversal
// sequences, so a name can never escape the asset directories.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

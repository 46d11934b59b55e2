// Package assets provides the embedded letter template and stylesheet
// the rendering surface is populated with. Assets can be loaded from the
// embedded filesystem or overridden from a directory on disk.
package assets

// Default asset names.
const (
	LetterTemplateName = "letter"
	LetterStyleName    = "letter"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTemplate loads an HTML template by name using the embedded loader.
// The name should not include the .html extension or path components.
// Returns ErrTemplateNotFound if the template does not exist.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadStyle loads a CSS file by name using the embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// Loader resolves named assets to their content.
type Loader interface {
	LoadTemplate(name string) (string, error)
	LoadStyle(name string) (string, error)
}

package assets

import (
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName    = "resume"
	DefaultTemplateName = "resume"

	// LayoutStylePrefix prefixes layout fragments: layout-compact, layout-grid.
	LayoutStylePrefix = "layout-"
)

// AssetLoader defines the contract for loading CSS styles and HTML templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// LayoutStyleName returns the style name holding the given layout fragment.
func LayoutStyleName(layout string) string {
	return LayoutStylePrefix + layout
}

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Path separators and dots are rejected so a name can never leave its directory
// or change its extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

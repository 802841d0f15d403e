package assets

import (
	"io/fs"
	"sort"
	"strings"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS file by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in HTML template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// Layouts lists the layout names shipped with the binary, sorted.
func Layouts() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".css")
		if layout, ok := strings.CutPrefix(name, LayoutStylePrefix); ok {
			names = append(names, layout)
		}
	}
	sort.Strings(names)
	return names
}

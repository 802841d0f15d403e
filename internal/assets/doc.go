// Package assets provides the stylesheets and the document template used to
// render a resume. Assets can be loaded from embedded files or from a custom
// directory on disk.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the renderer. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when the asset is
// not found, so a deployment can override the template while keeping the
// built-in layouts.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── resume.css           # base stylesheet
//	│   └── layout-{name}.css    # spacing strategy fragments
//	└── templates/
//	    └── resume.html          # html/template document shell
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets

// Package pipeline implements the Markdown-to-HTML half of resume rendering.
//
// The stages run in a fixed order:
//   - Markdown normalization (line endings, escaped emphasis, section markers)
//   - Markdown to HTML conversion via Goldmark (GFM, autolinks, raw HTML)
//   - Ordered HTML rules applied to the converted body (mailto unlinking,
//     duplicate title removal, heading links)
//   - Document templating (identity header, stylesheet, body)
//
// PDF generation is handled by the root resumepdf package using headless
// Chrome (go-rod). This package never touches the network or the disk.
package pipeline

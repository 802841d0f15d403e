// Package resumepdf turns resume markdown stored in a Notion database into a
// styled PDF, publishes it to an S3-compatible store and links it back onto
// the record.
//
// # Quick Start
//
// Render markdown to PDF without any store:
//
//	renderer, err := resumepdf.NewRenderer(resumepdf.Identity{Name: "Jane Doe"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen := resumepdf.NewGenerator(nil, renderer, resumepdf.NewRasterizer(), nil)
//	pdf, err := gen.RenderMarkdown(ctx, "## Experience\n\n...")
//
// # Pipeline
//
// Generator.Generate runs these stages in order and aborts on the first
// failure, reporting it as a *StageError:
//
//  1. fetch: read the record's markdown from the RecordStore
//  2. render: normalize markdown, convert with goldmark, apply the ordered
//     HTML rules (mailto unlinking, leading title removal, heading links)
//     and wrap the body in the resume template
//  3. rasterize: print the document with a fresh headless Chrome
//  4. publish: upload resume_<id>.pdf to the ArtifactStore
//  5. backlink: replace the record's PDF attachment with the public URL
//
// Deriver.Derive copies the newest base resume into a new record and relates
// it to a target record, such as a job application.
//
// # Layouts
//
// The base stylesheet is combined with one layout fragment: compact
// (default), table, absolute or grid. See WithLayout.
//
// # Errors
//
// Failures match the sentinels in errors.go with errors.Is: ErrNotFound,
// ErrUpstream, ErrRender, ErrEngine, ErrRenderTimeout, ErrUpload,
// ErrNoBaseTemplate and ErrEmptyMarkdown. Record store failures carry an
// *UpstreamError with the status and payload.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Set ROD_BROWSER_BIN to use a pre-installed binary; the sandbox is then
// disabled, as it is when CI=true or ROD_NO_SANDBOX=1.
package resumepdf

package notion

import (
	"strings"
	"unicode/utf16"

	gonotion "github.com/dstotijn/go-notion"
)

// MaxChunkLength is the largest text content Notion accepts in one rich
// text segment, counted in UTF-16 code units.
const MaxChunkLength = 2000

// pageValueLimit is how many rich text items a page object returns inline
// for a property. Longer values must be read from the property endpoint.
const pageValueLimit = 25

// SplitChunks splits text into ordered pieces of at most size UTF-16 code
// units, the unit Notion measures text length in. A surrogate pair is never
// split. Joining the pieces yields text unchanged. Empty text yields no chunks.
func SplitChunks(text string, size int) []string {
	if size <= 0 {
		size = MaxChunkLength
	}
	if text == "" {
		return nil
	}

	var chunks []string
	start, units := 0, 0
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1 // invalid bytes decode to U+FFFD
		}
		if units+n > size && i > start {
			chunks = append(chunks, text[start:i])
			start, units = i, 0
		}
		units += n
	}
	return append(chunks, text[start:])
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// TextSegments wraps each chunk of text in a writable rich text segment.
func TextSegments(text string) []gonotion.RichText {
	chunks := SplitChunks(text, MaxChunkLength)
	out := make([]gonotion.RichText, len(chunks))
	for i, c := range chunks {
		out[i] = gonotion.RichText{
			Type: gonotion.RichTextTypeText,
			Text: &gonotion.Text{Content: c},
		}
	}
	return out
}

// JoinRichText concatenates segments in order. plain_text is preferred;
// text.content is used when the segment came from a write payload.
func JoinRichText(items []gonotion.RichText) string {
	var sb strings.Builder
	for _, it := range items {
		switch {
		case it.PlainText != "":
			sb.WriteString(it.PlainText)
		case it.Text != nil:
			sb.WriteString(it.Text.Content)
		}
	}
	return sb.String()
}

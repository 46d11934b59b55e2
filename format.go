package letterpdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// missingFieldFallback is rendered in place of an absent optional field.
// The fallback applies at render time only; layout math never sees it.
const missingFieldFallback = "N/A"

// BlockKind distinguishes the semantic block types the formatter emits.
type BlockKind int

const (
	// BlockTitle carries the document subject.
	BlockTitle BlockKind = iota
	// BlockParagraph carries one body paragraph.
	BlockParagraph
)

// Block is one semantic unit of formatted letter content.
type Block struct {
	Kind BlockKind
	HTML template.HTML
}

// IsTitle reports whether the block is the title block. Used by the
// letter template to route blocks into their regions.
func (b Block) IsTitle() bool {
	return b.Kind == BlockTitle
}

// bodyMarkdown renders the light markup letters are composed with
// (emphasis, lists) into HTML. Plain prose passes through as paragraphs.
var bodyMarkdown = goldmark.New()

// bodyPolicy strips anything unsafe from body HTML. Body text originates
// in a user-facing editor and is never trusted.
var bodyPolicy = bluemonday.UGCPolicy()

// FormatBlocks turns the raw subject and body text into semantic blocks:
// one title block followed by one block per body paragraph. Paragraphs
// are separated by blank lines; single newlines stay inside a paragraph.
func FormatBlocks(subject, bodyText string) ([]Block, error) {
	title := strings.TrimSpace(subject)
	if title == "" {
		title = missingFieldFallback
	}

	paragraphs := splitParagraphs(bodyText)
	blocks := make([]Block, 0, len(paragraphs)+1)
	blocks = append(blocks, Block{
		Kind: BlockTitle,
		HTML: template.HTML(template.HTMLEscapeString(title)),
	})

	for _, p := range paragraphs {
		rendered, err := renderParagraph(p)
		if err != nil {
			return nil, fmt.Errorf("formatting paragraph: %w", err)
		}
		blocks = append(blocks, Block{Kind: BlockParagraph, HTML: rendered})
	}

	return blocks, nil
}

// splitParagraphs splits body text on blank lines. Windows line endings
// are normalized and leading/trailing whitespace per paragraph dropped.
// An empty body yields no paragraphs.
func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, chunk := range strings.Split(normalized, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			paragraphs = append(paragraphs, chunk)
		}
	}
	return paragraphs
}

// renderParagraph converts one paragraph of light markup to sanitized HTML.
func renderParagraph(p string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := bodyMarkdown.Convert([]byte(p), &buf); err != nil {
		return "", err
	}
	safe := bodyPolicy.SanitizeBytes(buf.Bytes())
	return template.HTML(bytes.TrimSpace(safe)), nil
}

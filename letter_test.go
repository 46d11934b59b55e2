package letterpdf

// Notes:
// - renderLetterHTML: region markup, field fallbacks, footer gating
// - date handling: custom formats, zero CreatedAt
// - loadLetterTemplate: embedded default and on-disk design override

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ofuentes/go-letterpdf/internal/assets"
)

func renderTestLetter(t *testing.T, doc DocumentContent, dateFormat string) string {
	t.Helper()

	tmpl, css, err := loadLetterTemplate("")
	if err != nil {
		t.Fatalf("loadLetterTemplate: %v", err)
	}
	blocks, err := FormatBlocks(doc.Subject, doc.BodyText)
	if err != nil {
		t.Fatalf("FormatBlocks: %v", err)
	}
	html, err := renderLetterHTML(tmpl, css, doc, blocks, dateFormat)
	if err != nil {
		t.Fatalf("renderLetterHTML: %v", err)
	}
	return html
}

// ---------------------------------------------------------------------------
// TestRenderLetterHTML - Regions and Fields
// ---------------------------------------------------------------------------

func TestRenderLetterHTML(t *testing.T) {
	t.Parallel()

	doc := DocumentContent{
		Code:      "DOC-2024-001",
		Subject:   "Quarterly Review",
		Sender:    "Maria Fuentes",
		Recipient: "Finance Office",
		BodyText:  "First paragraph.\n\nSecond paragraph.",
		CreatedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	html := renderTestLetter(t, doc, "")

	wantFragments := []string{
		`id="letter-header"`,
		`id="letter-content"`,
		`id="letter-title"`,
		`id="letter-info"`,
		`id="letter-body"`,
		`id="letter-footer"`,
		`id="page-counter"`,
		"DOC-2024-001",
		"Quarterly Review",
		"Maria Fuentes",
		"Finance Office",
		"March 15, 2024",
		"First paragraph.",
		"Second paragraph.",
		"1 of 1", // initial counter before pagination runs
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(html, fragment) {
			t.Errorf("rendered letter missing %q", fragment)
		}
	}
}

func TestRenderLetterHTML_Fallbacks(t *testing.T) {
	t.Parallel()

	doc := DocumentContent{
		Code:      "DOC-1",
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	html := renderTestLetter(t, doc, "")

	if !strings.Contains(html, "N/A") {
		t.Error("missing optional fields did not fall back to the placeholder")
	}
	if strings.Contains(html, `id="letter-footer"`) {
		t.Error("footer rendered for a document with no sender")
	}
}

func TestRenderLetterHTML_DateFormats(t *testing.T) {
	t.Parallel()

	doc := DocumentContent{
		Code:      "DOC-1",
		Sender:    "S",
		CreatedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{name: "long house format", format: "", want: "March 15, 2024"},
		{name: "iso preset", format: "iso", want: "2024-03-15"},
		{name: "token format", format: "DD/MM/YYYY", want: "15/03/2024"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := renderTestLetter(t, doc, tt.format)
			if !strings.Contains(html, tt.want) {
				t.Errorf("rendered letter missing date %q", tt.want)
			}
		})
	}
}

func TestRenderLetterHTML_ZeroDateUsesNow(t *testing.T) {
	t.Parallel()

	doc := DocumentContent{Code: "DOC-1", Sender: "S"}

	html := renderTestLetter(t, doc, "YYYY")
	year := time.Now().Format("2006")
	if !strings.Contains(html, year) {
		t.Errorf("rendered letter missing current year %q", year)
	}
}

func TestLoadLetterTemplate(t *testing.T) {
	t.Parallel()

	tmpl, css, err := loadLetterTemplate("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl == nil {
		t.Fatal("nil template")
	}
	if css == "" {
		t.Error("empty stylesheet")
	}
}

// writeLetterAssets lays out a minimal on-disk letter design matching
// the embedded structure (templates/letter.html, styles/letter.css).
func writeLetterAssets(t *testing.T, tmplHTML, css string) string {
	t.Helper()

	dir := t.TempDir()
	for _, sub := range []string{"templates", "styles"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("creating %s: %v", sub, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "templates", "letter.html"), []byte(tmplHTML), 0o600); err != nil {
		t.Fatalf("writing template: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles", "letter.css"), []byte(css), 0o600); err != nil {
		t.Fatalf("writing style: %v", err)
	}
	return dir
}

func TestLoadLetterTemplate_AssetDirOverride(t *testing.T) {
	t.Parallel()

	dir := writeLetterAssets(t,
		`<div id="letter-content">custom design {{.Code}}</div>`,
		`#letter-content { color: red; }`)

	tmpl, css, err := loadLetterTemplate(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl == nil {
		t.Fatal("nil template")
	}
	if !strings.Contains(css, "color: red") {
		t.Errorf("css = %q, want the on-disk stylesheet", css)
	}
}

func TestLoadLetterTemplate_AssetDirMissing(t *testing.T) {
	t.Parallel()

	_, _, err := loadLetterTemplate(filepath.Join(t.TempDir(), "no-such-dir"))
	if !errors.Is(err, assets.ErrInvalidAssetPath) {
		t.Errorf("error = %v, want %v", err, assets.ErrInvalidAssetPath)
	}
}

package letterpdf

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ofuentes/go-letterpdf/internal/assets"
	"github.com/ofuentes/go-letterpdf/internal/dateutil"
)

// letterData feeds the embedded letter template. Field fallbacks are
// applied here, at render time; layout math never depends on them.
type letterData struct {
	CSS         template.CSS
	Code        string
	Subject     string
	Sender      string
	Recipient   string
	DateLong    string
	PageCounter string
	Blocks      []Block
	HasFooter   bool
}

// initialPageCounter is the counter text rendered before pagination has
// run; the assembler rewrites it per page.
const initialPageCounter = "1 of 1"

// loadLetterTemplate parses the letter template once per exporter.
// A non-empty assetDir overrides the embedded design with templates/
// and styles/ read from that directory.
func loadLetterTemplate(assetDir string) (*template.Template, string, error) {
	loadTemplate := assets.LoadTemplate
	loadStyle := assets.LoadStyle
	if assetDir != "" {
		loader, err := assets.NewDirLoader(assetDir)
		if err != nil {
			return nil, "", fmt.Errorf("opening asset directory: %w", err)
		}
		loadTemplate = loader.LoadTemplate
		loadStyle = loader.LoadStyle
	}

	raw, err := loadTemplate(assets.LetterTemplateName)
	if err != nil {
		return nil, "", fmt.Errorf("loading letter template: %w", err)
	}
	tmpl, err := template.New(assets.LetterTemplateName).Parse(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parsing letter template: %w", err)
	}
	css, err := loadStyle(assets.LetterStyleName)
	if err != nil {
		return nil, "", fmt.Errorf("loading letter style: %w", err)
	}
	return tmpl, css, nil
}

// renderLetterHTML builds the full letter document for the surface.
// dateFormat may be empty, selecting the long house format.
func renderLetterHTML(tmpl *template.Template, css string, doc DocumentContent, blocks []Block, dateFormat string) (string, error) {
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	dateStr, err := dateutil.Format(createdAt, dateFormat)
	if err != nil {
		return "", fmt.Errorf("formatting letter date: %w", err)
	}

	sender := strings.TrimSpace(doc.Sender)
	data := letterData{
		CSS:         template.CSS(css),
		Code:        doc.Code,
		Subject:     fallback(doc.Subject),
		Sender:      fallback(doc.Sender),
		Recipient:   fallback(doc.Recipient),
		DateLong:    dateStr,
		PageCounter: initialPageCounter,
		Blocks:      blocks,
		HasFooter:   sender != "",
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering letter template: %w", err)
	}
	return b.String(), nil
}

// fallback substitutes the defined placeholder for absent optional fields.
func fallback(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return missingFieldFallback
	}
	return s
}

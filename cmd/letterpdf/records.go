package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	letterpdf "github.com/ofuentes/go-letterpdf"
	"github.com/ofuentes/go-letterpdf/internal/yamlutil"
)

// Sentinel errors for records file handling.
var (
	ErrReadRecords       = errors.New("failed to read records file")
	ErrParseRecords      = errors.New("failed to parse records file")
	ErrNoRecords         = errors.New("records file contains no documents")
	ErrInvalidRecordDate = errors.New("invalid record date")
)

// recordFile is the YAML shape of a batch records file.
type recordFile struct {
	Documents []record `yaml:"documents"`
}

// record is one document entry. CreatedAt accepts "YYYY-MM-DD" or RFC
// 3339; empty means today.
type record struct {
	Code      string `yaml:"code"`
	Subject   string `yaml:"subject"`
	Sender    string `yaml:"sender"`
	Recipient string `yaml:"recipient"`
	CreatedAt string `yaml:"createdAt"`
	Body      string `yaml:"body"`
}

// recordDateLayouts are tried in order when parsing CreatedAt.
var recordDateLayouts = []string{"2006-01-02", time.RFC3339}

// loadRecords reads and converts a records file into document contents.
func loadRecords(path string) ([]letterpdf.DocumentContent, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadRecords, err)
	}

	var file recordFile
	if err := yamlutil.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseRecords, err)
	}
	if len(file.Documents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, path)
	}

	docs := make([]letterpdf.DocumentContent, 0, len(file.Documents))
	for i, r := range file.Documents {
		createdAt, err := parseRecordDate(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("document %d (%s): %w", i+1, r.Code, err)
		}
		docs = append(docs, letterpdf.DocumentContent{
			Code:      r.Code,
			Subject:   r.Subject,
			Sender:    r.Sender,
			Recipient: r.Recipient,
			BodyText:  r.Body,
			CreatedAt: createdAt,
		})
	}
	return docs, nil
}

// parseRecordDate parses CreatedAt; empty yields the zero time, which
// the engine renders as today.
func parseRecordDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRecordDate, value)
}

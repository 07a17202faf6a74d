package taxonomy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// LoadOptions controls how the CSV hierarchy file is read.
type LoadOptions struct {
	// Delimiter separates the child and parent columns. Defaults to ','.
	Delimiter string
	// Header skips the first non-comment row.
	Header bool
}

// LoadFromFile reads a CSV file of "child,parent" rows and builds the taxonomy.
// Lines starting with '#' are comments. Extra columns are ignored.
func LoadFromFile(path string, opts LoadOptions) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	edges, err := ReadEdges(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(edges)
}

// ReadEdges decodes hypernym rows from r.
func ReadEdges(r io.Reader, opts LoadOptions) ([]Edge, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if opts.Delimiter != "" {
		delim, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) {
			return nil, errors.New("delimiter must be a single character")
		}
		reader.Comma = delim
	}

	var edges []Edge
	skipHeader := opts.Header
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if skipHeader {
			skipHeader = false
			continue
		}
		if len(record) < 2 {
			line, _ := reader.FieldPos(0)
			return nil, NewMalformedTaxonomyError("line %d: expected child and parent columns", line)
		}
		edges = append(edges, Edge{
			Child:  strings.TrimSpace(record[0]),
			Parent: strings.TrimSpace(record[1]),
		})
	}
	return edges, nil
}

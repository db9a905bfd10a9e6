package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"capembed/internal/domain"
)

// Loader reads project records from a CSV file with a header row. Only the
// identifier and description columns are consumed; everything else in the
// source table is ignored.
type Loader struct {
	idColumn   string
	descColumn string
}

func NewLoader(idColumn, descColumn string) *Loader {
	if idColumn == "" {
		idColumn = "PID"
	}
	if descColumn == "" {
		descColumn = "Description"
	}
	return &Loader{
		idColumn:   idColumn,
		descColumn: descColumn,
	}
}

// Load reads all rows of path in order. An empty description cell is loaded
// as a missing description (nil), never as an empty string.
func (l *Loader) Load(path string) ([]domain.ProjectRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input file %s: missing header row", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if len(header) > 0 {
		// Exported CSVs frequently carry a UTF-8 BOM on the first cell.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	idIdx, descIdx := -1, -1
	for i, name := range header {
		switch name {
		case l.idColumn:
			if idIdx == -1 {
				idIdx = i
			}
		case l.descColumn:
			if descIdx == -1 {
				descIdx = i
			}
		}
	}
	if idIdx == -1 {
		return nil, fmt.Errorf("input file %s: missing required column %q", path, l.idColumn)
	}
	if descIdx == -1 {
		return nil, fmt.Errorf("input file %s: missing required column %q", path, l.descColumn)
	}

	var records []domain.ProjectRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		rec := domain.ProjectRecord{PID: row[idIdx]}
		if desc := row[descIdx]; desc != "" {
			rec.Description = &desc
		}
		records = append(records, rec)
	}

	return records, nil
}

package vectorcsv

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"capembed/internal/domain"
)

// Header is the first line of every embeddings file.
const Header = "PID,embedding"

// maxLineBytes bounds a single data row. Large models produce a few tens of
// kilobytes per row; this leaves generous headroom.
const maxLineBytes = 4 * 1024 * 1024

// Store reads and writes embedding records at one target path.
//
// The on-disk format is line oriented: the header, then one row per record
// of the form `<pid>,<comma-joined components>`. The embedding field is not
// quoted even though it contains commas, so rows split on the first comma
// when read and identifiers must not contain separator characters.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the target path the store is bound to.
func (s *Store) Path() string {
	return s.path
}

// Writer appends records to an embeddings file opened by Create. The file
// handle is held until Close, which flushes and releases it.
type Writer struct {
	f  *os.File
	bw *bufio.Writer
}

// Create truncates or creates the target file and writes the header row.
// Any previous content at the path is lost.
func (s *Store) Create() (*Writer, error) {
	f, err := os.Create(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return &Writer{f: f, bw: bw}, nil
}

// Write appends one record. Identifiers containing the field or record
// separators cannot round-trip in this format and are rejected.
func (w *Writer) Write(rec domain.EmbeddingRecord) error {
	if strings.ContainsAny(rec.PID, ",\r\n") {
		return fmt.Errorf("identifier %q contains a separator character and cannot be serialized", rec.PID)
	}
	if _, err := w.bw.WriteString(rec.PID + "," + EncodeVector(rec.Vector) + "\n"); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.PID, err)
	}
	return nil
}

// Close flushes buffered rows and releases the file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// WriteAll writes an ordered record sequence to the target, replacing any
// existing file.
func (s *Store) WriteAll(records []domain.EmbeddingRecord) error {
	w, err := s.Create()
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

// ReadAll parses the whole target back into records, in file order. The
// header must match exactly and every data row must parse; a malformed row
// fails the read with its line number rather than being skipped.
func (s *Store) ReadAll() ([]domain.EmbeddingRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open embeddings file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
		}
		return nil, fmt.Errorf("embeddings file %s: missing header row", s.path)
	}
	if header := strings.TrimSuffix(scanner.Text(), "\r"); header != Header {
		return nil, fmt.Errorf("embeddings file %s: unexpected header %q", s.path, header)
	}

	var records []domain.EmbeddingRecord
	line := 1
	for scanner.Scan() {
		line++
		row := strings.TrimSuffix(scanner.Text(), "\r")

		pid, field, ok := strings.Cut(row, ",")
		if !ok {
			return nil, fmt.Errorf("embeddings file %s: line %d: missing embedding field", s.path, line)
		}

		vec, err := DecodeVector(field)
		if err != nil {
			return nil, fmt.Errorf("embeddings file %s: line %d: %w", s.path, line, err)
		}

		records = append(records, domain.EmbeddingRecord{PID: pid, Vector: vec})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return records, nil
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadOptions controls how delimited text is read.
type ReadOptions struct {
	// Delimiter for CSV. If 0, ',' is used (or '\t' for .tsv paths).
	Delimiter rune
	// DecimalSeparator for numeric columns. If 0, '.' is used and ',' is
	// treated as a thousands separator.
	DecimalSeparator rune
}

// DefaultReadOptions returns comma-separated, dot-decimal options.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Delimiter: ',', DecimalSeparator: '.'}
}

// Frame is the literal textual content of a delimited file: one header row
// and the records below it, every value kept as written.
type Frame struct {
	Header  []string
	Records [][]string
}

// ReadFrame reads a header row and all records from r. Short records are
// padded to the header width; longer ones are rejected.
func ReadFrame(r io.Reader, opt ReadOptions) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty input")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	ncol := len(header)

	f := &Frame{Header: header}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(f.Records)+1, err)
		}
		if len(rec) > ncol {
			return nil, &FieldError{Row: len(f.Records) + 1, Column: "*", Err: errExtraFields}
		}
		if len(rec) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		f.Records = append(f.Records, rec)
	}
	return f, nil
}

// ReadFrameFile opens path and reads it with ReadFrame. Failures to open or
// parse the header are reported as *UnavailableError.
func ReadFrameFile(path string, opt ReadOptions) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}
	defer fh.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = SniffDelimiter(path)
	}
	fr, err := ReadFrame(fh, opt)
	if err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &UnavailableError{Path: path, Err: err}
	}
	return fr, nil
}

// Index returns the position of column name in the header, matched
// case-insensitively after trimming.
func (f *Frame) Index(name string) (int, bool) {
	return headerIndex(f.Header, name)
}

// SniffDelimiter picks a delimiter from the file name.
func SniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func headerIndex(header []string, name string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, true
		}
	}
	return -1, false
}

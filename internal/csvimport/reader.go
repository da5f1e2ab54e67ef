package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

type rowReader struct {
	r *csv.Reader
}

// newRowReader buffers src, checks it is UTF-8 and strips a leading BOM.
func newRowReader(src io.Reader) (*rowReader, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, &InputError{Err: ErrInvalidEncoding}
	}
	data = bytes.TrimPrefix(data, []byte(bom))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return &rowReader{r: r}, nil
}

func (rr *rowReader) header() ([]string, error) {
	header, err := rr.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &InputError{Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, parseError(err)
	}
	return header, nil
}

// next returns the following record and the line it starts on, or io.EOF.
func (rr *rowReader) next() ([]string, int, error) {
	row, err := rr.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, io.EOF
	}
	if err != nil {
		return nil, 0, parseError(err)
	}
	line, _ := rr.r.FieldPos(0)
	return row, line, nil
}

func parseError(err error) error {
	var pErr *csv.ParseError
	if errors.As(err, &pErr) {
		return &InputError{Err: fmt.Errorf("malformed csv: %w", err)}
	}
	return fmt.Errorf("read csv: %w", err)
}

package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Headers returns the display headers of columns in order.
func Headers(columns []Column) []string {
	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		headers = append(headers, c.Header)
	}
	return headers
}

// WriteCSV writes a header row followed by rows. The output reads back through Run.
func WriteCSV(w io.Writer, columns []Column, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(columns)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

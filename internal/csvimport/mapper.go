package csvimport

import "strings"

const bom = "\ufeff"

// Column binds a localized display header to a canonical field name.
type Column struct {
	Header string
	Field  string
}

// Mapping holds the column position of every canonical field found in the header row.
type Mapping map[string]int

// MapColumns matches the header row against columns. Unknown headers are ignored and
// the first occurrence of a repeated header wins.
func MapColumns(header []string, columns []Column) Mapping {
	fieldByHeader := make(map[string]string, len(columns))
	for _, c := range columns {
		fieldByHeader[c.Header] = c.Field
	}

	m := Mapping{}
	for i, cell := range header {
		h := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cell), bom))
		field, ok := fieldByHeader[h]
		if !ok {
			continue
		}
		if _, seen := m[field]; seen {
			continue
		}
		m[field] = i
	}

	return m
}

// Extract picks the mapped cells out of a data row. A field whose column lies past the
// end of a short row is left out.
func (m Mapping) Extract(row []string) Fields {
	f := make(Fields, len(m))
	for field, idx := range m {
		if idx < len(row) {
			f[field] = row[idx]
		}
	}
	return f
}

// Fields are the raw cell values of one row keyed by canonical field.
type Fields map[string]string

// Lookup returns the raw value and whether the field was provided at all.
func (f Fields) Lookup(field string) (string, bool) {
	v, ok := f[field]
	return v, ok
}

// NonEmpty returns the raw value when it was provided and is not the empty string.
func (f Fields) NonEmpty(field string) (string, bool) {
	v, ok := f[field]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Optional returns a pointer to the value, or nil when the field is absent or empty.
func (f Fields) Optional(field string) *string {
	v, ok := f.NonEmpty(field)
	if !ok {
		return nil
	}
	return &v
}

package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies what a cell holds.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is a tagged cell value: numeric, text, or missing. Keeping the tag
// explicit lets the pipeline distinguish "zero" from "not there", which
// matters for ranking and for missing-last sort order.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing is the zero Value.
var Missing = Value{}

// Number wraps a float as a cell value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text wraps a string as a cell value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Coerce parses a raw cell into the tightest Value kind. Empty and
// whitespace-only cells become Missing; anything that parses as a float
// becomes a Number; the rest stays Text.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(raw)
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is absent.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the value as a float64 with best-effort coercion: numbers
// return themselves, numeric-looking text parses, everything else is 0.
func (v Value) Float() float64 {
	f, _ := v.FloatOK()
	return f
}

// FloatOK returns the numeric value and whether one was actually present.
func (v Value) FloatOK() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Str renders the value for display or CSV output. Missing renders empty.
func (v Value) Str() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Bool interprets the cell as a flag: nonzero numbers and "true"/"yes" text
// are true, everything else false.
func (v Value) Bool() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindText:
		s := strings.ToLower(strings.TrimSpace(v.text))
		return s == "true" || s == "yes" || s == "1"
	default:
		return false
	}
}

// Row maps a column name to its cell value.
type Row map[string]Value

// Clone copies a row so later stages can augment without mutating input.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a schema-flexible record set: an ordered header list plus rows
// keyed by column name. Unknown columns ride along untouched.
type Table struct {
	Headers []string
	Rows    []Row
}

// New creates an empty table with the given headers.
func New(headers ...string) *Table {
	return &Table{Headers: append([]string(nil), headers...)}
}

// HasColumn reports whether the table's schema includes name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column filled with the given value for every row.
// No-op on the header list if the column already exists.
func (t *Table) AddColumn(name string, fill Value) {
	if !t.HasColumn(name) {
		t.Headers = append(t.Headers, name)
	}
	for _, row := range t.Rows {
		row[name] = fill
	}
}

// Append adds a row, extending the schema with any columns it introduces.
func (t *Table) Append(row Row) {
	for k := range row {
		if !t.HasColumn(k) {
			t.Headers = append(t.Headers, k)
		}
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return len(t.Rows) == 0 }

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := New(t.Headers...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	return out
}

// Tidy reorders headers so that every preferred column present in the table
// comes first, in preferred order, followed by the remaining columns in
// their original order. Row data is shared, only the header order changes.
func (t *Table) Tidy(preferred []string) *Table {
	ordered := make([]string, 0, len(t.Headers))
	seen := make(map[string]bool, len(t.Headers))
	for _, c := range preferred {
		if t.HasColumn(c) && !seen[c] {
			ordered = append(ordered, c)
			seen[c] = true
		}
	}
	for _, c := range t.Headers {
		if !seen[c] {
			ordered = append(ordered, c)
			seen[c] = true
		}
	}
	return &Table{Headers: ordered, Rows: t.Rows}
}

// Column collects the values of one column in row order. Rows lacking the
// column yield Missing.
func (t *Table) Column(name string) []Value {
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		if v, ok := row[name]; ok {
			out[i] = v
		}
	}
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(%d columns, %d rows)", len(t.Headers), len(t.Rows))
}

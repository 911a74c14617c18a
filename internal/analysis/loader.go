package analysis

import (
	"fmt"
	"io"
	"strings"

	"kwintel/internal/models"
	"kwintel/internal/table"
)

// Expected columns per side. Absence is a warning, never an error; the
// schema resolver substitutes defaults downstream.
var (
	expectedOrganicColumns = []string{
		models.ColPage, models.ColQuery, models.ColClicks,
		models.ColImpressions, models.ColCTR, models.ColPosition,
	}
	expectedPaidColumns = []string{
		models.ColCampaign, models.ColAdGroup, models.ColKeyword,
		models.ColClicks, models.ColCost, models.ColCPC, models.ColConversions,
	}
)

// LoadOrganicCSV reads the organic performance export. CTR and position
// cells are coerced to numbers; non-numeric values become missing. Returns
// the table plus warnings for any expected columns the file lacks.
func LoadOrganicCSV(path string) (*table.Table, []string, error) {
	t, err := table.ReadCSV(path)
	if err != nil {
		return nil, nil, err
	}
	return prepareOrganic(t, path)
}

// LoadPaidCSV reads the paid spend export, coercing clicks, cost, cpc and
// conversions to numbers.
func LoadPaidCSV(path string) (*table.Table, []string, error) {
	t, err := table.ReadCSV(path)
	if err != nil {
		return nil, nil, err
	}
	return preparePaid(t, path)
}

// LoadOrganicCSVFrom is LoadOrganicCSV over an already-open stream, used by
// the upload endpoint. The name only labels warnings.
func LoadOrganicCSVFrom(r io.Reader, name string) (*table.Table, []string, error) {
	t, err := table.ReadCSVFrom(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return prepareOrganic(t, name)
}

// LoadPaidCSVFrom is LoadPaidCSV over an already-open stream.
func LoadPaidCSVFrom(r io.Reader, name string) (*table.Table, []string, error) {
	t, err := table.ReadCSVFrom(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return preparePaid(t, name)
}

// PrepareOrganic applies the organic-side coercion and warning rules to a
// table loaded elsewhere (the database ingestion path).
func PrepareOrganic(t *table.Table, source string) (*table.Table, []string) {
	out, warnings, _ := prepareOrganic(t, source)
	return out, warnings
}

// PreparePaid applies the paid-side coercion and warning rules to a table
// loaded elsewhere.
func PreparePaid(t *table.Table, source string) (*table.Table, []string) {
	out, warnings, _ := preparePaid(t, source)
	return out, warnings
}

func prepareOrganic(t *table.Table, source string) (*table.Table, []string, error) {
	coerceNumericColumns(t, models.ColCTR, models.ColPosition, models.ColClicks, models.ColImpressions)
	return t, columnWarnings(t, expectedOrganicColumns, source), nil
}

func preparePaid(t *table.Table, source string) (*table.Table, []string, error) {
	coerceNumericColumns(t, models.ColClicks, models.ColConversions, models.ColCost, models.ColCPC)
	return t, columnWarnings(t, expectedPaidColumns, source), nil
}

// coerceNumericColumns forces the named columns to numeric values where the
// cell parses, and to missing where it does not. Columns the table lacks
// are left alone; the resolver handles those later.
func coerceNumericColumns(t *table.Table, cols ...string) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			continue
		}
		for _, row := range t.Rows {
			v := row[c]
			if v.IsMissing() {
				continue
			}
			if f, ok := v.FloatOK(); ok {
				row[c] = table.Number(f)
			} else {
				row[c] = table.Missing
			}
		}
	}
}

func columnWarnings(t *table.Table, expected []string, source string) []string {
	var missing []string
	for _, c := range expected {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%s: missing expected columns: %s", source, strings.Join(missing, ", "))}
}

package service

import (
	"kwintel/internal/models"
	"kwintel/internal/table"
)

// Segmenter splits a merged join result into the three presence segments.
// A pure filter, kept as its own seam so matching and scoring stay
// independently testable.
type Segmenter struct{}

// NewSegmenter creates a segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment partitions the merged rows by their presence tag. The presence
// column itself is dropped from the output tables; the segment name carries
// that information.
func (s *Segmenter) Segment(merged *table.Table) models.Segments {
	headers := make([]string, 0, len(merged.Headers))
	for _, h := range merged.Headers {
		if h != models.ColPresence {
			headers = append(headers, h)
		}
	}
	seg := models.Segments{
		Overlap:     table.New(headers...),
		OrganicOnly: table.New(headers...),
		PaidOnly:    table.New(headers...),
	}
	for _, row := range merged.Rows {
		out := row.Clone()
		presence := models.Presence(out[models.ColPresence].Str())
		delete(out, models.ColPresence)
		switch presence {
		case models.PresenceBoth:
			seg.Overlap.Rows = append(seg.Overlap.Rows, out)
		case models.PresenceOrganicOnly:
			seg.OrganicOnly.Rows = append(seg.OrganicOnly.Rows, out)
		case models.PresencePaidOnly:
			seg.PaidOnly.Rows = append(seg.PaidOnly.Rows, out)
		}
	}
	return seg
}

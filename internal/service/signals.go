package service

import (
	"math"
	"sort"

	"kwintel/internal/models"
	"kwintel/internal/table"
)

// SignalComputer derives per-overlap-row ROI signals: expected engagement
// for the rank position, the gap to actual CTR, the organic potential of
// closing that gap, spend flags and a composite priority score.
type SignalComputer struct {
	resolver *SchemaResolver
}

// NewSignalComputer creates a signal computer using the given resolver.
func NewSignalComputer(resolver *SchemaResolver) *SignalComputer {
	return &SignalComputer{resolver: resolver}
}

// ExpectedCTR returns the expected click-through rate for an average rank
// position. A fixed step curve, no interpolation; positions below 1 fall
// into the first step.
func ExpectedCTR(position float64) float64 {
	switch {
	case position <= 1:
		return 0.30
	case position <= 2:
		return 0.20
	case position <= 3:
		return 0.15
	case position <= 5:
		return 0.10
	case position <= 10:
		return 0.05
	default:
		return 0.02
	}
}

// Score augments a copy of the overlap table with the derived signal
// columns and returns it together with typed scored records in row order.
// Missing source fields coerce to zero-safe defaults; the input table is
// not mutated.
func (sc *SignalComputer) Score(overlap *table.Table) (*table.Table, []models.ScoredRecord) {
	out := overlap.Clone()

	posCol := sc.resolver.Resolve(out, PositionCandidates, models.ColPosition, table.Missing)
	ctrCol := sc.resolver.Resolve(out, CTRCandidates, models.ColCTR, table.Missing)
	imprCol := sc.resolver.Resolve(out, ImpressionsCandidates, models.ColImpressions, table.Missing)
	cpcCol := sc.resolver.Resolve(out, CPCCandidates, models.ColCPC, table.Missing)
	queryCol := sc.resolver.Resolve(out, QueryCandidates, models.ColQuery, table.Missing)
	kwCol := sc.resolver.Resolve(out, KeywordCandidates, models.ColKeyword, table.Missing)

	for _, c := range []string{
		models.ColExpectedCTR, models.ColCTRGap, models.ColPotential,
		models.ColHighCPC, models.ColReduceBid, models.ColPriority,
	} {
		out.AddColumn(c, table.Missing)
	}

	records := make([]models.ScoredRecord, 0, out.Len())
	for _, row := range out.Rows {
		pos := row[posCol].Float()
		expected := ExpectedCTR(pos)
		gap := round4(expected - row[ctrCol].Float())

		// Potential stays missing when impressions are absent; it feeds
		// the rank-0 branch of the priority score.
		potential := table.Missing
		if impressions, ok := row[imprCol].FloatOK(); ok {
			potential = table.Number(round2(impressions * math.Max(gap, 0)))
		}

		cpc := row[cpcCol].Float()
		highCPC := cpc > 2.5 && potential.Float() > 20
		reduceBid := pos <= 3.0 && cpc > 0

		row[models.ColExpectedCTR] = table.Number(expected)
		row[models.ColCTRGap] = table.Number(gap)
		row[models.ColPotential] = potential
		row[models.ColHighCPC] = table.Number(flagValue(highCPC))
		row[models.ColReduceBid] = table.Number(flagValue(reduceBid))

		records = append(records, models.ScoredRecord{
			Query:            row[queryCol].Str(),
			Keyword:          row[kwCol].Str(),
			ExpectedCTR:      expected,
			CTRGap:           gap,
			OrganicPotential: potential,
			HighCPC:          highCPC,
			ReduceBid:        reduceBid,
			Row:              row,
		})
	}

	ranks := rankDescending(out.Column(models.ColPotential))
	for i, row := range out.Rows {
		priority := ranks[i] + 2*flagValue(records[i].HighCPC) + flagValue(records[i].ReduceBid)
		row[models.ColPriority] = table.Number(priority)
		records[i].Priority = priority
	}
	return out, records
}

// rankDescending ranks values highest-first starting at 1, ties broken by
// first-seen order. Missing values rank 0.
func rankDescending(values []table.Value) []float64 {
	idx := make([]int, 0, len(values))
	for i, v := range values {
		if !v.IsMissing() {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]].Float() > values[idx[b]].Float()
	})
	ranks := make([]float64, len(values))
	for r, i := range idx {
		ranks[i] = float64(r + 1)
	}
	return ranks
}

func flagValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }

func round2(v float64) float64 { return math.Round(v*1e2) / 1e2 }

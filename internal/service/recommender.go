package service

import (
	"fmt"
	"sort"
	"strings"

	"kwintel/internal/models"
	"kwintel/internal/table"
)

const recommendationLimit = 5

// fixedActions are appended to every recommendation set; they are template
// text, not derived from the data.
var fixedActions = []string{
	"Reduce bids 10-25% on overlap where CPC is high and organic ranks <= 3.",
	"Launch ads for top organic-only queries (>= 300 weekly impressions).",
	"Track CTR vs expected CTR; fix >= 5-point deficits with titles, meta and sitelinks.",
}

// Recommender selects bounded, ranked candidate lists out of the scored
// overlap and the organic-only segment and renders them as a report.
type Recommender struct {
	resolver *SchemaResolver
}

// NewRecommender creates a recommender using the given resolver.
func NewRecommender(resolver *SchemaResolver) *Recommender {
	return &Recommender{resolver: resolver}
}

// Recommend builds the recommendation set: the top 5 wasted-spend rows from
// the scored overlap, sorted by reduce-bid flag, then CPC, then organic
// potential, all descending with missing values last; the top 5 coverage
// gaps from organic-only rows by impressions descending; and the fixed
// action list.
func (r *Recommender) Recommend(scored, organicOnly *table.Table) models.RecommendationSet {
	set := models.RecommendationSet{
		WastedSpend:  []models.WastedSpendItem{},
		CoverageGaps: []models.CoverageGapItem{},
		Actions:      append([]string(nil), fixedActions...),
	}

	if scored != nil && !scored.Empty() {
		ovr := scored.Clone()
		queryCol := r.resolver.Resolve(ovr, QueryCandidates, models.ColQuery, table.Missing)
		kwCol := r.resolver.Resolve(ovr, KeywordCandidates, models.ColKeyword, table.Missing)
		potCol := r.resolver.Resolve(ovr, PotentialCandidates, models.ColPotential, table.Number(0))
		cpcCol := r.resolver.Resolve(ovr, CPCCandidates, models.ColCPC, table.Number(0))
		posCol := r.resolver.Resolve(ovr, PositionCandidates, models.ColPosition, table.Missing)
		reduceCol := r.resolver.Resolve(ovr, ReduceBidCandidates, models.ColReduceBid, table.Missing)

		order := sortRowsDesc(ovr, []string{reduceCol, cpcCol, potCol})
		for _, i := range order[:minInt(recommendationLimit, len(order))] {
			row := ovr.Rows[i]
			set.WastedSpend = append(set.WastedSpend, models.WastedSpendItem{
				Query:            firstNonEmpty(row[queryCol].Str(), row[kwCol].Str(), "n/a"),
				CPC:              row[cpcCol],
				OrganicPotential: row[potCol],
				Position:         row[posCol],
				CPCDisplay:       displayValue(row[cpcCol]),
				PotentialDisplay: displayValue(row[potCol]),
				PositionDisplay:  displayValue(row[posCol]),
			})
		}
	}

	if organicOnly != nil && !organicOnly.Empty() {
		org := organicOnly.Clone()
		queryCol := r.resolver.Resolve(org, QueryCandidates, models.ColQuery, table.Missing)
		imprCol := r.resolver.Resolve(org, ImpressionsCandidates, models.ColImpressions, table.Number(0))

		order := sortRowsDesc(org, []string{imprCol})
		for _, i := range order[:minInt(recommendationLimit, len(order))] {
			row := org.Rows[i]
			set.CoverageGaps = append(set.CoverageGaps, models.CoverageGapItem{
				Query:              firstNonEmpty(row[queryCol].Str(), "n/a"),
				Impressions:        row[imprCol],
				ImpressionsDisplay: displayValue(row[imprCol]),
			})
		}
	}
	return set
}

// Render produces the markdown report: labeled sections in fixed order,
// empty sections stating explicitly that nothing was found.
func (r *Recommender) Render(set models.RecommendationSet) string {
	var lines []string

	lines = append(lines, "**Top 5 wasted spend**")
	if len(set.WastedSpend) == 0 {
		lines = append(lines, "- No clear wasted spend detected this run.")
	} else {
		for _, w := range set.WastedSpend {
			lines = append(lines, fmt.Sprintf("- `%s` - CPC ~%s; organic potential %s; pos %s. Consider bid down/pause.",
				w.Query, w.CPCDisplay, w.PotentialDisplay, w.PositionDisplay))
		}
	}

	lines = append(lines, "\n**Top 5 gaps to bid on**")
	if len(set.CoverageGaps) == 0 {
		lines = append(lines, "- No organic-only gaps detected this run.")
	} else {
		for _, g := range set.CoverageGaps {
			lines = append(lines, fmt.Sprintf("- `%s` - ~%s impressions and no paid coverage. Test exact/phrase.",
				g.Query, g.ImpressionsDisplay))
		}
	}

	lines = append(lines, "\n**3 actions (next 7 days)**")
	for _, a := range set.Actions {
		lines = append(lines, "- "+a)
	}
	return strings.Join(lines, "\n")
}

// sortRowsDesc returns row indices ordered descending by the given columns
// in sequence. Present values come before missing on every key; ties fall
// through to the next key, then to first-seen order (stable).
func sortRowsDesc(t *table.Table, cols []string) []int {
	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := t.Rows[order[a]], t.Rows[order[b]]
		for _, c := range cols {
			va, aok := ra[c].FloatOK()
			vb, bok := rb[c].FloatOK()
			if aok != bok {
				return aok
			}
			if aok && va != vb {
				return va > vb
			}
		}
		return false
	})
	return order
}

func displayValue(v table.Value) string {
	if v.IsMissing() {
		return "n/a"
	}
	return v.Str()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

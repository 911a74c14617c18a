package service

import (
	"kwintel/internal/models"
	"kwintel/internal/table"
)

// SchemaResolver finds which column of a table carries a semantic value,
// tolerating schema drift between exports. Candidate names are tried in
// priority order; when none exist the table gains a default column so the
// rest of the pipeline can address it unconditionally.
type SchemaResolver struct {
	// extra aliases appended to the built-in candidate lists, keyed by
	// semantic field name (config-provided).
	aliases map[string][]string
}

// NewSchemaResolver creates a resolver with no extra aliases.
func NewSchemaResolver() *SchemaResolver {
	return &SchemaResolver{}
}

// NewSchemaResolverWithAliases creates a resolver that also tries
// config-provided alias columns after the built-in candidates.
func NewSchemaResolverWithAliases(aliases map[string][]string) *SchemaResolver {
	return &SchemaResolver{aliases: aliases}
}

// Resolve returns the first candidate column present in the table. If none
// is present, the table is extended with defaultName filled with fill for
// every row and defaultName is returned. Never fails; the returned name is
// the authoritative accessor for the rest of the run.
func (sr *SchemaResolver) Resolve(t *table.Table, candidates []string, defaultName string, fill table.Value) string {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c
		}
	}
	for _, c := range sr.aliases[defaultName] {
		if t.HasColumn(c) {
			return c
		}
	}
	t.AddColumn(defaultName, fill)
	return defaultName
}

// Built-in candidate lists per semantic field. The suffixed variants cover
// columns renamed during the join when both sides carried the same name.
var (
	QueryCandidates       = []string{models.ColQuery, "query_gsc", "kw_norm_gsc", models.ColKey}
	KeywordCandidates     = []string{models.ColKeyword, "keyword_ads", "kw_norm_ads", models.ColKey}
	PositionCandidates    = []string{models.ColPosition, "position_gsc"}
	CTRCandidates         = []string{models.ColCTR, "ctr_gsc"}
	ImpressionsCandidates = []string{models.ColImpressions, "impressions_gsc"}
	CPCCandidates         = []string{models.ColCPC, "cpc_ads"}
	CostCandidates        = []string{models.ColCost, "cost_ads"}
	PotentialCandidates   = []string{models.ColPotential}
	ReduceBidCandidates   = []string{models.ColReduceBid}
)

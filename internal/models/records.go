package models

import "kwintel/internal/table"

// Well-known column names shared across the pipeline. Loaders, joiner and
// signal computation all address cells through these; anything else a file
// carries is preserved as-is and appended after the preferred columns.
const (
	ColPage        = "page"
	ColQuery       = "query"
	ColKeyword     = "keyword"
	ColKey         = "kw_norm"
	ColCampaign    = "campaign"
	ColAdGroup     = "ad_group"
	ColClicks      = "clicks"
	ColClicksGSC   = "clicks_gsc"
	ColClicksAds   = "clicks_ads"
	ColImpressions = "impressions"
	ColCTR         = "ctr"
	ColPosition    = "position"
	ColCost        = "cost"
	ColCPC         = "cpc"
	ColConversions = "conversions"
	ColExpectedCTR = "expected_ctr"
	ColCTRGap      = "ctr_gap"
	ColPotential   = "organic_potential"
	ColHighCPC     = "high_cpc_flag"
	ColReduceBid   = "reduce_bid_flag"
	ColPriority    = "priority"
	ColPresence    = "presence"
)

// PreferredColumns is the display order for output segment tables. Columns
// a table does not have are skipped; unrecognized columns follow in their
// original order.
var PreferredColumns = []string{
	ColPage, ColQuery, ColKeyword, ColKey,
	ColClicksGSC, ColImpressions, ColCTR, ColPosition,
	ColClicksAds, ColCost, ColCPC, ColConversions,
	ColExpectedCTR, ColCTRGap, ColPotential,
	ColHighCPC, ColReduceBid, ColPriority,
}

// Presence tags which side of the join a row came from.
type Presence string

const (
	PresenceBoth        Presence = "both"
	PresenceOrganicOnly Presence = "organic_only"
	PresencePaidOnly    Presence = "paid_only"
)

// OrganicRecord is a typed view over one organic (unpaid search) row.
type OrganicRecord struct {
	Page        string
	Query       string
	Clicks      table.Value
	Impressions table.Value
	CTR         table.Value
	Position    table.Value
}

// OrganicFromRow builds the typed view from a dynamic row.
func OrganicFromRow(row table.Row) OrganicRecord {
	return OrganicRecord{
		Page:        row[ColPage].Str(),
		Query:       row[ColQuery].Str(),
		Clicks:      row[ColClicks],
		Impressions: row[ColImpressions],
		CTR:         row[ColCTR],
		Position:    row[ColPosition],
	}
}

// PaidRecord is a typed view over one paid search spend row.
type PaidRecord struct {
	Campaign    string
	AdGroup     string
	Keyword     string
	Clicks      table.Value
	Cost        table.Value
	CPC         table.Value
	Conversions table.Value
}

// PaidFromRow builds the typed view from a dynamic row.
func PaidFromRow(row table.Row) PaidRecord {
	return PaidRecord{
		Campaign:    row[ColCampaign].Str(),
		AdGroup:     row[ColAdGroup].Str(),
		Keyword:     row[ColKeyword].Str(),
		Clicks:      row[ColClicks],
		Cost:        row[ColCost],
		CPC:         row[ColCPC],
		Conversions: row[ColConversions],
	}
}

// Segments holds the three partitions of a joined run. The tables are
// disjoint and together cover every input row exactly once.
type Segments struct {
	Overlap     *table.Table
	OrganicOnly *table.Table
	PaidOnly    *table.Table
}

// ScoredRecord is an overlap row augmented with derived signals.
type ScoredRecord struct {
	Query            string
	Keyword          string
	ExpectedCTR      float64
	CTRGap           float64
	OrganicPotential table.Value
	HighCPC          bool
	ReduceBid        bool
	Priority         float64
	Row              table.Row
}

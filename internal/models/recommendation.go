package models

import "kwintel/internal/table"

// WastedSpendItem is one overlap row flagged as likely wasted spend.
type WastedSpendItem struct {
	Query            string      `json:"query"`
	CPC              table.Value `json:"-"`
	OrganicPotential table.Value `json:"-"`
	Position         table.Value `json:"-"`
	CPCDisplay       string      `json:"cpc"`
	PotentialDisplay string      `json:"organic_potential"`
	PositionDisplay  string      `json:"position"`
}

// CoverageGapItem is one organic-only row with no paid coverage.
type CoverageGapItem struct {
	Query              string      `json:"query"`
	Impressions        table.Value `json:"-"`
	ImpressionsDisplay string      `json:"impressions"`
}

// RecommendationSet is the bounded, ordered output of the recommender:
// two top-5 candidate lists plus a fixed action list.
type RecommendationSet struct {
	WastedSpend  []WastedSpendItem `json:"wasted_spend"`
	CoverageGaps []CoverageGapItem `json:"coverage_gaps"`
	Actions      []string          `json:"actions"`
}

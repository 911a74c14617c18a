package service

import (
	"testing"

	"kwintel/internal/models"
	"kwintel/internal/table"
)

func organicTable(keys ...string) *table.Table {
	t := table.New(models.ColQuery, models.ColKey, models.ColImpressions)
	for i, k := range keys {
		t.Append(table.Row{
			models.ColQuery:       table.Text(k),
			models.ColKey:         table.Text(k),
			models.ColImpressions: table.Number(float64(100 * (i + 1))),
		})
	}
	return t
}

func paidTable(keys ...string) *table.Table {
	t := table.New(models.ColKeyword, models.ColKey, models.ColCPC)
	for i, k := range keys {
		t.Append(table.Row{
			models.ColKeyword: table.Text(k),
			models.ColKey:     table.Text(k),
			models.ColCPC:     table.Number(float64(i + 1)),
		})
	}
	return t
}

func presenceCounts(t *testing.T, merged *table.Table) map[models.Presence]int {
	t.Helper()
	counts := map[models.Presence]int{}
	for _, row := range merged.Rows {
		counts[models.Presence(row[models.ColPresence].Str())]++
	}
	return counts
}

func TestJoinExact(t *testing.T) {
	j := NewJoiner()
	organic := organicTable("running shoes", "wool socks", "garden hose")
	paid := paidTable("running shoes", "red hats")

	merged := j.Join(organic, paid, false, 0)
	counts := presenceCounts(t, merged)

	if counts[models.PresenceBoth] != 1 {
		t.Errorf("both = %d, want 1", counts[models.PresenceBoth])
	}
	if counts[models.PresenceOrganicOnly] != 2 {
		t.Errorf("organic_only = %d, want 2", counts[models.PresenceOrganicOnly])
	}
	if counts[models.PresencePaidOnly] != 1 {
		t.Errorf("paid_only = %d, want 1", counts[models.PresencePaidOnly])
	}
}

func TestJoinExactDuplicateKeyCardinality(t *testing.T) {
	j := NewJoiner()
	// Two organic rows and two paid rows share one key: outer-join
	// semantics pair all combinations, 2x2 = 4 matched rows.
	organic := organicTable("running shoes", "running shoes")
	paid := paidTable("running shoes", "running shoes", "red hats")

	merged := j.Join(organic, paid, false, 0)
	counts := presenceCounts(t, merged)

	if counts[models.PresenceBoth] != 4 {
		t.Errorf("both = %d, want 4", counts[models.PresenceBoth])
	}
	if counts[models.PresencePaidOnly] != 1 {
		t.Errorf("paid_only = %d, want 1", counts[models.PresencePaidOnly])
	}
	if counts[models.PresenceOrganicOnly] != 0 {
		t.Errorf("organic_only = %d, want 0", counts[models.PresenceOrganicOnly])
	}
}

func TestJoinPartitionCompleteness(t *testing.T) {
	j := NewJoiner()
	organic := organicTable("a b", "c d", "e f", "g h")
	paid := paidTable("c d", "e f", "x y", "z w")

	merged := j.Join(organic, paid, false, 0)
	counts := presenceCounts(t, merged)

	// Keys are unique per side here, so every input row appears in
	// exactly one partition.
	gotOrganic := counts[models.PresenceBoth] + counts[models.PresenceOrganicOnly]
	gotPaid := counts[models.PresenceBoth] + counts[models.PresencePaidOnly]
	if gotOrganic != organic.Len() {
		t.Errorf("organic rows accounted = %d, want %d", gotOrganic, organic.Len())
	}
	if gotPaid != paid.Len() {
		t.Errorf("paid rows accounted = %d, want %d", gotPaid, paid.Len())
	}
}

func TestJoinColumnSuffixes(t *testing.T) {
	j := NewJoiner()
	organic := table.New(models.ColQuery, models.ColClicks, models.ColKey)
	organic.Append(table.Row{
		models.ColQuery:  table.Text("running shoes"),
		models.ColClicks: table.Number(10),
		models.ColKey:    table.Text("running shoes"),
	})
	paid := table.New(models.ColKeyword, models.ColClicks, models.ColKey)
	paid.Append(table.Row{
		models.ColKeyword: table.Text("running shoes"),
		models.ColClicks:  table.Number(4),
		models.ColKey:     table.Text("running shoes"),
	})

	merged := j.Join(organic, paid, false, 0)
	if merged.Len() != 1 {
		t.Fatalf("rows = %d, want 1", merged.Len())
	}
	row := merged.Rows[0]
	if row[models.ColClicksGSC].Float() != 10 {
		t.Errorf("clicks_gsc = %v, want 10", row[models.ColClicksGSC])
	}
	if row[models.ColClicksAds].Float() != 4 {
		t.Errorf("clicks_ads = %v, want 4", row[models.ColClicksAds])
	}
	if row[models.ColKey].Str() != "running shoes" {
		t.Errorf("kw_norm = %q", row[models.ColKey].Str())
	}
}

func TestJoinApproximate(t *testing.T) {
	j := NewJoiner()
	organic := organicTable("nike running shoe", "gardening gloves")
	paid := paidTable("nike running shoes", "wool socks")

	merged := j.Join(organic, paid, true, 90)
	counts := presenceCounts(t, merged)

	if counts[models.PresenceBoth] != 1 {
		t.Errorf("both = %d, want 1 (near-identical keys)", counts[models.PresenceBoth])
	}
	if counts[models.PresenceOrganicOnly] != 1 {
		t.Errorf("organic_only = %d, want 1", counts[models.PresenceOrganicOnly])
	}
	if counts[models.PresencePaidOnly] != 1 {
		t.Errorf("paid_only = %d, want 1", counts[models.PresencePaidOnly])
	}
}

func TestJoinApproximateThreshold100(t *testing.T) {
	j := NewJoiner()
	organic := organicTable("nike running shoe")
	paid := paidTable("nike running shoes")

	merged := j.Join(organic, paid, true, 100)
	counts := presenceCounts(t, merged)
	if counts[models.PresenceBoth] != 0 {
		t.Errorf("both = %d, want 0 at threshold 100", counts[models.PresenceBoth])
	}
}

func TestJoinEmptyInputs(t *testing.T) {
	j := NewJoiner()

	merged := j.Join(organicTable(), paidTable(), false, 0)
	if merged.Len() != 0 {
		t.Errorf("rows = %d, want 0", merged.Len())
	}

	merged = j.Join(organicTable("a"), paidTable(), true, 90)
	counts := presenceCounts(t, merged)
	if counts[models.PresenceOrganicOnly] != 1 || merged.Len() != 1 {
		t.Errorf("counts = %v, want one organic_only row", counts)
	}
}

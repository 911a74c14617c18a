package service

import (
	"kwintel/internal/models"
	"kwintel/internal/table"
)

// Joiner reconciles the organic and paid tables on the normalized key
// column, either by exact equality or through a one-sided approximate key
// mapping. The output is a single merged table tagged with a presence
// column; every input row from both sides appears exactly once per join
// combination.
type Joiner struct {
	fuzzy *FuzzyMatcher
}

// NewJoiner creates a joiner with its own fuzzy matcher.
func NewJoiner() *Joiner {
	return &Joiner{fuzzy: NewFuzzyMatcher()}
}

// Join performs a full outer equi-join of the two tables on kw_norm. In
// approximate mode each distinct organic key is first greedily mapped to
// its best-scoring paid key (threshold clamped to [0,100]); unmapped keys
// on either side fall into their one-sided segments. Keys repeating within
// a side pair all-with-all, standard outer-join cardinality. Columns whose
// names collide across sides are suffixed _gsc and _ads.
func (j *Joiner) Join(organic, paid *table.Table, approximate bool, threshold int) *table.Table {
	organicNames := renamePlan(organic, paid, "_gsc")
	paidNames := renamePlan(paid, organic, "_ads")

	merged := table.New()
	for _, h := range organic.Headers {
		merged.Headers = append(merged.Headers, organicNames[h])
	}
	for _, h := range paid.Headers {
		if h == models.ColKey {
			continue
		}
		merged.Headers = append(merged.Headers, paidNames[h])
	}
	merged.Headers = append(merged.Headers, models.ColPresence)

	paidKeys := keyColumn(paid)
	paidIndex := make(map[string][]int)
	for i, k := range paidKeys {
		paidIndex[k] = append(paidIndex[k], i)
	}

	// In approximate mode the organic key is replaced by its mapped paid
	// key for lookup only; the row keeps its own kw_norm.
	var mapping map[string]string
	if approximate {
		mapping = j.fuzzy.MapKeys(distinctKeys(organic), distinctKeys(paid), threshold)
	}

	matchedPaid := make(map[int]bool, len(paid.Rows))
	for _, orow := range organic.Rows {
		key := orow[models.ColKey].Str()
		lookup := key
		found := false
		if approximate {
			lookup, found = mapping[key]
		} else {
			found = true
		}
		var partners []int
		if found {
			partners = paidIndex[lookup]
		}
		if len(partners) == 0 {
			merged.Rows = append(merged.Rows, mergeRows(orow, nil, organicNames, paidNames, models.PresenceOrganicOnly))
			continue
		}
		for _, pi := range partners {
			matchedPaid[pi] = true
			merged.Rows = append(merged.Rows, mergeRows(orow, paid.Rows[pi], organicNames, paidNames, models.PresenceBoth))
		}
	}
	for i, prow := range paid.Rows {
		if !matchedPaid[i] {
			merged.Rows = append(merged.Rows, mergeRows(nil, prow, organicNames, paidNames, models.PresencePaidOnly))
		}
	}
	return merged
}

// renamePlan maps each column of side to its merged name: kw_norm stays
// itself, collisions with the other side gain the suffix.
func renamePlan(side, other *table.Table, suffix string) map[string]string {
	plan := make(map[string]string, len(side.Headers))
	for _, h := range side.Headers {
		switch {
		case h == models.ColKey:
			plan[h] = models.ColKey
		case other.HasColumn(h):
			plan[h] = h + suffix
		default:
			plan[h] = h
		}
	}
	return plan
}

func mergeRows(orow, prow table.Row, organicNames, paidNames map[string]string, presence models.Presence) table.Row {
	out := make(table.Row)
	for col, v := range orow {
		out[organicNames[col]] = v
	}
	for col, v := range prow {
		if col == models.ColKey {
			// The organic key wins when both sides are present.
			if _, ok := out[models.ColKey]; ok {
				continue
			}
			out[models.ColKey] = v
			continue
		}
		out[paidNames[col]] = v
	}
	out[models.ColPresence] = table.Text(string(presence))
	return out
}

func keyColumn(t *table.Table) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[models.ColKey].Str()
	}
	return out
}

// distinctKeys returns the table's normalized keys deduplicated in
// first-seen order. Iteration order matters: it fixes the fuzzy tie-break.
func distinctKeys(t *table.Table) []string {
	seen := make(map[string]bool, len(t.Rows))
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		k := row[models.ColKey].Str()
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

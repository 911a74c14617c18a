package service

import (
	"testing"

	"kwintel/internal/table"
)

func TestResolvePriorityOrder(t *testing.T) {
	sr := NewSchemaResolver()
	tbl := table.New("query_gsc", "kw_norm")
	tbl.Append(table.Row{"query_gsc": table.Text("a"), "kw_norm": table.Text("a")})

	got := sr.Resolve(tbl, []string{"query", "query_gsc", "kw_norm"}, "query", table.Missing)
	if got != "query_gsc" {
		t.Errorf("Resolve = %q, want first present candidate query_gsc", got)
	}
}

func TestResolveAddsDefault(t *testing.T) {
	sr := NewSchemaResolver()
	tbl := table.New("other")
	tbl.Append(table.Row{"other": table.Text("x")})
	tbl.Append(table.Row{"other": table.Text("y")})

	got := sr.Resolve(tbl, []string{"cpc", "cpc_ads"}, "cpc", table.Number(0))
	if got != "cpc" {
		t.Errorf("Resolve = %q, want default name cpc", got)
	}
	if !tbl.HasColumn("cpc") {
		t.Fatal("default column not added")
	}
	for i, row := range tbl.Rows {
		if row["cpc"].Float() != 0 {
			t.Errorf("row %d fill = %v, want 0", i, row["cpc"])
		}
	}
}

func TestResolveConfigAliases(t *testing.T) {
	sr := NewSchemaResolverWithAliases(map[string][]string{
		"cpc": {"avg_cpc"},
	})
	tbl := table.New("avg_cpc")
	tbl.Append(table.Row{"avg_cpc": table.Number(1.2)})

	got := sr.Resolve(tbl, []string{"cpc", "cpc_ads"}, "cpc", table.Missing)
	if got != "avg_cpc" {
		t.Errorf("Resolve = %q, want alias avg_cpc", got)
	}
}

func TestResolveNeverFails(t *testing.T) {
	sr := NewSchemaResolver()
	empty := table.New()
	if got := sr.Resolve(empty, nil, "anything", table.Missing); got != "anything" {
		t.Errorf("Resolve on empty schema = %q, want anything", got)
	}
}

package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableFromRows(rows ...*DEGRow) *DEGTable {
	for _, r := range rows {
		r.Regulation = deriveRegulation(r.Log2FC)
		if r.IsHub == "" {
			r.IsHub = IsHubUnknown
		}
	}
	return &DEGTable{Filename: "test.csv", Rows: rows}
}

func TestCounts(t *testing.T) {
	table := tableFromRows(
		&DEGRow{GeneSymbol: "A", Log2FC: 2.0, Padj: 0.01, IsHub: "yes"},
		&DEGRow{GeneSymbol: "B", Log2FC: 1.5, Padj: 0.01, IsHub: "Yes"},
		&DEGRow{GeneSymbol: "C", Log2FC: -2.0, Padj: 0.01, IsHub: "no"},
		&DEGRow{GeneSymbol: "D", Log2FC: 0.0, Padj: 0.01},
	)

	if got := table.CountUp(); got != 2 {
		t.Errorf("CountUp: expected 2, got %d", got)
	}
	if got := table.CountDown(); got != 2 {
		t.Errorf("CountDown: expected 2, got %d", got)
	}
	if got := table.CountHub(); got != 2 {
		t.Errorf("CountHub: expected 2 (case-insensitive yes), got %d", got)
	}
	if table.CountUp()+table.CountDown() != len(table.Rows) {
		t.Errorf("up/down counts do not partition the table")
	}
}

func TestTopUp(t *testing.T) {
	table := tableFromRows(
		&DEGRow{GeneSymbol: "A", Log2FC: 1.2},
		&DEGRow{GeneSymbol: "B", Log2FC: 3.0},
		&DEGRow{GeneSymbol: "C", Log2FC: 2.5},
		&DEGRow{GeneSymbol: "D", Log2FC: 3.0}, // tie with B, comes after
		&DEGRow{GeneSymbol: "E", Log2FC: -1.0},
		&DEGRow{GeneSymbol: "F", Log2FC: 4.1},
		&DEGRow{GeneSymbol: "G", Log2FC: 1.1},
		&DEGRow{GeneSymbol: "H", Log2FC: 2.0},
	)

	top := table.TopUp(5)

	require.Len(t, top, 5)
	var symbols []string
	for _, row := range top {
		require.Equal(t, RegulationUp, row.Regulation)
		symbols = append(symbols, row.GeneSymbol)
	}
	// Descending by log2(FC); B before D on the tie (original order).
	require.Equal(t, []string{"F", "B", "D", "C", "H"}, symbols)

	// No excluded up-row scores higher than any returned row.
	cutoff := top[len(top)-1].Log2FC
	for _, row := range table.Rows {
		if row.Regulation == RegulationUp && !contains(symbols, row.GeneSymbol) {
			require.LessOrEqual(t, row.Log2FC, cutoff)
		}
	}
}

func TestTopDown(t *testing.T) {
	table := tableFromRows(
		&DEGRow{GeneSymbol: "A", Log2FC: -3.0},
		&DEGRow{GeneSymbol: "B", Log2FC: 0.5},
		&DEGRow{GeneSymbol: "C", Log2FC: -3.0}, // tie with A, comes after
		&DEGRow{GeneSymbol: "D", Log2FC: 2.0},  // up, excluded
	)

	top := table.TopDown(5)

	require.Len(t, top, 3) // fewer down rows than n is fine
	var symbols []string
	for _, row := range top {
		require.Equal(t, RegulationDown, row.Regulation)
		symbols = append(symbols, row.GeneSymbol)
	}
	require.Equal(t, []string{"A", "C", "B"}, symbols)
}

func TestTopUpEmptyTable(t *testing.T) {
	table := tableFromRows()
	if got := table.TopUp(5); len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
	if got := table.CountUp() + table.CountDown(); got != 0 {
		t.Errorf("expected zero counts, got %d", got)
	}
}

func TestAnnotationTargets(t *testing.T) {
	table := tableFromRows(
		&DEGRow{GeneSymbol: "A", Log2FC: 1},
		&DEGRow{GeneSymbol: "B", Log2FC: 1},
		&DEGRow{GeneSymbol: "A", Log2FC: 2}, // duplicate symbol
		&DEGRow{GeneSymbol: "", Log2FC: 1},  // blank skipped
		&DEGRow{GeneSymbol: "C", Log2FC: 1},
	)

	require.Equal(t, []string{"A", "B", "C"}, table.AnnotationTargets(10))
	require.Equal(t, []string{"A", "B"}, table.AnnotationTargets(2))
}

func TestAnnotationTargetsCapOnLargeTable(t *testing.T) {
	// A 500-gene table still yields exactly 10 targets.
	var rows []*DEGRow
	for i := 0; i < 500; i++ {
		rows = append(rows, &DEGRow{GeneSymbol: fmt.Sprintf("GENE%03d", i), Log2FC: 2})
	}
	table := tableFromRows(rows...)

	targets := table.AnnotationTargets(10)
	require.Len(t, targets, 10)
	require.Equal(t, "GENE000", targets[0])
	require.Equal(t, "GENE009", targets[9])
}

func TestGeneSymbolsKeepsDuplicates(t *testing.T) {
	table := tableFromRows(
		&DEGRow{GeneSymbol: "A", Log2FC: 1},
		&DEGRow{GeneSymbol: "", Log2FC: 1},
		&DEGRow{GeneSymbol: "A", Log2FC: 1},
	)
	require.Equal(t, []string{"A", "A"}, table.GeneSymbols())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

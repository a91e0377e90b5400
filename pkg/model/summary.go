package model

import (
	"sort"
	"strings"
)

// Pure aggregations over a table snapshot. Every report render calls
// these again, nothing is memoized.

// CountUp counts rows classified "Up" (log2(FC) > 1).
func (t *DEGTable) CountUp() int {
	count := 0
	for _, row := range t.Rows {
		if row.Regulation == RegulationUp {
			count++
		}
	}
	return count
}

// CountDown counts the complementary partition, so
// CountUp() + CountDown() == len(t.Rows) always holds.
func (t *DEGTable) CountDown() int {
	return len(t.Rows) - t.CountUp()
}

// CountHub counts rows whose IsHub equals "yes", case-insensitively.
func (t *DEGTable) CountHub() int {
	count := 0
	for _, row := range t.Rows {
		if strings.ToLower(row.IsHub) == "yes" {
			count++
		}
	}
	return count
}

// TopUp returns the n largest log2(FC) rows among the up-regulated,
// ties kept in original table order.
func (t *DEGTable) TopUp(n int) []*DEGRow {
	var up []*DEGRow
	for _, row := range t.Rows {
		if row.Regulation == RegulationUp {
			up = append(up, row)
		}
	}
	sort.SliceStable(up, func(i, j int) bool {
		return up[i].Log2FC > up[j].Log2FC
	})
	if len(up) > n {
		up = up[:n]
	}
	return up
}

// TopDown returns the n smallest log2(FC) rows among the down-regulated.
func (t *DEGTable) TopDown(n int) []*DEGRow {
	var down []*DEGRow
	for _, row := range t.Rows {
		if row.Regulation == RegulationDown {
			down = append(down, row)
		}
	}
	sort.SliceStable(down, func(i, j int) bool {
		return down[i].Log2FC < down[j].Log2FC
	})
	if len(down) > n {
		down = down[:n]
	}
	return down
}

// AnnotationTargets returns the first n distinct non-empty symbols in
// table order. The annotation section never looks past these.
func (t *DEGTable) AnnotationTargets(n int) []string {
	seen := make(map[string]bool, n)
	var targets []string
	for _, row := range t.Rows {
		if row.GeneSymbol == "" || seen[row.GeneSymbol] {
			continue
		}
		seen[row.GeneSymbol] = true
		targets = append(targets, row.GeneSymbol)
		if len(targets) == n {
			break
		}
	}
	return targets
}

// GeneSymbols returns every non-empty symbol in table order, duplicates
// included. This is the enrichment submission list.
func (t *DEGTable) GeneSymbols() []string {
	var symbols []string
	for _, row := range t.Rows {
		if row.GeneSymbol != "" {
			symbols = append(symbols, row.GeneSymbol)
		}
	}
	return symbols
}

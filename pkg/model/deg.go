package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError marks a malformed or incomplete upload. An upload that
// fails this way is rejected outright, nothing is stored for it.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Msg)
}

// deriveRegulation applies the up/down rule to a fold-change value.
func deriveRegulation(log2fc float64) string {
	if log2fc > 1 {
		return RegulationUp
	}
	return RegulationDown
}

// ParseDEGTable reads a DEG CSV into an augmented table. The header must
// carry Gene_Symbol, log2(FC) and Padj; IsHub is optional and defaults to
// "Unknown" for every row when absent. A Regulation column in the input is
// ignored and re-derived.
func ParseDEGTable(filename string, r io.Reader) (*DEGTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Msg: "empty file"}
	}
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("unreadable header: %v", err)}
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{ColGeneSymbol, ColLog2FC, ColPadj} {
		if _, ok := colIdx[required]; !ok {
			return nil, &ParseError{Msg: fmt.Sprintf("missing required column %q", required)}
		}
	}

	hubIdx, hasHub := colIdx[ColIsHub]

	var rows []*DEGRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("line %d: %v", line, err)}
		}

		log2fc, err := strconv.ParseFloat(strings.TrimSpace(record[colIdx[ColLog2FC]]), 64)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("line %d: bad log2(FC) value %q", line, record[colIdx[ColLog2FC]])}
		}
		padj, err := strconv.ParseFloat(strings.TrimSpace(record[colIdx[ColPadj]]), 64)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("line %d: bad Padj value %q", line, record[colIdx[ColPadj]])}
		}

		isHub := IsHubUnknown
		if hasHub {
			isHub = strings.TrimSpace(record[hubIdx])
		}

		rows = append(rows, &DEGRow{
			GeneSymbol: strings.TrimSpace(record[colIdx[ColGeneSymbol]]),
			Log2FC:     log2fc,
			Padj:       padj,
			IsHub:      isHub,
			Regulation: deriveRegulation(log2fc),
		})
	}

	return &DEGTable{Filename: filename, Rows: rows}, nil
}

// WriteCSV serializes the full augmented table. The output re-parses
// through ParseDEGTable into an identical table.
func (t *DEGTable) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{ColGeneSymbol, ColLog2FC, ColPadj, ColIsHub, ColRegulation}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range t.Rows {
		record := []string{
			row.GeneSymbol,
			strconv.FormatFloat(row.Log2FC, 'g', -1, 64),
			strconv.FormatFloat(row.Padj, 'g', -1, 64),
			row.IsHub,
			row.Regulation,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

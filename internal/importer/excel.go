// Package importer converts an Excel keyword workbook into the plain-text
// frequency word list the crawler consumes. Operators maintain large keyword
// sets in spreadsheets; the importer validates every row and reports
// per-row errors instead of failing on the first bad cell.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column indices for the keyword workbook (0-based).
const (
	colGroup = 0 // Column A
	colWord  = 1 // Column B
	colKind  = 2 // Column C (optional)

	minRequiredColumns = 2
	headerRowIndex     = 1 // Excel rows are 1-based, header is row 1
)

// SheetName is the worksheet the importer reads.
const SheetName = "Keywords"

// Keyword kinds. A required word must appear in a title for the group to
// match; a filter word excludes the title from the group.
const (
	KindNormal   = "normal"
	KindRequired = "required"
	KindFilter   = "filter"
)

// KeywordRow represents a parsed row from the keyword workbook.
type KeywordRow struct {
	Row   int // Excel row number (for error reporting)
	Group string
	Word  string
	Kind  string
}

// ImportError represents a validation error for a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ValidateRow validates a single row and returns an error message or empty string.
func ValidateRow(row KeywordRow) string {
	if strings.TrimSpace(row.Group) == "" {
		return "group is required"
	}
	if strings.TrimSpace(row.Word) == "" {
		return "word is required"
	}

	switch row.Kind {
	case "", KindNormal, KindRequired, KindFilter:
		return ""
	default:
		return fmt.Sprintf("kind must be one of %s, %s, %s", KindNormal, KindRequired, KindFilter)
	}
}

// ParseWorkbook reads the keyword worksheet and returns the valid rows plus
// per-row validation errors. Rows keep worksheet order; blank rows are
// skipped.
func ParseWorkbook(r io.Reader) ([]KeywordRow, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", SheetName, err)
	}

	var (
		parsed    []KeywordRow
		importErr []ImportError
	)
	for i, cells := range rows {
		rowNum := i + 1
		if rowNum == headerRowIndex {
			continue
		}
		if blankRow(cells) {
			continue
		}
		if len(cells) < minRequiredColumns {
			importErr = append(importErr, ImportError{Row: rowNum, Error: "word is required"})
			continue
		}

		row := KeywordRow{
			Row:   rowNum,
			Group: strings.TrimSpace(cell(cells, colGroup)),
			Word:  strings.TrimSpace(cell(cells, colWord)),
			Kind:  strings.ToLower(strings.TrimSpace(cell(cells, colKind))),
		}
		if msg := ValidateRow(row); msg != "" {
			importErr = append(importErr, ImportError{Row: rowNum, Error: msg})
			continue
		}
		if row.Kind == "" {
			row.Kind = KindNormal
		}
		parsed = append(parsed, row)
	}

	return parsed, importErr, nil
}

// RenderWordList serializes parsed rows into the crawler's word list format:
// one word per line, groups separated by a blank line, required words
// prefixed with "+" and filter words with "!". Groups appear in first-seen
// order.
func RenderWordList(rows []KeywordRow) string {
	var (
		order  []string
		groups = make(map[string][]KeywordRow)
	)
	for _, row := range rows {
		if _, seen := groups[row.Group]; !seen {
			order = append(order, row.Group)
		}
		groups[row.Group] = append(groups[row.Group], row)
	}

	var b strings.Builder
	for i, group := range order {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, row := range groups[group] {
			switch row.Kind {
			case KindRequired:
				b.WriteString("+")
			case KindFilter:
				b.WriteString("!")
			}
			b.WriteString(row.Word)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

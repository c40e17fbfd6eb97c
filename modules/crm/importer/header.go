package importer

import (
	"fmt"
	"strings"

	"github.com/renovaplan/renova/pkg/excel"
)

// HeaderLocation identifies the elected header row.
type HeaderLocation struct {
	SheetIndex int
	RowIndex   int
	Score      int
}

// LocateHeader scans every row of every sheet and elects the most
// header-like one. The election is deterministic: the first row reaching the
// global maximum score wins.
func LocateHeader(sheets []excel.Sheet) (HeaderLocation, error) {
	best := HeaderLocation{SheetIndex: -1, RowIndex: -1}

	for si, sheet := range sheets {
		for ri, row := range sheet.Rows {
			score, ok := scoreHeaderRow(row)
			if !ok {
				continue
			}
			if score > best.Score {
				best = HeaderLocation{SheetIndex: si, RowIndex: ri, Score: score}
			}
		}
	}

	if best.Score < minHeaderScore {
		return HeaderLocation{}, headerNotFoundError(sheets)
	}
	return best, nil
}

// scoreHeaderRow computes the header-likeness score for one row. The second
// return is false when the row is disqualified outright.
func scoreHeaderRow(row []string) (int, bool) {
	nonEmpty := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < minCandidateCells {
		return 0, false
	}
	if isNonHeaderRow(row) {
		return 0, false
	}

	score := 0
	for _, cell := range row {
		normalized := Normalize(cell)
		if normalized == "" {
			continue
		}
		for _, rule := range headerWeights {
			if rule.Match(normalized) {
				score += rule.Weight
				break
			}
		}
	}

	if nonEmpty >= wideRowBonusThreshold {
		score += wideRowBonus
	}
	if nonEmpty >= extraWideRowThreshold {
		score += extraWideRowBonus
	}
	return score, true
}

// isNonHeaderRow recognizes dashboard/summary rows and month/number strips.
func isNonHeaderRow(row []string) bool {
	numericOrMonthOnly := true
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		normalized := Normalize(cell)
		for _, token := range summaryTokens {
			if strings.Contains(normalized, token) {
				return true
			}
		}
		if !numericToken(cell) {
			if _, isMonth := monthTokens[normalized]; !isMonth {
				numericOrMonthOnly = false
			}
		}
	}
	return numericOrMonthOnly
}

func numericToken(cell string) bool {
	hasDigit := false
	for _, r := range cell {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.' || r == ',' || r == '/' || r == '-' || r == '%' || r == '$' || r == ' ' || r == 'R':
		default:
			return false
		}
	}
	return hasDigit
}

func headerNotFoundError(sheets []excel.Sheet) *Error {
	var b strings.Builder
	b.WriteString("could not find a header row in any sheet; no row reached ")
	fmt.Fprintf(&b, "a recognizable-column score of %d. Sheets inspected:", minHeaderScore)
	for _, sheet := range sheets {
		fmt.Fprintf(&b, " %q (%d rows, %d columns);", sheet.Name, sheet.RowCount(), sheet.MaxColumns())
	}
	return &Error{Kind: ErrHeaderNotFound, Message: strings.TrimSuffix(b.String(), ";")}
}

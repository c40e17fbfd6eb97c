package importer

import (
	"fmt"
	"strings"
)

// Mapping assigns semantic fields to column indexes of the elected header
// row. At most one column per field, and one field per column.
type Mapping struct {
	Headers []string
	Columns map[Field]int
	// NameFromEmail marks that the client name must be derived from the email
	// local-part because no name column was found.
	NameFromEmail bool
}

func (m Mapping) Column(f Field) (int, bool) {
	col, ok := m.Columns[f]
	return col, ok
}

// MapColumns resolves the semantic mapping for the given header row.
// columnRules are evaluated in priority order; the first unclaimed header
// matching a rule is assigned, and an assigned field is never overwritten.
// dataRows are the rows below the header, used only for content sniffing.
func MapColumns(headers []string, dataRows [][]string) (Mapping, error) {
	m := Mapping{
		Headers: headers,
		Columns: make(map[Field]int),
	}
	claimed := make(map[int]bool)

	for _, rule := range columnRules {
		if _, done := m.Columns[rule.Field]; done {
			continue
		}
		for col, header := range headers {
			if claimed[col] {
				continue
			}
			normalized := Normalize(header)
			if normalized == "" {
				continue
			}
			if rule.Match(normalized) {
				m.Columns[rule.Field] = col
				claimed[col] = true
				break
			}
		}
	}

	if _, ok := m.Columns[FieldClientName]; !ok {
		if emailCol, hasEmail := m.Columns[FieldEmail]; hasEmail {
			m.Columns[FieldClientName] = emailCol
			m.NameFromEmail = true
		} else if col, found := sniffTextColumn(headers, dataRows, claimed); found {
			m.Columns[FieldClientName] = col
			claimed[col] = true
		}
	}

	if _, ok := m.Columns[FieldDueDate]; !ok {
		if col, found := sniffDateColumn(headers, dataRows, claimed); found {
			m.Columns[FieldDueDate] = col
			claimed[col] = true
		}
	}

	_, hasName := m.Columns[FieldClientName]
	_, hasDue := m.Columns[FieldDueDate]
	if !hasName || !hasDue {
		return Mapping{}, columnsUnmappedError(headers, dataRows, hasName, hasDue)
	}

	return m, nil
}

// sniffExcluded lists header fragments that disqualify a column from the
// free-text name fallback.
var sniffExcluded = []string{
	"telefone", "celular", "fone", "data", "venc", "email", "valor",
	"premio", "iof", "comissao", "seguradora", "cpf", "cnpj", "placa",
}

// sniffTextColumn finds the first unclaimed column whose sampled values look
// like free text: not pure digits, not date-shaped, no "@".
func sniffTextColumn(headers []string, dataRows [][]string, claimed map[int]bool) (int, bool) {
	for col := range headers {
		if claimed[col] {
			continue
		}
		if containsAny(Normalize(headers[col]), sniffExcluded...) {
			continue
		}
		samples := sampleColumn(dataRows, col)
		if len(samples) == 0 {
			continue
		}
		textual := true
		for _, v := range samples {
			if strings.Contains(v, "@") || dateShaped(v) || pureDigits(v) {
				textual = false
				break
			}
		}
		if textual {
			return col, true
		}
	}
	return 0, false
}

// sniffDateColumn finds the first unclaimed column whose sampled values are
// numeric (date serials) or date-shaped strings.
func sniffDateColumn(headers []string, dataRows [][]string, claimed map[int]bool) (int, bool) {
	for col := range headers {
		if claimed[col] {
			continue
		}
		samples := sampleColumn(dataRows, col)
		if len(samples) == 0 {
			continue
		}
		dateLike := true
		for _, v := range samples {
			if !dateShaped(v) && !numericShaped(v) {
				dateLike = false
				break
			}
		}
		if dateLike {
			return col, true
		}
	}
	return 0, false
}

func sampleColumn(dataRows [][]string, col int) []string {
	var samples []string
	for _, row := range dataRows {
		if len(samples) >= contentSampleSize {
			break
		}
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v != "" {
			samples = append(samples, v)
		}
	}
	return samples
}

func pureDigits(s string) bool {
	digits := DigitsOnly(s)
	return digits != "" && digits == Normalize(s)
}

func columnsUnmappedError(headers []string, dataRows [][]string, hasName, hasDue bool) *Error {
	var missing []string
	if !hasName {
		missing = append(missing, "client name")
	}
	if !hasDue {
		missing = append(missing, "due date")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "could not map required columns (%s). Detected headers: %s",
		strings.Join(missing, ", "), strings.Join(headers, " | "))
	if len(dataRows) > 0 {
		fmt.Fprintf(&b, ". Sample row: %s", strings.Join(dataRows[0], " | "))
	}
	return &Error{Kind: ErrColumnsUnmapped, Message: b.String()}
}

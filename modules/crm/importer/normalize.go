package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProcessedRow is one validated spreadsheet row, the pipeline's internal
// currency. It is never persisted directly; the writer projects it into
// client and policy records.
type ProcessedRow struct {
	ClientName string
	DueDate    time.Time
	Birthday   *time.Time
	Phone      string
	Email      string
	Insurer    string
	Product    string
	Premium    *decimal.Decimal
	IOF        *decimal.Decimal
	NetPremium *decimal.Decimal
	Commission *decimal.Decimal
	CpfCnpj    string
	Plate      string
	UniqueKey  string
}

// serialEpoch is the conventional spreadsheet date base: serial 1 is
// 1899-12-31, i.e. days count from 1899-12-30.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateFormats = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/06",
	"01/02/2006",
}

// extraDateFormats is the last-resort fallback when none of the expected
// layouts parse.
var extraDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
}

var dateShapedRe = regexp.MustCompile(`^\d{1,4}[-/]\d{1,2}[-/]\d{1,4}`)

func dateShaped(s string) bool {
	return dateShapedRe.MatchString(strings.TrimSpace(s))
}

func numericShaped(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// ParseDate accepts a date serial or one of the supported string layouts.
// Two-digit years are disambiguated against now: a value beyond
// now%100 + 10 belongs to the 1900s, anything else to the 2000s.
func ParseDate(cell string, now time.Time) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}

	// Raw cell values deliver date cells as serial numbers.
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		if serial < 1 || serial > 300000 {
			return time.Time{}, false
		}
		return serialEpoch.AddDate(0, 0, int(serial)), true
	}

	for _, layout := range dateFormats {
		t, err := time.Parse(layout, cell)
		if err != nil {
			continue
		}
		if strings.Contains(layout, "06") && !strings.Contains(layout, "2006") {
			t = fixTwoDigitYear(t, now)
		}
		return dayOf(t), true
	}

	for _, layout := range extraDateFormats {
		if t, err := time.Parse(layout, cell); err == nil {
			if t.Year() < 100 {
				t = fixTwoDigitYear(t, now)
			}
			return dayOf(t), true
		}
	}

	return time.Time{}, false
}

// fixTwoDigitYear re-derives the century from the parsed year's last two
// digits using the rolling pivot.
func fixTwoDigitYear(t time.Time, now time.Time) time.Time {
	yy := t.Year() % 100
	pivot := now.Year()%100 + 10
	century := 2000
	if yy > pivot {
		century = 1900
	}
	return time.Date(century+yy, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// numericSanityCeiling guards against misread date serials ending up as
// currency amounts.
var numericSanityCeiling = decimal.NewFromInt(1_000_000_000_000_000)

// ParseNumeric accepts plain numbers, Brazilian-formatted amounts
// ("1.234,56") and dot-decimal strings. Values outside (0, 1e15) are treated
// as absent.
func ParseNumeric(cell string) *decimal.Decimal {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimPrefix(cell, "R$")
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	candidate := cell
	if strings.Contains(cell, ",") {
		// pt-BR: drop thousand dots, comma is the decimal separator.
		candidate = strings.ReplaceAll(cell, ".", "")
		candidate = strings.ReplaceAll(candidate, ",", ".")
	}

	d, err := decimal.NewFromString(candidate)
	if err != nil {
		return nil
	}
	if d.IsNegative() || d.IsZero() || d.GreaterThanOrEqual(numericSanityCeiling) {
		return nil
	}
	return &d
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

// nameFromEmail derives a display name from the local-part of an email:
// "joao.silva@x.com" -> "Joao Silva".
func nameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return ""
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	return titleCaser.String(strings.TrimSpace(local))
}

// NormalizeRow converts one raw row into a ProcessedRow. The boolean is
// false when the row fails required-field validation and must be skipped.
func NormalizeRow(row []string, m Mapping, now time.Time) (ProcessedRow, bool) {
	get := func(f Field) string {
		col, ok := m.Column(f)
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	name := get(FieldClientName)
	if m.NameFromEmail {
		name = nameFromEmail(get(FieldEmail))
	}
	if name == "" {
		return ProcessedRow{}, false
	}

	dueDate, ok := ParseDate(get(FieldDueDate), now)
	if !ok {
		return ProcessedRow{}, false
	}

	out := ProcessedRow{
		ClientName: name,
		DueDate:    dueDate,
		Phone:      get(FieldPhone),
		Email:      strings.ToLower(get(FieldEmail)),
		Insurer:    get(FieldInsurer),
		Product:    get(FieldProduct),
		Premium:    ParseNumeric(get(FieldPremium)),
		IOF:        ParseNumeric(get(FieldIOF)),
		NetPremium: ParseNumeric(get(FieldNetPremium)),
		Commission: ParseNumeric(get(FieldCommission)),
		CpfCnpj:    get(FieldCpfCnpj),
		Plate:      strings.ToUpper(get(FieldPlate)),
	}

	if birthday, ok := ParseDate(get(FieldBirthday), now); ok {
		out.Birthday = &birthday
	}

	out.UniqueKey = uniqueKey(out)
	return out, true
}

// uniqueKey prefers the strongest identifier available: tax ID, then plate,
// then the client name.
func uniqueKey(row ProcessedRow) string {
	date := row.DueDate.Format("2006-01-02")
	if digits := DigitsOnly(row.CpfCnpj); digits != "" {
		return digits + "_" + date
	}
	if row.Plate != "" {
		return row.Plate + "_" + date
	}
	return Normalize(row.ClientName) + "_" + date
}

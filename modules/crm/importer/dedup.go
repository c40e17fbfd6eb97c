package importer

import (
	"regexp"
	"strings"
	"time"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
)

// notesPlateRe finds legacy and Mercosul plates buried in free-text notes,
// e.g. "veículo ABC1D23" or "ABC-1234".
var notesPlateRe = regexp.MustCompile(`\b[A-Z]{3}-?\d[A-Z0-9]\d{2}\b`)

// KeySet holds every identity already known to the database, each entry an
// "identifier_YYYY-MM-DD" string. Identifiers of different kinds share the
// set on purpose: a policy number recorded on a previous import must still
// collide with the same digits arriving as a CPF.
type KeySet map[string]struct{}

func (s KeySet) add(identifier string, date time.Time) {
	if identifier == "" {
		return
	}
	s[identifier+"_"+date.Format("2006-01-02")] = struct{}{}
}

func (s KeySet) has(identifier string, date time.Time) bool {
	if identifier == "" {
		return false
	}
	_, ok := s[identifier+"_"+date.Format("2006-01-02")]
	return ok
}

func (s KeySet) addKey(key string) {
	if key != "" {
		s[key] = struct{}{}
	}
}

func (s KeySet) hasKey(key string) bool {
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

// BuildExistingKeys projects a snapshot of stored policies into the key set
// the dedup stage checks incoming rows against. nameDateDedup controls
// whether client name plus due date alone counts as an identity.
func BuildExistingKeys(existing []policy.WithClient, nameDateDedup bool) KeySet {
	keys := make(KeySet, len(existing)*3)
	for _, p := range existing {
		date := p.DueDate()

		keys.add(DigitsOnly(p.PolicyNumber()), date)
		keys.add(DigitsOnly(p.CpfCnpj()), date)

		plate := p.Plate()
		if plate == "" {
			plate = notesPlateRe.FindString(strings.ToUpper(p.Notes()))
		}
		keys.add(plate, date)

		if !p.Client.IsZero() {
			if nameDateDedup {
				keys.add(Normalize(p.Client.Name()), date)
			}
			keys.add(strings.ToLower(strings.TrimSpace(p.Client.Email())), date)
		}
	}
	return keys
}

// FilterNew drops rows whose identity already exists, either in the stored
// snapshot or earlier in the same file. Returns the surviving rows and the
// number skipped.
func FilterNew(rows []ProcessedRow, keys KeySet, nameDateDedup bool) ([]ProcessedRow, int) {
	kept := make([]ProcessedRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if rowSeen(row, keys, nameDateDedup) {
			skipped++
			continue
		}
		markSeen(row, keys, nameDateDedup)
		kept = append(kept, row)
	}
	return kept, skipped
}

// rowSeen checks the row's UniqueKey first; plate, email and name cover the
// identifiers the key does not carry. A name-keyed UniqueKey only counts
// when name+date matching is on.
func rowSeen(row ProcessedRow, keys KeySet, nameDateDedup bool) bool {
	if (nameDateDedup || !nameKeyed(row)) && keys.hasKey(row.UniqueKey) {
		return true
	}
	if keys.has(row.Plate, row.DueDate) {
		return true
	}
	if keys.has(strings.ToLower(row.Email), row.DueDate) {
		return true
	}
	return nameDateDedup && keys.has(Normalize(row.ClientName), row.DueDate)
}

func markSeen(row ProcessedRow, keys KeySet, nameDateDedup bool) {
	if nameDateDedup || !nameKeyed(row) {
		keys.addKey(row.UniqueKey)
	}
	keys.add(row.Plate, row.DueDate)
	keys.add(strings.ToLower(row.Email), row.DueDate)
	if nameDateDedup {
		keys.add(Normalize(row.ClientName), row.DueDate)
	}
}

// nameKeyed reports whether the row's unique key fell back to the client
// name, the weakest identifier.
func nameKeyed(row ProcessedRow) bool {
	return DigitsOnly(row.CpfCnpj) == "" && row.Plate == ""
}

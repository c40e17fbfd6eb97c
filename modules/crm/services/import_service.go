package services

import (
	"context"
	"strings"
	"time"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/modules/crm/importer"
	"github.com/renovaplan/renova/pkg/composables"
	"github.com/renovaplan/renova/pkg/excel"
	"github.com/renovaplan/renova/pkg/eventbus"
)

// ImportSummary is what the upload endpoint reports back to the broker.
type ImportSummary struct {
	ClientsCreated    int `json:"clients_created"`
	PoliciesCreated   int `json:"policies_created"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
}

// ImportConfig carries the tunables of the import pipeline. Values come from
// the environment via configuration.ImportOptions.
type ImportConfig struct {
	// SnapshotLimit caps how many stored policies and clients are loaded for
	// dedup and client resolution.
	SnapshotLimit int
	// NameDateDedup treats a matching client name plus due date as a
	// duplicate even without a shared document, plate or email.
	NameDateDedup bool
}

type ImportService struct {
	clients   client.Repository
	policies  policy.Repository
	publisher eventbus.EventBus
	config    ImportConfig
}

func NewImportService(
	clients client.Repository,
	policies policy.Repository,
	publisher eventbus.EventBus,
	config ImportConfig,
) *ImportService {
	return &ImportService{
		clients:   clients,
		policies:  policies,
		publisher: publisher,
		config:    config,
	}
}

// Import runs the whole pipeline over a raw workbook: parse, dedup against
// the stored snapshot, then batch-create clients and policies. Clients are
// committed before policies and there is no rollback: a failure after the
// client batch leaves the created clients in place, and the returned error
// says so.
func (s *ImportService) Import(ctx context.Context, data []byte) (*ImportSummary, error) {
	logger := composables.UseLogger(ctx)

	sheets, err := excel.LoadWorkbook(data)
	if err != nil {
		return nil, &importer.Error{Kind: importer.ErrFileUnreadable, Message: err.Error()}
	}

	result, err := importer.Process(sheets, time.Now())
	if err != nil {
		return nil, err
	}
	logger.WithField("rows", len(result.Rows)).Info("spreadsheet parsed")

	snapshot, err := s.policies.GetAllWithClient(ctx, s.config.SnapshotLimit)
	if err != nil {
		return nil, err
	}
	keys := importer.BuildExistingKeys(snapshot, s.config.NameDateDedup)
	rows, skipped := importer.FilterNew(result.Rows, keys, s.config.NameDateDedup)

	if len(rows) == 0 {
		if skipped > 0 {
			return nil, &importer.Error{
				Kind:    importer.ErrAllDuplicates,
				Message: "every row in the file matches an existing policy",
			}
		}
		return &ImportSummary{}, nil
	}

	existing, err := s.clients.GetAll(ctx, s.config.SnapshotLimit)
	if err != nil {
		return nil, err
	}

	summary, err := s.write(ctx, rows, existing)
	if err != nil {
		return nil, err
	}
	summary.DuplicatesSkipped = skipped

	logger.WithField("clients_created", summary.ClientsCreated).
		WithField("policies_created", summary.PoliciesCreated).
		WithField("duplicates_skipped", summary.DuplicatesSkipped).
		Info("import finished")
	return summary, nil
}

// rowGroup is every imported row belonging to one client, grouped by
// lowercased name.
type rowGroup struct {
	name string
	rows []importer.ProcessedRow
}

func (s *ImportService) write(ctx context.Context, rows []importer.ProcessedRow, existing []client.Client) (*ImportSummary, error) {
	groups := groupByClient(rows)
	index := buildClientIndex(existing)

	var toCreate []client.Client
	for _, g := range groups {
		if _, ok := index.resolve(g.rows[0]); ok {
			continue
		}
		toCreate = append(toCreate, clientFromRow(g.rows[0]))
	}

	var created []client.Client
	if len(toCreate) > 0 {
		var err error
		created, err = s.clients.CreateMany(ctx, toCreate)
		if err != nil {
			return nil, &importer.Error{
				Kind:    importer.ErrWriteFailed,
				Message: "creating clients failed: " + err.Error(),
			}
		}
		for _, c := range created {
			s.publisher.Publish(&client.CreatedEvent{Result: c})
			index.put(c)
		}
	}

	var toInsert []policy.Policy
	for _, g := range groups {
		owner, ok := index.resolve(g.rows[0])
		if !ok {
			continue
		}
		for _, row := range g.rows {
			toInsert = append(toInsert, policyFromRow(row, owner))
		}
	}

	inserted, err := s.policies.CreateMany(ctx, toInsert)
	if err != nil {
		return nil, &importer.Error{
			Kind: importer.ErrWriteFailed,
			Message: "creating policies failed (imported clients may already be committed): " +
				err.Error(),
		}
	}
	for _, p := range inserted {
		s.publisher.Publish(&policy.CreatedEvent{Result: p})
	}

	return &ImportSummary{
		ClientsCreated:  len(created),
		PoliciesCreated: len(inserted),
	}, nil
}

// groupByClient buckets rows by lowercased client name, preserving first-seen
// order so batch creation stays deterministic.
func groupByClient(rows []importer.ProcessedRow) []*rowGroup {
	byName := make(map[string]*rowGroup)
	var ordered []*rowGroup
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.ClientName))
		g, ok := byName[key]
		if !ok {
			g = &rowGroup{name: key}
			byName[key] = g
			ordered = append(ordered, g)
		}
		g.rows = append(g.rows, row)
	}
	return ordered
}

// clientIndex resolves an imported row to a stored client by name, then
// email, then digits-only phone.
type clientIndex struct {
	byName  map[string]client.Client
	byEmail map[string]client.Client
	byPhone map[string]client.Client
}

func buildClientIndex(existing []client.Client) *clientIndex {
	idx := &clientIndex{
		byName:  make(map[string]client.Client, len(existing)),
		byEmail: make(map[string]client.Client, len(existing)),
		byPhone: make(map[string]client.Client, len(existing)),
	}
	for _, c := range existing {
		idx.put(c)
	}
	return idx
}

func (idx *clientIndex) put(c client.Client) {
	if name := strings.ToLower(strings.TrimSpace(c.Name())); name != "" {
		idx.byName[name] = c
	}
	if email := strings.ToLower(strings.TrimSpace(c.Email())); email != "" {
		idx.byEmail[email] = c
	}
	if phone := importer.DigitsOnly(c.Phone()); phone != "" {
		idx.byPhone[phone] = c
	}
}

func (idx *clientIndex) resolve(row importer.ProcessedRow) (client.Client, bool) {
	if c, ok := idx.byName[strings.ToLower(strings.TrimSpace(row.ClientName))]; ok {
		return c, true
	}
	if email := strings.ToLower(strings.TrimSpace(row.Email)); email != "" {
		if c, ok := idx.byEmail[email]; ok {
			return c, true
		}
	}
	if phone := importer.DigitsOnly(row.Phone); phone != "" {
		if c, ok := idx.byPhone[phone]; ok {
			return c, true
		}
	}
	return client.Client{}, false
}

func clientFromRow(row importer.ProcessedRow) client.Client {
	return client.New(row.ClientName).
		WithPhone(row.Phone).
		WithEmail(row.Email).
		WithCpfCnpj(row.CpfCnpj).
		WithBirthday(row.Birthday)
}

func policyFromRow(row importer.ProcessedRow, owner client.Client) policy.Policy {
	return policy.New(owner.ID(), row.DueDate).
		WithInsurer(row.Insurer).
		WithProduct(row.Product).
		WithPremium(row.Premium).
		WithIOF(row.IOF).
		WithNetPremium(row.NetPremium).
		WithCommission(row.Commission).
		WithCpfCnpj(row.CpfCnpj).
		WithPlate(row.Plate)
}

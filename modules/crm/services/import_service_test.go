package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/modules/crm/importer"
	"github.com/renovaplan/renova/pkg/eventbus"
	"github.com/renovaplan/renova/pkg/excel"
)

// ---- in-memory fakes ----

type fakeClientRepo struct {
	clients []client.Client
	fail    error
}

func (f *fakeClientRepo) GetPaginated(_ context.Context, _ *client.FindParams) ([]client.Client, int64, error) {
	return f.clients, int64(len(f.clients)), nil
}

func (f *fakeClientRepo) GetAll(_ context.Context, _ int) ([]client.Client, error) {
	return f.clients, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id uuid.UUID) (client.Client, error) {
	for _, c := range f.clients {
		if c.ID() == id {
			return c, nil
		}
	}
	return client.Client{}, client.ErrNotFound
}

func (f *fakeClientRepo) GetByBirthdayMonth(_ context.Context, month time.Month) ([]client.Client, error) {
	var out []client.Client
	for _, c := range f.clients {
		if c.Birthday() != nil && c.Birthday().Month() == month {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) Create(_ context.Context, c client.Client) (client.Client, error) {
	created := client.Hydrate(uuid.New(), c.Name(), c.Phone(), c.Email(), c.CpfCnpj(), c.Birthday(), time.Now(), time.Now())
	f.clients = append(f.clients, created)
	return created, nil
}

func (f *fakeClientRepo) CreateMany(ctx context.Context, clients []client.Client) ([]client.Client, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]client.Client, 0, len(clients))
	for _, c := range clients {
		created, _ := f.Create(ctx, c)
		out = append(out, created)
	}
	return out, nil
}

func (f *fakeClientRepo) Update(_ context.Context, c client.Client) (client.Client, error) {
	return c, nil
}

func (f *fakeClientRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeClientRepo) DeleteAll(_ context.Context) error           { f.clients = nil; return nil }
func (f *fakeClientRepo) Count(_ context.Context) (int64, error)      { return int64(len(f.clients)), nil }

type fakePolicyRepo struct {
	policies []policy.WithClient
	owners   map[uuid.UUID]client.Client
	fail     error
}

func (f *fakePolicyRepo) GetPaginated(_ context.Context, params *policy.FindParams) ([]policy.WithClient, int64, error) {
	var out []policy.WithClient
	for _, p := range f.policies {
		if params.Status != "" && p.Status() != params.Status {
			continue
		}
		if params.DueFrom != nil && p.DueDate().Before(*params.DueFrom) {
			continue
		}
		if params.DueTo != nil && p.DueDate().After(*params.DueTo) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePolicyRepo) GetAllWithClient(_ context.Context, _ int) ([]policy.WithClient, error) {
	return f.policies, nil
}

func (f *fakePolicyRepo) GetByID(_ context.Context, id uuid.UUID) (policy.Policy, error) {
	for _, p := range f.policies {
		if p.ID() == id {
			return p.Policy, nil
		}
	}
	return policy.Policy{}, policy.ErrNotFound
}

func (f *fakePolicyRepo) Create(_ context.Context, p policy.Policy) (policy.Policy, error) {
	f.policies = append(f.policies, policy.WithClient{Policy: p, Client: f.owners[p.ClientID()]})
	return p, nil
}

func (f *fakePolicyRepo) CreateMany(ctx context.Context, policies []policy.Policy) ([]policy.Policy, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for _, p := range policies {
		if _, err := f.Create(ctx, p); err != nil {
			return nil, err
		}
	}
	return policies, nil
}

func (f *fakePolicyRepo) Update(_ context.Context, p policy.Policy) (policy.Policy, error) {
	return p, nil
}

func (f *fakePolicyRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakePolicyRepo) DeleteAll(_ context.Context) error           { f.policies = nil; return nil }

func (f *fakePolicyRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.policies)), nil
}

func (f *fakePolicyRepo) CountByStatus(_ context.Context, status policy.Status) (int64, error) {
	var n int64
	for _, p := range f.policies {
		if p.Status() == status {
			n++
		}
	}
	return n, nil
}

// ---- helpers ----

func renewalWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	headers := []string{
		"Segurado", "CPF/CNPJ", "Celular", "Email", "Seguradora",
		"Produto", "Vencimento", "Prêmio", "Placa", "Comissão",
	}
	data, err := excel.NewExporter("Renovações").Export(headers, rows)
	require.NoError(t, err)
	return data
}

func newImportService(clients *fakeClientRepo, policies *fakePolicyRepo) *ImportService {
	bus := eventbus.NewEventPublisher(logrus.New())
	return NewImportService(clients, policies, bus, ImportConfig{
		SnapshotLimit: 10000,
		NameDateDedup: true,
	})
}

// ---- tests ----

func TestImportService(t *testing.T) {
	ctx := context.Background()

	t.Run("creates clients and policies from a fresh file", func(t *testing.T) {
		clients := &fakeClientRepo{}
		policies := &fakePolicyRepo{owners: map[uuid.UUID]client.Client{}}
		svc := newImportService(clients, policies)

		data := renewalWorkbook(t,
			[]interface{}{"João Silva", "123.456.789-00", "(11) 99876-5432", "joao@example.com",
				"Porto Seguro", "Auto", "15/03/2027", "R$ 1.234,56", "ABC1D23", "150,00"},
			[]interface{}{"João Silva", "123.456.789-00", "(11) 99876-5432", "joao@example.com",
				"Porto Seguro", "Residencial", "20/06/2027", "800,00", "", "90,00"},
			[]interface{}{"Maria Souza", "", "", "maria@example.com",
				"Bradesco", "Vida", "01/04/2027", "2.500,00", "", "300,00"},
		)

		summary, err := svc.Import(ctx, data)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.ClientsCreated)
		assert.Equal(t, 3, summary.PoliciesCreated)
		assert.Zero(t, summary.DuplicatesSkipped)

		require.Len(t, clients.clients, 2)
		assert.Equal(t, "João Silva", clients.clients[0].Name())
		assert.Equal(t, "joao@example.com", clients.clients[0].Email())

		require.Len(t, policies.policies, 3)
		joao := policies.policies[0]
		assert.Equal(t, clients.clients[0].ID(), joao.ClientID())
		require.NotNil(t, joao.Premium())
		assert.Equal(t, "1234.56", joao.Premium().String())
		assert.Equal(t, "ABC1D23", joao.Plate())
	})

	t.Run("imports a five column renewal sheet", func(t *testing.T) {
		clients := &fakeClientRepo{}
		policies := &fakePolicyRepo{owners: map[uuid.UUID]client.Client{}}
		svc := newImportService(clients, policies)

		data, err := excel.NewExporter("Plan1").Export(
			[]string{"Nome", "Vencimento Apólice", "Seguradora", "Telefone Celular", "Email"},
			[][]interface{}{
				{"João Silva", "15/03/2026", "Porto Seguro", "(11) 98765-4321", "joao@gmail.com"},
			},
		)
		require.NoError(t, err)

		summary, err := svc.Import(ctx, data)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ClientsCreated)
		assert.Equal(t, 1, summary.PoliciesCreated)
		assert.Zero(t, summary.DuplicatesSkipped)

		require.Len(t, clients.clients, 1)
		assert.Equal(t, "João Silva", clients.clients[0].Name())
		require.Len(t, policies.policies, 1)
		assert.Equal(t, "Porto Seguro", policies.policies[0].Insurer())
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), policies.policies[0].DueDate())
	})

	t.Run("reuses an existing client matched by name", func(t *testing.T) {
		existing := client.Hydrate(uuid.New(), "João Silva", "", "joao@example.com", "", nil, time.Now(), time.Now())
		clients := &fakeClientRepo{clients: []client.Client{existing}}
		policies := &fakePolicyRepo{owners: map[uuid.UUID]client.Client{existing.ID(): existing}}
		svc := newImportService(clients, policies)

		data := renewalWorkbook(t,
			[]interface{}{"JOÃO SILVA", "", "", "", "Porto Seguro", "Auto", "15/03/2027", "100,00", "", ""},
		)

		summary, err := svc.Import(ctx, data)
		require.NoError(t, err)
		assert.Zero(t, summary.ClientsCreated)
		assert.Equal(t, 1, summary.PoliciesCreated)
		require.Len(t, policies.policies, 1)
		assert.Equal(t, existing.ID(), policies.policies[0].ClientID())
	})

	t.Run("re-importing the same file skips every row", func(t *testing.T) {
		clients := &fakeClientRepo{}
		policies := &fakePolicyRepo{owners: map[uuid.UUID]client.Client{}}
		svc := newImportService(clients, policies)

		data := renewalWorkbook(t,
			[]interface{}{"João Silva", "123.456.789-00", "", "joao@example.com",
				"Porto Seguro", "Auto", "15/03/2027", "100,00", "", ""},
		)

		_, err := svc.Import(ctx, data)
		require.NoError(t, err)

		// Owners are not resolved by the fake, so the stored snapshot matches
		// on the document key only.
		_, err = svc.Import(ctx, data)
		require.Error(t, err)
		var impErr *importer.Error
		require.ErrorAs(t, err, &impErr)
		assert.Equal(t, importer.ErrAllDuplicates, impErr.Kind)
	})

	t.Run("unreadable file is reported as such", func(t *testing.T) {
		svc := newImportService(&fakeClientRepo{}, &fakePolicyRepo{})
		_, err := svc.Import(ctx, []byte("this is not a workbook"))
		require.Error(t, err)
		var impErr *importer.Error
		require.ErrorAs(t, err, &impErr)
		assert.Equal(t, importer.ErrFileUnreadable, impErr.Kind)
	})

	t.Run("policy batch failure reports partial commit", func(t *testing.T) {
		clients := &fakeClientRepo{}
		policies := &fakePolicyRepo{
			owners: map[uuid.UUID]client.Client{},
			fail:   assert.AnError,
		}
		svc := newImportService(clients, policies)

		data := renewalWorkbook(t,
			[]interface{}{"João Silva", "123.456.789-00", "", "joao@example.com",
				"Porto Seguro", "Auto", "15/03/2027", "100,00", "", ""},
		)

		_, err := svc.Import(ctx, data)
		require.Error(t, err)
		var impErr *importer.Error
		require.ErrorAs(t, err, &impErr)
		assert.Equal(t, importer.ErrWriteFailed, impErr.Kind)
		assert.Contains(t, impErr.Message, "already be committed")
		// The client batch went through before the failure.
		assert.Len(t, clients.clients, 1)
	})
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2027, time.March, 10, 9, 0, 0, 0, time.UTC)

	birthday := time.Date(1980, time.March, 12, 0, 0, 0, 0, time.UTC)
	joao := client.Hydrate(uuid.New(), "João Silva", "", "joao@example.com", "", &birthday, now, now)

	due := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	premium := func(v string) *decimal.Decimal {
		p, err := decimal.NewFromString(v)
		require.NoError(t, err)
		return &p
	}

	policies := &fakePolicyRepo{policies: []policy.WithClient{
		{Policy: policy.New(joao.ID(), due(2027, 3, 15)).WithPremium(premium("1000")), Client: joao},
		{Policy: policy.New(joao.ID(), due(2027, 3, 20)).WithPremium(premium("500")), Client: joao},
		{Policy: policy.New(joao.ID(), due(2027, 2, 1)).WithPremium(premium("300")), Client: joao},
		{Policy: policy.New(joao.ID(), due(2027, 6, 1)).WithStatus(policy.StatusLost), Client: joao},
	}}
	clients := &fakeClientRepo{clients: []client.Client{joao}}

	svc := NewDashboardService(clients, policies, 10000)

	t.Run("stats", func(t *testing.T) {
		stats, err := svc.Stats(ctx, now, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalClients)
		assert.Equal(t, int64(4), stats.TotalPolicies)
		assert.Equal(t, int64(3), stats.ActivePolicies)
		assert.Equal(t, int64(1), stats.LostPolicies)
		assert.Equal(t, int64(2), stats.DueSoon)
		assert.Equal(t, int64(1), stats.Overdue)

		require.Len(t, stats.MonthlyPremiums, 2)
		assert.Equal(t, "2027-02", stats.MonthlyPremiums[0].Month)
		assert.Equal(t, "300", stats.MonthlyPremiums[0].Premium.String())
		assert.Equal(t, "2027-03", stats.MonthlyPremiums[1].Month)
		assert.Equal(t, "1500", stats.MonthlyPremiums[1].Premium.String())
	})

	t.Run("upcoming birthdays", func(t *testing.T) {
		upcoming, err := svc.UpcomingBirthdays(ctx, now, 7)
		require.NoError(t, err)
		require.Len(t, upcoming, 1)
		assert.Equal(t, joao.ID(), upcoming[0].Client.ID())
		assert.Equal(t, due(2027, 3, 12), upcoming[0].Next)
	})

	t.Run("birthday outside the window is excluded", func(t *testing.T) {
		upcoming, err := svc.UpcomingBirthdays(ctx, now, 1)
		require.NoError(t, err)
		assert.Empty(t, upcoming)
	})
}

func TestFormatBRL(t *testing.T) {
	v := decimal.RequireFromString("1234.56")
	formatted := FormatBRL(&v)
	assert.Contains(t, formatted, "1.234,56")
	assert.Equal(t, "", FormatBRL(nil))
}

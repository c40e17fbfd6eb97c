package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/pkg/excel"
)

func TestExportService(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	birthday := time.Date(1980, 3, 12, 0, 0, 0, 0, time.UTC)
	joao := client.Hydrate(uuid.New(), "João Silva", "11998765432", "joao@example.com", "123.456.789-00", &birthday, now, now)

	premium := decimal.RequireFromString("1234.56")
	due := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)

	clients := &fakeClientRepo{clients: []client.Client{joao}}
	policies := &fakePolicyRepo{policies: []policy.WithClient{
		{
			Policy: policy.New(joao.ID(), due).
				WithInsurer("Porto Seguro").
				WithPremium(&premium),
			Client: joao,
		},
		{
			// Orphaned reference renders a placeholder name.
			Policy: policy.New(uuid.New(), due).WithInsurer("Bradesco"),
			Client: client.Client{},
		},
	}}

	svc := NewExportService(clients, policies, 10000)

	t.Run("clients workbook", func(t *testing.T) {
		data, err := svc.ExportClients(ctx)
		require.NoError(t, err)

		sheets, err := excel.LoadWorkbook(data)
		require.NoError(t, err)
		require.Len(t, sheets, 1)
		assert.Equal(t, "Clientes", sheets[0].Name)
		require.Len(t, sheets[0].Rows, 2)
		assert.Equal(t, "Nome", sheets[0].Rows[0][0])
		assert.Equal(t, "João Silva", sheets[0].Rows[1][0])
		assert.Equal(t, "12/03/1980", sheets[0].Rows[1][4])
	})

	t.Run("policies workbook", func(t *testing.T) {
		data, err := svc.ExportPolicies(ctx)
		require.NoError(t, err)

		sheets, err := excel.LoadWorkbook(data)
		require.NoError(t, err)
		require.Len(t, sheets, 1)
		require.Len(t, sheets[0].Rows, 3)

		joaoRow := sheets[0].Rows[1]
		assert.Equal(t, "João Silva", joaoRow[0])
		assert.Equal(t, "Porto Seguro", joaoRow[2])
		assert.Equal(t, "15/03/2027", joaoRow[4])
		assert.Contains(t, joaoRow[5], "1.234,56")

		orphanRow := sheets[0].Rows[2]
		assert.Equal(t, "(cliente removido)", orphanRow[0])
	})
}

package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/modules/crm/infrastructure/persistence/models"
)

func strPtr(s string) *string { return &s }

func TestToDomainClient(t *testing.T) {
	id := uuid.New()
	birthday := time.Date(1980, 3, 12, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	c := toDomainClient(models.Client{
		ID:        id.String(),
		Name:      "João Silva",
		Phone:     strPtr("11998765432"),
		Email:     strPtr("joao@example.com"),
		CpfCnpj:   nil,
		Birthday:  &birthday,
		CreatedAt: now,
		UpdatedAt: now,
	})

	assert.Equal(t, id, c.ID())
	assert.Equal(t, "João Silva", c.Name())
	assert.Equal(t, "11998765432", c.Phone())
	assert.Equal(t, "joao@example.com", c.Email())
	assert.Empty(t, c.CpfCnpj())
	require.NotNil(t, c.Birthday())
	assert.Equal(t, birthday, *c.Birthday())
}

func TestToDomainPolicy(t *testing.T) {
	id := uuid.New()
	clientID := uuid.New()
	due := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	p := toDomainPolicy(models.Policy{
		ID:        id.String(),
		ClientID:  clientID.String(),
		Insurer:   strPtr("Porto Seguro"),
		DueDate:   due,
		Premium:   strPtr("1234.56"),
		IOF:       nil,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	})

	assert.Equal(t, id, p.ID())
	assert.Equal(t, clientID, p.ClientID())
	assert.Equal(t, "Porto Seguro", p.Insurer())
	assert.Equal(t, due, p.DueDate())
	assert.Equal(t, policy.StatusActive, p.Status())
	require.NotNil(t, p.Premium())
	assert.Equal(t, "1234.56", p.Premium().String())
	assert.Nil(t, p.IOF())
}

func TestDecimalRoundTrip(t *testing.T) {
	// decimalArg writes the value out, toDecimal reads it back.
	v := decimal.RequireFromString("0.1")
	sum := decimal.Zero
	for i := 0; i < 10; i++ {
		sum = sum.Add(v)
	}
	got := toDecimal(decimalArg(&sum))
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromInt(1)), "got %s", got)

	assert.Nil(t, toDecimal(nil))
	assert.Nil(t, toDecimal(strPtr("")))
	assert.Nil(t, decimalArg(nil))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	require.NotNil(t, nullable("x"))
	assert.Equal(t, "x", *nullable("x"))
}

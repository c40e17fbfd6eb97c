package persistence

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/modules/crm/infrastructure/persistence/models"
)

func toDomainClient(row models.Client) client.Client {
	id, _ := uuid.Parse(row.ID)
	return client.Hydrate(
		id,
		row.Name,
		deref(row.Phone),
		deref(row.Email),
		deref(row.CpfCnpj),
		row.Birthday,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainPolicy(row models.Policy) policy.Policy {
	id, _ := uuid.Parse(row.ID)
	clientID, _ := uuid.Parse(row.ClientID)
	return policy.Hydrate(
		id,
		clientID,
		deref(row.PolicyNumber),
		deref(row.Insurer),
		deref(row.Product),
		row.DueDate,
		toDecimal(row.Premium),
		toDecimal(row.IOF),
		toDecimal(row.NetPremium),
		toDecimal(row.Commission),
		deref(row.CpfCnpj),
		deref(row.Plate),
		policy.Status(row.Status),
		deref(row.Notes),
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDecimal(s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

package mappers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/modules/crm/presentation/viewmodels"
	"github.com/renovaplan/renova/modules/crm/services"
)

// OrphanClientName is shown when a policy's client reference cannot be
// resolved.
const OrphanClientName = "(cliente removido)"

func ClientToViewModel(c client.Client) viewmodels.Client {
	vm := viewmodels.Client{
		ID:        c.ID().String(),
		Name:      c.Name(),
		Phone:     c.Phone(),
		Email:     c.Email(),
		CpfCnpj:   c.CpfCnpj(),
		CreatedAt: c.CreatedAt().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt().Format(time.RFC3339),
	}
	if c.Birthday() != nil {
		vm.Birthday = c.Birthday().Format("2006-01-02")
	}
	return vm
}

func ClientsToViewModels(items []client.Client) []viewmodels.Client {
	out := make([]viewmodels.Client, 0, len(items))
	for _, c := range items {
		out = append(out, ClientToViewModel(c))
	}
	return out
}

func PolicyToViewModel(p policy.Policy) viewmodels.Policy {
	return viewmodels.Policy{
		ID:                p.ID().String(),
		ClientID:          p.ClientID().String(),
		PolicyNumber:      p.PolicyNumber(),
		Insurer:           p.Insurer(),
		Product:           p.Product(),
		DueDate:           p.DueDate().Format("2006-01-02"),
		Premium:           decimalString(p.Premium()),
		PremiumDisplay:    services.FormatBRL(p.Premium()),
		IOF:               decimalString(p.IOF()),
		NetPremium:        decimalString(p.NetPremium()),
		Commission:        decimalString(p.Commission()),
		CommissionDisplay: services.FormatBRL(p.Commission()),
		CpfCnpj:           p.CpfCnpj(),
		Plate:             p.Plate(),
		Status:            string(p.Status()),
		Notes:             p.Notes(),
		CreatedAt:         p.CreatedAt().Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt().Format(time.RFC3339),
	}
}

// PolicyWithClientToViewModel resolves the owning client's display name,
// falling back to a placeholder for orphaned references.
func PolicyWithClientToViewModel(p policy.WithClient) viewmodels.Policy {
	vm := PolicyToViewModel(p.Policy)
	if p.Client.IsZero() {
		vm.ClientName = OrphanClientName
	} else {
		vm.ClientName = p.Client.Name()
	}
	return vm
}

func PoliciesToViewModels(items []policy.WithClient) []viewmodels.Policy {
	out := make([]viewmodels.Policy, 0, len(items))
	for _, p := range items {
		out = append(out, PolicyWithClientToViewModel(p))
	}
	return out
}

func UpcomingBirthdayToViewModel(b services.UpcomingBirthday) viewmodels.UpcomingBirthday {
	return viewmodels.UpcomingBirthday{
		Client: ClientToViewModel(b.Client),
		Next:   b.Next.Format("2006-01-02"),
	}
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

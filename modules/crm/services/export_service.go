package services

import (
	"context"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/pkg/excel"
)

type ExportService struct {
	clients       client.Repository
	policies      policy.Repository
	snapshotLimit int
}

func NewExportService(clients client.Repository, policies policy.Repository, snapshotLimit int) *ExportService {
	return &ExportService{
		clients:       clients,
		policies:      policies,
		snapshotLimit: snapshotLimit,
	}
}

var clientExportHeaders = []string{"Nome", "Telefone", "Email", "CPF/CNPJ", "Aniversário"}

// ExportClients renders every client into an .xlsx workbook.
func (s *ExportService) ExportClients(ctx context.Context) ([]byte, error) {
	clients, err := s.clients.GetAll(ctx, s.snapshotLimit)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(clients))
	for _, c := range clients {
		birthday := ""
		if c.Birthday() != nil {
			birthday = c.Birthday().Format("02/01/2006")
		}
		rows = append(rows, []interface{}{
			c.Name(), c.Phone(), c.Email(), c.CpfCnpj(), birthday,
		})
	}

	return excel.NewExporter("Clientes").Export(clientExportHeaders, rows)
}

var policyExportHeaders = []string{
	"Segurado", "Apólice", "Seguradora", "Produto", "Vencimento",
	"Prêmio", "IOF", "Prêmio Líquido", "Comissão", "CPF/CNPJ",
	"Placa", "Status", "Observações",
}

// ExportPolicies renders every policy with its owning client into an .xlsx
// workbook. Money columns are formatted as BRL.
func (s *ExportService) ExportPolicies(ctx context.Context) ([]byte, error) {
	policies, err := s.policies.GetAllWithClient(ctx, s.snapshotLimit)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(policies))
	for _, p := range policies {
		name := p.Client.Name()
		if p.Client.IsZero() {
			name = "(cliente removido)"
		}
		rows = append(rows, []interface{}{
			name,
			p.PolicyNumber(),
			p.Insurer(),
			p.Product(),
			p.DueDate().Format("02/01/2006"),
			FormatBRL(p.Premium()),
			FormatBRL(p.IOF()),
			FormatBRL(p.NetPremium()),
			FormatBRL(p.Commission()),
			p.CpfCnpj(),
			p.Plate(),
			string(p.Status()),
			p.Notes(),
		})
	}

	return excel.NewExporter("Apólices").Export(policyExportHeaders, rows)
}

// FormatBRL renders a decimal amount as Brazilian currency, "R$ 1.234,56".
// Nil amounts render empty.
func FormatBRL(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.BRL).Display()
}

package importer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/pkg/excel"
)

var testNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

var renewalHeader = []string{
	"Segurado", "CPF/CNPJ", "Celular", "Email", "Seguradora",
	"Produto", "Vencimento", "Prêmio", "Placa", "Comissão",
}

func renewalSheet(rows ...[]string) excel.Sheet {
	all := [][]string{
		{"Relatório de Renovações"},
		{},
		renewalHeader,
	}
	all = append(all, rows...)
	return excel.Sheet{Name: "Renovações", Rows: all}
}

func TestLocateHeader(t *testing.T) {
	t.Run("skips title and blank rows", func(t *testing.T) {
		loc, err := LocateHeader([]excel.Sheet{renewalSheet()})
		require.NoError(t, err)
		assert.Equal(t, 0, loc.SheetIndex)
		assert.Equal(t, 2, loc.RowIndex)
	})

	t.Run("ties keep the first sheet", func(t *testing.T) {
		a := renewalSheet()
		b := renewalSheet()
		b.Name = "Cópia"
		loc, err := LocateHeader([]excel.Sheet{a, b})
		require.NoError(t, err)
		assert.Equal(t, 0, loc.SheetIndex)
	})

	t.Run("accepts a narrow header when keywords carry it", func(t *testing.T) {
		sheet := excel.Sheet{Name: "Plan1", Rows: [][]string{
			{"Nome", "Vencimento Apólice", "Seguradora", "Telefone Celular", "Email"},
			{"João Silva", "15/03/2026", "Porto Seguro", "(11) 98765-4321", "joao@gmail.com"},
		}}
		loc, err := LocateHeader([]excel.Sheet{sheet})
		require.NoError(t, err)
		assert.Equal(t, 0, loc.RowIndex)
	})

	t.Run("ignores summary rows even when wide", func(t *testing.T) {
		sheet := excel.Sheet{Name: "Resumo", Rows: [][]string{
			{"Resumo Geral", "Vencimento", "Celular", "Email", "Seguradora", "Produto", "CPF", "Placa"},
		}}
		_, err := LocateHeader([]excel.Sheet{sheet})
		require.Error(t, err)
		var impErr *Error
		require.ErrorAs(t, err, &impErr)
		assert.Equal(t, ErrHeaderNotFound, impErr.Kind)
	})

	t.Run("ignores all-numeric rows", func(t *testing.T) {
		sheet := excel.Sheet{Name: "Dados", Rows: [][]string{
			{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
		}}
		_, err := LocateHeader([]excel.Sheet{sheet})
		require.Error(t, err)
	})

	t.Run("reports every sheet when not found", func(t *testing.T) {
		_, err := LocateHeader([]excel.Sheet{
			{Name: "Plan1", Rows: [][]string{{"a", "b"}}},
			{Name: "Plan2"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Plan1")
		assert.Contains(t, err.Error(), "Plan2")
	})
}

func TestMapColumns(t *testing.T) {
	t.Run("prefers celular over comercial", func(t *testing.T) {
		headers := []string{
			"Segurado", "CPF", "Telefone Comercial", "Celular", "Email",
			"Seguradora", "Produto", "Vencimento",
		}
		m, err := MapColumns(headers, nil)
		require.NoError(t, err)
		col, ok := m.Column(FieldPhone)
		require.True(t, ok)
		assert.Equal(t, 3, col)
	})

	t.Run("falls back to email for the client name", func(t *testing.T) {
		headers := []string{
			"CPF", "Telefone", "Email", "Seguradora",
			"Produto", "Vencimento", "Prêmio", "Placa",
		}
		m, err := MapColumns(headers, nil)
		require.NoError(t, err)
		assert.True(t, m.NameFromEmail)
		nameCol, _ := m.Column(FieldClientName)
		emailCol, _ := m.Column(FieldEmail)
		assert.Equal(t, emailCol, nameCol)
	})

	t.Run("liquido does not claim the premium column", func(t *testing.T) {
		headers := []string{
			"Segurado", "CPF", "Celular", "Email", "Seguradora",
			"Produto", "Vencimento", "Prêmio Líquido", "Prêmio Total",
		}
		m, err := MapColumns(headers, nil)
		require.NoError(t, err)
		netCol, ok := m.Column(FieldNetPremium)
		require.True(t, ok)
		assert.Equal(t, 7, netCol)
		premiumCol, ok := m.Column(FieldPremium)
		require.True(t, ok)
		assert.Equal(t, 8, premiumCol)
	})

	t.Run("fails when name and due date are both missing", func(t *testing.T) {
		headers := []string{
			"Coluna A", "Coluna B", "Coluna C", "Coluna D",
			"Coluna E", "Coluna F", "Coluna G", "Coluna H",
		}
		_, err := MapColumns(headers, nil)
		require.Error(t, err)
		var impErr *Error
		require.ErrorAs(t, err, &impErr)
		assert.Equal(t, ErrColumnsUnmapped, impErr.Kind)
	})
}

func TestParseDate(t *testing.T) {
	t.Run("spreadsheet serial", func(t *testing.T) {
		got, ok := ParseDate("43831", testNow)
		require.True(t, ok)
		assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("brazilian layout", func(t *testing.T) {
		got, ok := ParseDate("15/03/2024", testNow)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("iso layout", func(t *testing.T) {
		got, ok := ParseDate("2024-03-15", testNow)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("two digit year beyond the pivot is last century", func(t *testing.T) {
		got, ok := ParseDate("15/03/79", testNow)
		require.True(t, ok)
		assert.Equal(t, 1979, got.Year())
	})

	t.Run("two digit year within the pivot is this century", func(t *testing.T) {
		got, ok := ParseDate("15/03/26", testNow)
		require.True(t, ok)
		assert.Equal(t, 2026, got.Year())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, ok := ParseDate("não informado", testNow)
		assert.False(t, ok)
		_, ok = ParseDate("", testNow)
		assert.False(t, ok)
	})

	t.Run("rejects out-of-range serials", func(t *testing.T) {
		_, ok := ParseDate("99999999", testNow)
		assert.False(t, ok)
	})
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"987,10", "987.1"},
		{"42", "42"},
	}
	for _, tc := range cases {
		got := ParseNumeric(tc.in)
		require.NotNil(t, got, "input %q", tc.in)
		assert.Equal(t, tc.want, got.String(), "input %q", tc.in)
	}

	for _, in := range []string{"", "abc", "0", "-10", "1000000000000000", "R$"} {
		assert.Nil(t, ParseNumeric(in), "input %q", in)
	}
}

func TestNormalizeRow(t *testing.T) {
	m, err := MapColumns(renewalHeader, nil)
	require.NoError(t, err)

	t.Run("full row", func(t *testing.T) {
		row, ok := NormalizeRow([]string{
			"  João Silva ", "123.456.789-00", "(11) 99876-5432", "JOAO@Example.com",
			"Porto Seguro", "Auto", "15/03/2026", "R$ 1.234,56", "abc1d23", "150,00",
		}, m, testNow)
		require.True(t, ok)
		assert.Equal(t, "João Silva", row.ClientName)
		assert.Equal(t, "joao@example.com", row.Email)
		assert.Equal(t, "ABC1D23", row.Plate)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), row.DueDate)
		require.NotNil(t, row.Premium)
		assert.Equal(t, "1234.56", row.Premium.String())
		assert.Equal(t, "12345678900_2026-03-15", row.UniqueKey)
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		_, ok := NormalizeRow([]string{
			"", "", "", "", "Porto Seguro", "Auto", "15/03/2026", "100", "", "",
		}, m, testNow)
		assert.False(t, ok)
	})

	t.Run("unparseable due date is rejected", func(t *testing.T) {
		_, ok := NormalizeRow([]string{
			"João Silva", "", "", "", "", "Auto", "em breve", "100", "", "",
		}, m, testNow)
		assert.False(t, ok)
	})

	t.Run("key falls back from document to plate to name", func(t *testing.T) {
		row, ok := NormalizeRow([]string{
			"João Silva", "", "", "", "", "Auto", "15/03/2026", "", "ABC1D23", "",
		}, m, testNow)
		require.True(t, ok)
		assert.Equal(t, "ABC1D23_2026-03-15", row.UniqueKey)

		row, ok = NormalizeRow([]string{
			"João Silva", "", "", "", "", "Auto", "15/03/2026", "", "", "",
		}, m, testNow)
		require.True(t, ok)
		assert.Equal(t, "joaosilva_2026-03-15", row.UniqueKey)
	})
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "Joao Silva", nameFromEmail("joao.silva@example.com"))
	assert.Equal(t, "Maria Souza", nameFromEmail("maria_souza@example.com"))
	assert.Equal(t, "", nameFromEmail("not-an-email"))
}

func storedPolicy(t *testing.T, name, email string, due time.Time, mutate func(policy.Policy) policy.Policy) policy.WithClient {
	t.Helper()
	c := client.Hydrate(uuid.New(), name, "", email, "", nil, testNow, testNow)
	p := policy.New(c.ID(), due)
	if mutate != nil {
		p = mutate(p)
	}
	return policy.WithClient{Policy: p, Client: c}
}

func TestDedup(t *testing.T) {
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("policy number digits collide with incoming cpf", func(t *testing.T) {
		keys := BuildExistingKeys([]policy.WithClient{
			storedPolicy(t, "Outro Nome", "", due, func(p policy.Policy) policy.Policy {
				return p.WithPolicyNumber("123.456.789-00")
			}),
		}, true)

		kept, skipped := FilterNew([]ProcessedRow{{
			ClientName: "João Silva",
			CpfCnpj:    "12345678900",
			DueDate:    due,
			UniqueKey:  "12345678900_2026-03-15",
		}}, keys, true)
		assert.Empty(t, kept)
		assert.Equal(t, 1, skipped)
	})

	t.Run("plate buried in notes still matches", func(t *testing.T) {
		keys := BuildExistingKeys([]policy.WithClient{
			storedPolicy(t, "Outro Nome", "", due, func(p policy.Policy) policy.Policy {
				return p.WithNotes("veículo abc1d23, renovar com desconto")
			}),
		}, true)

		_, skipped := FilterNew([]ProcessedRow{{
			ClientName: "João Silva",
			Plate:      "ABC1D23",
			DueDate:    due,
			UniqueKey:  "ABC1D23_2026-03-15",
		}}, keys, true)
		assert.Equal(t, 1, skipped)
	})

	t.Run("name and date match is configurable", func(t *testing.T) {
		stored := []policy.WithClient{storedPolicy(t, "João Silva", "", due, nil)}
		row := ProcessedRow{ClientName: "JOÃO SILVA", DueDate: due, UniqueKey: "joaosilva_2026-03-15"}

		_, skipped := FilterNew([]ProcessedRow{row}, BuildExistingKeys(stored, true), true)
		assert.Equal(t, 1, skipped)

		kept, skipped := FilterNew([]ProcessedRow{row}, BuildExistingKeys(stored, false), false)
		assert.Len(t, kept, 1)
		assert.Zero(t, skipped)
	})

	t.Run("duplicates within the same file are dropped", func(t *testing.T) {
		row := ProcessedRow{
			ClientName: "João Silva",
			CpfCnpj:    "12345678900",
			DueDate:    due,
			UniqueKey:  "12345678900_2026-03-15",
		}
		kept, skipped := FilterNew([]ProcessedRow{row, row}, make(KeySet), true)
		assert.Len(t, kept, 1)
		assert.Equal(t, 1, skipped)
	})

	t.Run("unique key alone drops a repeat with different contact data", func(t *testing.T) {
		first := ProcessedRow{
			ClientName: "João Silva",
			CpfCnpj:    "123.456.789-00",
			Email:      "joao@a.com",
			DueDate:    due,
			UniqueKey:  "12345678900_2026-03-15",
		}
		second := ProcessedRow{
			ClientName: "J. Silva",
			CpfCnpj:    "12345678900",
			Email:      "jsilva@b.com",
			DueDate:    due,
			UniqueKey:  "12345678900_2026-03-15",
		}
		kept, skipped := FilterNew([]ProcessedRow{first, second}, make(KeySet), false)
		assert.Len(t, kept, 1)
		assert.Equal(t, 1, skipped)
	})

	t.Run("name keyed rows pass when name dedup is off", func(t *testing.T) {
		row := ProcessedRow{ClientName: "João Silva", DueDate: due, UniqueKey: "joaosilva_2026-03-15"}
		kept, skipped := FilterNew([]ProcessedRow{row, row}, make(KeySet), false)
		assert.Len(t, kept, 2)
		assert.Zero(t, skipped)
	})

	t.Run("same client on a different date is kept", func(t *testing.T) {
		keys := BuildExistingKeys([]policy.WithClient{
			storedPolicy(t, "João Silva", "joao@example.com", due, nil),
		}, true)

		later := due.AddDate(1, 0, 0)
		kept, skipped := FilterNew([]ProcessedRow{{
			ClientName: "João Silva",
			Email:      "joao@example.com",
			DueDate:    later,
			UniqueKey:  "joaosilva_2027-03-15",
		}}, keys, true)
		assert.Len(t, kept, 1)
		assert.Zero(t, skipped)
	})
}

func TestProcess(t *testing.T) {
	sheet := renewalSheet(
		[]string{"João Silva", "123.456.789-00", "(11) 99876-5432", "joao@example.com",
			"Porto Seguro", "Auto", "15/03/2026", "R$ 1.234,56", "ABC1D23", "150,00"},
		[]string{"", "", "", "", "", "", "", "", "", ""},
		[]string{"Maria Souza", "", "", "maria@example.com",
			"Bradesco", "Residencial", "43831", "2.500,00", "", "300,00"},
	)

	res, err := Process([]excel.Sheet{sheet}, testNow)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	joao := res.Rows[0]
	assert.Equal(t, "João Silva", joao.ClientName)
	assert.Equal(t, "12345678900_2026-03-15", joao.UniqueKey)

	maria := res.Rows[1]
	assert.Equal(t, "Maria Souza", maria.ClientName)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), maria.DueDate)
	assert.Equal(t, "mariasouza_2020-01-01", maria.UniqueKey)
}

func TestProcessNarrowSheet(t *testing.T) {
	sheet := excel.Sheet{Name: "Plan1", Rows: [][]string{
		{"Nome", "Vencimento Apólice", "Seguradora", "Telefone Celular", "Email"},
		{"João Silva", "15/03/2026", "Porto Seguro", "(11) 98765-4321", "joao@gmail.com"},
	}}

	res, err := Process([]excel.Sheet{sheet}, testNow)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, "João Silva", row.ClientName)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), row.DueDate)
	assert.Equal(t, "Porto Seguro", row.Insurer)
	assert.Equal(t, "(11) 98765-4321", row.Phone)
	assert.Equal(t, "joao@gmail.com", row.Email)
	assert.Equal(t, "joaosilva_2026-03-15", row.UniqueKey)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "joaosilva", Normalize("  João SILVA "))
	assert.Equal(t, "premioliquido", Normalize("Prêmio Líquido"))
	assert.Equal(t, "12345678900", DigitsOnly("123.456.789-00"))
}

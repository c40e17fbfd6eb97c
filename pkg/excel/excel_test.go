package excel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportLoadRoundTrip(t *testing.T) {
	exporter := NewExporter("Clientes")
	data, err := exporter.Export(
		[]string{"Nome", "Email"},
		[][]interface{}{
			{"João Silva", "joao@x.com"},
			{"Maria Souza", "maria@x.com"},
		},
	)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	sheets, err := LoadWorkbook(data)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Equal(t, "Clientes", sheets[0].Name)
	require.Equal(t, 3, sheets[0].RowCount())
	require.Equal(t, []string{"Nome", "Email"}, sheets[0].Rows[0])
	require.Equal(t, "João Silva", sheets[0].Rows[1][0])
}

func TestLoadWorkbook_RejectsGarbage(t *testing.T) {
	_, err := LoadWorkbook([]byte("definitely not a spreadsheet"))
	require.Error(t, err)
}

func TestSheetMaxColumns(t *testing.T) {
	s := Sheet{Rows: [][]string{{"a"}, {"a", "b", "c"}, {"a", "b"}}}
	require.Equal(t, 3, s.MaxColumns())
	require.Equal(t, 3, s.RowCount())
}

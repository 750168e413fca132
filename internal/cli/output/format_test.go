package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mappingRow struct {
	PrincipalID string `json:"principal_id" yaml:"principal_id"`
	ConnectID   string `json:"connect_id" yaml:"connect_id"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  yaml  ", want: FormatYAML},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinterTable(t *testing.T) {
	table := NewTable("Principal", "Connect ID")
	table.AddRow("p1", "ann@idp.example.com")
	table.AddRow("p2", "bob@idp.example.com")

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(table))

	out := buf.String()
	assert.Contains(t, out, "PRINCIPAL")
	assert.Contains(t, out, "CONNECT ID")
	assert.Contains(t, out, "ann@idp.example.com")
	assert.Contains(t, out, "bob@idp.example.com")
}

func TestPrinterTableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(mappingRow{PrincipalID: "p1"}))
	assert.Contains(t, buf.String(), `"principal_id": "p1"`)
}

func TestPrinterJSONAndYAML(t *testing.T) {
	row := mappingRow{PrincipalID: "p1", ConnectID: "ann@idp.example.com"}

	var jsonBuf bytes.Buffer
	require.NoError(t, NewPrinter(&jsonBuf, FormatJSON, false).Print(row))
	assert.Contains(t, jsonBuf.String(), `"connect_id": "ann@idp.example.com"`)

	var yamlBuf bytes.Buffer
	require.NoError(t, NewPrinter(&yamlBuf, FormatYAML, false).Print(row))
	assert.Contains(t, yamlBuf.String(), "connect_id: ann@idp.example.com")
}

func TestPrinterStatusLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable, false)
	p.Success("Account activated")
	p.Warning("Appearance partially copied")
	assert.Equal(t, "Account activated\nAppearance partially copied\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, FormatJSON, false).Success("Account activated")
	assert.Empty(t, buf.String())

	buf.Reset()
	NewPrinter(&buf, FormatTable, true).Success("ok")
	assert.Equal(t, "\033[32mok\033[0m\n", buf.String())
}

func TestPrintFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintFields(&buf, [][2]string{
		{"Principal", "p1"},
		{"Institution", "Example University"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Principal")
	assert.Contains(t, out, "Example University")
}

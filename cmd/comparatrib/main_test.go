package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// run executes the CLI with an isolated session file and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("COMPARATRIB_STORE_DRIVER", "file")
	t.Setenv("COMPARATRIB_STORE_PATH", filepath.Join(dir, "session.yaml"))
	t.Setenv("COMPARATRIB_LOG_LEVEL", "error")
	return dir
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "comparatrib", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	expected := []string{"compare", "whatif", "calculate", "validate", "activities", "tables",
		"breakeven", "sweep", "export", "serve", "session", "version"}
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, names[name], "command %s not registered", name)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, err := run(t, "invalid-command")
	assert.Error(t, err)

	_, err = run(t, "--invalid-flag")
	assert.Error(t, err)
}

func TestCompare_SavesSession(t *testing.T) {
	isolate(t)

	out, err := run(t, "compare", "--rbt12", "1200000", "--activity", "serviço")
	require.NoError(t, err)
	assert.Contains(t, out, "Melhor opção: Lucro Presumido")
	assert.Contains(t, out, "R$ 78.540,00")

	out, err = run(t, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessão salva em")
	assert.Contains(t, out, "Melhor opção: Lucro Presumido")

	out, err = run(t, "session", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessão removida")

	out, err = run(t, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma sessão salva")
}

func TestCompare_NoSave(t *testing.T) {
	isolate(t)

	_, err := run(t, "compare", "--rbt12", "300000", "--activity", "comercio", "--no-save")
	require.NoError(t, err)

	out, err := run(t, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma sessão salva")
}

func TestCompare_JSONFromFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "scenario.yaml")
	doc := "company:\n  name: Loja Teste\ninput:\n  rbt12: 500000\n  activity: comercio\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := run(t, "compare", "--input", path, "--format", "json", "--no-save")
	require.NoError(t, err)

	// the company line precedes the JSON document
	_, body, found := strings.Cut(out, "\n")
	require.True(t, found)
	var result domain.ComparisonResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, domain.RegimePresumido, result.BestOption)
	assert.Equal(t, 12, result.Period.Months)

	// flags override the file
	out, err = run(t, "compare", "--input", path, "--rbt12", "100000", "--no-save")
	require.NoError(t, err)
	assert.Contains(t, out, "Melhor opção: Simples Nacional")
}

func TestCompare_Errors(t *testing.T) {
	isolate(t)

	_, err := run(t, "compare", "--activity", "comercio")
	assert.True(t, domain.IsIncompleteInput(err))

	_, err = run(t, "compare", "--rbt12", "abc", "--activity", "comercio")
	assert.ErrorContains(t, err, "--rbt12")

	_, err = run(t, "compare", "--rbt12", "5000000", "--activity", "comercio")
	assert.True(t, domain.IsOutOfRange(err))

	out, err := run(t, "compare", "--rbt12", "5000000", "--activity", "comercio", "--exclude-ineligible", "--no-save")
	require.NoError(t, err)
	assert.NotContains(t, out, "Melhor opção: Simples Nacional")

	_, err = run(t, "compare", "--rbt12", "1000", "--activity", "comercio", "--format", "xml", "--no-save")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestCalculate(t *testing.T) {
	isolate(t)

	out, err := run(t, "calculate", "simples", "--rbt12", "1200000", "--activity", "servico")
	require.NoError(t, err)
	assert.Contains(t, out, "SIMPLES NACIONAL")
	assert.Contains(t, out, "R$ 228.900,00")

	out, err = run(t, "calculate", "real", "--rbt12", "1200000", "--activity", "servico", "--format", "json")
	require.NoError(t, err)
	var result domain.RegimeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, domain.RegimeReal, result.Regime)

	out, err = run(t, "calculate", "real", "--rbt12", "1200000", "--activity", "servico",
		"--period", "mensal", "--period-revenue", "100000", "--period-expenses", "150000")
	require.NoError(t, err)
	assert.Contains(t, out, "R$ 9.250,00")
	assert.Contains(t, out, "Sem lucro tributável no período")

	_, err = run(t, "calculate", "mei", "--rbt12", "1000", "--activity", "servico")
	assert.ErrorContains(t, err, "unknown regime")
}

func TestValidate(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "validate", filepath.Join("..", "..", "examples", "servicos_sem_folha.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "válido")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("input:\n  activity: comercio\n"), 0o644))
	_, err = run(t, "validate", bad)
	assert.ErrorContains(t, err, "scenario validation failed")
}

func TestReferenceCommands(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "activities")
	require.NoError(t, err)
	assert.Contains(t, out, "servicos_profissionais")

	out, err = run(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "R$ 4.800.000,00")
	assert.Contains(t, out, "Anexo V")

	path := filepath.Join(dir, "tables.yaml")
	out, err = run(t, "tables", "--write", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = run(t, "compare", "--tables", path, "--rbt12", "1200000", "--activity", "servico", "--no-save")
	require.NoError(t, err)
	assert.Contains(t, out, "Melhor opção: Lucro Presumido")
}

func TestBreakevenAndSweep(t *testing.T) {
	isolate(t)

	out, err := run(t, "breakeven", "--rbt12", "500000", "--activity", "comercio")
	require.NoError(t, err)
	assert.Contains(t, out, "Abaixo desse faturamento, Simples Nacional é mais barato.")

	out, err = run(t, "breakeven", "--rbt12", "1200000", "--activity", "servico", "--between", "simples,real")
	require.NoError(t, err)
	assert.Contains(t, out, "Sem cruzamento")
	assert.Contains(t, out, "R$ 336.000,00")

	_, err = run(t, "breakeven", "--rbt12", "500000", "--activity", "comercio", "--between", "simples")
	assert.ErrorContains(t, err, "two regimes")

	out, err = run(t, "sweep", "--rbt12", "500000", "--activity", "comercio", "--from", "100000", "--to", "700000", "--steps", "4")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Lucro Presumido\n"))
	assert.Equal(t, 2, strings.Count(out, "Simples Nacional\n"))
}

func TestWhatIf(t *testing.T) {
	isolate(t)

	out, err := run(t, "whatif", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "crescimento_20")
	assert.Contains(t, out, "fator_r")

	out, err = run(t, "whatif", "--rbt12", "1200000", "--activity", "servico",
		"--with", "fator_r", "--transform", "scale_revenue:factor=0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "SIMULAÇÕES")
	assert.Contains(t, out, "R$ 228.900,00")
	assert.Contains(t, out, "R$ 156.360,00")
	assert.Contains(t, out, "personalizado")
	assert.Contains(t, out, "Multiplicar o faturamento por 0.5")

	_, err = run(t, "whatif", "--rbt12", "1200000", "--activity", "servico")
	assert.ErrorContains(t, err, "no adjustments")

	_, err = run(t, "whatif", "--rbt12", "1200000", "--activity", "servico", "--with", "mei")
	assert.ErrorContains(t, err, "unknown template")

	_, err = run(t, "whatif", "--rbt12", "1200000", "--activity", "servico", "--transform", "set_iss:rate=0.09")
	assert.ErrorContains(t, err, "set_iss")
}

func TestExport(t *testing.T) {
	dir := isolate(t)

	for _, format := range []string{"xlsx", "pdf"} {
		path := filepath.Join(dir, "report."+format)
		out, err := run(t, "export", "--rbt12", "1200000", "--activity", "servico", "--format", format, "--output", path)
		require.NoError(t, err, format)
		assert.Contains(t, out, path)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	_, err := run(t, "export", "--rbt12", "1200000", "--activity", "servico", "--format", "docx")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "comparatrib dev")
}

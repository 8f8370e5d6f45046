package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func sampleTable() BracketTable {
	return BracketTable{
		Annex: AnnexI,
		Name:  "Comércio",
		Rows: []BracketRow{
			{MinRevenue: d("0"), MaxRevenue: dp("180000"), NominalRate: d("0.04"), Deduction: d("0")},
			{MinRevenue: d("180000"), MaxRevenue: dp("360000"), NominalRate: d("0.073"), Deduction: d("5940")},
			{MinRevenue: d("360000"), NominalRate: d("0.095"), Deduction: d("13860")},
		},
	}
}

func TestBracketTable_Resolve(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		revenue string
		index   int
	}{
		{"0", 0},
		{"179999.99", 0},
		{"180000", 1},
		{"359999.99", 1},
		{"360000", 2},
		{"99000000", 2},
	}

	for _, tt := range tests {
		t.Run(tt.revenue, func(t *testing.T) {
			idx, row, err := table.Resolve(d(tt.revenue))
			require.NoError(t, err)
			assert.Equal(t, tt.index, idx)
			assert.True(t, table.Rows[tt.index].NominalRate.Equal(row.NominalRate))
		})
	}

	_, _, err := table.Resolve(d("-0.01"))
	assert.True(t, IsOutOfRange(err), "negative revenue is out of range")
}

func TestBracketRow_EffectiveRate(t *testing.T) {
	row := BracketRow{MinRevenue: d("180000"), MaxRevenue: dp("360000"), NominalRate: d("0.073"), Deduction: d("5940")}

	assert.True(t, d("0.04").Equal(row.EffectiveRate(d("180000"))))
	assert.True(t, d("0.0565").Equal(row.EffectiveRate(d("360000"))))
	assert.True(t, row.EffectiveRate(decimal.Zero).IsZero())
	assert.True(t, row.EffectiveRate(d("1000")).IsZero(), "rate is clamped at zero")
}

func TestBracketTable_Validate(t *testing.T) {
	assert.NoError(t, sampleTable().Validate())

	tests := []struct {
		name   string
		mutate func(*BracketTable)
		errMsg string
	}{
		{"empty", func(bt *BracketTable) { bt.Rows = nil }, "no rows"},
		{"nonzero start", func(bt *BracketTable) { bt.Rows[0].MinRevenue = d("1") }, "start at 0"},
		{"gap", func(bt *BracketTable) { bt.Rows[1].MinRevenue = d("180001") }, "gap or overlap"},
		{"closed top", func(bt *BracketTable) { bt.Rows[2].MaxRevenue = dp("4800000") }, "open-ended"},
		{"open middle", func(bt *BracketTable) { bt.Rows[1].MaxRevenue = nil }, "only the last row"},
		{"rate above one", func(bt *BracketTable) { bt.Rows[0].NominalRate = d("1.5") }, "between 0 and 1"},
		{"negative deduction", func(bt *BracketTable) { bt.Rows[1].Deduction = d("-1") }, "deduction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := sampleTable()
			tt.mutate(&table)
			err := table.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSimplesTables_Validate(t *testing.T) {
	tables := SimplesTables{
		Ceiling:          d("4800000"),
		FactorRThreshold: d("0.28"),
		Annexes: map[Annex]BracketTable{
			AnnexI:   sampleTable(),
			AnnexII:  sampleTable(),
			AnnexIII: sampleTable(),
			AnnexV:   sampleTable(),
		},
	}
	assert.NoError(t, tables.Validate())

	delete(tables.Annexes, AnnexV)
	err := tables.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annex V is required")

	tables.Annexes[AnnexV] = sampleTable()
	tables.FactorRThreshold = d("1.2")
	assert.Error(t, tables.Validate())
}

func TestSimplesTables_SortedAnnexes(t *testing.T) {
	tables := SimplesTables{Annexes: map[Annex]BracketTable{
		AnnexV:   {},
		AnnexI:   {},
		AnnexIII: {},
	}}

	sorted := tables.SortedAnnexes()
	require.Len(t, sorted, 3)
	assert.Equal(t, AnnexI, sorted[0].Annex)
	assert.Equal(t, AnnexIII, sorted[1].Annex)
	assert.Equal(t, AnnexV, sorted[2].Annex)
}

func sampleRegistry(t *testing.T) *ActivityRegistry {
	t.Helper()
	reg, err := NewActivityRegistry(
		[]Category{{Code: "comercio", Name: "Comércio"}, {Code: "servicos", Name: "Serviços"}},
		[]ActivityProfile{
			{Code: "comercio_geral", Name: "Comércio", IRPJPresumptionRate: d("0.08"), CSLLPresumptionRate: d("0.12"), Category: "comercio"},
			{Code: "servicos_gerais", Name: "Serviços", IRPJPresumptionRate: d("0.32"), CSLLPresumptionRate: d("0.32"), Category: "servicos"},
			{Code: "hospitalar", Name: "Hospitalar", IRPJPresumptionRate: d("0.08"), CSLLPresumptionRate: d("0.12"), Category: "servicos"},
		},
		map[Activity]string{
			ActivityComercio:  "comercio_geral",
			ActivityIndustria: "comercio_geral",
			ActivityServico:   "servicos_gerais",
		},
	)
	require.NoError(t, err)
	return reg
}

func TestActivityRegistry(t *testing.T) {
	reg := sampleRegistry(t)

	p, ok := reg.Lookup("hospitalar")
	require.True(t, ok)
	assert.Equal(t, "Hospitalar", p.Name)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)

	def, err := reg.Default(ActivityServico)
	require.NoError(t, err)
	assert.Equal(t, "servicos_gerais", def.Code)

	resolved, err := reg.Resolve(ActivityServico, "hospitalar")
	require.NoError(t, err)
	assert.Equal(t, "hospitalar", resolved.Code)

	_, err = reg.Resolve(ActivityServico, "nope")
	assert.True(t, IsUnknownActivity(err))

	groups := reg.ByCategory()
	require.Len(t, groups, 2)
	assert.Equal(t, "servicos", groups[1].Category.Code)
	assert.Len(t, groups[1].Activities, 2)
}

func TestActivityRegistry_BuildErrors(t *testing.T) {
	cats := []Category{{Code: "c", Name: "C"}}
	good := ActivityProfile{Code: "a", IRPJPresumptionRate: d("0.08"), CSLLPresumptionRate: d("0.12"), Category: "c"}
	defaults := map[Activity]string{ActivityComercio: "a", ActivityIndustria: "a", ActivityServico: "a"}

	_, err := NewActivityRegistry(cats, []ActivityProfile{good, good}, defaults)
	assert.ErrorContains(t, err, "duplicate")

	bad := good
	bad.IRPJPresumptionRate = decimal.Zero
	_, err = NewActivityRegistry(cats, []ActivityProfile{bad}, defaults)
	assert.ErrorContains(t, err, "IRPJ presumption rate")

	orphan := good
	orphan.Category = "x"
	_, err = NewActivityRegistry(cats, []ActivityProfile{orphan}, defaults)
	assert.ErrorContains(t, err, "unknown category")

	_, err = NewActivityRegistry(cats, []ActivityProfile{good}, map[Activity]string{ActivityComercio: "a"})
	assert.ErrorContains(t, err, "no default profile")
}

package calculation

import (
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// SIMPLES NACIONAL TABLES:
//
// Annex I to V as set by LC 123/2006 with the LC 155/2016 rewrite (in force
// since 2018). Six tiers per annex; the deduction column keeps the effective
// rate continuous across tiers 1 to 5. The sixth tier has no upper bound here,
// the statutory ceiling is enforced separately.

// SimplesCeiling is the RBT12 limit for Simples Nacional eligibility
var SimplesCeiling = decimal.NewFromInt(4800000)

// FactorRThreshold is the payroll/RBT12 ratio that moves services to Anexo III
var FactorRThreshold = decimal.NewFromFloat(0.28)

// tier bounds shared by every annex
var tierBounds = []int64{0, 180000, 360000, 720000, 1800000, 3600000}

func buildAnnex(annex domain.Annex, name string, rates []string, deductions []int64) domain.BracketTable {
	rows := make([]domain.BracketRow, len(tierBounds))
	for i := range tierBounds {
		row := domain.BracketRow{
			MinRevenue:  decimal.NewFromInt(tierBounds[i]),
			NominalRate: decimal.RequireFromString(rates[i]),
			Deduction:   decimal.NewFromInt(deductions[i]),
		}
		if i+1 < len(tierBounds) {
			upper := decimal.NewFromInt(tierBounds[i+1])
			row.MaxRevenue = &upper
		}
		rows[i] = row
	}
	return domain.BracketTable{Annex: annex, Name: name, Rows: rows}
}

// DefaultSimplesTables returns the statutory annex tables
func DefaultSimplesTables() domain.SimplesTables {
	return domain.SimplesTables{
		Ceiling:          SimplesCeiling,
		FactorRThreshold: FactorRThreshold,
		Annexes: map[domain.Annex]domain.BracketTable{
			domain.AnnexI: buildAnnex(domain.AnnexI, "Comércio",
				[]string{"0.04", "0.073", "0.095", "0.107", "0.143", "0.19"},
				[]int64{0, 5940, 13860, 22500, 87300, 378000}),
			domain.AnnexII: buildAnnex(domain.AnnexII, "Indústria",
				[]string{"0.045", "0.078", "0.10", "0.112", "0.147", "0.30"},
				[]int64{0, 5940, 13860, 22500, 85500, 720000}),
			domain.AnnexIII: buildAnnex(domain.AnnexIII, "Serviços (Fator R >= 28%)",
				[]string{"0.06", "0.112", "0.135", "0.16", "0.21", "0.33"},
				[]int64{0, 9360, 17640, 35640, 125640, 648000}),
			domain.AnnexIV: buildAnnex(domain.AnnexIV, "Serviços (construção, vigilância, limpeza)",
				[]string{"0.045", "0.09", "0.102", "0.14", "0.22", "0.33"},
				[]int64{0, 8100, 12420, 39780, 183780, 828000}),
			domain.AnnexV: buildAnnex(domain.AnnexV, "Serviços (Fator R < 28%)",
				[]string{"0.155", "0.18", "0.195", "0.205", "0.23", "0.305"},
				[]int64{0, 4500, 9900, 17100, 62100, 540000}),
		},
	}
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultActivityRegistry returns the Lucro Presumido presumption profiles
// (Lei 9.249/1995 art. 15 and 20)
func DefaultActivityRegistry() *domain.ActivityRegistry {
	categories := []domain.Category{
		{Code: "comercio", Name: "Comércio"},
		{Code: "industria", Name: "Indústria"},
		{Code: "servicos", Name: "Serviços"},
		{Code: "transporte", Name: "Transporte"},
	}
	profiles := []domain.ActivityProfile{
		{Code: "comercio_geral", Name: "Comércio em geral", Description: "Revenda de mercadorias",
			IRPJPresumptionRate: pct("0.08"), CSLLPresumptionRate: pct("0.12"), Category: "comercio"},
		{Code: "revenda_combustiveis", Name: "Revenda de combustíveis", Description: "Revenda de combustíveis derivados de petróleo e álcool",
			IRPJPresumptionRate: pct("0.016"), CSLLPresumptionRate: pct("0.12"), Category: "comercio"},
		{Code: "industria_geral", Name: "Indústria em geral", Description: "Fabricação e venda de produtos próprios",
			IRPJPresumptionRate: pct("0.08"), CSLLPresumptionRate: pct("0.12"), Category: "industria"},
		{Code: "construcao_com_materiais", Name: "Construção com materiais", Description: "Empreitada com fornecimento de todos os materiais",
			IRPJPresumptionRate: pct("0.08"), CSLLPresumptionRate: pct("0.12"), Category: "industria"},
		{Code: "servicos_gerais", Name: "Serviços em geral", Description: "Prestação de serviços em geral",
			IRPJPresumptionRate: pct("0.32"), CSLLPresumptionRate: pct("0.32"), Category: "servicos"},
		{Code: "servicos_profissionais", Name: "Serviços profissionais", Description: "Profissão legalmente regulamentada",
			IRPJPresumptionRate: pct("0.32"), CSLLPresumptionRate: pct("0.32"), Category: "servicos"},
		{Code: "intermediacao_negocios", Name: "Intermediação de negócios", Description: "Representação comercial e corretagem",
			IRPJPresumptionRate: pct("0.32"), CSLLPresumptionRate: pct("0.32"), Category: "servicos"},
		{Code: "servicos_hospitalares", Name: "Serviços hospitalares", Description: "Serviços hospitalares e de auxílio diagnóstico",
			IRPJPresumptionRate: pct("0.08"), CSLLPresumptionRate: pct("0.12"), Category: "servicos"},
		{Code: "transporte_cargas", Name: "Transporte de cargas", Description: "Transporte de cargas",
			IRPJPresumptionRate: pct("0.08"), CSLLPresumptionRate: pct("0.12"), Category: "transporte"},
		{Code: "transporte_passageiros", Name: "Transporte de passageiros", Description: "Transporte de passageiros",
			IRPJPresumptionRate: pct("0.16"), CSLLPresumptionRate: pct("0.12"), Category: "transporte"},
	}
	defaults := map[domain.Activity]string{
		domain.ActivityComercio:  "comercio_geral",
		domain.ActivityIndustria: "industria_geral",
		domain.ActivityServico:   "servicos_gerais",
	}
	reg, err := domain.NewActivityRegistry(categories, profiles, defaults)
	if err != nil {
		// compiled-in data
		panic(err)
	}
	return reg
}

package domain

import (
	"github.com/shopspring/decimal"
)

// Tax line names used in breakdowns
const (
	TaxDAS           = "DAS"
	TaxIRPJ          = "IRPJ"
	TaxIRPJAdicional = "IRPJ adicional"
	TaxCSLL          = "CSLL"
	TaxPIS           = "PIS"
	TaxCOFINS        = "COFINS"
	TaxISS           = "ISS"
)

// TaxLine is one component of a regime's total
type TaxLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SimplesDetail records how the Simples Nacional rate was resolved
type SimplesDetail struct {
	Annex         Annex           `json:"annex"`
	Bracket       int             `json:"bracket"`
	NominalRate   decimal.Decimal `json:"nominalRate"`
	Deduction     decimal.Decimal `json:"deduction"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	FactorR       decimal.Decimal `json:"factorR"`
}

// PresumidoDetail records the presumed profit bases
type PresumidoDetail struct {
	ProfileCode        string          `json:"profileCode"`
	ProfileName        string          `json:"profileName"`
	PresumedProfitIRPJ decimal.Decimal `json:"presumedProfitIRPJ"`
	PresumedProfitCSLL decimal.Decimal `json:"presumedProfitCSLL"`
	SurchargeThreshold decimal.Decimal `json:"surchargeThreshold"`
}

// RealDetail records the taxable profit and PIS/COFINS credits
type RealDetail struct {
	TaxableProfit      decimal.Decimal `json:"taxableProfit"`
	SurchargeThreshold decimal.Decimal `json:"surchargeThreshold"`
	PISCredit          decimal.Decimal `json:"pisCredit"`
	COFINSCredit       decimal.Decimal `json:"cofinsCredit"`
}

// RegimeResult is the output of one regime calculator
type RegimeResult struct {
	Regime        Regime           `json:"regime"`
	Period        Period           `json:"period"`
	Revenue       decimal.Decimal  `json:"revenue"`
	TotalTax      decimal.Decimal  `json:"totalTax"`
	EffectiveRate decimal.Decimal  `json:"effectiveRate"` // percent of Revenue
	Breakdown     []TaxLine        `json:"breakdown"`
	Notes         []string         `json:"notes,omitempty"`
	Simples       *SimplesDetail   `json:"simples,omitempty"`
	Presumido     *PresumidoDetail `json:"presumido,omitempty"`
	Real          *RealDetail      `json:"real,omitempty"`
}

// Amount returns the breakdown amount for name, zero when absent
func (r RegimeResult) Amount(name string) decimal.Decimal {
	for _, l := range r.Breakdown {
		if l.Name == name {
			return l.Amount
		}
	}
	return decimal.Zero
}

// NewRegimeResult rounds every line to cents and derives TotalTax and
// EffectiveRate from them, so the total always equals the sum of the lines.
func NewRegimeResult(regime Regime, period Period, revenue decimal.Decimal, lines []TaxLine) RegimeResult {
	revenue = revenue.Round(2)
	total := decimal.Zero
	rounded := make([]TaxLine, 0, len(lines))
	for _, l := range lines {
		amt := l.Amount.Round(2)
		rounded = append(rounded, TaxLine{Name: l.Name, Amount: amt})
		total = total.Add(amt)
	}
	rate := decimal.Zero
	if revenue.IsPositive() {
		rate = total.Div(revenue).Mul(decimal.NewFromInt(100)).Round(4)
	}
	return RegimeResult{
		Regime:        regime,
		Period:        period,
		Revenue:       revenue,
		TotalTax:      total,
		EffectiveRate: rate,
		Breakdown:     rounded,
	}
}

// Savings compares the best regime with the next-best one
type Savings struct {
	ComparedWith Regime          `json:"comparedWith"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// ExcludedRegime records a regime left out of the ranking and why
type ExcludedRegime struct {
	Regime Regime `json:"regime"`
	Reason string `json:"reason"`
}

// ComparisonResult is the ranked outcome of evaluating every regime on one input
type ComparisonResult struct {
	Input      CalculationInput        `json:"input"`
	Period     Period                  `json:"period"`
	Regimes    map[Regime]RegimeResult `json:"regimes"`
	Ranking    []Regime                `json:"ranking"`
	BestOption Regime                  `json:"bestOption"`
	Savings    *Savings                `json:"savings,omitempty"`
	Excluded   []ExcludedRegime        `json:"excluded,omitempty"`
}

// Best returns the result of the best option
func (c *ComparisonResult) Best() RegimeResult {
	return c.Regimes[c.BestOption]
}

// Ranked returns the regime results in ranking order
func (c *ComparisonResult) Ranked() []RegimeResult {
	out := make([]RegimeResult, 0, len(c.Ranking))
	for _, r := range c.Ranking {
		out = append(out, c.Regimes[r])
	}
	return out
}

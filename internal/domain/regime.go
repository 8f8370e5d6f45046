package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Regime identifies one of the three federal taxation regimes
type Regime string

const (
	RegimeSimples   Regime = "simples"
	RegimePresumido Regime = "presumido"
	RegimeReal      Regime = "real"
)

// AllRegimes lists the regimes in tie-break priority order
var AllRegimes = []Regime{RegimeSimples, RegimePresumido, RegimeReal}

// Priority returns the tie-break rank of the regime (lower wins)
func (r Regime) Priority() int {
	switch r {
	case RegimeSimples:
		return 0
	case RegimePresumido:
		return 1
	case RegimeReal:
		return 2
	default:
		return len(AllRegimes)
	}
}

// Label returns the display name of the regime
func (r Regime) Label() string {
	switch r {
	case RegimeSimples:
		return "Simples Nacional"
	case RegimePresumido:
		return "Lucro Presumido"
	case RegimeReal:
		return "Lucro Real"
	default:
		return string(r)
	}
}

// ParseRegime converts user input into a Regime
func ParseRegime(s string) (Regime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simples", "simples_nacional", "simples-nacional":
		return RegimeSimples, nil
	case "presumido", "lucro_presumido", "lucro-presumido":
		return RegimePresumido, nil
	case "real", "lucro_real", "lucro-real":
		return RegimeReal, nil
	default:
		return "", fmt.Errorf("unknown regime %q (valid: simples, presumido, real)", s)
	}
}

// Activity is the generic three-way classification used to pick a Simples annex
type Activity string

const (
	ActivityComercio  Activity = "comercio"
	ActivityIndustria Activity = "industria"
	ActivityServico   Activity = "servico"
)

// Activities lists the valid activity values
var Activities = []Activity{ActivityComercio, ActivityIndustria, ActivityServico}

// IsValid reports whether a is one of the known activities
func (a Activity) IsValid() bool {
	switch a {
	case ActivityComercio, ActivityIndustria, ActivityServico:
		return true
	}
	return false
}

// ParseActivity converts user input into an Activity. Accents and common
// plural forms are accepted.
func ParseActivity(s string) (Activity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comercio", "comércio":
		return ActivityComercio, nil
	case "industria", "indústria":
		return ActivityIndustria, nil
	case "servico", "serviço", "servicos", "serviços":
		return ActivityServico, nil
	case "":
		return "", &IncompleteInputError{Field: "activity", Reason: "is required"}
	default:
		return "", &IncompleteInputError{Field: "activity", Reason: fmt.Sprintf("unknown activity %q (valid: comercio, industria, servico)", s)}
	}
}

// Period is the number of months a calculation covers. Every regime in a
// comparison is evaluated over the same Period.
type Period struct {
	Months int `yaml:"months" json:"months"`
}

var (
	Monthly   = Period{Months: 1}
	Quarterly = Period{Months: 3}
	Annual    = Period{Months: 12}
)

// Validate checks the period length
func (p Period) Validate() error {
	if p.Months < 1 || p.Months > 12 {
		return &InvalidRangeError{
			Field: "period.months",
			Value: decimal.NewFromInt(int64(p.Months)),
			Min:   decimal.NewFromInt(1),
			Max:   decimal.NewFromInt(12),
		}
	}
	return nil
}

// Scale converts a trailing-12-month amount into the amount for this period
func (p Period) Scale(annual decimal.Decimal) decimal.Decimal {
	if p.Months == 12 {
		return annual
	}
	return annual.Mul(decimal.NewFromInt(int64(p.Months))).Div(decimal.NewFromInt(12))
}

// String returns a short label such as "mensal" or "3 meses"
func (p Period) String() string {
	switch p.Months {
	case 1:
		return "mensal"
	case 3:
		return "trimestral"
	case 12:
		return "anual"
	default:
		return fmt.Sprintf("%d meses", p.Months)
	}
}

// ParsePeriod accepts "mensal", "trimestral", "anual" (and English forms) or a month count
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "anual", "annual", "year", "12":
		return Annual, nil
	case "mensal", "monthly", "month", "1":
		return Monthly, nil
	case "trimestral", "quarterly", "quarter", "3":
		return Quarterly, nil
	}
	months, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}
	p := Period{Months: months}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// UnmarshalYAML accepts a period name, a month count or a {months: n} mapping
func (p *Period) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParsePeriod(value.Value)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	var raw struct {
		Months int `yaml:"months"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return p.set(raw.Months)
}

// set assigns an explicit month count, rejecting values outside 1..12
func (p *Period) set(months int) error {
	parsed := Period{Months: months}
	if err := parsed.Validate(); err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalJSON accepts the same forms as UnmarshalYAML
func (p *Period) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParsePeriod(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return p.set(n)
	}
	var raw struct {
		Months int `json:"months"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid period: %w", err)
	}
	return p.set(raw.Months)
}

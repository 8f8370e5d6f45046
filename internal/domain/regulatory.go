package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Annex identifies a Simples Nacional annex (I to V)
type Annex string

const (
	AnnexI   Annex = "I"
	AnnexII  Annex = "II"
	AnnexIII Annex = "III"
	AnnexIV  Annex = "IV"
	AnnexV   Annex = "V"
)

// BracketRow is one tier of a Simples Nacional annex. MaxRevenue is nil on the
// open-ended top tier.
type BracketRow struct {
	MinRevenue  decimal.Decimal  `yaml:"min_revenue" json:"minRevenue"`
	MaxRevenue  *decimal.Decimal `yaml:"max_revenue,omitempty" json:"maxRevenue,omitempty"`
	NominalRate decimal.Decimal  `yaml:"nominal_rate" json:"nominalRate"`
	Deduction   decimal.Decimal  `yaml:"deduction" json:"deduction"`
}

// Contains reports whether revenue falls within [MinRevenue, MaxRevenue)
func (b BracketRow) Contains(revenue decimal.Decimal) bool {
	if revenue.LessThan(b.MinRevenue) {
		return false
	}
	return b.MaxRevenue == nil || revenue.LessThan(*b.MaxRevenue)
}

// EffectiveRate applies the deduction smoothing: (rbt12*nominal - deduction) / rbt12
func (b BracketRow) EffectiveRate(rbt12 decimal.Decimal) decimal.Decimal {
	if rbt12.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	rate := rbt12.Mul(b.NominalRate).Sub(b.Deduction).Div(rbt12)
	if rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}

// BracketTable is the ordered list of tiers for one annex
type BracketTable struct {
	Annex Annex        `yaml:"annex" json:"annex"`
	Name  string       `yaml:"name" json:"name"`
	Rows  []BracketRow `yaml:"rows" json:"rows"`
}

// Resolve returns the index and row whose range contains revenue
func (t BracketTable) Resolve(revenue decimal.Decimal) (int, BracketRow, error) {
	if revenue.IsNegative() {
		return 0, BracketRow{}, &OutOfRangeError{Field: "rbt12", Value: revenue, Min: decimal.Zero}
	}
	for i, row := range t.Rows {
		if row.Contains(revenue) {
			return i, row, nil
		}
	}
	return 0, BracketRow{}, fmt.Errorf("annex %s: no bracket contains revenue %s", t.Annex, revenue.String())
}

// Validate checks that rows start at zero, are contiguous, ascending and end open
func (t BracketTable) Validate() error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("annex %s: table has no rows", t.Annex)
	}
	if !t.Rows[0].MinRevenue.IsZero() {
		return fmt.Errorf("annex %s: first row must start at 0, got %s", t.Annex, t.Rows[0].MinRevenue.String())
	}
	for i, row := range t.Rows {
		if row.NominalRate.LessThan(decimal.Zero) || row.NominalRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("annex %s row %d: nominal rate %s must be between 0 and 1", t.Annex, i+1, row.NominalRate.String())
		}
		if row.Deduction.IsNegative() {
			return fmt.Errorf("annex %s row %d: deduction cannot be negative", t.Annex, i+1)
		}
		last := i == len(t.Rows)-1
		if last {
			if row.MaxRevenue != nil {
				return fmt.Errorf("annex %s: last row must be open-ended", t.Annex)
			}
			continue
		}
		if row.MaxRevenue == nil {
			return fmt.Errorf("annex %s row %d: only the last row may be open-ended", t.Annex, i+1)
		}
		if !row.MaxRevenue.GreaterThan(row.MinRevenue) {
			return fmt.Errorf("annex %s row %d: max revenue must exceed min revenue", t.Annex, i+1)
		}
		if !t.Rows[i+1].MinRevenue.Equal(*row.MaxRevenue) {
			return fmt.Errorf("annex %s row %d: gap or overlap before next row", t.Annex, i+1)
		}
	}
	return nil
}

// SimplesTables holds every annex plus the statutory ceiling and Fator R threshold
type SimplesTables struct {
	Ceiling          decimal.Decimal        `yaml:"ceiling" json:"ceiling"`
	FactorRThreshold decimal.Decimal        `yaml:"factor_r_threshold" json:"factorRThreshold"`
	Annexes          map[Annex]BracketTable `yaml:"annexes" json:"annexes"`
}

// Table returns the table for annex a
func (s SimplesTables) Table(a Annex) (BracketTable, error) {
	t, ok := s.Annexes[a]
	if !ok {
		return BracketTable{}, fmt.Errorf("annex %s not configured", a)
	}
	return t, nil
}

// Validate checks every annex plus the ceiling and threshold
func (s SimplesTables) Validate() error {
	if s.Ceiling.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("simples ceiling must be positive")
	}
	if s.FactorRThreshold.LessThanOrEqual(decimal.Zero) || s.FactorRThreshold.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("fator R threshold must be in (0, 1]")
	}
	for _, required := range []Annex{AnnexI, AnnexII, AnnexIII, AnnexV} {
		if _, ok := s.Annexes[required]; !ok {
			return fmt.Errorf("annex %s is required", required)
		}
	}
	for a, t := range s.Annexes {
		if t.Annex == "" {
			t.Annex = a
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SortedAnnexes returns the configured annexes in statutory order
func (s SimplesTables) SortedAnnexes() []BracketTable {
	order := map[Annex]int{AnnexI: 1, AnnexII: 2, AnnexIII: 3, AnnexIV: 4, AnnexV: 5}
	out := make([]BracketTable, 0, len(s.Annexes))
	for a, t := range s.Annexes {
		if t.Annex == "" {
			t.Annex = a
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i].Annex] < order[out[j].Annex] })
	return out
}

// ActivityProfile carries the Lucro Presumido presumption percentages for an activity
type ActivityProfile struct {
	Code                string          `yaml:"code" json:"code"`
	Name                string          `yaml:"name" json:"name"`
	Description         string          `yaml:"description" json:"description"`
	IRPJPresumptionRate decimal.Decimal `yaml:"irpj_presumption_rate" json:"irpjPresumptionRate"`
	CSLLPresumptionRate decimal.Decimal `yaml:"csll_presumption_rate" json:"csllPresumptionRate"`
	Category            string          `yaml:"category" json:"category"`
}

// Validate checks both presumption rates lie in (0, 1]
func (p ActivityProfile) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("activity profile code is required")
	}
	one := decimal.NewFromInt(1)
	if p.IRPJPresumptionRate.LessThanOrEqual(decimal.Zero) || p.IRPJPresumptionRate.GreaterThan(one) {
		return fmt.Errorf("activity %s: IRPJ presumption rate must be in (0, 1]", p.Code)
	}
	if p.CSLLPresumptionRate.LessThanOrEqual(decimal.Zero) || p.CSLLPresumptionRate.GreaterThan(one) {
		return fmt.Errorf("activity %s: CSLL presumption rate must be in (0, 1]", p.Code)
	}
	return nil
}

// Category groups activity profiles for selection lists
type Category struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// CategoryGroup is a category with its profiles, in registry order
type CategoryGroup struct {
	Category   Category          `json:"category"`
	Activities []ActivityProfile `json:"activities"`
}

// ActivityRegistry is the read-only set of presumption profiles
type ActivityRegistry struct {
	Categories []Category                 `yaml:"categories" json:"categories"`
	Profiles   []ActivityProfile          `yaml:"profiles" json:"profiles"`
	Defaults   map[Activity]string        `yaml:"defaults" json:"defaults"`
	index      map[string]ActivityProfile `yaml:"-" json:"-"`
}

// NewActivityRegistry builds and validates a registry
func NewActivityRegistry(categories []Category, profiles []ActivityProfile, defaults map[Activity]string) (*ActivityRegistry, error) {
	r := &ActivityRegistry{Categories: categories, Profiles: profiles, Defaults: defaults}
	if err := r.Build(); err != nil {
		return nil, err
	}
	return r, nil
}

// Build indexes the profiles and checks the registry for consistency
func (r *ActivityRegistry) Build() error {
	cats := make(map[string]bool, len(r.Categories))
	for _, c := range r.Categories {
		cats[c.Code] = true
	}
	r.index = make(map[string]ActivityProfile, len(r.Profiles))
	for _, p := range r.Profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := r.index[p.Code]; dup {
			return fmt.Errorf("duplicate activity code %q", p.Code)
		}
		if !cats[p.Category] {
			return fmt.Errorf("activity %s: unknown category %q", p.Code, p.Category)
		}
		r.index[p.Code] = p
	}
	for _, a := range Activities {
		code, ok := r.Defaults[a]
		if !ok {
			return fmt.Errorf("no default profile for activity %s", a)
		}
		if _, ok := r.index[code]; !ok {
			return fmt.Errorf("default profile %q for activity %s not found", code, a)
		}
	}
	return nil
}

// Lookup returns the profile for code
func (r *ActivityRegistry) Lookup(code string) (ActivityProfile, bool) {
	p, ok := r.index[code]
	return p, ok
}

// Default returns the fallback profile for a generic activity
func (r *ActivityRegistry) Default(a Activity) (ActivityProfile, error) {
	code, ok := r.Defaults[a]
	if !ok {
		return ActivityProfile{}, &IncompleteInputError{Field: "activity", Reason: "has no default profile"}
	}
	p, ok := r.index[code]
	if !ok {
		return ActivityProfile{}, &UnknownActivityError{Code: code}
	}
	return p, nil
}

// Resolve picks the detailed profile when code is set, else the activity default
func (r *ActivityRegistry) Resolve(a Activity, code string) (ActivityProfile, error) {
	if code == "" {
		return r.Default(a)
	}
	p, ok := r.Lookup(code)
	if !ok {
		return ActivityProfile{}, &UnknownActivityError{Code: code}
	}
	return p, nil
}

// ByCategory groups the profiles under their categories, keeping registry order
func (r *ActivityRegistry) ByCategory() []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(r.Categories))
	for _, c := range r.Categories {
		g := CategoryGroup{Category: c}
		for _, p := range r.Profiles {
			if p.Category == c.Code {
				g.Activities = append(g.Activities, p)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

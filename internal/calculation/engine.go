package calculation

import (
	"fmt"

	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// Engine bundles the three regime calculators over one set of tables.
// It holds read-only data and is safe for concurrent use.
type Engine struct {
	Tables    domain.SimplesTables
	Registry  *domain.ActivityRegistry
	Simples   *SimplesCalculator
	Presumido *PresumidoCalculator
	Real      *RealCalculator
	Logger    Logger
}

// NewEngine creates an engine with the statutory tables and default registry
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultSimplesTables(), DefaultActivityRegistry())
}

// NewEngineWithConfig creates an engine with custom tables and registry
func NewEngineWithConfig(tables domain.SimplesTables, registry *domain.ActivityRegistry) *Engine {
	e := &Engine{
		Tables:    tables,
		Registry:  registry,
		Simples:   NewSimplesCalculatorWithConfig(tables),
		Presumido: NewPresumidoCalculatorWithConfig(registry),
		Real:      NewRealCalculator(),
	}
	e.SetLogger(nil)
	return e
}

// SetLogger sets the logger on the engine and every calculator; nil disables logging
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Simples.Logger = l
	e.Presumido.Logger = l
	e.Real.Logger = l
}

// Calculate runs a single regime
func (e *Engine) Calculate(regime domain.Regime, input domain.CalculationInput) (domain.RegimeResult, error) {
	var (
		result domain.RegimeResult
		err    error
	)
	switch regime {
	case domain.RegimeSimples:
		result, err = e.Simples.Calculate(input)
	case domain.RegimePresumido:
		result, err = e.Presumido.Calculate(input)
	case domain.RegimeReal:
		result, err = e.Real.Calculate(input)
	default:
		return domain.RegimeResult{}, fmt.Errorf("unknown regime %q", regime)
	}
	if err != nil {
		e.Logger.Warnf("%s calculation failed: %v", regime, err)
		return domain.RegimeResult{}, fmt.Errorf("%s: %w", regime, err)
	}
	e.Logger.Infof("%s: total=%s rate=%s%%", regime, result.TotalTax.StringFixed(2), result.EffectiveRate.String())
	return result, nil
}

package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters, for CLI flags
// and HTTP query strings.
type TransformRegistry struct {
	factories map[string]TransformFactory
	factorR   decimal.Decimal
}

// TransformFactory creates a transform from parameters
type TransformFactory func(params map[string]string) (InputTransform, error)

// NewTransformRegistry creates a registry with all built-in transforms
// registered. factorR is the ratio target_factor_r aims for when no ratio is
// given; pass the engine's Tables.FactorRThreshold.
func NewTransformRegistry(factorR decimal.Decimal) *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
		factorR:   factorR,
	}

	registry.Register("scale_revenue", createScaleRevenue)
	registry.Register("set_revenue", createSetRevenue)
	registry.Register("set_payroll", createSetPayroll)
	registry.Register("target_factor_r", registry.createTargetFactorR)
	registry.Register("set_expenses", createSetExpenses)
	registry.Register("set_credit_base", createSetCreditBase)
	registry.Register("set_iss", createSetISS)
	registry.Register("set_activity", createSetActivity)
	registry.Register("set_period", createSetPeriod)

	return registry
}

// Register adds a transform factory to the registry
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters
func (r *TransformRegistry) Create(name string, params map[string]string) (InputTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the registered transform names, sorted
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses "name:param1=value1,param2=value2".
// Transforms without parameters may be written as "name:".
func (r *TransformRegistry) ParseTransformSpec(spec string) (InputTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseAll parses every spec in order
func (r *TransformRegistry) ParseAll(specs []string) ([]InputTransform, error) {
	out := make([]InputTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func requiredDecimal(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// optionalDecimal treats a missing key or "none" as nil
func optionalDecimal(params map[string]string, key string) (*decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok || strings.EqualFold(raw, "none") {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return &d, nil
}

func createScaleRevenue(params map[string]string) (InputTransform, error) {
	factor, err := requiredDecimal("scale_revenue", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleRevenue{Factor: factor}, nil
}

func createSetRevenue(params map[string]string) (InputTransform, error) {
	amount, err := requiredDecimal("set_revenue", params, "amount")
	if err != nil {
		return nil, err
	}
	keep := false
	if raw, ok := params["keep_ratios"]; ok {
		keep, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid keep_ratios value: %w", err)
		}
	}
	return &SetRevenue{RBT12: amount, KeepRatios: keep}, nil
}

func createSetPayroll(params map[string]string) (InputTransform, error) {
	amount, err := requiredDecimal("set_payroll", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetPayroll{Amount: amount}, nil
}

func (r *TransformRegistry) createTargetFactorR(params map[string]string) (InputTransform, error) {
	if _, ok := params["ratio"]; !ok {
		return &TargetFactorR{Ratio: r.factorR}, nil
	}
	ratio, err := requiredDecimal("target_factor_r", params, "ratio")
	if err != nil {
		return nil, err
	}
	return &TargetFactorR{Ratio: ratio}, nil
}

func createSetExpenses(params map[string]string) (InputTransform, error) {
	amount, err := requiredDecimal("set_expenses", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetExpenses{Amount: amount}, nil
}

func createSetCreditBase(params map[string]string) (InputTransform, error) {
	if _, ok := params["amount"]; !ok {
		return nil, fmt.Errorf("set_credit_base requires 'amount' parameter")
	}
	amount, err := optionalDecimal(params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetCreditBase{Amount: amount}, nil
}

func createSetISS(params map[string]string) (InputTransform, error) {
	if _, ok := params["rate"]; !ok {
		return nil, fmt.Errorf("set_iss requires 'rate' parameter")
	}
	rate, err := optionalDecimal(params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetISS{Rate: rate}, nil
}

func createSetActivity(params map[string]string) (InputTransform, error) {
	raw, ok := params["activity"]
	if !ok {
		return nil, fmt.Errorf("set_activity requires 'activity' parameter")
	}
	activity, err := domain.ParseActivity(raw)
	if err != nil {
		return nil, err
	}
	return &SetActivity{Activity: activity, Code: params["code"]}, nil
}

func createSetPeriod(params map[string]string) (InputTransform, error) {
	raw, ok := params["period"]
	if !ok {
		return nil, fmt.Errorf("set_period requires 'period' parameter")
	}
	period, err := domain.ParsePeriod(raw)
	if err != nil {
		return nil, err
	}
	return &SetPeriod{Period: period}, nil
}

package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages the built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template is a named sequence of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []InputTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns the registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateBuiltInTemplates returns the common what-if questions asked when
// choosing a regime. The Fator R templates target factorR.
func CreateBuiltInTemplates(factorR decimal.Decimal) *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "crescimento_10",
		Category:    "Faturamento",
		Description: "Faturamento 10% maior, mantendo as proporções de custos",
		Transforms:  []InputTransform{&ScaleRevenue{Factor: pct("1.10")}},
	})
	registry.Register(Template{
		Name:        "crescimento_20",
		Category:    "Faturamento",
		Description: "Faturamento 20% maior, mantendo as proporções de custos",
		Transforms:  []InputTransform{&ScaleRevenue{Factor: pct("1.20")}},
	})
	registry.Register(Template{
		Name:        "queda_20",
		Category:    "Faturamento",
		Description: "Faturamento 20% menor, mantendo as proporções de custos",
		Transforms:  []InputTransform{&ScaleRevenue{Factor: pct("0.80")}},
	})

	registry.Register(Template{
		Name:        "fator_r",
		Category:    "Folha",
		Description: "Folha ajustada para atingir o Fator R do Anexo III",
		Transforms:  []InputTransform{&TargetFactorR{Ratio: factorR}},
	})
	registry.Register(Template{
		Name:        "sem_folha",
		Category:    "Folha",
		Description: "Sem folha de pagamento",
		Transforms:  []InputTransform{&SetPayroll{Amount: decimal.Zero}},
	})

	registry.Register(Template{
		Name:        "mensal",
		Category:    "Período",
		Description: "Apuração de um mês",
		Transforms:  []InputTransform{&SetPeriod{Period: domain.Monthly}},
	})
	registry.Register(Template{
		Name:        "trimestral",
		Category:    "Período",
		Description: "Apuração trimestral",
		Transforms:  []InputTransform{&SetPeriod{Period: domain.Quarterly}},
	})

	registry.Register(Template{
		Name:        "iss_minimo",
		Category:    "ISS",
		Description: "ISS na alíquota mínima de 2%",
		Transforms:  []InputTransform{&SetISS{Rate: &domain.MinISSRate}},
	})
	registry.Register(Template{
		Name:        "iss_maximo",
		Category:    "ISS",
		Description: "ISS na alíquota máxima de 5%",
		Transforms:  []InputTransform{&SetISS{Rate: &domain.MaxISSRate}},
	})

	registry.Register(Template{
		Name:        "crescimento_20_fator_r",
		Category:    "Combinações",
		Description: "Faturamento 20% maior com folha no Fator R",
		Transforms: []InputTransform{
			&ScaleRevenue{Factor: pct("1.20")},
			&TargetFactorR{Ratio: factorR},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base input
func ApplyTemplate(base domain.CalculationInput, template Template) (domain.CalculationInput, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates, grouped by category
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "Nenhum modelo registrado"
	}

	categories := make(map[string][]Template)
	var order []string
	for _, name := range registry.List() {
		t := registry.templates[name]
		if _, seen := categories[t.Category]; !seen {
			order = append(order, t.Category)
		}
		categories[t.Category] = append(categories[t.Category], t)
	}
	sort.Strings(order)

	var sb strings.Builder
	sb.WriteString("Modelos disponíveis:\n\n")
	for _, category := range order {
		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range categories[category] {
			sb.WriteString(fmt.Sprintf("  %-26s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Uso:\n")
	sb.WriteString("  comparatrib whatif -i cenario.yaml --with crescimento_20,fator_r\n")
	sb.WriteString("  comparatrib whatif -i cenario.yaml --transform scale_revenue:factor=1.5\n")
	return sb.String()
}

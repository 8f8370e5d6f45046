package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"gopkg.in/yaml.v3"
)

// CompanyInfo identifies the company a scenario belongs to
type CompanyInfo struct {
	Name  string `yaml:"name" json:"name"`
	CNPJ  string `yaml:"cnpj,omitempty" json:"cnpj,omitempty"`
	Notes string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// ScenarioFile is the on-disk form of a comparison scenario
type ScenarioFile struct {
	Company CompanyInfo             `yaml:"company" json:"company"`
	Input   domain.CalculationInput `yaml:"input" json:"input"`
}

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a scenario document
func (ip *InputParser) Parse(data []byte) (*ScenarioFile, error) {
	var scenario ScenarioFile
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateCompany(&scenario.Company); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	if err := ip.ValidateInput(&scenario.Input); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	return &scenario, nil
}

// ValidateCompany checks the optional CNPJ and stores it formatted
func (ip *InputParser) ValidateCompany(company *CompanyInfo) error {
	if company.CNPJ == "" {
		return nil
	}
	digits := SanitizeCNPJ(company.CNPJ)
	if !ValidateCNPJ(digits) {
		return fmt.Errorf("company.cnpj: invalid CNPJ %q", company.CNPJ)
	}
	company.CNPJ = FormatCNPJ(digits)
	return nil
}

// ValidateInput normalizes the activity spelling and validates the input
func (ip *InputParser) ValidateInput(input *domain.CalculationInput) error {
	if input.Activity != "" {
		activity, err := domain.ParseActivity(string(input.Activity))
		if err != nil {
			return err
		}
		input.Activity = activity
	}
	return input.Validate()
}

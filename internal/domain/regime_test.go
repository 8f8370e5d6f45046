package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRegime(t *testing.T) {
	for input, expected := range map[string]Regime{
		"simples":         RegimeSimples,
		" Lucro_Presumido": RegimePresumido,
		"REAL":            RegimeReal,
		"lucro-real":      RegimeReal,
	} {
		got, err := ParseRegime(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got)
	}

	_, err := ParseRegime("mei")
	assert.Error(t, err)
}

func TestRegime_PriorityOrder(t *testing.T) {
	for i, r := range AllRegimes {
		assert.Equal(t, i, r.Priority())
	}
	assert.Equal(t, "Lucro Presumido", RegimePresumido.Label())
}

func TestParseActivity(t *testing.T) {
	for input, expected := range map[string]Activity{
		"comercio":  ActivityComercio,
		"Comércio":  ActivityComercio,
		"indústria": ActivityIndustria,
		"serviços":  ActivityServico,
	} {
		got, err := ParseActivity(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got)
	}

	_, err := ParseActivity("")
	assert.True(t, IsIncompleteInput(err))

	_, err = ParseActivity("agro")
	assert.True(t, IsIncompleteInput(err))
	assert.ErrorContains(t, err, "unknown activity")
}

func TestPeriod(t *testing.T) {
	assert.True(t, d("25000").Equal(Quarterly.Scale(d("100000"))))
	assert.True(t, d("100000").Equal(Annual.Scale(d("100000"))))
	assert.True(t, d("8333.3333333333333333").Equal(Monthly.Scale(d("100000"))))

	assert.Equal(t, "trimestral", Quarterly.String())
	assert.Equal(t, "6 meses", Period{Months: 6}.String())

	assert.True(t, IsInvalidRange(Period{Months: 0}.Validate()))
	assert.NoError(t, Period{Months: 7}.Validate())
}

func TestParsePeriod(t *testing.T) {
	tests := map[string]Period{
		"":           Annual,
		"mensal":     Monthly,
		"quarterly":  Quarterly,
		"6":          {Months: 6},
		" Trimestral": Quarterly,
	}
	for input, expected := range tests {
		got, err := ParsePeriod(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got)
	}

	_, err := ParsePeriod("13")
	assert.True(t, IsInvalidRange(err))
	_, err = ParsePeriod("6x")
	assert.Error(t, err)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{nil, ""},
		{&IncompleteInputError{Field: "rbt12", Reason: "must be positive"}, "incomplete_input"},
		{fmt.Errorf("simples: %w", &OutOfRangeError{Field: "rbt12", Value: d("5000000"), Max: d("4800000")}), "out_of_range"},
		{&InvalidRangeError{Field: "iss_rate"}, "invalid_range"},
		{&UnknownActivityError{Code: "x"}, "unknown_activity"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, ErrorKind(tt.err))
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "incomplete input: rbt12 must be positive",
		(&IncompleteInputError{Field: "rbt12", Reason: "must be positive"}).Error())
	assert.Equal(t, "rbt12 5000000 out of range [0, 4800000]",
		(&OutOfRangeError{Field: "rbt12", Value: d("5000000"), Min: d("0"), Max: d("4800000")}).Error())
	assert.Equal(t, "rbt12 -1 out of range: must be at least 0",
		(&OutOfRangeError{Field: "rbt12", Value: d("-1"), Min: d("0")}).Error())
}

func TestPeriod_Unmarshal(t *testing.T) {
	var holder struct {
		Period Period `yaml:"period" json:"period"`
	}

	for _, doc := range []string{"period: trimestral", "period: 3", "period:\n  months: 3"} {
		holder.Period = Period{}
		require.NoError(t, yaml.Unmarshal([]byte(doc), &holder), doc)
		assert.Equal(t, Quarterly, holder.Period, doc)
	}

	for _, doc := range []string{`{"period":"mensal"}`, `{"period":1}`, `{"period":{"months":1}}`} {
		holder.Period = Period{}
		require.NoError(t, json.Unmarshal([]byte(doc), &holder), doc)
		assert.Equal(t, Monthly, holder.Period, doc)
	}

	assert.Error(t, json.Unmarshal([]byte(`{"period":"semestral"}`), &holder))
}

func TestPeriod_UnmarshalRejectsOutOfRange(t *testing.T) {
	var holder struct {
		Period Period `yaml:"period" json:"period"`
	}

	for _, doc := range []string{`{"period":0}`, `{"period":13}`, `{"period":{"months":0}}`, `{"period":{}}`, `{"period":"0"}`} {
		holder.Period = Monthly
		err := json.Unmarshal([]byte(doc), &holder)
		require.Error(t, err, doc)
		assert.True(t, IsInvalidRange(err), doc)
	}

	for _, doc := range []string{"period: 0", "period: -3", "period:\n  months: 0", "period:\n  months: 24"} {
		holder.Period = Monthly
		err := yaml.Unmarshal([]byte(doc), &holder)
		require.Error(t, err, doc)
		assert.True(t, IsInvalidRange(err), doc)
	}

	// an absent period is left for EffectivePeriod to default
	holder.Period = Period{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &holder))
	assert.Equal(t, Annual, CalculationInput{Period: holder.Period}.EffectivePeriod())
}

package config

import (
	"fmt"
	"unicode"
)

// SanitizeCNPJ keeps only the digits of a CNPJ
func SanitizeCNPJ(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// ValidateCNPJ checks length, repeated digits and both check digits of a
// sanitized CNPJ
func ValidateCNPJ(cnpj string) bool {
	if len(cnpj) != 14 {
		return false
	}
	allEq := true
	for i := 1; i < 14; i++ {
		if cnpj[i] != cnpj[0] {
			allEq = false
			break
		}
	}
	if allEq {
		return false
	}
	return cnpj[12] == cnpjCheckDigit(cnpj[:12]) && cnpj[13] == cnpjCheckDigit(cnpj[:13])
}

// cnpjCheckDigit is the mod-11 digit for the 12 or 13 leading digits
func cnpjCheckDigit(digits string) byte {
	weight := len(digits) - 7
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + 11 - rest)
}

// FormatCNPJ renders a sanitized CNPJ as 00.000.000/0000-00
func FormatCNPJ(cnpj string) string {
	if len(cnpj) != 14 {
		return cnpj
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", cnpj[:2], cnpj[2:5], cnpj[5:8], cnpj[8:12], cnpj[12:])
}

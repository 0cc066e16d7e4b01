package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomRules installs domain validation rules on gin's binding
// validator. Call once at startup.
func RegisterCustomRules() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("cpf", validateCPF)
		v.RegisterValidation("uf", validateUF)
	}
}

// validateCPF accepts bare 11-digit CPFs or the dotted XXX.XXX.XXX-XX form,
// and checks the two verifier digits.
func validateCPF(fl validator.FieldLevel) bool {
	return IsValidCPF(fl.Field().String())
}

func IsValidCPF(raw string) bool {
	digits := OnlyDigits(raw)
	if len(digits) != 11 {
		return false
	}

	// All-equal CPFs pass the checksum but are invalid.
	allEqual := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	for _, pos := range []int{9, 10} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += int(digits[i]-'0') * (pos + 1 - i)
		}
		check := (sum * 10) % 11 % 10
		if check != int(digits[pos]-'0') {
			return false
		}
	}
	return true
}

var brazilianStates = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}

func validateUF(fl validator.FieldLevel) bool {
	return brazilianStates[strings.ToUpper(fl.Field().String())]
}

// OnlyDigits strips everything but 0-9 from s.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

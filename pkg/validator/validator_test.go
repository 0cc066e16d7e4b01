package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCPF(t *testing.T) {
	valid := []string{
		"529.982.247-25",
		"52998224725",
		"123.456.789-09",
	}
	for _, cpf := range valid {
		assert.True(t, IsValidCPF(cpf), cpf)
	}

	invalid := []string{
		"",
		"123",
		"529.982.247-26",
		"111.111.111-11",
		"000.000.000-00",
		"529982247250",
		"abc.def.ghi-jk",
	}
	for _, cpf := range invalid {
		assert.False(t, IsValidCPF(cpf), cpf)
	}
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "11987654321", OnlyDigits("(11) 98765-4321"))
	assert.Equal(t, "", OnlyDigits("abc"))
	assert.Equal(t, "12345678909", OnlyDigits("123.456.789-09"))
	assert.Equal(t, "", OnlyDigits(""))
}

package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saudelog/agenda-api/internal/model"
)

func TestMaskedCPFPrecedence(t *testing.T) {
	tests := []struct {
		name string
		apt  *model.Appointment
		want string
	}{
		{
			name: "nil appointment",
			apt:  nil,
			want: "",
		},
		{
			name: "preformatted wins over everything",
			apt: &model.Appointment{
				Documento: &model.Documento{CPFFormatado: "123.456.789-09", CPF: "99999999999"},
				CPF:       "11111111111",
			},
			want: "123.456.789-09",
		},
		{
			name: "documento raw cpf",
			apt: &model.Appointment{
				Documento: &model.Documento{CPF: "12345678909"},
			},
			want: "123.456.789-09",
		},
		{
			name: "legacy flat cpf",
			apt:  &model.Appointment{CPF: "123.456.789-09"},
			want: "123.456.789-09",
		},
		{
			name: "extracted from documento_completo",
			apt:  &model.Appointment{DocumentoCompleto: "CPF 123.456.789-09"},
			want: "123.456.789-09",
		},
		{
			name: "documento_completo with extra digits is ambiguous",
			apt:  &model.Appointment{DocumentoCompleto: "CPF 12345678909 RG 123456"},
			want: "",
		},
		{
			name: "short cpf yields nothing",
			apt:  &model.Appointment{CPF: "12345"},
			want: "",
		},
		{
			name: "no document data at all",
			apt:  &model.Appointment{Paciente: "Maria"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskedCPF(tt.apt))
		})
	}
}

func TestConvenioLabel(t *testing.T) {
	tests := []struct {
		name string
		apt  *model.Appointment
		want string
	}{
		{"nil", nil, ""},
		{"name and number", &model.Appointment{Convenio: "Unimed", NumeroConvenio: "12345"}, "Unimed (12345)"},
		{"name only", &model.Appointment{Convenio: "Unimed"}, "Unimed"},
		{"number only", &model.Appointment{NumeroConvenio: "12345"}, "12345"},
		{"carteirinha fallback", &model.Appointment{Carteirinha: "987-65"}, "987-65"},
		{"nothing", &model.Appointment{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvenioLabel(tt.apt))
		})
	}
}

func TestNewViewCarriesAppointment(t *testing.T) {
	apt := &model.Appointment{
		Paciente:       "Maria Souza",
		CPF:            "12345678909",
		Convenio:       "Bradesco Saude",
		NumeroConvenio: "777",
	}

	view := NewView(apt)
	assert.Equal(t, "Maria Souza", view.Paciente)
	assert.Equal(t, "123.456.789-09", view.CPFMascarado)
	assert.Equal(t, "Bradesco Saude (777)", view.ConvenioLabel)
}

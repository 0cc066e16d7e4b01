package appointment

import (
	"fmt"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/pkg/validator"
)

// View is the read-only projection of an appointment with derived display
// fields. Absent data degrades to empty strings.
type View struct {
	*model.Appointment
	CPFMascarado  string `json:"cpf_mascarado"`
	ConvenioLabel string `json:"convenio_label"`
}

func NewView(apt *model.Appointment) *View {
	return &View{
		Appointment:   apt,
		CPFMascarado:  MaskedCPF(apt),
		ConvenioLabel: ConvenioLabel(apt),
	}
}

func NewViews(appointments []*model.Appointment) []*View {
	views := make([]*View, len(appointments))
	for i, apt := range appointments {
		views[i] = NewView(apt)
	}
	return views
}

// MaskedCPF resolves the display CPF in XXX.XXX.XXX-XX form. Preference
// order: the pre-normalized formatted CPF, then the normalized raw CPF, then
// the legacy flat cpf field, then an exactly-11-digit run extracted from the
// composite documento_completo. Anything else yields "".
func MaskedCPF(apt *model.Appointment) string {
	if apt == nil {
		return ""
	}

	if apt.Documento != nil {
		if apt.Documento.CPFFormatado != "" {
			return apt.Documento.CPFFormatado
		}
		if masked := formatCPF(apt.Documento.CPF); masked != "" {
			return masked
		}
	}

	if masked := formatCPF(apt.CPF); masked != "" {
		return masked
	}

	if digits := validator.OnlyDigits(apt.DocumentoCompleto); len(digits) == 11 {
		return formatCPF(digits)
	}

	return ""
}

// ConvenioLabel combines health-plan name and number as "Name (Number)" when
// both exist, otherwise whichever of name / number / card number is present.
func ConvenioLabel(apt *model.Appointment) string {
	if apt == nil {
		return ""
	}

	switch {
	case apt.Convenio != "" && apt.NumeroConvenio != "":
		return fmt.Sprintf("%s (%s)", apt.Convenio, apt.NumeroConvenio)
	case apt.Convenio != "":
		return apt.Convenio
	case apt.NumeroConvenio != "":
		return apt.NumeroConvenio
	case apt.Carteirinha != "":
		return apt.Carteirinha
	default:
		return ""
	}
}

func formatCPF(raw string) string {
	digits := validator.OnlyDigits(raw)
	if len(digits) != 11 {
		return ""
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}

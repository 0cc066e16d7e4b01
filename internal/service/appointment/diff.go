package appointment

import (
	"strings"

	"github.com/google/uuid"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/pkg/validator"
)

// BuildPatch compares the edited form values against the stored record and
// returns only the fields whose normalized value actually changed, keyed by
// column name. An empty map means there is nothing to save and no write (and
// no outbox event) should happen. Fields left nil on the request were not on
// the form and never enter the patch. There is no version check: conflict
// avoidance is last-write-wins at field granularity.
func BuildPatch(original *model.Appointment, req *model.UpdateAppointmentRequest) map[string]interface{} {
	patch := make(map[string]interface{})

	diffString(patch, "paciente", original.Paciente, req.Paciente)
	diffString(patch, "unidade", original.Unidade, req.Unidade)
	diffString(patch, "marca", original.Marca, req.Marca)
	diffString(patch, "hora_agendamento", original.HoraAgendamento, req.HoraAgendamento)
	diffString(patch, "endereco_coleta", original.EnderecoColeta, req.EnderecoColeta)
	diffString(patch, "documento_completo", original.DocumentoCompleto, req.DocumentoCompleto)
	diffString(patch, "cpf", original.CPF, req.CPF)
	diffString(patch, "rg", original.RG, req.RG)
	diffString(patch, "convenio", original.Convenio, req.Convenio)
	diffString(patch, "numero_convenio", original.NumeroConvenio, req.NumeroConvenio)
	diffString(patch, "carteirinha", original.Carteirinha, req.Carteirinha)
	diffString(patch, "observacoes", original.Observacoes, req.Observacoes)
	diffString(patch, "descricao_carro", original.DescricaoCarro, req.DescricaoCarro)

	if req.Telefone != nil {
		// Phone numbers are compared digit-only so reformatting alone is
		// never treated as a change.
		if validator.OnlyDigits(*req.Telefone) != validator.OnlyDigits(original.Telefone) {
			patch["telefone"] = strings.TrimSpace(*req.Telefone)
		}
	}

	if req.DataAgendamento != nil && !req.DataAgendamento.Equal(original.DataAgendamento) {
		patch["data_agendamento"] = *req.DataAgendamento
	}

	if req.Endereco != nil {
		edited := normalizeEndereco(*req.Endereco)
		if original.Endereco == nil || edited != normalizeEndereco(*original.Endereco) {
			patch["endereco"] = edited
		}
	}

	if req.Documento != nil {
		edited := normalizeDocumento(*req.Documento)
		if original.Documento == nil || edited != normalizeDocumento(*original.Documento) {
			patch["documento"] = edited
		}
	}

	if req.TagIDs != nil {
		originalIDs := make([]uuid.UUID, len(original.Tags))
		for i, tag := range original.Tags {
			originalIDs[i] = tag.ID
		}
		if !sameIDSet(originalIDs, *req.TagIDs) {
			patch["tag_ids"] = *req.TagIDs
		}
	}

	return patch
}

func diffString(patch map[string]interface{}, column, original string, edited *string) {
	if edited == nil {
		return
	}
	trimmed := strings.TrimSpace(*edited)
	if trimmed != strings.TrimSpace(original) {
		patch[column] = trimmed
	}
}

func normalizeEndereco(e model.Endereco) model.Endereco {
	return model.Endereco{
		Rua:         strings.TrimSpace(e.Rua),
		Numero:      strings.TrimSpace(e.Numero),
		Complemento: strings.TrimSpace(e.Complemento),
		Bairro:      strings.TrimSpace(e.Bairro),
		Cidade:      strings.TrimSpace(e.Cidade),
		UF:          strings.ToUpper(strings.TrimSpace(e.UF)),
		CEP:         validator.OnlyDigits(e.CEP),
	}
}

func normalizeDocumento(d model.Documento) model.Documento {
	return model.Documento{
		CPF:          validator.OnlyDigits(d.CPF),
		CPFFormatado: strings.TrimSpace(d.CPFFormatado),
		RG:           strings.TrimSpace(d.RG),
	}
}

// sameIDSet compares tag memberships ignoring order and duplicates.
func sameIDSet(a, b []uuid.UUID) bool {
	setA := make(map[uuid.UUID]bool, len(a))
	for _, id := range a {
		setA[id] = true
	}
	setB := make(map[uuid.UUID]bool, len(b))
	for _, id := range b {
		setB[id] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if !setB[id] {
			return false
		}
	}
	return true
}

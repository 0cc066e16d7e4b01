package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudelog/agenda-api/internal/model"
)

func str(s string) *string { return &s }

func storedAppointment() *model.Appointment {
	return &model.Appointment{
		Paciente:        "Maria Souza",
		Telefone:        "(11) 98765-4321",
		Convenio:        "Unimed",
		DataAgendamento: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Endereco: &model.Endereco{
			Rua:    "Rua das Flores",
			Numero: "100",
			Cidade: "Sao Paulo",
			UF:     "SP",
			CEP:    "01310-100",
		},
		Tags: model.TagList{
			{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Nome: "urgente"},
			{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Nome: "domiciliar"},
		},
	}
}

func TestBuildPatchEmptyWhenNothingChanged(t *testing.T) {
	original := storedAppointment()
	req := &model.UpdateAppointmentRequest{
		Paciente: str("Maria Souza"),
		Convenio: str("Unimed"),
	}

	assert.Empty(t, BuildPatch(original, req))
}

func TestBuildPatchIgnoresAbsentFields(t *testing.T) {
	original := storedAppointment()

	patch := BuildPatch(original, &model.UpdateAppointmentRequest{})
	assert.Empty(t, patch)
}

func TestBuildPatchSingleField(t *testing.T) {
	original := storedAppointment()
	req := &model.UpdateAppointmentRequest{
		Paciente:    str("Maria de Souza"),
		Convenio:    str("Unimed"),
		Observacoes: str(""),
	}

	patch := BuildPatch(original, req)
	require.Len(t, patch, 1)
	assert.Equal(t, "Maria de Souza", patch["paciente"])
}

func TestBuildPatchTrimsWhitespace(t *testing.T) {
	original := storedAppointment()

	// Whitespace-only edits are not changes.
	patch := BuildPatch(original, &model.UpdateAppointmentRequest{Paciente: str("  Maria Souza  ")})
	assert.Empty(t, patch)

	// But a real change is stored trimmed.
	patch = BuildPatch(original, &model.UpdateAppointmentRequest{Paciente: str("  Ana Lima  ")})
	assert.Equal(t, "Ana Lima", patch["paciente"])
}

func TestBuildPatchPhoneComparedDigitOnly(t *testing.T) {
	original := storedAppointment()

	patch := BuildPatch(original, &model.UpdateAppointmentRequest{Telefone: str("11987654321")})
	assert.Empty(t, patch)

	patch = BuildPatch(original, &model.UpdateAppointmentRequest{Telefone: str("(11) 91234-5678")})
	assert.Equal(t, "(11) 91234-5678", patch["telefone"])
}

func TestBuildPatchDataAgendamento(t *testing.T) {
	original := storedAppointment()
	same := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	changed := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, BuildPatch(original, &model.UpdateAppointmentRequest{DataAgendamento: &same}))

	patch := BuildPatch(original, &model.UpdateAppointmentRequest{DataAgendamento: &changed})
	assert.Equal(t, changed, patch["data_agendamento"])
}

func TestBuildPatchEnderecoNormalized(t *testing.T) {
	original := storedAppointment()

	// Lowercase UF and formatted CEP normalize to the stored value.
	patch := BuildPatch(original, &model.UpdateAppointmentRequest{
		Endereco: &model.Endereco{
			Rua:    " Rua das Flores ",
			Numero: "100",
			Cidade: "Sao Paulo",
			UF:     "sp",
			CEP:    "01310100",
		},
	})
	assert.Empty(t, patch)

	patch = BuildPatch(original, &model.UpdateAppointmentRequest{
		Endereco: &model.Endereco{
			Rua:    "Rua das Flores",
			Numero: "200",
			Cidade: "Sao Paulo",
			UF:     "SP",
			CEP:    "01310100",
		},
	})
	require.Contains(t, patch, "endereco")
	assert.Equal(t, "200", patch["endereco"].(model.Endereco).Numero)
}

func TestBuildPatchTagOrderIrrelevant(t *testing.T) {
	original := storedAppointment()

	reordered := []uuid.UUID{
		uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		uuid.MustParse("11111111-1111-1111-1111-111111111111"),
	}
	patch := BuildPatch(original, &model.UpdateAppointmentRequest{TagIDs: &reordered})
	assert.Empty(t, patch)

	removed := []uuid.UUID{uuid.MustParse("11111111-1111-1111-1111-111111111111")}
	patch = BuildPatch(original, &model.UpdateAppointmentRequest{TagIDs: &removed})
	assert.Contains(t, patch, "tag_ids")
}

func TestBuildPatchClearTags(t *testing.T) {
	original := storedAppointment()

	empty := []uuid.UUID{}
	patch := BuildPatch(original, &model.UpdateAppointmentRequest{TagIDs: &empty})
	require.Contains(t, patch, "tag_ids")
	assert.Empty(t, patch["tag_ids"])
}

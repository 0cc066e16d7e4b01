package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/saudelog/agenda-api/internal/model"
	"github.com/saudelog/agenda-api/internal/repository"
	"github.com/saudelog/agenda-api/internal/service/appointment"
	apperrors "github.com/saudelog/agenda-api/pkg/errors"
)

// Service renders route sheets: one PDF per driver and day listing the stops
// assigned to them, in visit order.
type Service struct {
	appointments repository.AppointmentRepository
	drivers      repository.DriverRepository
	cars         repository.CarRepository
	logger       zerolog.Logger
}

func NewService(appointments repository.AppointmentRepository, drivers repository.DriverRepository, cars repository.CarRepository, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appointments,
		drivers:      drivers,
		cars:         cars,
		logger:       logger.With().Str("service", "report").Logger(),
	}
}

// RouteSheet builds the PDF for driverID on date. Cancelled appointments are
// excluded at the repository level.
func (s *Service) RouteSheet(ctx context.Context, tenantID, driverID uuid.UUID, date time.Time) ([]byte, error) {
	driver, err := s.drivers.Get(ctx, tenantID, driverID)
	if err != nil {
		return nil, err
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	apts, err := s.appointments.ListByDriver(ctx, tenantID, driverID, start, end)
	if err != nil {
		return nil, err
	}
	if len(apts) == 0 {
		return nil, apperrors.NotFound("agendamentos do motorista", nil)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Folha de Rota - %s", driver.Nome)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Folha de Rota"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Motorista: %s", driver.Nome)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Data: %s", start.Format("02/01/2006"))))
	pdf.Ln(6)
	if car := s.carLabel(ctx, tenantID, apts); car != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Veículo: %s", car)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	for i, apt := range apts {
		s.writeStop(pdf, tr, i+1, apt)
	}

	pdf.SetY(-25)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr("Assinatura do motorista: ______________________________"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("render route sheet: %w", err))
	}
	return buf.Bytes(), nil
}

func (s *Service) writeStop(pdf *gofpdf.Fpdf, tr func(string) string, seq int, apt *model.Appointment) {
	view := appointment.NewView(apt)

	pdf.SetFont("Helvetica", "B", 12)
	header := fmt.Sprintf("%d. %s", seq, apt.Paciente)
	if apt.HoraAgendamento != "" {
		header = fmt.Sprintf("%d. %s - %s", seq, apt.HoraAgendamento, apt.Paciente)
	}
	pdf.Cell(0, 7, tr(header))
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	if addr := displayAddress(apt); addr != "" {
		pdf.MultiCell(0, 5, tr("Endereço: "+addr), "", "L", false)
	}
	if view.CPFMascarado != "" {
		pdf.Cell(0, 5, tr("CPF: "+view.CPFMascarado))
		pdf.Ln(5)
	}
	if view.ConvenioLabel != "" {
		pdf.Cell(0, 5, tr("Convênio: "+view.ConvenioLabel))
		pdf.Ln(5)
	}
	if apt.Telefone != "" {
		pdf.Cell(0, 5, tr("Telefone: "+apt.Telefone))
		pdf.Ln(5)
	}
	if apt.Observacoes != "" {
		pdf.MultiCell(0, 5, tr("Obs: "+apt.Observacoes), "", "L", false)
	}
	pdf.Ln(3)
}

// carLabel looks up the car assigned on the first stop that carries one. The
// whole route normally shares a single vehicle.
func (s *Service) carLabel(ctx context.Context, tenantID uuid.UUID, apts []*model.Appointment) string {
	for _, apt := range apts {
		if apt.DescricaoCarro != "" {
			return apt.DescricaoCarro
		}
		if apt.CarroID != nil {
			car, err := s.cars.Get(ctx, tenantID, *apt.CarroID)
			if err != nil {
				s.logger.Warn().Err(err).Str("car_id", apt.CarroID.String()).Msg("failed to load car for route sheet")
				return ""
			}
			return fmt.Sprintf("%s (%s)", car.Placa, car.Modelo)
		}
	}
	return ""
}

func displayAddress(apt *model.Appointment) string {
	if apt.Endereco != nil && apt.Endereco.Rua != "" {
		e := apt.Endereco
		addr := fmt.Sprintf("%s, %s", e.Rua, e.Numero)
		if e.Bairro != "" {
			addr += " - " + e.Bairro
		}
		if e.Cidade != "" {
			addr += ", " + e.Cidade
		}
		if e.UF != "" {
			addr += "/" + e.UF
		}
		if e.CEP != "" {
			addr += " - CEP " + e.CEP
		}
		return addr
	}
	return apt.EnderecoColeta
}

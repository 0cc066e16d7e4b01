package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/saudelog/agenda-api/internal/config"
	"github.com/saudelog/agenda-api/internal/model"
)

// Service sends appointment mails over SMTP. When disabled it is a no-op, so
// callers never have to check configuration themselves.
type Service struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
	logger zerolog.Logger
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) *Service {
	s := &Service{cfg: cfg, logger: logger}
	if cfg.Enabled {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return s
}

// AppointmentConfirmed mails the collection team about a confirmed visit.
// Errors are logged only: confirmation already happened.
func (s *Service) AppointmentConfirmed(ctx context.Context, apt *model.Appointment) {
	if s.dialer == nil {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.From)
	m.SetHeader("Subject", fmt.Sprintf("Coleta confirmada: %s", apt.Paciente))
	m.SetBody("text/plain", fmt.Sprintf(
		"Paciente: %s\nData: %s %s\nEndereço: %s\n",
		apt.Paciente,
		apt.DataAgendamento.Format("02/01/2006"),
		apt.HoraAgendamento,
		displayAddress(apt),
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to send confirmation mail")
	}
}

// displayAddress prefers the normalized address over the legacy flat string.
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
		return addr
	}
	return apt.EnderecoColeta
}

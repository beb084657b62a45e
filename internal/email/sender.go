package email

import (
	"context"
	"errors"

	"shopchat-ai/internal/domain"
)

// Sender define la interfaz para entregar exportaciones de datos al cliente.
type Sender interface {
	SendCustomerDataExport(ctx context.Context, toEmail string, export domain.CustomerDataExport) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendCustomerDataExport(_ context.Context, _ string, _ domain.CustomerDataExport) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

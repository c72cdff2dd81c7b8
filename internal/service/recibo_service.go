package service

import (
	"bytes"
	"context"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
)

// ReciboService renders payment receipts.
type ReciboService interface {
	// Ticket returns the PDF of the payment and its printable number.
	Ticket(ctx context.Context, pagoID uuid.UUID) ([]byte, string, error)
}

type reciboService struct {
	pagos     repository.PagoRepository
	empresa   repository.SingletonRepository[model.EmpresaConfiguracion]
	impresora repository.SingletonRepository[model.ImpresoraConfiguracion]
}

func NewReciboService(
	pagos repository.PagoRepository,
	empresa repository.SingletonRepository[model.EmpresaConfiguracion],
	impresora repository.SingletonRepository[model.ImpresoraConfiguracion],
) ReciboService {
	return &reciboService{pagos: pagos, empresa: empresa, impresora: impresora}
}

func (s *reciboService) Ticket(ctx context.Context, pagoID uuid.UUID) ([]byte, string, error) {
	pago, err := s.pagos.FindByID(ctx, pagoID)
	if err != nil {
		return nil, "", noEncontrado(err, "Pago")
	}
	empresa, err := s.empresa.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	impresora, err := s.impresora.Get(ctx)
	if err != nil {
		return nil, "", err
	}

	// rendered into memory so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := infra.RenderRecibo(&buf, pago, empresa, impresora); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), infra.NumeroRecibo(pago), nil
}

package worker

// recibo_worker.go
// Renders the receipt of a payment and e-mails it to the client.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibos.
type ReciboJobPayload struct {
	PagoID  string `json:"pago_id"`
	ToEmail string `json:"to_email"`
}

// Remitente sends a receipt; satisfied by *infra.Mailer.
type Remitente interface {
	SendRecibo(to, subject, body, pdfPath string) error
}

type ReciboWorker struct {
	pagos       repository.PagoRepository
	empresa     repository.SingletonRepository[model.EmpresaConfiguracion]
	impresora   repository.SingletonRepository[model.ImpresoraConfiguracion]
	mailer      Remitente
	storagePath string
}

func NewReciboWorker(
	pagos repository.PagoRepository,
	empresa repository.SingletonRepository[model.EmpresaConfiguracion],
	impresora repository.SingletonRepository[model.ImpresoraConfiguracion],
	mailer Remitente,
	storagePath string,
) *ReciboWorker {
	return &ReciboWorker{pagos: pagos, empresa: empresa, impresora: impresora, mailer: mailer, storagePath: storagePath}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// a malformed payload never gets better
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Str("pago_id", payload.PagoID).Msg("recibo_worker: empty to_email, skipping")
		return nil
	}
	id, err := uuid.Parse(payload.PagoID)
	if err != nil {
		log.Error().Str("pago_id", payload.PagoID).Msg("recibo_worker: invalid pago_id")
		return nil
	}

	pago, err := w.pagos.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("recibo_worker: load pago: %w", err)
	}
	empresa, err := w.empresa.Get(ctx)
	if err != nil {
		return err
	}
	impresora, err := w.impresora.Get(ctx)
	if err != nil {
		return err
	}

	path, err := infra.GenerateReciboPDF(pago, empresa, impresora, w.storagePath)
	if err != nil {
		return err
	}

	nombre := "Recibo de pago"
	if empresa != nil {
		nombre = empresa.Nombre
	}
	numero := infra.NumeroRecibo(pago)
	subject := fmt.Sprintf("%s - Recibo %s", nombre, numero)
	body := fmt.Sprintf("Adjuntamos el recibo %s por %s.\nGracias por su pago.", numero, infra.FormatMonto(pago.MontoPagado))

	if err := w.mailer.SendRecibo(payload.ToEmail, subject, body, path); err != nil {
		if errors.Is(err, infra.ErrSMTPNoConfigurado) {
			log.Warn().Str("pago_id", payload.PagoID).Msg("recibo_worker: smtp not configured, receipt kept on disk")
			return nil
		}
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("recibo", numero).Msg("recibo_worker: receipt sent")
	return nil
}

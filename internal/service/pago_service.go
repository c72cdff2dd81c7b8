package service

import (
	"context"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PagoService is the payment ledger.
type PagoService interface {
	// AplicarPago records a payment against one cuota and moves the cuota and
	// loan states. A rejected payment leaves everything unchanged.
	AplicarPago(ctx context.Context, cuotaID uuid.UUID, req dto.RegistrarPagoRequest, usuarioID *uuid.UUID) (*dto.AplicarPagoResponse, error)
	ObtenerCuota(ctx context.Context, id uuid.UUID) (*dto.CuotaResponse, error)
	ListarCuotas(ctx context.Context, f dto.CuotaFilter) ([]dto.CuotaResponse, error)
	ListarPagos(ctx context.Context, f dto.PagoFilter) ([]dto.PagoResponse, error)
}

type pagoService struct {
	cuotas     repository.CuotaRepository
	prestamos  repository.PrestamoRepository
	pagos      repository.PagoRepository
	dispatcher *worker.Dispatcher
	loc        *time.Location
	ahora      func() time.Time
}

func NewPagoService(
	cuotas repository.CuotaRepository,
	prestamos repository.PrestamoRepository,
	pagos repository.PagoRepository,
	dispatcher *worker.Dispatcher,
	loc *time.Location,
) PagoService {
	return &pagoService{
		cuotas:     cuotas,
		prestamos:  prestamos,
		pagos:      pagos,
		dispatcher: dispatcher,
		loc:        loc,
		ahora:      time.Now,
	}
}

// ── AplicarPago ──────────────────────────────────────────────────────────────
//   BEGIN TX
//     1. SELECT cuota FOR UPDATE
//     2. Sum existing pagos, reject when the new one exceeds the total due
//     3. INSERT pago, recompute saldo/estado of the cuota
//     4. Loan: pagado when no cuota is left, back to activo when the
//        overdue ones are settled
//   COMMIT
//   5. Enqueue the receipt e-mail (best effort)

func (s *pagoService) AplicarPago(ctx context.Context, cuotaID uuid.UUID, req dto.RegistrarPagoRequest, usuarioID *uuid.UUID) (*dto.AplicarPagoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apierror.Validacion("El monto del pago debe ser mayor que cero")
	}
	monto := req.Monto.Round(2)

	hoy := diaCalendario(s.ahora(), s.loc)
	fecha := hoy
	if req.FechaPago != nil && *req.FechaPago != "" {
		var err error
		if fecha, err = parseFecha(*req.FechaPago, "fecha_pago"); err != nil {
			return nil, err
		}
		if fecha.After(hoy) {
			return nil, apierror.Validacion("La fecha de pago no puede ser futura")
		}
	}

	var (
		cuota    *model.Cuota
		prestamo *model.Prestamo
		pago     *model.Pago
	)
	err := runTx(ctx, s.cuotas.DB(), func(tx *gorm.DB) error {
		var err error
		// 1.
		if cuota, err = s.cuotas.FindForUpdateTx(tx, cuotaID); err != nil {
			return noEncontrado(err, "Cuota")
		}
		if prestamo, err = s.prestamos.FindByIDTx(tx, cuota.PrestamoID); err != nil {
			return noEncontrado(err, "Préstamo")
		}
		if prestamo.Estado == model.PrestamoCancelado {
			return apierror.Validacion("El préstamo está cancelado y no admite pagos")
		}

		// 2.
		pagos, err := s.cuotas.ListPagosTx(tx, cuota.ID)
		if err != nil {
			return err
		}
		pagado := decimal.Zero
		for _, p := range pagos {
			pagado = pagado.Add(p.MontoPagado)
		}
		if restante := cuota.MontoTotalAPagar().Sub(pagado); monto.GreaterThan(restante) {
			return apierror.Validacion("El monto %s excede el saldo pendiente de la cuota (%s)",
				monto.StringFixed(2), restante.StringFixed(2))
		}

		// 3.
		pago = &model.Pago{CuotaID: cuota.ID, MontoPagado: monto, FechaPago: fecha, RegistradoPorID: usuarioID}
		if err := s.cuotas.CreatePagoTx(tx, pago); err != nil {
			return err
		}
		cuota.Pagos = append(pagos, *pago)
		cuota.Recalcular(pagado.Add(monto))
		if err := s.cuotas.UpdateSaldoTx(tx, cuota); err != nil {
			return err
		}

		// 4.
		return s.actualizarEstadoPrestamo(tx, prestamo, hoy)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("pago_id", pago.ID.String()).
		Str("cuota_id", cuota.ID.String()).
		Str("monto", monto.String()).
		Str("estado_cuota", cuota.Estado).
		Str("estado_prestamo", prestamo.Estado).
		Msg("pago: registrado")

	// 5.
	cuota.Prestamo = prestamo
	pago.Cuota = cuota
	s.encolarRecibo(ctx, pago, prestamo.Cliente)

	return &dto.AplicarPagoResponse{
		Pago:           pagoToResponse(pago),
		Cuota:          cuotaToResponse(cuota),
		EstadoPrestamo: prestamo.Estado,
		SaldoCuota:     cuota.SaldoPendiente,
	}, nil
}

// actualizarEstadoPrestamo keeps the loan state consistent with its cuotas.
func (s *pagoService) actualizarEstadoPrestamo(tx *gorm.DB, p *model.Prestamo, hoy time.Time) error {
	nuevo := p.Estado
	pendientes, err := s.cuotas.ContarNoPagadasTx(tx, p.ID)
	if err != nil {
		return err
	}
	switch {
	case pendientes == 0:
		nuevo = model.PrestamoPagado
	case p.Estado == model.PrestamoEnMora:
		vencidas, err := s.cuotas.ContarVencidasTx(tx, p.ID, hoy)
		if err != nil {
			return err
		}
		if vencidas == 0 {
			nuevo = model.PrestamoActivo
		}
	}
	if nuevo == p.Estado {
		return nil
	}
	if err := s.prestamos.UpdateEstadoTx(tx, p.ID, nuevo); err != nil {
		return err
	}
	log.Info().Str("prestamo_id", p.ID.String()).Str("de", p.Estado).Str("a", nuevo).Msg("prestamo: cambio de estado")
	p.Estado = nuevo
	return nil
}

func (s *pagoService) encolarRecibo(ctx context.Context, pago *model.Pago, cliente *model.Cliente) {
	if s.dispatcher == nil || cliente == nil || cliente.Email == nil || *cliente.Email == "" {
		return
	}
	err := s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{PagoID: pago.ID.String(), ToEmail: *cliente.Email})
	if err != nil {
		log.Warn().Err(err).Str("pago_id", pago.ID.String()).Msg("pago: no se pudo encolar el recibo")
	}
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (s *pagoService) ObtenerCuota(ctx context.Context, id uuid.UUID) (*dto.CuotaResponse, error) {
	c, err := s.cuotas.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Cuota")
	}
	resp := cuotaToResponse(c)
	return &resp, nil
}

func (s *pagoService) ListarCuotas(ctx context.Context, f dto.CuotaFilter) ([]dto.CuotaResponse, error) {
	filtro := repository.CuotaFiltro{Estado: f.Estado, Limit: f.Limit, Offset: f.Offset}
	if f.PrestamoID != "" {
		id, err := parseID(f.PrestamoID, "prestamo_id")
		if err != nil {
			return nil, err
		}
		filtro.PrestamoID = &id
	}
	var err error
	if filtro.VenceDesde, err = parseFechaOpcional(&f.VenceDesde, "vence_desde"); err != nil {
		return nil, err
	}
	if filtro.VenceHasta, err = parseFechaOpcional(&f.VenceHasta, "vence_hasta"); err != nil {
		return nil, err
	}

	cs, err := s.cuotas.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CuotaResponse, len(cs))
	for i := range cs {
		resp[i] = cuotaToResponse(&cs[i])
	}
	return resp, nil
}

func (s *pagoService) ListarPagos(ctx context.Context, f dto.PagoFilter) ([]dto.PagoResponse, error) {
	filtro := repository.PagoFiltro{Q: f.Q, Limit: f.Limit, Offset: f.Offset}
	if f.CuotaID != "" {
		id, err := parseID(f.CuotaID, "cuota_id")
		if err != nil {
			return nil, err
		}
		filtro.CuotaID = &id
	}
	var err error
	if filtro.Desde, err = parseFechaOpcional(&f.Desde, "desde"); err != nil {
		return nil, err
	}
	if filtro.Hasta, err = parseFechaOpcional(&f.Hasta, "hasta"); err != nil {
		return nil, err
	}

	ps, err := s.pagos.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PagoResponse, len(ps))
	for i := range ps {
		resp[i] = pagoToResponse(&ps[i])
	}
	return resp, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func cuotaToResponse(c *model.Cuota) dto.CuotaResponse {
	total := c.MontoTotalAPagar()
	resp := dto.CuotaResponse{
		ID:                      c.ID.String(),
		PrestamoID:              c.PrestamoID.String(),
		NumeroCuota:             c.NumeroCuota,
		FechaVencimiento:        formatFecha(c.FechaVencimiento),
		MontoCuota:              c.MontoCuota,
		Capital:                 c.Capital,
		Interes:                 c.Interes,
		SaldoPendiente:          c.SaldoPendiente,
		Estado:                  c.Estado,
		MontoPenalidadAcumulada: c.MontoPenalidadAcumulada,
		MontoTotalAPagar:        total,
		TotalPagado:             total.Sub(c.SaldoPendiente),
	}
	if c.Prestamo != nil && c.Prestamo.Cliente != nil {
		resp.Cliente = c.Prestamo.Cliente.NombreCompleto()
	}
	if len(c.Pagos) > 0 {
		resp.Pagos = make([]dto.PagoResponse, len(c.Pagos))
		for i := range c.Pagos {
			resp.Pagos[i] = pagoToResponse(&c.Pagos[i])
		}
	}
	return resp
}

func pagoToResponse(p *model.Pago) dto.PagoResponse {
	resp := dto.PagoResponse{
		ID:           p.ID.String(),
		NumeroRecibo: infra.NumeroRecibo(p),
		CuotaID:      p.CuotaID.String(),
		MontoPagado:  p.MontoPagado,
		FechaPago:    formatFecha(p.FechaPago),
	}
	if p.RegistradoPorID != nil {
		id := p.RegistradoPorID.String()
		resp.RegistradoPorID = &id
	}
	if c := p.Cuota; c != nil {
		resp.PrestamoID = c.PrestamoID.String()
		resp.NumeroCuota = c.NumeroCuota
		if c.Prestamo != nil && c.Prestamo.Cliente != nil {
			resp.Cliente = c.Prestamo.Cliente.NombreCompleto()
		}
	}
	return resp
}

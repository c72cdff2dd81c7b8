package service

import (
	"context"
	"fmt"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/mora"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MoraService runs the late-payment penalty sweep.
type MoraService interface {
	// Procesar evaluates every unpaid cuota due before the given day (today
	// when empty). Running it twice for the same day changes nothing.
	Procesar(ctx context.Context, req dto.ProcesarMoraRequest) (*dto.ResultadoMoraResponse, error)
}

type moraService struct {
	cuotas    repository.CuotaRepository
	prestamos repository.PrestamoRepository
	politicas repository.SingletonRepository[model.PoliticaMora]
	cfg       *config.Config
	loc       *time.Location
	ahora     func() time.Time
}

func NewMoraService(
	cuotas repository.CuotaRepository,
	prestamos repository.PrestamoRepository,
	politicas repository.SingletonRepository[model.PoliticaMora],
	cfg *config.Config,
	loc *time.Location,
) MoraService {
	return &moraService{cuotas: cuotas, prestamos: prestamos, politicas: politicas, cfg: cfg, loc: loc, ahora: time.Now}
}

// politicaPorDefecto is the policy taken from configuration while no
// politica_mora row exists.
func politicaPorDefecto(cfg *config.Config) model.PoliticaMora {
	tasa, err := decimal.NewFromString(cfg.MoraTasa)
	if err != nil {
		log.Warn().Str("MORA_TASA", cfg.MoraTasa).Msg("mora: tasa de configuracion invalida, se usa 0")
		tasa = decimal.Zero
	}
	return model.PoliticaMora{
		Tasa:       tasa,
		Periodo:    cfg.MoraPeriodo,
		DiasGracia: cfg.MoraDiasGracia,
		Compuesta:  cfg.MoraCompuesta,
	}
}

func (s *moraService) politica(ctx context.Context) (mora.Politica, error) {
	p, err := s.politicas.Get(ctx)
	if err != nil {
		return mora.Politica{}, err
	}
	if p == nil {
		d := politicaPorDefecto(s.cfg)
		p = &d
	}
	pol := p.Politica()
	if err := pol.Validar(); err != nil {
		return mora.Politica{}, err
	}
	return pol, nil
}

// ── Procesar ─────────────────────────────────────────────────────────────────
// Each cuota is its own transaction; a failure is reported and the sweep
// moves on.

func (s *moraService) Procesar(ctx context.Context, req dto.ProcesarMoraRequest) (*dto.ResultadoMoraResponse, error) {
	hoy := diaCalendario(s.ahora(), s.loc)
	if req.Fecha != nil && *req.Fecha != "" {
		fecha, err := parseFecha(*req.Fecha, "fecha")
		if err != nil {
			return nil, err
		}
		if fecha.After(hoy) {
			return nil, apierror.Validacion("La fecha de evaluación no puede ser futura")
		}
		hoy = fecha
	}

	pol, err := s.politica(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.cuotas.ListVencidasIDs(ctx, hoy)
	if err != nil {
		return nil, err
	}

	res := &dto.ResultadoMoraResponse{Fecha: formatFecha(hoy), TotalPenalidad: decimal.Zero, Errores: []string{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r, err := s.evaluar(ctx, id, pol, hoy)
		if err != nil {
			log.Error().Err(err).Str("cuota_id", id.String()).Msg("mora: evaluacion fallida")
			res.Errores = append(res.Errores, fmt.Sprintf("cuota %s: %v", id, err))
			continue
		}
		if !r.evaluada {
			continue
		}
		res.Evaluadas++
		if r.actualizada {
			res.Actualizadas++
		}
		if r.prestamoEnMora {
			res.PrestamosEnMora++
		}
		res.TotalPenalidad = res.TotalPenalidad.Add(r.incremento)
	}

	log.Info().
		Str("fecha", res.Fecha).
		Int("evaluadas", res.Evaluadas).
		Int("actualizadas", res.Actualizadas).
		Int("prestamos_en_mora", res.PrestamosEnMora).
		Str("penalidad", res.TotalPenalidad.String()).
		Msg("mora: barrido completado")
	return res, nil
}

type resultadoCuota struct {
	evaluada       bool
	actualizada    bool
	prestamoEnMora bool
	incremento     decimal.Decimal
}

func (s *moraService) evaluar(ctx context.Context, id uuid.UUID, pol mora.Politica, hoy time.Time) (resultadoCuota, error) {
	var r resultadoCuota
	err := runTx(ctx, s.cuotas.DB(), func(tx *gorm.DB) error {
		c, err := s.cuotas.FindForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		// paid between the listing and the lock
		if c.Pagada() {
			return nil
		}
		estadoPrestamo, err := s.prestamos.EstadoTx(tx, c.PrestamoID)
		if err != nil {
			return err
		}
		// only disbursed, running loans accrue
		if estadoPrestamo != model.PrestamoActivo && estadoPrestamo != model.PrestamoEnMora {
			return nil
		}
		r.evaluada = true

		snap := mora.Cuota{Monto: c.MontoCuota, FechaVencimiento: c.FechaVencimiento}
		calculada := pol.Calcular(snap, hoy)
		antes := *c

		// the stored penalty never decreases, so a policy change cannot refund
		if calculada.GreaterThan(c.MontoPenalidadAcumulada) {
			r.incremento = calculada.Sub(c.MontoPenalidadAcumulada)
			c.MontoPenalidadAcumulada = calculada
		}
		pagos, err := s.cuotas.ListPagosTx(tx, c.ID)
		if err != nil {
			return err
		}
		pagado := decimal.Zero
		for _, p := range pagos {
			pagado = pagado.Add(p.MontoPagado)
		}
		c.Recalcular(pagado)
		if !c.Pagada() {
			c.Estado = model.CuotaVencida
		}

		r.actualizada = !c.SaldoPendiente.Equal(antes.SaldoPendiente) ||
			c.Estado != antes.Estado ||
			!c.MontoPenalidadAcumulada.Equal(antes.MontoPenalidadAcumulada)
		if r.actualizada || antes.FechaCalculoMora == nil || !antes.FechaCalculoMora.Equal(hoy) {
			c.FechaCalculoMora = &hoy
			if err := s.cuotas.UpdateSaldoTx(tx, c); err != nil {
				return err
			}
		}

		if estadoPrestamo == model.PrestamoActivo && pol.EnMora(snap, hoy) {
			if err := s.prestamos.UpdateEstadoTx(tx, c.PrestamoID, model.PrestamoEnMora); err != nil {
				return err
			}
			r.prestamoEnMora = true
			log.Info().Str("prestamo_id", c.PrestamoID.String()).Msg("prestamo: en mora")
		}
		return nil
	})
	return r, err
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/amortizacion"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/apierror"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/dto"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PrestamoService interface {
	// Crear validates the request against its loan type, generates the
	// schedule and persists loan, cuotas, gastos and requisitos in one tx.
	Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*dto.PrestamoResponse, error)
	// Simular previews the schedule without persisting anything.
	Simular(ctx context.Context, req dto.SimularRequest) (*dto.SimulacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PrestamoResponse, error)
	Listar(ctx context.Context, f dto.PrestamoFilter) ([]dto.PrestamoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PrestamoResponse, error)
	// Eliminar removes the loan with its cuotas, pagos, gastos and requisitos.
	Eliminar(ctx context.Context, id uuid.UUID) error
	AgregarGasto(ctx context.Context, id uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error)
	AgregarRequisito(ctx context.Context, id uuid.UUID, req dto.RequisitoRequest) (*dto.RequisitoResponse, error)
}

type prestamoService struct {
	repo          repository.PrestamoRepository
	cuotas        repository.CuotaRepository
	clientes      repository.ClienteRepository
	tiposPrestamo repository.CatalogoRepository[model.TipoPrestamo]
	tiposGasto    repository.CatalogoRepository[model.TipoGasto]
	garantes      repository.CatalogoRepository[model.Garante]
	loc           *time.Location
	ahora         func() time.Time
}

func NewPrestamoService(
	repo repository.PrestamoRepository,
	cuotas repository.CuotaRepository,
	clientes repository.ClienteRepository,
	tiposPrestamo repository.CatalogoRepository[model.TipoPrestamo],
	tiposGasto repository.CatalogoRepository[model.TipoGasto],
	garantes repository.CatalogoRepository[model.Garante],
	loc *time.Location,
) PrestamoService {
	return &prestamoService{
		repo:          repo,
		cuotas:        cuotas,
		clientes:      clientes,
		tiposPrestamo: tiposPrestamo,
		tiposGasto:    tiposGasto,
		garantes:      garantes,
		loc:           loc,
		ahora:         time.Now,
	}
}

// ── Crear ────────────────────────────────────────────────────────────────────
//   1. Resolve cliente, tipo de préstamo, garante and every tipo de gasto
//   2. Check monto range and term against the loan type
//   3. Check the disbursement stays >= 0 when gastos are deducted from it
//   4. Generate the schedule (financed gastos are added to the principal)
//   5. BEGIN TX: insert prestamo + cuotas + gastos + requisitos; COMMIT

func (s *prestamoService) Crear(ctx context.Context, req dto.CrearPrestamoRequest) (*dto.PrestamoResponse, error) {
	clienteID, err := parseID(req.ClienteID, "cliente_id")
	if err != nil {
		return nil, err
	}
	tipoID, err := parseID(req.TipoPrestamoID, "tipo_prestamo_id")
	if err != nil {
		return nil, err
	}

	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil {
		return nil, noEncontrado(err, "Cliente")
	}
	tipo, err := s.tiposPrestamo.FindByID(ctx, tipoID)
	if err != nil {
		return nil, noEncontrado(err, "Tipo de préstamo")
	}

	var garante *model.Garante
	if req.GaranteID != nil && *req.GaranteID != "" {
		gid, err := parseID(*req.GaranteID, "garante_id")
		if err != nil {
			return nil, err
		}
		if garante, err = s.garantes.FindByID(ctx, gid); err != nil {
			return nil, noEncontrado(err, "Garante")
		}
	}

	// 2. Loan type limits
	if req.Monto.LessThan(tipo.MontoMinimo) || req.Monto.GreaterThan(tipo.MontoMaximo) {
		return nil, apierror.Validacion("El monto debe estar entre %s y %s para %s",
			tipo.MontoMinimo.StringFixed(2), tipo.MontoMaximo.StringFixed(2), tipo.Nombre)
	}
	frecuencia := amortizacion.Frecuencia(req.FrecuenciaPago)
	if !frecuencia.Valida() {
		return nil, apierror.Validacion("Frecuencia de pago desconocida: %q", req.FrecuenciaPago)
	}
	if meses := amortizacion.PlazoEnMeses(req.Plazo, frecuencia); meses.GreaterThan(decimal.NewFromInt(int64(tipo.PlazoMaximoMeses))) {
		return nil, apierror.Validacion("El plazo equivale a %s meses y el maximo para %s es %d",
			meses.StringFixed(1), tipo.Nombre, tipo.PlazoMaximoMeses)
	}
	tasa := tipo.TasaInteresPredeterminada
	if req.TasaInteres != nil {
		tasa = *req.TasaInteres
	}

	// 3. Gastos
	gastos := make([]model.GastoPrestamo, 0, len(req.Gastos))
	tiposGasto := make([]*model.TipoGasto, 0, len(req.Gastos))
	totalGastos := decimal.Zero
	for _, g := range req.Gastos {
		tgID, err := parseID(g.TipoGastoID, "tipo_gasto_id")
		if err != nil {
			return nil, err
		}
		tg, err := s.tiposGasto.FindByID(ctx, tgID)
		if err != nil {
			return nil, noEncontrado(err, "Tipo de gasto")
		}
		if !g.Monto.IsPositive() {
			return nil, apierror.Validacion("El monto de cada gasto debe ser mayor que cero")
		}
		gastos = append(gastos, model.GastoPrestamo{TipoGastoID: tg.ID, Monto: amortizacion.Redondear(g.Monto)})
		tiposGasto = append(tiposGasto, tg)
		totalGastos = totalGastos.Add(amortizacion.Redondear(g.Monto))
	}
	if req.ManejoGastos == model.GastosDescontarDesembolso && totalGastos.GreaterThan(req.Monto) {
		return nil, apierror.Validacion("Los gastos (%s) superan el monto del préstamo (%s)",
			totalGastos.StringFixed(2), req.Monto.StringFixed(2))
	}

	// 4. Schedule
	inicio, err := parseFecha(req.FechaInicioPago, "fecha_inicio_pago")
	if err != nil {
		return nil, err
	}
	desembolso, err := parseFechaOpcional(req.FechaDesembolso, "fecha_desembolso")
	if err != nil {
		return nil, err
	}
	principal := req.Monto
	if req.ManejoGastos == model.GastosFinanciar {
		principal = principal.Add(totalGastos)
	}
	plan, err := amortizacion.Generar(amortizacion.Parametros{
		Monto:           principal,
		Tasa:            tasa,
		PeriodoTasa:     amortizacion.PeriodoTasa(req.PeriodoTasa),
		Plazo:           req.Plazo,
		Frecuencia:      frecuencia,
		Metodo:          req.TipoAmortizacion,
		FechaInicioPago: inicio,
	})
	if err != nil {
		return nil, err
	}

	estado := req.Estado
	if estado == "" {
		estado = model.PrestamoPendiente
		if desembolso != nil {
			estado = model.PrestamoActivo
		}
	}

	p := &model.Prestamo{
		ClienteID:        cliente.ID,
		TipoPrestamoID:   tipo.ID,
		Estado:           estado,
		Monto:            amortizacion.Redondear(req.Monto),
		MontoFinanciado:  amortizacion.TotalCapital(plan),
		TasaInteres:      tasa,
		PeriodoTasa:      req.PeriodoTasa,
		ManejoGastos:     req.ManejoGastos,
		Plazo:            req.Plazo,
		FrecuenciaPago:   req.FrecuenciaPago,
		TipoAmortizacion: req.TipoAmortizacion,
		FechaDesembolso:  desembolso,
		FechaInicioPago:  inicio,
		Cuotas:           cuotasDesdePlan(plan),
		Gastos:           gastos,
		Requisitos:       requisitosDesdeRequest(req.Requisitos),
	}
	if garante != nil {
		p.GaranteID = &garante.ID
	}

	// 5. Persist
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, p)
	}); err != nil {
		return nil, err
	}

	p.Cliente, p.TipoPrestamo, p.Garante = cliente, tipo, garante
	for i := range p.Gastos {
		p.Gastos[i].TipoGasto = tiposGasto[i]
	}
	log.Info().
		Str("prestamo_id", p.ID.String()).
		Str("cliente_id", cliente.ID.String()).
		Str("monto", p.Monto.String()).
		Int("cuotas", len(p.Cuotas)).
		Msg("prestamo: creado")
	resp := prestamoToResponse(p, true)
	return &resp, nil
}

func cuotasDesdePlan(plan []amortizacion.Cuota) []model.Cuota {
	cuotas := make([]model.Cuota, len(plan))
	for i, c := range plan {
		cuotas[i] = model.Cuota{
			NumeroCuota:             c.Numero,
			FechaVencimiento:        c.FechaVencimiento,
			MontoCuota:              c.Monto,
			Capital:                 c.Capital,
			Interes:                 c.Interes,
			SaldoPendiente:          c.Monto,
			Estado:                  model.CuotaPendiente,
			MontoPenalidadAcumulada: decimal.Zero,
		}
	}
	return cuotas
}

func requisitosDesdeRequest(reqs []dto.RequisitoRequest) []model.Requisito {
	out := make([]model.Requisito, len(reqs))
	for i, r := range reqs {
		out[i] = model.Requisito{Tipo: r.Tipo, Descripcion: strings.TrimSpace(r.Descripcion), ValorEstimado: r.ValorEstimado}
	}
	return out
}

// ── Simular ──────────────────────────────────────────────────────────────────

func (s *prestamoService) Simular(_ context.Context, req dto.SimularRequest) (*dto.SimulacionResponse, error) {
	inicio := diaCalendario(s.ahora(), s.loc)
	if req.FechaInicioPago != "" {
		var err error
		if inicio, err = parseFecha(req.FechaInicioPago, "fecha_inicio_pago"); err != nil {
			return nil, err
		}
	}
	plan, err := amortizacion.Generar(amortizacion.Parametros{
		Monto:           req.Monto,
		Tasa:            req.Tasa,
		PeriodoTasa:     amortizacion.PeriodoTasa(req.PeriodoTasa),
		Plazo:           req.Plazo,
		Frecuencia:      amortizacion.Frecuencia(req.FrecuenciaPago),
		Metodo:          req.Metodo,
		FechaInicioPago: inicio,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.SimulacionResponse{
		CuotaPeriodica: plan[0].Monto,
		TotalCapital:   amortizacion.TotalCapital(plan),
		TotalInteres:   amortizacion.TotalInteres(plan),
		Cuotas:         make([]dto.CuotaResponse, len(plan)),
	}
	resp.TotalAPagar = resp.TotalCapital.Add(resp.TotalInteres)
	for i, c := range plan {
		resp.Cuotas[i] = dto.CuotaResponse{
			NumeroCuota:             c.Numero,
			FechaVencimiento:        formatFecha(c.FechaVencimiento),
			MontoCuota:              c.Monto,
			Capital:                 c.Capital,
			Interes:                 c.Interes,
			SaldoPendiente:          c.Monto,
			Estado:                  model.CuotaPendiente,
			MontoPenalidadAcumulada: decimal.Zero,
			MontoTotalAPagar:        c.Monto,
			TotalPagado:             decimal.Zero,
		}
	}
	return resp, nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (s *prestamoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PrestamoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Préstamo")
	}
	resp := prestamoToResponse(p, true)
	return &resp, nil
}

func (s *prestamoService) Listar(ctx context.Context, f dto.PrestamoFilter) ([]dto.PrestamoResponse, error) {
	filtro := repository.PrestamoFiltro{
		Estado: f.Estado, Frecuencia: f.Frecuencia, Q: strings.TrimSpace(f.Q),
		Limit: f.Limit, Offset: f.Offset,
	}
	if f.TipoPrestamoID != "" {
		id, err := parseID(f.TipoPrestamoID, "tipo_prestamo_id")
		if err != nil {
			return nil, err
		}
		filtro.TipoPrestamoID = &id
	}
	if f.ClienteID != "" {
		id, err := parseID(f.ClienteID, "cliente_id")
		if err != nil {
			return nil, err
		}
		filtro.ClienteID = &id
	}

	ps, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PrestamoResponse, len(ps))
	for i := range ps {
		resp[i] = prestamoToResponse(&ps[i], false)
	}
	return resp, nil
}

// ── Estado / eliminación ─────────────────────────────────────────────────────

func (s *prestamoService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PrestamoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Préstamo")
	}
	if p.Estado == estado {
		resp := prestamoToResponse(p, true)
		return &resp, nil
	}
	if p.Estado == model.PrestamoPagado {
		return nil, apierror.Validacion("Un préstamo pagado no puede cambiar de estado")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if estado == model.PrestamoPagado {
			pendientes, err := s.cuotas.ContarNoPagadasTx(tx, id)
			if err != nil {
				return err
			}
			if pendientes > 0 {
				return apierror.Validacion("El préstamo tiene %d cuota(s) sin pagar", pendientes)
			}
		}
		return s.repo.UpdateEstadoTx(tx, id, estado)
	})
	if err != nil {
		return nil, noEncontrado(err, "Préstamo")
	}
	log.Info().Str("prestamo_id", id.String()).Str("de", p.Estado).Str("a", estado).Msg("prestamo: cambio de estado")
	p.Estado = estado
	resp := prestamoToResponse(p, true)
	return &resp, nil
}

func (s *prestamoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return noEncontrado(err, "Préstamo")
	}
	log.Warn().Str("prestamo_id", id.String()).Msg("prestamo: eliminado con sus cuotas y pagos")
	return nil
}

// ── Hijos ────────────────────────────────────────────────────────────────────

func (s *prestamoService) AgregarGasto(ctx context.Context, id uuid.UUID, req dto.GastoRequest) (*dto.GastoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Préstamo")
	}
	tgID, err := parseID(req.TipoGastoID, "tipo_gasto_id")
	if err != nil {
		return nil, err
	}
	tg, err := s.tiposGasto.FindByID(ctx, tgID)
	if err != nil {
		return nil, noEncontrado(err, "Tipo de gasto")
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.Validacion("El monto del gasto debe ser mayor que cero")
	}
	// the schedule already amortizes the financed gastos; a new one would
	// belong to no cuota and not reduce the disbursement
	if p.ManejoGastos == model.GastosFinanciar && len(p.Cuotas) > 0 {
		return nil, apierror.Validacion("El préstamo financia sus gastos en las cuotas; no se pueden agregar gastos después de generarlas")
	}

	g := model.GastoPrestamo{PrestamoID: p.ID, TipoGastoID: tg.ID, Monto: amortizacion.Redondear(req.Monto)}
	p.Gastos = append(p.Gastos, g)
	if p.MontoDesembolsado().IsNegative() {
		return nil, apierror.Validacion("Los gastos superan el monto del préstamo")
	}
	if err := s.repo.AddGasto(ctx, &g); err != nil {
		return nil, err
	}
	g.TipoGasto = tg
	resp := gastoToResponse(&g)
	return &resp, nil
}

func (s *prestamoService) AgregarRequisito(ctx context.Context, id uuid.UUID, req dto.RequisitoRequest) (*dto.RequisitoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Préstamo")
	}
	if req.ValorEstimado != nil && req.ValorEstimado.IsNegative() {
		return nil, apierror.Validacion("valor_estimado no puede ser negativo")
	}
	r := requisitosDesdeRequest([]dto.RequisitoRequest{req})[0]
	r.PrestamoID = p.ID
	if err := s.repo.AddRequisito(ctx, &r); err != nil {
		return nil, err
	}
	return &dto.RequisitoResponse{ID: r.ID.String(), Tipo: r.Tipo, Descripcion: r.Descripcion, ValorEstimado: r.ValorEstimado}, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func prestamoToResponse(p *model.Prestamo, detalle bool) dto.PrestamoResponse {
	resp := dto.PrestamoResponse{
		ID:                   p.ID.String(),
		ClienteID:            p.ClienteID.String(),
		TipoPrestamoID:       p.TipoPrestamoID.String(),
		Estado:               p.Estado,
		Monto:                p.Monto,
		MontoFinanciado:      p.MontoFinanciado,
		TasaInteres:          p.TasaInteres,
		PeriodoTasa:          p.PeriodoTasa,
		ManejoGastos:         p.ManejoGastos,
		Plazo:                p.Plazo,
		FrecuenciaPago:       p.FrecuenciaPago,
		TipoAmortizacion:     p.TipoAmortizacion,
		FechaDesembolso:      formatFechaOpcional(p.FechaDesembolso),
		FechaInicioPago:      formatFecha(p.FechaInicioPago),
		FechaCreacion:        p.FechaCreacion.Format(time.RFC3339),
		TotalGastosAsociados: p.TotalGastosAsociados(),
		MontoDesembolsado:    p.MontoDesembolsado(),
	}
	if p.Cliente != nil {
		resp.Cliente = p.Cliente.NombreCompleto()
	}
	if p.TipoPrestamo != nil {
		resp.TipoPrestamo = p.TipoPrestamo.Nombre
	}
	if p.GaranteID != nil {
		gid := p.GaranteID.String()
		resp.GaranteID = &gid
	}
	if p.Garante != nil {
		resp.Garante = &p.Garante.NombreCompleto
	}
	if !detalle {
		return resp
	}

	saldo := p.SaldoPendiente()
	resp.SaldoPendiente = &saldo
	resp.Cuotas = make([]dto.CuotaResponse, len(p.Cuotas))
	for i := range p.Cuotas {
		resp.Cuotas[i] = cuotaToResponse(&p.Cuotas[i])
	}
	resp.Gastos = make([]dto.GastoResponse, len(p.Gastos))
	for i := range p.Gastos {
		resp.Gastos[i] = gastoToResponse(&p.Gastos[i])
	}
	resp.Requisitos = make([]dto.RequisitoResponse, len(p.Requisitos))
	for i, r := range p.Requisitos {
		resp.Requisitos[i] = dto.RequisitoResponse{ID: r.ID.String(), Tipo: r.Tipo, Descripcion: r.Descripcion, ValorEstimado: r.ValorEstimado}
	}
	return resp
}

func gastoToResponse(g *model.GastoPrestamo) dto.GastoResponse {
	resp := dto.GastoResponse{
		ID:            g.ID.String(),
		TipoGastoID:   g.TipoGastoID.String(),
		Monto:         g.Monto,
		FechaCreacion: g.FechaCreacion.Format(time.RFC3339),
	}
	if g.TipoGasto != nil {
		resp.TipoGasto = g.TipoGasto.Nombre
	}
	return resp
}

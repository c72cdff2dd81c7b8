package infra

// Payment receipt ticket rendered with go-pdf/fpdf.
// The page width follows ImpresoraConfiguracion.AnchoPapelPx (thermal
// printers at 203 dpi: 384 px = 58 mm roll, 576 px = 80 mm roll). The logo of
// EmpresaConfiguracion is printed when the printer is configured to include it.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	dpiTermica       = 203.0
	anchoPapelPxBase = 576
	anchoMinimoMM    = 40.0
	margenMM         = 3.0
	altoLogoMM       = 18.0
)

// AnchoPapelMM converts the printer's paper width in pixels to millimetres.
func AnchoPapelMM(impresora *model.ImpresoraConfiguracion) float64 {
	px := anchoPapelPxBase
	if impresora != nil && impresora.AnchoPapelPx > 0 {
		px = impresora.AnchoPapelPx
	}
	mm := float64(px) * 25.4 / dpiTermica
	if mm < anchoMinimoMM {
		return anchoMinimoMM
	}
	return mm
}

// RenderRecibo writes the receipt of pago as a PDF to w.
// pago must have Cuota, Cuota.Prestamo and Cuota.Prestamo.Cliente loaded;
// empresa and impresora may be nil.
func RenderRecibo(w io.Writer, pago *model.Pago, empresa *model.EmpresaConfiguracion, impresora *model.ImpresoraConfiguracion) error {
	if pago == nil || pago.Cuota == nil || pago.Cuota.Prestamo == nil {
		return fmt.Errorf("pdf: pago sin cuota o prestamo cargado")
	}
	cuota := pago.Cuota
	prestamo := cuota.Prestamo

	logo := logoImprimible(empresa, impresora)
	ancho := AnchoPapelMM(impresora)
	alto := 140.0
	if logo != "" {
		alto += altoLogoMM + 2
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: ancho, Ht: alto},
	})
	pdf.SetMargins(margenMM, margenMM, margenMM)
	pdf.SetAutoPageBreak(true, margenMM)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := ancho - 2*margenMM
	colEtiqueta := contentW * 0.55
	colValor := contentW - colEtiqueta
	fila := func(etiqueta, valor string) {
		pdf.CellFormat(colEtiqueta, 4.5, tr(etiqueta), "", 0, "L", false, 0, "")
		pdf.CellFormat(colValor, 4.5, tr(valor), "", 1, "R", false, 0, "")
	}
	separador := func() {
		pdf.Ln(1)
		pdf.Line(margenMM, pdf.GetY(), ancho-margenMM, pdf.GetY())
		pdf.Ln(1.5)
	}

	// ── Logo ─────────────────────────────────────────────────────────────────
	if logo != "" {
		opts := fpdf.ImageOptions{ReadDpi: true}
		info := pdf.RegisterImageOptions(logo, opts)
		if pdf.Ok() && info != nil {
			anchoLogo := altoLogoMM * info.Width() / info.Height()
			if anchoLogo > contentW {
				anchoLogo = contentW
			}
			pdf.ImageOptions(logo, (ancho-anchoLogo)/2, pdf.GetY(), anchoLogo, 0, true, opts, 0, "")
			pdf.Ln(2)
		} else {
			// Unreadable logo: print the ticket without it
			pdf.ClearError()
		}
	}

	// ── Header ───────────────────────────────────────────────────────────────
	nombreEmpresa := "Recibo de pago"
	if empresa != nil && empresa.Nombre != "" {
		nombreEmpresa = empresa.Nombre
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(contentW, 5, tr(nombreEmpresa), "", "C", false)

	pdf.SetFont("Helvetica", "", 7)
	if empresa != nil {
		for _, linea := range []*string{empresa.RNC, empresa.Direccion, empresa.Telefono, empresa.Email} {
			if linea != nil && *linea != "" {
				texto := *linea
				if linea == empresa.RNC {
					texto = "RNC: " + texto
				}
				pdf.MultiCell(contentW, 3.5, tr(texto), "", "C", false)
			}
		}
	}
	separador()

	// ── Receipt info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "RECIBO DE PAGO", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	fila("Recibo N°", NumeroRecibo(pago))
	fila("Fecha", pago.FechaPago.Format("02/01/2006 15:04"))
	if prestamo.Cliente != nil {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.MultiCell(contentW, 4, tr("Cliente: "+prestamo.Cliente.NombreCompleto()), "", "L", false)
		pdf.SetFont("Helvetica", "", 7)
		if doc := prestamo.Cliente.Documento(); doc != "" {
			fila("Documento", doc)
		}
	}
	separador()

	// ── Installment ──────────────────────────────────────────────────────────
	fila("Préstamo", strings.ToUpper(prestamo.ID.String()[:8]))
	fila("Cuota", fmt.Sprintf("%d de %d", cuota.NumeroCuota, prestamo.Plazo))
	fila("Vencimiento", cuota.FechaVencimiento.Format("02/01/2006"))
	fila("Monto cuota", FormatMonto(cuota.MontoCuota))
	if cuota.MontoPenalidadAcumulada.IsPositive() {
		fila("Mora", FormatMonto(cuota.MontoPenalidadAcumulada))
	}
	fila("Total a pagar", FormatMonto(cuota.MontoTotalAPagar()))
	separador()

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colEtiqueta, 6, "PAGADO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colValor, 6, FormatMonto(pago.MontoPagado), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	fila("Saldo pendiente", FormatMonto(cuota.SaldoPendiente))
	fila("Estado", strings.ToUpper(cuota.Estado))

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su pago!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// GenerateReciboPDF renders the receipt into storagePath and returns the file path.
func GenerateReciboPDF(pago *model.Pago, empresa *model.EmpresaConfiguracion, impresora *model.ImpresoraConfiguracion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%s.pdf", pago.ID))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderRecibo(f, pago, empresa, impresora); err != nil {
		f.Close()
		os.Remove(filePath)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// NumeroRecibo is the short printable receipt number.
func NumeroRecibo(pago *model.Pago) string {
	return strings.ToUpper(strings.ReplaceAll(pago.ID.String(), "-", "")[:10])
}

// FormatMonto renders an amount as $1,234.56.
func FormatMonto(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	entero, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	signo := ""
	if d.IsNegative() {
		signo = "-"
	}
	return signo + "$" + b.String() + "." + frac
}

func logoImprimible(empresa *model.EmpresaConfiguracion, impresora *model.ImpresoraConfiguracion) string {
	if impresora == nil || !impresora.IncluirLogo || empresa == nil || empresa.Logo == nil || *empresa.Logo == "" {
		return ""
	}
	if _, err := os.Stat(*empresa.Logo); err != nil {
		return ""
	}
	return *empresa.Logo
}

package model

import (
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/mora"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The four entities below are singletons: at most one row each.

// Capital is the institution's lending capital.
type Capital struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MontoInicial  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FechaRegistro time.Time       `gorm:"autoCreateTime"`
}

func (Capital) TableName() string { return "capital" }

// EmpresaConfiguracion identifies the company on receipts.
// Logo is a path to a PNG/JPEG file readable by the server.
type EmpresaConfiguracion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"type:varchar(150);not null"`
	RNC       *string   `gorm:"type:varchar(20);column:rnc"`
	Direccion *string
	Telefono  *string `gorm:"type:varchar(30)"`
	Email     *string `gorm:"type:varchar(150)"`
	Logo      *string
}

func (EmpresaConfiguracion) TableName() string { return "empresa_configuracion" }

// ImpresoraConfiguracion describes the receipt printer.
type ImpresoraConfiguracion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre       string    `gorm:"type:varchar(100);not null"`
	AnchoPapelPx int       `gorm:"not null"`
	IncluirLogo  bool      `gorm:"not null"`
}

func (ImpresoraConfiguracion) TableName() string { return "impresora_configuracion" }

// PoliticaMora is the penalty policy. Tasa is a fraction per Periodo.
// Periodo: "diario" | "mensual"
type PoliticaMora struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Tasa           decimal.Decimal  `gorm:"type:decimal(9,6);not null"`
	Periodo        string           `gorm:"type:varchar(10);not null"`
	DiasGracia     int              `gorm:"not null"`
	Compuesta      bool             `gorm:"not null"`
	TopePorcentaje *decimal.Decimal `gorm:"type:decimal(9,6)"`
}

func (PoliticaMora) TableName() string { return "politica_mora" }

func (p *PoliticaMora) Politica() mora.Politica {
	return mora.Politica{
		Tasa:           p.Tasa,
		Periodo:        mora.Periodo(p.Periodo),
		DiasGracia:     p.DiasGracia,
		Compuesta:      p.Compuesta,
		TopePorcentaje: p.TopePorcentaje,
	}
}

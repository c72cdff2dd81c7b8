package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a borrower. Identity is (TipoDocumento, NumeroDocumento).
// Sexo: "M" | "F" | "O"
// EstadoCivil: "soltero" | "casado" | "union_libre" | "divorciado" | "viudo"
// TipoDocumento: "cedula" | "pasaporte" | "rnc"
type Cliente struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Nombres         string     `gorm:"type:varchar(100);not null;index"`
	Apellidos       string     `gorm:"type:varchar(100);not null;index"`
	Apodo           *string    `gorm:"type:varchar(50)"`
	Sexo            string     `gorm:"type:varchar(1);not null"`
	EstadoCivil     string     `gorm:"type:varchar(20);not null"`
	FechaNacimiento *time.Time `gorm:"type:date"`

	Email     *string `gorm:"type:varchar(150)"`
	Telefono  string  `gorm:"type:varchar(30)"`
	Direccion string

	TipoDocumento   string  `gorm:"type:varchar(20);not null;uniqueIndex:idx_cliente_documento"`
	NumeroDocumento *string `gorm:"type:varchar(30);uniqueIndex:idx_cliente_documento"`

	NombreEmpresa       *string          `gorm:"type:varchar(150)"`
	Cargo               *string          `gorm:"type:varchar(100)"`
	TelefonoTrabajo     *string          `gorm:"type:varchar(30)"`
	IngresosMensuales   *decimal.Decimal `gorm:"type:decimal(14,2)"`
	FechaIngresoTrabajo *time.Time       `gorm:"type:date"`
	TrabajoActual       bool             `gorm:"not null"`

	// Portal access
	UsuarioID             *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Usuario               *Usuario   `gorm:"foreignKey:UsuarioID"`
	DebeCambiarContrasena bool       `gorm:"not null"`

	FechaRegistro time.Time `gorm:"autoCreateTime;index"`
}

func (c *Cliente) NombreCompleto() string {
	return strings.TrimSpace(c.Nombres + " " + c.Apellidos)
}

func (c *Cliente) String() string { return c.NombreCompleto() }

// Documento returns the document number or "" when none is on file.
func (c *Cliente) Documento() string {
	if c.NumeroDocumento == nil {
		return ""
	}
	return strings.TrimSpace(*c.NumeroDocumento)
}

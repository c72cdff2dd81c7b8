package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RolAdministrador = "administrador"
	RolOficial       = "oficial"
	RolCajero        = "cajero"
	RolCliente       = "cliente"
)

// Usuario stores system accounts with role-based access. Staff log in with
// it, and a Cliente may link one for portal access.
// Rol: "administrador" | "oficial" | "cajero" | "cliente"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

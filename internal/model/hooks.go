package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned in Go so the same models work on Postgres and SQLite.

func nuevoID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *Usuario) BeforeCreate(*gorm.DB) error                { nuevoID(&u.ID); return nil }
func (c *Cliente) BeforeCreate(*gorm.DB) error                { nuevoID(&c.ID); return nil }
func (t *TipoPrestamo) BeforeCreate(*gorm.DB) error           { nuevoID(&t.ID); return nil }
func (p *Prestamo) BeforeCreate(*gorm.DB) error               { nuevoID(&p.ID); return nil }
func (t *TipoGasto) BeforeCreate(*gorm.DB) error              { nuevoID(&t.ID); return nil }
func (g *GastoPrestamo) BeforeCreate(*gorm.DB) error          { nuevoID(&g.ID); return nil }
func (g *Garante) BeforeCreate(*gorm.DB) error                { nuevoID(&g.ID); return nil }
func (r *Requisito) BeforeCreate(*gorm.DB) error              { nuevoID(&r.ID); return nil }
func (c *Cuota) BeforeCreate(*gorm.DB) error                  { nuevoID(&c.ID); return nil }
func (p *Pago) BeforeCreate(*gorm.DB) error                   { nuevoID(&p.ID); return nil }
func (c *Capital) BeforeCreate(*gorm.DB) error                { nuevoID(&c.ID); return nil }
func (e *EmpresaConfiguracion) BeforeCreate(*gorm.DB) error   { nuevoID(&e.ID); return nil }
func (i *ImpresoraConfiguracion) BeforeCreate(*gorm.DB) error { nuevoID(&i.ID); return nil }
func (p *PoliticaMora) BeforeCreate(*gorm.DB) error           { nuevoID(&p.ID); return nil }

// Todos lists every persisted model in dependency order, for AutoMigrate.
func Todos() []any {
	return []any{
		&Usuario{},
		&Cliente{},
		&TipoPrestamo{},
		&TipoGasto{},
		&Garante{},
		&Prestamo{},
		&GastoPrestamo{},
		&Requisito{},
		&Cuota{},
		&Pago{},
		&Capital{},
		&EmpresaConfiguracion{},
		&ImpresoraConfiguracion{},
		&PoliticaMora{},
	}
}

package repository

import (
	"context"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClienteFiltro mirrors the client listing filters: free-text search over
// names, document and username, plus sexo/estado civil/registration range.
type ClienteFiltro struct {
	Q           string
	Sexo        string
	EstadoCivil string
	Desde       *time.Time
	Hasta       *time.Time
	Limit       int
	Offset      int
}

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	CreateTx(tx *gorm.DB, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Cliente, error)
	FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Cliente, error)
	FindByDocumento(ctx context.Context, tipo, numero string) (*model.Cliente, error)
	List(ctx context.Context, f ClienteFiltro) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	SetDebeCambiarContrasenaTx(tx *gorm.DB, id uuid.UUID, valor bool) error
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *clienteRepo) CreateTx(tx *gorm.DB, c *model.Cliente) error {
	return tx.Omit(clause.Associations).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Preload("Usuario").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Cliente, error) {
	var cs []model.Cliente
	if len(ids) == 0 {
		return cs, nil
	}
	err := r.db.WithContext(ctx).Preload("Usuario").Where("id IN ?", ids).Find(&cs).Error
	return cs, err
}

func (r *clienteRepo) FindByUsuarioID(ctx context.Context, usuarioID uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "usuario_id = ?", usuarioID).Error
	return &c, err
}

func (r *clienteRepo) FindByDocumento(ctx context.Context, tipo, numero string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Where("tipo_documento = ? AND numero_documento = ?", tipo, numero).
		First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, f ClienteFiltro) ([]model.Cliente, error) {
	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Preload("Usuario")
	if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Joins("LEFT JOIN usuarios ON usuarios.id = clientes.usuario_id").
			Where(`LOWER(clientes.nombres) LIKE LOWER(?) OR LOWER(clientes.apellidos) LIKE LOWER(?)
				OR clientes.numero_documento LIKE ? OR LOWER(usuarios.username) LIKE LOWER(?)`,
				like, like, like, like)
	}
	if f.Sexo != "" {
		q = q.Where("clientes.sexo = ?", f.Sexo)
	}
	if f.EstadoCivil != "" {
		q = q.Where("clientes.estado_civil = ?", f.EstadoCivil)
	}
	if f.Desde != nil {
		q = q.Where("clientes.fecha_registro >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("clientes.fecha_registro < ?", *f.Hasta)
	}
	var cs []model.Cliente
	err := paginar(q, f.Limit, f.Offset).Order("clientes.apellidos, clientes.nombres").Find(&cs).Error
	return cs, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *clienteRepo) SetDebeCambiarContrasenaTx(tx *gorm.DB, id uuid.UUID, valor bool) error {
	return tx.Model(&model.Cliente{}).Where("id = ?", id).Update("debe_cambiar_contrasena", valor).Error
}

const limitePorDefecto = 100

// paginar applies limit/offset with a default page size.
func paginar(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 500 {
		limit = limitePorDefecto
	}
	q = q.Limit(limit)
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

package infra

import (
	"fmt"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the configured driver, runs AutoMigrate for every model
// and then applies the idempotent SQL patches GORM cannot express.
//
// driver "sqlite" is meant for local single-node use and tests: SQLite has no
// row locks, so the pool is pinned to one connection and writers serialize.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("driver de base de datos desconocido: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates every table and applies the schema patches.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Todos()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Postgres only: the singleton tables get a unique index on a constant
// expression, so a second row fails at the database even if two requests race
// past the service-level count check.
func applySchemaPatches(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	patches := []struct{ descr, sql string }{
		{"singleton capital",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_capital_singleton ON capital ((true))`},
		{"singleton empresa_configuracion",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_empresa_configuracion_singleton ON empresa_configuracion ((true))`},
		{"singleton impresora_configuracion",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_impresora_configuracion_singleton ON impresora_configuracion ((true))`},
		{"singleton politica_mora",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_politica_mora_singleton ON politica_mora ((true))`},
		// the penalty sweep scans unpaid cuotas by due date
		{"partial index cuotas por cobrar",
			`CREATE INDEX IF NOT EXISTS idx_cuotas_por_cobrar
			     ON cuotas (fecha_vencimiento)
			     WHERE estado <> 'pagada'`},
		{"check saldo_pendiente no negativo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cuotas_saldo_no_negativo') THEN
    ALTER TABLE cuotas ADD CONSTRAINT chk_cuotas_saldo_no_negativo CHECK (saldo_pendiente >= 0);
  END IF;
END $$`},
		{"check pagos monto positivo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pagos_monto_positivo') THEN
    ALTER TABLE pagos ADD CONSTRAINT chk_pagos_monto_positivo CHECK (monto_pagado > 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

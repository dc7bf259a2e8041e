package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caludio70/boletosventa-sub000/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for every table and then applies the idempotent SQL patches GORM cannot
// express (partial and composite indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and applies schema patches.
// Integration tests call it directly against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.LoteImportacion{},
		&model.MovimientoTicket{},
		&model.TasaInteres{},
		&model.InflacionMensual{},
		&model.Documento{},
		&model.Usuario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate cannot
// express on its own. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// ledger reads always walk rows in import order
		{"idx_movimientos_ticket_orden", `
CREATE INDEX IF NOT EXISTS idx_movimientos_ticket_orden
    ON movimientos_ticket (created_at, lote_id, orden)`},
		{"idx_movimientos_ticket_cliente_upper", `
CREATE INDEX IF NOT EXISTS idx_movimientos_ticket_cliente_upper
    ON movimientos_ticket (UPPER(codigo_cliente))`},
		// partial index for the retry cron query
		{"idx_documentos_pending_retry", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_documentos_pending_retry') THEN
    CREATE INDEX idx_documentos_pending_retry
        ON documentos (next_retry_at)
        WHERE estado = 'error' AND next_retry_at IS NOT NULL;
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

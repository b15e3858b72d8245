package infra

import (
	"fmt"

	"poultrycore/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches GORM
// cannot express: the append-only triggers, and the seed rows for the reason
// code vocabulary and the grading parameters.
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

// RunMigrations applies AutoMigrate plus the SQL patches. Safe to re-run.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.Supplier{},
		&model.SKU{},
		&model.ReasonCode{},
		&model.WastageConfig{},
		&model.LedgerEntry{},
		&model.Purchase{},
		&model.ProcessingRun{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockTransfer{},
		&model.Settlement{},
		&model.VarianceLog{},
		&model.StaffPointEntry{},
		&model.StaffMonthlyPerformance{},
		&model.GradingConfig{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL/DML that AutoMigrate cannot handle.
// Every statement is guarded (IF NOT EXISTS / ON CONFLICT DO NOTHING) so
// re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Append-only enforcement. The ledger and the point journal are
		// immutable at the storage level: mutations fail even for raw SQL.
		{"forbid_mutation function", `
CREATE OR REPLACE FUNCTION forbid_mutation() RETURNS trigger AS $$
BEGIN
  RAISE EXCEPTION '% is append-only: % not allowed', TG_TABLE_NAME, TG_OP;
END;
$$ LANGUAGE plpgsql`},
		{"inventory_ledger append-only trigger", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_inventory_ledger_append_only') THEN
    CREATE TRIGGER trg_inventory_ledger_append_only
      BEFORE UPDATE OR DELETE ON inventory_ledger
      FOR EACH ROW EXECUTE FUNCTION forbid_mutation();
  END IF;
END $$`},
		{"staff_point_entries append-only trigger", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_staff_point_entries_append_only') THEN
    CREATE TRIGGER trg_staff_point_entries_append_only
      BEFORE UPDATE OR DELETE ON staff_point_entries
      FOR EACH ROW EXECUTE FUNCTION forbid_mutation();
  END IF;
END $$`},

		// Reason code vocabulary. Point values here are the defaults; codes
		// flagged is_configurable accept edits through the grading config API.
		{"seed ledger_reason_codes", `
INSERT INTO ledger_reason_codes
  (code, description, direction, affects_stock, points_value, points_per_kg, is_configurable, updated_at)
VALUES
  ('PURCHASE_RECEIVED',  'Live birds received from supplier',          'CREDIT', true,  0,   false, false, now()),
  ('PROCESSING_DEBIT',   'Live weight consumed by processing',         'DEBIT',  true,  0,   false, false, now()),
  ('PROCESSING_CREDIT',  'Processed weight produced',                  'CREDIT', true,  0,   false, false, now()),
  ('WASTAGE',            'Processing loss (audit only)',               'DEBIT',  false, 0,   false, false, now()),
  ('SALE_DEBIT',         'Weight sold to customer',                    'DEBIT',  true,  0,   false, false, now()),
  ('VARIANCE_POSITIVE',  'Approved surplus from settlement',           'CREDIT', true,  2,   true,  true,  now()),
  ('VARIANCE_NEGATIVE',  'Shortage deducted at settlement',            'DEBIT',  true,  -5,  true,  true,  now()),
  ('MANUAL_ADJUSTMENT',  'Admin correction',                           'BOTH',   true,  0,   false, false, now()),
  ('TRANSFER_OUT',       'Stock transferred to another store',         'DEBIT',  true,  0,   false, false, now()),
  ('TRANSFER_IN',        'Stock received from another store',          'CREDIT', true,  0,   false, false, now()),
  ('SETTLEMENT_ZERO_VARIANCE',   'Clean daily settlement bonus',       '',       false, 10,  false, true,  now()),
  ('MISSED_SETTLEMENT',          'No settlement submitted for the day','',       false, -20, false, true,  now()),
  ('REPEATED_NEGATIVE_VARIANCE', 'Three shortages within seven days',  '',       false, -30, false, true,  now())
ON CONFLICT (code) DO NOTHING`},

		// Global grading defaults (store_id NULL).
		{"seed grading_config", `
INSERT INTO grading_config (store_id, key, value, updated_at)
VALUES
  (NULL, 'GRADE_A_PLUS_MIN',    2.0,    now()),
  (NULL, 'GRADE_A_MIN',         1.0,    now()),
  (NULL, 'GRADE_B_MIN',         0.5,    now()),
  (NULL, 'GRADE_C_MIN',         0.0,    now()),
  (NULL, 'GRADE_D_MIN',         -0.5,   now()),
  (NULL, 'BONUS_RATE_A_PLUS',   2.0,    now()),
  (NULL, 'BONUS_RATE_A',        1.0,    now()),
  (NULL, 'BONUS_RATE_B',        0.5,    now()),
  (NULL, 'PENALTY_RATE_C',      0.0,    now()),
  (NULL, 'PENALTY_RATE_D',      0.5,    now()),
  (NULL, 'PENALTY_RATE_E',      1.0,    now()),
  (NULL, 'BONUS_CAP_MONTHLY',   5000,   now()),
  (NULL, 'PENALTY_CAP_MONTHLY', 2000,   now())
ON CONFLICT DO NOTHING`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

package database

import (
	"hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Hostel{},
		&models.Room{},
		&models.Student{},
		&models.Allocation{},
		&models.MaintenanceStaff{},
		&models.Complaint{},
		&models.ComplaintLog{},
		&models.FeePayment{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateConstraints creates the indexes and checks GORM does not express:
// the partial unique index behind "at most one active allocation per
// student" and the occupancy/capacity check constraints. These are the
// storage-level last line of defense; the service layer enforces the same
// rules inside its transactions.
func (db *DB) CreateConstraints() error {
	log := logger.New("database").Function("CreateConstraints")
	log.Info("Creating additional database constraints")

	statements := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_allocations_one_active_per_student ON allocations(student_id) WHERE is_active AND deleted_at IS NULL",
		"ALTER TABLE rooms DROP CONSTRAINT IF EXISTS chk_rooms_capacity_bounds",
		"ALTER TABLE rooms ADD CONSTRAINT chk_rooms_capacity_bounds CHECK (capacity >= 1 AND capacity <= 10)",
		"ALTER TABLE rooms DROP CONSTRAINT IF EXISTS chk_rooms_occupancy_bounds",
		"ALTER TABLE rooms ADD CONSTRAINT chk_rooms_occupancy_bounds CHECK (current_occupancy >= 0 AND current_occupancy <= capacity)",
		"ALTER TABLE complaints DROP CONSTRAINT IF EXISTS chk_complaints_priority_bounds",
		"ALTER TABLE complaints ADD CONSTRAINT chk_complaints_priority_bounds CHECK (priority >= 1 AND priority <= 5)",
		"CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_complaint_logs_created_at ON complaint_logs(created_at DESC)",
	}

	for _, statement := range statements {
		if err := db.SQL.Exec(statement).Error; err != nil {
			return log.Err("Failed to apply constraint", err, "sql", statement)
		}
	}

	log.Info("Additional database constraints created")
	return nil
}

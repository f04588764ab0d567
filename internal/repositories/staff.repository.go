package repositories

import (
	"context"
	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MaintenanceStaff, error)
	List(ctx context.Context, tx *gorm.DB, availableOnly bool) ([]*MaintenanceStaff, error)
	Create(ctx context.Context, tx *gorm.DB, staff *MaintenanceStaff) error
	SetAvailability(ctx context.Context, tx *gorm.DB, id uuid.UUID, available bool) error
}

type staffRepository struct{}

func NewStaffRepository() StaffRepository {
	return &staffRepository{}
}

func (r *staffRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MaintenanceStaff, error) {
	var staff MaintenanceStaff
	if err := tx.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	availableOnly bool,
) ([]*MaintenanceStaff, error) {
	log := logger.New("staffRepository").Function("List")

	var staff []*MaintenanceStaff
	query := tx.WithContext(ctx)
	if availableOnly {
		query = query.Where("is_available")
	}

	if err := query.Order("full_name ASC").Find(&staff).Error; err != nil {
		return nil, log.Err("failed to list maintenance staff", err)
	}

	return staff, nil
}

func (r *staffRepository) Create(ctx context.Context, tx *gorm.DB, staff *MaintenanceStaff) error {
	log := logger.New("staffRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(staff).Error; err != nil {
		return log.Err("failed to create maintenance staff", err, "fullName", staff.FullName)
	}

	return nil
}

func (r *staffRepository) SetAvailability(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	available bool,
) error {
	log := logger.New("staffRepository").Function("SetAvailability")

	result := tx.WithContext(ctx).Model(&MaintenanceStaff{}).
		Where("id = ?", id).
		Update("is_available", available)
	if result.Error != nil {
		return log.Err("failed to update staff availability", result.Error, "staffID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

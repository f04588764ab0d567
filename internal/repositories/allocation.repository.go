package repositories

import (
	"context"
	"errors"
	. "hosteldesk/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrActiveAllocationExists surfaces a 23505 from the partial unique index
// idx_allocations_one_active_per_student. Reaching it means something bypassed
// the allocation service; the index is the storage-level backstop.
var ErrActiveAllocationExists = errors.New("student already has an active allocation")

const uniqueViolationCode = "23505"

type AllocationRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Allocation, error)
	GetActiveByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, lock bool) (*Allocation, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*Allocation, error)
	Create(ctx context.Context, tx *gorm.DB, allocation *Allocation) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID, checkout time.Time) error
}

type allocationRepository struct{}

func NewAllocationRepository() AllocationRepository {
	return &allocationRepository{}
}

func (r *allocationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Allocation, error) {
	var allocation Allocation
	if err := tx.WithContext(ctx).First(&allocation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

// GetActiveByStudent returns the student's single active allocation, or
// gorm.ErrRecordNotFound. With lock set, the row is locked FOR UPDATE so a
// concurrent re-assignment of the same student serializes here.
func (r *allocationRepository) GetActiveByStudent(
	ctx context.Context,
	tx *gorm.DB,
	studentID uuid.UUID,
	lock bool,
) (*Allocation, error) {
	query := tx.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var allocation Allocation
	err := query.First(&allocation, "student_id = ? AND is_active", studentID).Error
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (r *allocationRepository) ListByStudent(
	ctx context.Context,
	tx *gorm.DB,
	studentID uuid.UUID,
) ([]*Allocation, error) {
	log := logger.New("allocationRepository").Function("ListByStudent")

	var allocations []*Allocation
	err := tx.WithContext(ctx).
		Preload("Room").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, log.Err("failed to list allocations", err, "studentID", studentID)
	}

	return allocations, nil
}

func (r *allocationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	allocation *Allocation,
) error {
	log := logger.New("allocationRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(allocation).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
			return ErrActiveAllocationExists
		}
		return log.Err("failed to create allocation", err, "studentID", allocation.StudentID)
	}

	return nil
}

func (r *allocationRepository) Deactivate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	checkout time.Time,
) error {
	log := logger.New("allocationRepository").Function("Deactivate")

	result := tx.WithContext(ctx).Model(&Allocation{}).
		Where("id = ? AND is_active", id).
		Updates(map[string]any{
			"is_active":       false,
			"actual_checkout": datatypes.Date(checkout),
		})
	if result.Error != nil {
		return log.Err("failed to deactivate allocation", result.Error, "allocationID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

package repositories

import (
	"context"
	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HostelRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Hostel, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Hostel, error)
	Create(ctx context.Context, tx *gorm.DB, hostel *Hostel) error
	AdjustTotalRooms(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
}

type hostelRepository struct{}

func NewHostelRepository() HostelRepository {
	return &hostelRepository{}
}

func (r *hostelRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Hostel, error) {
	var hostel Hostel
	if err := tx.WithContext(ctx).First(&hostel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (r *hostelRepository) List(ctx context.Context, tx *gorm.DB) ([]*Hostel, error) {
	log := logger.New("hostelRepository").Function("List")

	var hostels []*Hostel
	if err := tx.WithContext(ctx).Order("name ASC").Find(&hostels).Error; err != nil {
		return nil, log.Err("failed to list hostels", err)
	}

	return hostels, nil
}

func (r *hostelRepository) Create(ctx context.Context, tx *gorm.DB, hostel *Hostel) error {
	log := logger.New("hostelRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(hostel).Error; err != nil {
		return log.Err("failed to create hostel", err, "name", hostel.Name)
	}

	return nil
}

// AdjustTotalRooms keeps the denormalized total_rooms counter in step with
// room creation and removal. Counter updates ride in the same transaction as
// the room write; nothing recomputes the value with COUNT at read time.
func (r *hostelRepository) AdjustTotalRooms(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	delta int,
) error {
	log := logger.New("hostelRepository").Function("AdjustTotalRooms")

	result := tx.WithContext(ctx).Model(&Hostel{}).
		Where("id = ?", id).
		Update("total_rooms", gorm.Expr("GREATEST(total_rooms + ?, 0)", delta))
	if result.Error != nil {
		return log.Err("failed to adjust total rooms", result.Error, "hostelID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

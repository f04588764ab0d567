package repositories

import (
	"context"
	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomRepository is the room ledger. ReserveSlot and ReleaseSlot are the only
// two code paths in the repository that touch current_occupancy; both expect
// to run inside the caller's transaction so the counter and the allocation
// rows commit or roll back together.
type RoomRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error)
	List(ctx context.Context, tx *gorm.DB, hostelID *uuid.UUID) ([]*Room, error)
	Create(ctx context.Context, tx *gorm.DB, room *Room) error
	SetAvailability(ctx context.Context, tx *gorm.DB, id uuid.UUID, available bool) error
	ReserveSlot(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (bool, error)
	ReleaseSlot(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) error
	CountActiveAllocations(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (int64, error)
}

type roomRepository struct{}

func NewRoomRepository() RoomRepository {
	return &roomRepository{}
}

func (r *roomRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDForUpdate takes a row lock on the room for the remainder of the
// transaction. Used by Assign so two concurrent assignments against the same
// room serialize before the occupancy check.
func (r *roomRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	hostelID *uuid.UUID,
) ([]*Room, error) {
	log := logger.New("roomRepository").Function("List")

	var rooms []*Room
	query := tx.WithContext(ctx).Preload("Hostel")
	if hostelID != nil {
		query = query.Where("hostel_id = ?", *hostelID)
	}

	if err := query.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, log.Err("failed to list rooms", err)
	}

	return rooms, nil
}

func (r *roomRepository) Create(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := logger.New("roomRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(room).Error; err != nil {
		return log.Err("failed to create room", err, "roomNumber", room.RoomNumber)
	}

	return nil
}

func (r *roomRepository) SetAvailability(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	available bool,
) error {
	log := logger.New("roomRepository").Function("SetAvailability")

	result := tx.WithContext(ctx).Model(&Room{}).
		Where("id = ?", id).
		Update("is_available", available)
	if result.Error != nil {
		return log.Err("failed to update room availability", result.Error, "roomID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ReserveSlot performs the atomic check-then-increment. The guard lives in
// the WHERE clause so two transactions can never both observe a free slot
// and both take it; the loser's UPDATE matches zero rows. Returns false when
// no slot was taken, for any reason — the caller distinguishes full from
// missing from unavailable with a follow-up read.
func (r *roomRepository) ReserveSlot(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
) (bool, error) {
	log := logger.New("roomRepository").Function("ReserveSlot")

	result := tx.WithContext(ctx).Model(&Room{}).
		Where("id = ? AND is_available AND current_occupancy < capacity", roomID).
		Update("current_occupancy", gorm.Expr("current_occupancy + 1"))
	if result.Error != nil {
		return false, log.Err("failed to reserve slot", result.Error, "roomID", roomID)
	}

	return result.RowsAffected > 0, nil
}

// ReleaseSlot decrements occupancy, floored at zero. The floor should never
// be hit while the invariants hold; it matches the ledger's policy of never
// letting a stray double-release push the counter negative.
func (r *roomRepository) ReleaseSlot(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) error {
	log := logger.New("roomRepository").Function("ReleaseSlot")

	result := tx.WithContext(ctx).Model(&Room{}).
		Where("id = ?", roomID).
		Update("current_occupancy", gorm.Expr("GREATEST(current_occupancy - 1, 0)"))
	if result.Error != nil {
		return log.Err("failed to release slot", result.Error, "roomID", roomID)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CountActiveAllocations recounts from the allocations table. Only the
// occupancy audit job uses this; everything else trusts the counter.
func (r *roomRepository) CountActiveAllocations(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&Allocation{}).
		Where("room_id = ? AND is_active", roomID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxRoomCapacity = 10

// Room carries the authoritative (capacity, current_occupancy) pair. The
// occupancy counter is mutated only through RoomRepository.ReserveSlot and
// RoomRepository.ReleaseSlot; every other component treats it as read-only.
type Room struct {
	BaseUUIDModel
	HostelID         uuid.UUID `gorm:"type:uuid;not null;index:idx_rooms_hostel;uniqueIndex:idx_rooms_hostel_number" json:"hostelId"`
	RoomNumber       string    `gorm:"type:text;not null;uniqueIndex:idx_rooms_hostel_number"                       json:"roomNumber"`
	Capacity         int       `gorm:"type:integer;not null"                                                        json:"capacity"`
	CurrentOccupancy int       `gorm:"type:integer;not null;default:0"                                              json:"currentOccupancy"`
	IsAvailable      bool      `gorm:"type:bool;not null;default:true"                                              json:"isAvailable"`
	Floor            *int      `gorm:"type:integer"                                                                 json:"floor,omitempty"`

	// Relationships
	Hostel *Hostel `gorm:"foreignKey:HostelID" json:"hostel,omitempty"`
}

func (r *Room) FreeSlots() int {
	free := r.Capacity - r.CurrentOccupancy
	if free < 0 {
		return 0
	}
	return free
}

func (r *Room) IsFull() bool {
	return r.CurrentOccupancy >= r.Capacity
}

func (r *Room) validate() error {
	if r.RoomNumber == "" {
		return gorm.ErrInvalidValue
	}
	if r.Capacity < 1 || r.Capacity > MaxRoomCapacity {
		return gorm.ErrInvalidValue
	}
	if r.CurrentOccupancy < 0 || r.CurrentOccupancy > r.Capacity {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.HostelID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.validate()
}

func (r *Room) BeforeUpdate(tx *gorm.DB) (err error) {
	return r.validate()
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Allocation is a time-bounded assignment of one student to one room.
// Rows are deactivated on checkout or re-assignment, never deleted, so the
// table doubles as the stay history. At most one row per student may have
// is_active = true at any instant; the partial unique index created by the
// SQL migrations enforces that below the application layer.
type Allocation struct {
	BaseUUIDModel
	StudentID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_allocations_student" json:"studentId"`
	RoomID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_allocations_room"    json:"roomId"`
	IsActive         bool            `gorm:"type:bool;not null;default:true"                  json:"isActive"`
	AllocationDate   datatypes.Date  `gorm:"type:date;not null"                               json:"allocationDate"`
	ExpectedCheckout *datatypes.Date `gorm:"type:date"                                        json:"expectedCheckout,omitempty"`
	ActualCheckout   *datatypes.Date `gorm:"type:date"                                        json:"actualCheckout,omitempty"`

	// Relationships
	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Room    *Room    `gorm:"foreignKey:RoomID"    json:"room,omitempty"`
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) (err error) {
	if a.StudentID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if a.RoomID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return nil
}

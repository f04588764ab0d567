package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaintenanceStaff is read by complaint assignment and never mutated by the
// complaint workflow itself; availability is flipped by hostel admins.
type MaintenanceStaff struct {
	BaseUUIDModel
	FullName       string            `gorm:"type:text;not null"              json:"fullName"`
	Specialization ComplaintCategory `gorm:"type:text;not null"              json:"specialization"`
	IsAvailable    bool              `gorm:"type:bool;not null;default:true" json:"isAvailable"`
	HostelID       *uuid.UUID        `gorm:"type:uuid;index:idx_staff_hostel" json:"hostelId,omitempty"`
	Phone          *string           `gorm:"type:text"                       json:"phone,omitempty"`

	// Relationships
	Hostel *Hostel `gorm:"foreignKey:HostelID" json:"hostel,omitempty"`
}

func (ms *MaintenanceStaff) BeforeCreate(tx *gorm.DB) (err error) {
	if ms.FullName == "" {
		return gorm.ErrInvalidValue
	}
	if !ms.Specialization.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

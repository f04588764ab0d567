package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintCategory string

const (
	CategoryElectrical  ComplaintCategory = "electrical"
	CategoryPlumbing    ComplaintCategory = "plumbing"
	CategoryFurniture   ComplaintCategory = "furniture"
	CategoryCleaning    ComplaintCategory = "cleaning"
	CategoryPestControl ComplaintCategory = "pest_control"
	CategoryInternet    ComplaintCategory = "internet"
	CategorySecurity    ComplaintCategory = "security"
	CategoryOther       ComplaintCategory = "other"
)

func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryElectrical, CategoryPlumbing, CategoryFurniture, CategoryCleaning,
		CategoryPestControl, CategoryInternet, CategorySecurity, CategoryOther:
		return true
	}
	return false
}

type ComplaintStatus string

const (
	StatusOpen       ComplaintStatus = "open"
	StatusAssigned   ComplaintStatus = "assigned"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusClosed     ComplaintStatus = "closed"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

func ValidPriority(p int) bool {
	return p >= PriorityHighest && p <= PriorityLowest
}

// Complaint is a maintenance ticket. Status may move between any two values;
// the only hard rule is that "assigned" requires an assigned staff member.
// The three lifecycle timestamps are set the first time the matching status
// is reached and never overwritten afterwards.
type Complaint struct {
	BaseUUIDModel
	StudentID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_complaints_student"  json:"studentId"`
	RoomID          uuid.UUID         `gorm:"type:uuid;not null;index:idx_complaints_room"     json:"roomId"`
	Category        ComplaintCategory `gorm:"type:text;not null;index:idx_complaints_category" json:"category"`
	Status          ComplaintStatus   `gorm:"type:text;not null;default:'open';index:idx_complaints_status" json:"status"`
	Priority        int               `gorm:"type:integer;not null;default:3"                  json:"priority"`
	Title           string            `gorm:"type:text;not null"                               json:"title"`
	Description     string            `gorm:"type:text;not null"                               json:"description"`
	AssignedStaffID *uuid.UUID        `gorm:"type:uuid;index:idx_complaints_staff"             json:"assignedStaffId,omitempty"`
	ResolutionNotes *string           `gorm:"type:text"                                        json:"resolutionNotes,omitempty"`
	AssignedAt      *time.Time        `gorm:"type:timestamp"                                   json:"assignedAt,omitempty"`
	ResolvedAt      *time.Time        `gorm:"type:timestamp"                                   json:"resolvedAt,omitempty"`
	ClosedAt        *time.Time        `gorm:"type:timestamp"                                   json:"closedAt,omitempty"`

	// Relationships
	Student       *Student          `gorm:"foreignKey:StudentID"       json:"student,omitempty"`
	Room          *Room             `gorm:"foreignKey:RoomID"          json:"room,omitempty"`
	AssignedStaff *MaintenanceStaff `gorm:"foreignKey:AssignedStaffID" json:"assignedStaff,omitempty"`
}

func (c *Complaint) validate() error {
	if c.StudentID == uuid.Nil || c.RoomID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if !c.Category.Valid() {
		return gorm.ErrInvalidValue
	}
	if !c.Status.Valid() {
		return gorm.ErrInvalidValue
	}
	if !ValidPriority(c.Priority) {
		return gorm.ErrInvalidValue
	}
	if c.Title == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.Status == "" {
		c.Status = StatusOpen
	}
	if c.Priority == 0 {
		c.Priority = PriorityDefault
	}
	return c.validate()
}

func (c *Complaint) BeforeUpdate(tx *gorm.DB) (err error) {
	return c.validate()
}

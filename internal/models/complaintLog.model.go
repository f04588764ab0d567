package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintLog is the append-only audit trail of complaint status
// transitions. One row is written for every actual status change, including
// the creation transition (OldStatus nil, NewStatus open). Nothing in the
// codebase updates or deletes these rows.
type ComplaintLog struct {
	BaseUUIDModel
	ComplaintID uuid.UUID        `gorm:"type:uuid;not null;index:idx_complaint_logs_complaint" json:"complaintId"`
	OldStatus   *ComplaintStatus `gorm:"type:text"          json:"oldStatus,omitempty"`
	NewStatus   ComplaintStatus  `gorm:"type:text;not null" json:"newStatus"`
	ChangedBy   string           `gorm:"type:text;not null" json:"changedBy"`
	Note        string           `gorm:"type:text"          json:"note"`

	// Relationships
	Complaint *Complaint `gorm:"foreignKey:ComplaintID" json:"complaint,omitempty"`
}

func (cl *ComplaintLog) BeforeCreate(tx *gorm.DB) (err error) {
	if cl.ComplaintID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if !cl.NewStatus.Valid() {
		return gorm.ErrInvalidValue
	}
	if cl.ChangedBy == "" {
		cl.ChangedBy = "system"
	}
	return nil
}

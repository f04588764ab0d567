package repositories

import (
	"context"
	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintLogRepository is append-only. There is deliberately no update or
// delete; the audit trail is only ever extended.
type ComplaintLogRepository interface {
	Append(ctx context.Context, tx *gorm.DB, entry *ComplaintLog) error
	ListByComplaint(ctx context.Context, tx *gorm.DB, complaintID uuid.UUID) ([]*ComplaintLog, error)
}

type complaintLogRepository struct{}

func NewComplaintLogRepository() ComplaintLogRepository {
	return &complaintLogRepository{}
}

func (r *complaintLogRepository) Append(ctx context.Context, tx *gorm.DB, entry *ComplaintLog) error {
	log := logger.New("complaintLogRepository").Function("Append")

	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to append complaint log", err, "complaintID", entry.ComplaintID)
	}

	return nil
}

func (r *complaintLogRepository) ListByComplaint(
	ctx context.Context,
	tx *gorm.DB,
	complaintID uuid.UUID,
) ([]*ComplaintLog, error) {
	log := logger.New("complaintLogRepository").Function("ListByComplaint")

	var entries []*ComplaintLog
	err := tx.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, log.Err("failed to list complaint logs", err, "complaintID", complaintID)
	}

	return entries, nil
}

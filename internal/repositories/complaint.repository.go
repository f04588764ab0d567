package repositories

import (
	"context"
	. "hosteldesk/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ComplaintFilter struct {
	StudentID *uuid.UUID
	RoomID    *uuid.UUID
	Status    *ComplaintStatus
	Category  *ComplaintCategory
}

type ComplaintRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Complaint, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Complaint, error)
	List(ctx context.Context, tx *gorm.DB, filter ComplaintFilter) ([]*Complaint, error)
	ListStaleActive(ctx context.Context, tx *gorm.DB, olderThan time.Time) ([]*Complaint, error)
	Create(ctx context.Context, tx *gorm.DB, complaint *Complaint) error
	Save(ctx context.Context, tx *gorm.DB, complaint *Complaint) error
}

type complaintRepository struct{}

func NewComplaintRepository() ComplaintRepository {
	return &complaintRepository{}
}

func (r *complaintRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Complaint, error) {
	var complaint Complaint
	err := tx.WithContext(ctx).
		Preload("Student").
		Preload("Room").
		Preload("AssignedStaff").
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Complaint, error) {
	var complaint Complaint
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ComplaintFilter,
) ([]*Complaint, error) {
	log := logger.New("complaintRepository").Function("List")

	query := tx.WithContext(ctx).Preload("Room").Preload("AssignedStaff")
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	var complaints []*Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, log.Err("failed to list complaints", err)
	}

	return complaints, nil
}

// ListStaleActive returns open and assigned complaints created before the
// cutoff; the SLA escalation job feeds on this.
func (r *complaintRepository) ListStaleActive(
	ctx context.Context,
	tx *gorm.DB,
	olderThan time.Time,
) ([]*Complaint, error) {
	log := logger.New("complaintRepository").Function("ListStaleActive")

	var complaints []*Complaint
	err := tx.WithContext(ctx).
		Where("status IN ? AND created_at < ? AND priority > ?",
			[]ComplaintStatus{StatusOpen, StatusAssigned}, olderThan, PriorityHighest).
		Order("created_at ASC").
		Find(&complaints).Error
	if err != nil {
		return nil, log.Err("failed to list stale complaints", err)
	}

	return complaints, nil
}

func (r *complaintRepository) Create(ctx context.Context, tx *gorm.DB, complaint *Complaint) error {
	log := logger.New("complaintRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(complaint).Error; err != nil {
		return log.Err("failed to create complaint", err, "studentID", complaint.StudentID)
	}

	return nil
}

func (r *complaintRepository) Save(ctx context.Context, tx *gorm.DB, complaint *Complaint) error {
	log := logger.New("complaintRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(complaint).Error; err != nil {
		return log.Err("failed to save complaint", err, "complaintID", complaint.ID)
	}

	return nil
}

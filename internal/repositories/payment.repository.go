package repositories

import (
	"context"
	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *FeePayment) error
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*FeePayment, error)
}

type paymentRepository struct{}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *FeePayment) error {
	log := logger.New("paymentRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
		return log.Err("failed to create payment", err, "studentID", payment.StudentID)
	}

	return nil
}

func (r *paymentRepository) ListByStudent(
	ctx context.Context,
	tx *gorm.DB,
	studentID uuid.UUID,
) ([]*FeePayment, error) {
	log := logger.New("paymentRepository").Function("ListByStudent")

	var payments []*FeePayment
	err := tx.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("paid_on DESC, created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, log.Err("failed to list payments", err, "studentID", studentID)
	}

	return payments, nil
}

package services

import (
	"context"
	"errors"
	"hosteldesk/internal/repositories"
	"time"

	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentRecordInput struct {
	StudentID uuid.UUID       `json:"studentId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	PaidOn    *time.Time      `json:"paidOn"`
	Reference *string         `json:"reference"`
}

// PaymentService records hostel fee payments. A payment is always pinned to
// the student's active allocation, so a student without a room cannot be
// charged for one.
type PaymentService struct {
	tx          TransactionExecutor
	students    repositories.StudentRepository
	allocations repositories.AllocationRepository
	payments    repositories.PaymentRepository
	log         logger.Logger
}

func NewPaymentService(tx TransactionExecutor, repos repositories.Repository) *PaymentService {
	return &PaymentService{
		tx:          tx,
		students:    repos.Student,
		allocations: repos.Allocation,
		payments:    repos.Payment,
		log:         logger.New("PaymentService"),
	}
}

func (s *PaymentService) Record(ctx context.Context, input PaymentRecordInput) (*FeePayment, error) {
	log := s.log.Function("Record")

	if !input.Amount.IsPositive() {
		return nil, ValidationError("amount must be greater than zero")
	}
	if input.Method == "" {
		input.Method = PaymentMethodCash
	}
	if !input.Method.Valid() {
		return nil, ValidationError("method must be cash, card or transfer")
	}

	paidOn := time.Now()
	if input.PaidOn != nil {
		paidOn = *input.PaidOn
	}

	payment := &FeePayment{
		StudentID: input.StudentID,
		Amount:    input.Amount,
		Method:    input.Method,
		PaidOn:    datatypes.Date(paidOn),
		Reference: input.Reference,
	}

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		student, err := s.students.GetByID(ctx, tx, input.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return InternalError("failed to load student", err)
		}
		if !student.IsActive {
			return ErrStudentInactive
		}

		allocation, err := s.allocations.GetActiveByStudent(ctx, tx, input.StudentID, false)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveAllocation
			}
			return InternalError("failed to look up active allocation", err)
		}
		payment.AllocationID = &allocation.ID

		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return InternalError("failed to record payment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("payment recorded",
		"paymentID", payment.ID, "studentID", input.StudentID, "amount", input.Amount.String())
	return payment, nil
}

func (s *PaymentService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*FeePayment, error) {
	payments, err := s.payments.ListByStudent(ctx, s.tx.DB(ctx), studentID)
	if err != nil {
		return nil, InternalError("failed to list payments", err)
	}
	return payments, nil
}

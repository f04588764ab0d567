package services

import (
	"context"
	"errors"
	"hosteldesk/internal/repositories"
	"strings"

	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type StudentRegisterInput struct {
	RegistrationNo string  `json:"registrationNo"`
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	Gender         Gender  `json:"gender"`
}

type StudentService struct {
	tx          TransactionExecutor
	students    repositories.StudentRepository
	allocations *AllocationService
	log         logger.Logger
}

func NewStudentService(
	tx TransactionExecutor,
	repos repositories.Repository,
	allocations *AllocationService,
) *StudentService {
	return &StudentService{
		tx:          tx,
		students:    repos.Student,
		allocations: allocations,
		log:         logger.New("StudentService"),
	}
}

func (s *StudentService) Register(ctx context.Context, input StudentRegisterInput) (*Student, error) {
	log := s.log.Function("Register")

	input.RegistrationNo = strings.TrimSpace(input.RegistrationNo)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.RegistrationNo == "" {
		return nil, ValidationError("registration number is required")
	}
	if input.FullName == "" {
		return nil, ValidationError("full name is required")
	}
	if input.Email == "" {
		return nil, ValidationError("email is required")
	}
	if !input.Gender.Valid() {
		return nil, ValidationError("gender must be male, female or other")
	}

	student := &Student{
		RegistrationNo: input.RegistrationNo,
		FullName:       input.FullName,
		Email:          input.Email,
		Phone:          input.Phone,
		Gender:         input.Gender,
		IsActive:       true,
	}

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.students.Create(ctx, tx, student); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrDuplicateStudent
			}
			return InternalError("failed to create student", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("student registered", "studentID", student.ID, "registrationNo", student.RegistrationNo)
	return student, nil
}

func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*Student, error) {
	student, err := s.students.GetByID(ctx, s.tx.DB(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, InternalError("failed to load student", err)
	}
	return student, nil
}

func (s *StudentService) GetByRegistrationNo(ctx context.Context, registrationNo string) (*Student, error) {
	student, err := s.students.GetByRegistrationNo(ctx, s.tx.DB(ctx), registrationNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, InternalError("failed to load student", err)
	}
	return student, nil
}

func (s *StudentService) List(ctx context.Context, activeOnly bool) ([]*Student, error) {
	students, err := s.students.List(ctx, s.tx.DB(ctx), activeOnly)
	if err != nil {
		return nil, InternalError("failed to list students", err)
	}
	return students, nil
}

// Deactivate marks the student inactive and ends their active allocation in
// the same transaction, so the room slot is never left held by a student who
// no longer lives there.
func (s *StudentService) Deactivate(ctx context.Context, id uuid.UUID) error {
	log := s.log.Function("Deactivate")

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.students.SetActive(ctx, tx, id, false); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return InternalError("failed to deactivate student", err)
		}
		return s.allocations.DeactivateForStudentTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	log.Info("student deactivated", "studentID", id)
	return nil
}

func (s *StudentService) Reactivate(ctx context.Context, id uuid.UUID) error {
	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.students.SetActive(ctx, tx, id, true); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return InternalError("failed to reactivate student", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Function("Reactivate").Info("student reactivated", "studentID", id)
	return nil
}

package repositories

import (
	"context"
	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Student, error)
	GetByRegistrationNo(ctx context.Context, tx *gorm.DB, registrationNo string) (*Student, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*Student, error)
	Create(ctx context.Context, tx *gorm.DB, student *Student) error
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error
}

type studentRepository struct{}

func NewStudentRepository() StudentRepository {
	return &studentRepository{}
}

func (r *studentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Student, error) {
	var student Student
	if err := tx.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetByRegistrationNo(
	ctx context.Context,
	tx *gorm.DB,
	registrationNo string,
) (*Student, error) {
	var student Student
	err := tx.WithContext(ctx).First(&student, "registration_no = ?", registrationNo).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	activeOnly bool,
) ([]*Student, error) {
	log := logger.New("studentRepository").Function("List")

	var students []*Student
	query := tx.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active")
	}

	if err := query.Order("registration_no ASC").Find(&students).Error; err != nil {
		return nil, log.Err("failed to list students", err)
	}

	return students, nil
}

func (r *studentRepository) Create(ctx context.Context, tx *gorm.DB, student *Student) error {
	log := logger.New("studentRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(student).Error; err != nil {
		return log.Err("failed to create student", err, "registrationNo", student.RegistrationNo)
	}

	return nil
}

func (r *studentRepository) SetActive(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	active bool,
) error {
	log := logger.New("studentRepository").Function("SetActive")

	result := tx.WithContext(ctx).Model(&Student{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return log.Err("failed to update student active flag", result.Error, "studentID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

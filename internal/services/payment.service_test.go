package services

import (
	"context"
	"testing"

	. "hosteldesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	store       *fakeStore
	payments    *PaymentService
	allocations *AllocationService
}

func newPaymentFixture() *paymentFixture {
	store := newFakeStore()
	executor := &fakeExecutor{store: store}
	repos := newFakeRepos(store)

	return &paymentFixture{
		store:       store,
		payments:    NewPaymentService(executor, repos),
		allocations: NewAllocationService(executor, repos, nil),
	}
}

func (f *paymentFixture) seedHousedStudent(t *testing.T) uuid.UUID {
	hostelID := uuid.New()
	f.store.hostels[hostelID] = Hostel{
		BaseUUIDModel: BaseUUIDModel{ID: hostelID},
		Name:          "Hostel " + hostelID.String()[:4],
		GenderAllowed: GenderPolicyAny,
	}
	roomID := uuid.New()
	f.store.rooms[roomID] = Room{
		BaseUUIDModel: BaseUUIDModel{ID: roomID},
		HostelID:      hostelID,
		RoomNumber:    "R-" + roomID.String()[:4],
		Capacity:      2,
		IsAvailable:   true,
	}
	studentID := uuid.New()
	f.store.students[studentID] = Student{
		BaseUUIDModel:  BaseUUIDModel{ID: studentID},
		RegistrationNo: "REG-" + studentID.String()[:8],
		FullName:       "Student " + studentID.String()[:4],
		Email:          studentID.String()[:8] + "@example.edu",
		Gender:         GenderFemale,
		IsActive:       true,
	}

	_, err := f.allocations.Assign(context.Background(), studentID, roomID, nil)
	require.NoError(t, err)
	return studentID
}

func TestPaymentRecord_Success(t *testing.T) {
	f := newPaymentFixture()
	studentID := f.seedHousedStudent(t)

	payment, err := f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: studentID,
		Amount:    decimal.NewFromFloat(325.50),
		Method:    PaymentMethodTransfer,
	})

	require.NoError(t, err)
	assert.Equal(t, PaymentMethodTransfer, payment.Method)
	require.NotNil(t, payment.AllocationID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromFloat(325.50)))

	listed, err := f.payments.ListForStudent(context.Background(), studentID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, payment.ID, listed[0].ID)
}

func TestPaymentRecord_DefaultsToCash(t *testing.T) {
	f := newPaymentFixture()
	studentID := f.seedHousedStudent(t)

	payment, err := f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: studentID,
		Amount:    decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, payment.Method)
}

func TestPaymentRecord_Validation(t *testing.T) {
	f := newPaymentFixture()
	studentID := f.seedHousedStudent(t)

	_, err := f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: studentID,
		Amount:    decimal.Zero,
	})
	assertValidationError(t, err)

	_, err = f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: studentID,
		Amount:    decimal.NewFromInt(-10),
	})
	assertValidationError(t, err)

	_, err = f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: studentID,
		Amount:    decimal.NewFromInt(10),
		Method:    "crypto",
	})
	assertValidationError(t, err)

	assert.Empty(t, f.store.payments)
}

func TestPaymentRecord_RequiresActiveAllocation(t *testing.T) {
	f := newPaymentFixture()

	studentID := uuid.New()
	f.store.students[studentID] = Student{
		BaseUUIDModel:  BaseUUIDModel{ID: studentID},
		RegistrationNo: "REG-NOROOM",
		FullName:       "Homeless Henry",
		Email:          "henry@example.edu",
		Gender:         GenderMale,
		IsActive:       true,
	}

	_, err := f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: studentID,
		Amount:    decimal.NewFromInt(50),
	})

	assert.ErrorIs(t, err, ErrNoActiveAllocation)
}

func TestPaymentRecord_InactiveStudent(t *testing.T) {
	f := newPaymentFixture()

	studentID := uuid.New()
	f.store.students[studentID] = Student{
		BaseUUIDModel:  BaseUUIDModel{ID: studentID},
		RegistrationNo: "REG-GONE",
		FullName:       "Former Resident",
		Email:          "former@example.edu",
		Gender:         GenderFemale,
		IsActive:       false,
	}

	_, err := f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: studentID,
		Amount:    decimal.NewFromInt(50),
	})

	assert.ErrorIs(t, err, ErrStudentInactive)
}

func TestPaymentRecord_UnknownStudent(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.payments.Record(context.Background(), PaymentRecordInput{
		StudentID: uuid.New(),
		Amount:    decimal.NewFromInt(50),
	})

	assert.ErrorIs(t, err, ErrStudentNotFound)
}

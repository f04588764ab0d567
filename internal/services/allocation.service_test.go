package services

import (
	"context"
	"sync"
	"testing"

	. "hosteldesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allocationFixture struct {
	store   *fakeStore
	service *AllocationService
}

func newAllocationFixture() *allocationFixture {
	store := newFakeStore()
	executor := &fakeExecutor{store: store}
	repos := newFakeRepos(store)

	return &allocationFixture{
		store:   store,
		service: NewAllocationService(executor, repos, nil),
	}
}

func (f *allocationFixture) addHostel(policy GenderPolicy) uuid.UUID {
	id := uuid.New()
	f.store.hostels[id] = Hostel{
		BaseUUIDModel: BaseUUIDModel{ID: id},
		Name:          "Hostel " + id.String()[:8],
		GenderAllowed: policy,
	}
	return id
}

func (f *allocationFixture) addRoom(hostelID uuid.UUID, capacity, occupancy int, available bool) uuid.UUID {
	id := uuid.New()
	f.store.rooms[id] = Room{
		BaseUUIDModel:    BaseUUIDModel{ID: id},
		HostelID:         hostelID,
		RoomNumber:       "R-" + id.String()[:4],
		Capacity:         capacity,
		CurrentOccupancy: occupancy,
		IsAvailable:      available,
	}
	return id
}

func (f *allocationFixture) addStudent(gender Gender, active bool) uuid.UUID {
	id := uuid.New()
	f.store.students[id] = Student{
		BaseUUIDModel:  BaseUUIDModel{ID: id},
		RegistrationNo: "REG-" + id.String()[:8],
		FullName:       "Student " + id.String()[:4],
		Email:          id.String()[:8] + "@example.edu",
		Gender:         gender,
		IsActive:       active,
	}
	return id
}

func (f *allocationFixture) room(t *testing.T, id uuid.UUID) Room {
	room, ok := f.store.rooms[id]
	require.True(t, ok)
	return room
}

func TestAssign_Success(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 2, 0, true)
	studentID := f.addStudent(GenderFemale, true)

	allocation, err := f.service.Assign(context.Background(), studentID, roomID, nil)

	require.NoError(t, err)
	assert.True(t, allocation.IsActive)
	assert.Equal(t, studentID, allocation.StudentID)
	assert.Equal(t, roomID, allocation.RoomID)
	assert.Equal(t, 1, f.room(t, roomID).CurrentOccupancy)
}

func TestAssign_RoomFull(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 1, 1, true)
	studentID := f.addStudent(GenderMale, true)

	_, err := f.service.Assign(context.Background(), studentID, roomID, nil)

	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, 1, f.room(t, roomID).CurrentOccupancy)
	assert.Empty(t, f.store.allocations)
}

func TestAssign_RoomUnavailable(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 2, 0, false)
	studentID := f.addStudent(GenderMale, true)

	_, err := f.service.Assign(context.Background(), studentID, roomID, nil)

	assert.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestAssign_GenderMismatch(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyMale)
	roomID := f.addRoom(hostelID, 2, 0, true)

	femaleID := f.addStudent(GenderFemale, true)
	_, err := f.service.Assign(context.Background(), femaleID, roomID, nil)
	assert.ErrorIs(t, err, ErrGenderMismatch)

	// A strict single-gender hostel also rejects students of gender other.
	otherID := f.addStudent(GenderOther, true)
	_, err = f.service.Assign(context.Background(), otherID, roomID, nil)
	assert.ErrorIs(t, err, ErrGenderMismatch)
}

func TestAssign_InactiveStudent(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 2, 0, true)
	studentID := f.addStudent(GenderMale, false)

	_, err := f.service.Assign(context.Background(), studentID, roomID, nil)

	assert.ErrorIs(t, err, ErrStudentInactive)
}

func TestAssign_UnknownStudentAndRoom(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 2, 0, true)
	studentID := f.addStudent(GenderMale, true)

	_, err := f.service.Assign(context.Background(), uuid.New(), roomID, nil)
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = f.service.Assign(context.Background(), studentID, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAssign_MoveReleasesPreviousRoom(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomA := f.addRoom(hostelID, 2, 0, true)
	roomB := f.addRoom(hostelID, 2, 0, true)
	studentID := f.addStudent(GenderFemale, true)

	first, err := f.service.Assign(context.Background(), studentID, roomA, nil)
	require.NoError(t, err)

	second, err := f.service.Assign(context.Background(), studentID, roomB, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, f.room(t, roomA).CurrentOccupancy)
	assert.Equal(t, 1, f.room(t, roomB).CurrentOccupancy)

	old := f.store.allocations[first.ID]
	assert.False(t, old.IsActive)
	assert.NotNil(t, old.ActualCheckout)
	assert.True(t, f.store.allocations[second.ID].IsActive)
}

func TestAssign_FullTargetRollsBackMove(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomA := f.addRoom(hostelID, 2, 0, true)
	roomB := f.addRoom(hostelID, 1, 1, true)
	studentID := f.addStudent(GenderFemale, true)

	first, err := f.service.Assign(context.Background(), studentID, roomA, nil)
	require.NoError(t, err)

	_, err = f.service.Assign(context.Background(), studentID, roomB, nil)
	assert.ErrorIs(t, err, ErrRoomFull)

	// The failed move must not have released the student's current room or
	// deactivated their allocation.
	assert.Equal(t, 1, f.room(t, roomA).CurrentOccupancy)
	assert.Equal(t, 1, f.room(t, roomB).CurrentOccupancy)
	assert.True(t, f.store.allocations[first.ID].IsActive)
}

func TestCheckout_Success(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 2, 0, true)
	studentID := f.addStudent(GenderMale, true)

	allocation, err := f.service.Assign(context.Background(), studentID, roomID, nil)
	require.NoError(t, err)

	checked, err := f.service.Checkout(context.Background(), allocation.ID)

	require.NoError(t, err)
	assert.False(t, checked.IsActive)
	assert.NotNil(t, checked.ActualCheckout)
	assert.Equal(t, 0, f.room(t, roomID).CurrentOccupancy)
}

func TestCheckout_AlreadyInactive(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 2, 0, true)
	studentID := f.addStudent(GenderMale, true)

	allocation, err := f.service.Assign(context.Background(), studentID, roomID, nil)
	require.NoError(t, err)

	_, err = f.service.Checkout(context.Background(), allocation.ID)
	require.NoError(t, err)

	// The second checkout reports the state rather than silently succeeding,
	// and the slot is released exactly once.
	_, err = f.service.Checkout(context.Background(), allocation.ID)
	assert.ErrorIs(t, err, ErrAlreadyInactive)
	assert.Equal(t, 0, f.room(t, roomID).CurrentOccupancy)
}

func TestCheckout_NotFound(t *testing.T) {
	f := newAllocationFixture()

	_, err := f.service.Checkout(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrAllocationNotFound)
}

func TestDeactivateForStudent_NoActiveAllocation(t *testing.T) {
	f := newAllocationFixture()
	studentID := f.addStudent(GenderMale, true)

	assert.NoError(t, f.service.DeactivateForStudent(context.Background(), studentID))
}

func TestAssign_ConcurrentNeverOverfills(t *testing.T) {
	f := newAllocationFixture()
	hostelID := f.addHostel(GenderPolicyAny)
	roomID := f.addRoom(hostelID, 2, 0, true)

	const contenders = 6
	students := make([]uuid.UUID, contenders)
	for i := range students {
		students[i] = f.addStudent(GenderMale, true)
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := range students {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Assign(context.Background(), students[i], roomID, nil)
		}(i)
	}
	wg.Wait()

	var successes, fulls int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			assert.ErrorIs(t, err, ErrRoomFull)
			fulls++
		}
	}

	assert.Equal(t, 2, successes)
	assert.Equal(t, contenders-2, fulls)
	assert.Equal(t, 2, f.room(t, roomID).CurrentOccupancy)

	var active int
	for _, allocation := range f.store.allocations {
		if allocation.IsActive {
			active++
		}
	}
	assert.Equal(t, 2, active)
}

package services

import (
	"context"
	"testing"
	"time"

	. "hosteldesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type complaintFixture struct {
	store   *fakeStore
	service *ComplaintService
}

func newComplaintFixture() *complaintFixture {
	store := newFakeStore()
	executor := &fakeExecutor{store: store}
	repos := newFakeRepos(store)

	return &complaintFixture{
		store:   store,
		service: NewComplaintService(executor, repos, nil),
	}
}

func (f *complaintFixture) addStudent(active bool) uuid.UUID {
	id := uuid.New()
	f.store.students[id] = Student{
		BaseUUIDModel:  BaseUUIDModel{ID: id},
		RegistrationNo: "REG-" + id.String()[:8],
		FullName:       "Student " + id.String()[:4],
		Email:          id.String()[:8] + "@example.edu",
		Gender:         GenderFemale,
		IsActive:       active,
	}
	return id
}

func (f *complaintFixture) addRoom() uuid.UUID {
	hostelID := uuid.New()
	f.store.hostels[hostelID] = Hostel{
		BaseUUIDModel: BaseUUIDModel{ID: hostelID},
		Name:          "Hostel " + hostelID.String()[:4],
		GenderAllowed: GenderPolicyAny,
	}
	id := uuid.New()
	f.store.rooms[id] = Room{
		BaseUUIDModel: BaseUUIDModel{ID: id},
		HostelID:      hostelID,
		RoomNumber:    "R-" + id.String()[:4],
		Capacity:      2,
		IsAvailable:   true,
	}
	return id
}

func (f *complaintFixture) addStaff(available bool) uuid.UUID {
	id := uuid.New()
	f.store.staff[id] = MaintenanceStaff{
		BaseUUIDModel:  BaseUUIDModel{ID: id},
		FullName:       "Staff " + id.String()[:4],
		Specialization: CategoryPlumbing,
		IsAvailable:    available,
	}
	return id
}

func (f *complaintFixture) create(t *testing.T) *Complaint {
	studentID := f.addStudent(true)
	roomID := f.addRoom()

	complaint, err := f.service.Create(context.Background(), ComplaintCreateInput{
		StudentID:   studentID,
		RoomID:      roomID,
		Category:    CategoryPlumbing,
		Title:       "Leaking tap",
		Description: "Tap in the corner drips constantly",
	})
	require.NoError(t, err)
	return complaint
}

func (f *complaintFixture) logsFor(id uuid.UUID) []ComplaintLog {
	var entries []ComplaintLog
	for _, entry := range f.store.logs {
		if entry.ComplaintID == id {
			entries = append(entries, entry)
		}
	}
	return entries
}

func TestComplaintCreate_Success(t *testing.T) {
	f := newComplaintFixture()

	complaint := f.create(t)

	assert.Equal(t, StatusOpen, complaint.Status)
	assert.Equal(t, PriorityDefault, complaint.Priority)
	assert.Nil(t, complaint.AssignedStaffID)

	logs := f.logsFor(complaint.ID)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].OldStatus)
	assert.Equal(t, StatusOpen, logs[0].NewStatus)
	assert.Equal(t, "Complaint created", logs[0].Note)
	assert.Equal(t, "student", logs[0].ChangedBy)
}

func create(f *complaintFixture, input ComplaintCreateInput) error {
	_, err := f.service.Create(context.Background(), input)
	return err
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
}

func TestComplaintCreate_Validation(t *testing.T) {
	f := newComplaintFixture()
	studentID := f.addStudent(true)
	roomID := f.addRoom()

	base := ComplaintCreateInput{
		StudentID: studentID,
		RoomID:    roomID,
		Category:  CategoryElectrical,
		Title:     "Socket sparks",
	}

	bad := base
	bad.Category = "cosmic"
	assertValidationError(t, create(f, bad))

	bad = base
	bad.Priority = PriorityLowest + 1
	assertValidationError(t, create(f, bad))

	bad = base
	bad.Title = "   "
	assertValidationError(t, create(f, bad))

	// Nothing reached the store.
	assert.Empty(t, f.store.complaints)
	assert.Empty(t, f.store.logs)
}

func TestComplaintCreate_InactiveStudent(t *testing.T) {
	f := newComplaintFixture()
	studentID := f.addStudent(false)
	roomID := f.addRoom()

	_, err := f.service.Create(context.Background(), ComplaintCreateInput{
		StudentID: studentID,
		RoomID:    roomID,
		Category:  CategoryCleaning,
		Title:     "Dusty room",
	})

	assert.ErrorIs(t, err, ErrStudentInactive)
}

func TestComplaintCreate_UnknownRoom(t *testing.T) {
	f := newComplaintFixture()
	studentID := f.addStudent(true)

	_, err := f.service.Create(context.Background(), ComplaintCreateInput{
		StudentID: studentID,
		RoomID:    uuid.New(),
		Category:  CategoryCleaning,
		Title:     "Dusty room",
	})

	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestComplaintUpdate_AssignAdvancesOpenTicket(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)
	staffID := f.addStaff(true)

	updated, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		AssignedStaffID: &staffID,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedStaffID)
	assert.Equal(t, staffID, *updated.AssignedStaffID)
	assert.NotNil(t, updated.AssignedAt)

	logs := f.logsFor(complaint.ID)
	require.Len(t, logs, 2)
	latest := logs[1]
	require.NotNil(t, latest.OldStatus)
	assert.Equal(t, StatusOpen, *latest.OldStatus)
	assert.Equal(t, StatusAssigned, latest.NewStatus)
	assert.Contains(t, latest.Note, "Assigned to staff ID: "+staffID.String())
}

func TestComplaintUpdate_AssignedRequiresStaff(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)

	status := StatusAssigned
	_, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		Status: &status,
	})

	assert.ErrorIs(t, err, ErrMissingAssignment)
	assert.Equal(t, StatusOpen, f.store.complaints[complaint.ID].Status)
}

func TestComplaintUpdate_UnavailableStaffRejected(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)
	staffID := f.addStaff(false)

	_, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		AssignedStaffID: &staffID,
	})

	assert.ErrorIs(t, err, ErrStaffUnavailable)
	assert.Nil(t, f.store.complaints[complaint.ID].AssignedStaffID)
}

func TestComplaintUpdate_UnknownStaff(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)
	staffID := uuid.New()

	_, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		AssignedStaffID: &staffID,
	})

	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestComplaintUpdate_FieldOnlyChangeSkipsLog(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)

	priority := PriorityHighest
	updated, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		Priority: &priority,
	})

	require.NoError(t, err)
	assert.Equal(t, PriorityHighest, updated.Priority)
	assert.Equal(t, StatusOpen, updated.Status)
	assert.Len(t, f.logsFor(complaint.ID), 1)
}

func TestComplaintUpdate_ResolutionNoteInLog(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)

	status := StatusResolved
	notes := "Replaced washer"
	updated, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		Status:          &status,
		ResolutionNotes: &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusResolved, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)

	logs := f.logsFor(complaint.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, "Resolution: Replaced washer", logs[1].Note)
}

func TestComplaintUpdate_LifecycleTimestampsStampOnce(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)

	resolved := StatusResolved
	first, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		Status: &resolved,
	})
	require.NoError(t, err)
	require.NotNil(t, first.ResolvedAt)
	firstStamp := *first.ResolvedAt

	// Reopen and resolve again. The original stamp must survive.
	open := StatusOpen
	_, err = f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		Status: &open,
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	second, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		Status: &resolved,
	})
	require.NoError(t, err)

	require.NotNil(t, second.ResolvedAt)
	assert.True(t, second.ResolvedAt.Equal(firstStamp))
	assert.Len(t, f.logsFor(complaint.ID), 4)
}

func TestComplaintUpdate_NotFound(t *testing.T) {
	f := newComplaintFixture()

	_, err := f.service.Update(context.Background(), uuid.New(), ComplaintUpdateInput{})

	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestComplaintLogs_NewestFirst(t *testing.T) {
	f := newComplaintFixture()
	complaint := f.create(t)
	staffID := f.addStaff(true)

	_, err := f.service.Update(context.Background(), complaint.ID, ComplaintUpdateInput{
		AssignedStaffID: &staffID,
	})
	require.NoError(t, err)

	entries, err := f.service.Logs(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StatusAssigned, entries[0].NewStatus)
	assert.Equal(t, StatusOpen, entries[1].NewStatus)
}

func TestComplaintListStaff_AvailableOnly(t *testing.T) {
	f := newComplaintFixture()
	f.addStaff(true)
	f.addStaff(false)

	all, err := f.service.ListStaff(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := f.service.ListStaff(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.True(t, available[0].IsAvailable)
}

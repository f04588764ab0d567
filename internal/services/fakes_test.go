package services

import (
	"context"
	"hosteldesk/internal/repositories"
	"sync"
	"time"

	. "hosteldesk/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the database. Value maps keep
// snapshot and restore cheap, which is what gives the fake executor real
// rollback semantics.
type fakeStore struct {
	mu          sync.Mutex
	students    map[uuid.UUID]Student
	rooms       map[uuid.UUID]Room
	hostels     map[uuid.UUID]Hostel
	allocations map[uuid.UUID]Allocation
	staff       map[uuid.UUID]MaintenanceStaff
	complaints  map[uuid.UUID]Complaint
	payments    map[uuid.UUID]FeePayment
	logs        []ComplaintLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:    make(map[uuid.UUID]Student),
		rooms:       make(map[uuid.UUID]Room),
		hostels:     make(map[uuid.UUID]Hostel),
		allocations: make(map[uuid.UUID]Allocation),
		staff:       make(map[uuid.UUID]MaintenanceStaff),
		complaints:  make(map[uuid.UUID]Complaint),
		payments:    make(map[uuid.UUID]FeePayment),
	}
}

type storeSnapshot struct {
	students    map[uuid.UUID]Student
	rooms       map[uuid.UUID]Room
	hostels     map[uuid.UUID]Hostel
	allocations map[uuid.UUID]Allocation
	staff       map[uuid.UUID]MaintenanceStaff
	complaints  map[uuid.UUID]Complaint
	payments    map[uuid.UUID]FeePayment
	logs        []ComplaintLog
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *fakeStore) snapshot() storeSnapshot {
	return storeSnapshot{
		students:    copyMap(s.students),
		rooms:       copyMap(s.rooms),
		hostels:     copyMap(s.hostels),
		allocations: copyMap(s.allocations),
		staff:       copyMap(s.staff),
		complaints:  copyMap(s.complaints),
		payments:    copyMap(s.payments),
		logs:        append([]ComplaintLog(nil), s.logs...),
	}
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.students = snap.students
	s.rooms = snap.rooms
	s.hostels = snap.hostels
	s.allocations = snap.allocations
	s.staff = snap.staff
	s.complaints = snap.complaints
	s.payments = snap.payments
	s.logs = snap.logs
}

// fakeExecutor serializes transactions with a mutex and restores the store
// snapshot when the function fails, mirroring commit/rollback behavior.
type fakeExecutor struct {
	store *fakeStore
}

func (e *fakeExecutor) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	snap := e.store.snapshot()
	if err := fn(ctx, nil); err != nil {
		e.store.restore(snap)
		return err
	}
	return nil
}

func (e *fakeExecutor) DB(ctx context.Context) *gorm.DB {
	return nil
}

type fakeStudentRepo struct{ store *fakeStore }

func (r *fakeStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Student, error) {
	if student, ok := r.store.students[id]; ok {
		return &student, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStudentRepo) GetByRegistrationNo(
	ctx context.Context,
	tx *gorm.DB,
	registrationNo string,
) (*Student, error) {
	for _, student := range r.store.students {
		if student.RegistrationNo == registrationNo {
			return &student, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStudentRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*Student, error) {
	var students []*Student
	for _, student := range r.store.students {
		if activeOnly && !student.IsActive {
			continue
		}
		s := student
		students = append(students, &s)
	}
	return students, nil
}

func (r *fakeStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *Student) error {
	for _, existing := range r.store.students {
		if existing.RegistrationNo == student.RegistrationNo || existing.Email == student.Email {
			return &pq.Error{Code: "23505"}
		}
	}
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	r.store.students[student.ID] = *student
	return nil
}

func (r *fakeStudentRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error {
	student, ok := r.store.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	student.IsActive = active
	r.store.students[id] = student
	return nil
}

type fakeRoomRepo struct{ store *fakeStore }

func (r *fakeRoomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	if room, ok := r.store.rooms[id]; ok {
		return &room, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoomRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Room, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *fakeRoomRepo) List(ctx context.Context, tx *gorm.DB, hostelID *uuid.UUID) ([]*Room, error) {
	var rooms []*Room
	for _, room := range r.store.rooms {
		if hostelID != nil && room.HostelID != *hostelID {
			continue
		}
		rm := room
		rooms = append(rooms, &rm)
	}
	return rooms, nil
}

func (r *fakeRoomRepo) Create(ctx context.Context, tx *gorm.DB, room *Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	r.store.rooms[room.ID] = *room
	return nil
}

func (r *fakeRoomRepo) SetAvailability(ctx context.Context, tx *gorm.DB, id uuid.UUID, available bool) error {
	room, ok := r.store.rooms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	room.IsAvailable = available
	r.store.rooms[id] = room
	return nil
}

func (r *fakeRoomRepo) ReserveSlot(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (bool, error) {
	room, ok := r.store.rooms[roomID]
	if !ok || !room.IsAvailable || room.CurrentOccupancy >= room.Capacity {
		return false, nil
	}
	room.CurrentOccupancy++
	r.store.rooms[roomID] = room
	return true, nil
}

func (r *fakeRoomRepo) ReleaseSlot(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) error {
	room, ok := r.store.rooms[roomID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if room.CurrentOccupancy > 0 {
		room.CurrentOccupancy--
	}
	r.store.rooms[roomID] = room
	return nil
}

func (r *fakeRoomRepo) CountActiveAllocations(
	ctx context.Context,
	tx *gorm.DB,
	roomID uuid.UUID,
) (int64, error) {
	var count int64
	for _, allocation := range r.store.allocations {
		if allocation.RoomID == roomID && allocation.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeHostelRepo struct{ store *fakeStore }

func (r *fakeHostelRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Hostel, error) {
	if hostel, ok := r.store.hostels[id]; ok {
		return &hostel, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeHostelRepo) List(ctx context.Context, tx *gorm.DB) ([]*Hostel, error) {
	var hostels []*Hostel
	for _, hostel := range r.store.hostels {
		h := hostel
		hostels = append(hostels, &h)
	}
	return hostels, nil
}

func (r *fakeHostelRepo) Create(ctx context.Context, tx *gorm.DB, hostel *Hostel) error {
	if hostel.ID == uuid.Nil {
		hostel.ID = uuid.New()
	}
	r.store.hostels[hostel.ID] = *hostel
	return nil
}

func (r *fakeHostelRepo) AdjustTotalRooms(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	hostel, ok := r.store.hostels[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	hostel.TotalRooms += delta
	if hostel.TotalRooms < 0 {
		hostel.TotalRooms = 0
	}
	r.store.hostels[id] = hostel
	return nil
}

type fakeAllocationRepo struct{ store *fakeStore }

func (r *fakeAllocationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Allocation, error) {
	if allocation, ok := r.store.allocations[id]; ok {
		return &allocation, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAllocationRepo) GetActiveByStudent(
	ctx context.Context,
	tx *gorm.DB,
	studentID uuid.UUID,
	lock bool,
) (*Allocation, error) {
	for _, allocation := range r.store.allocations {
		if allocation.StudentID == studentID && allocation.IsActive {
			a := allocation
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAllocationRepo) ListByStudent(
	ctx context.Context,
	tx *gorm.DB,
	studentID uuid.UUID,
) ([]*Allocation, error) {
	var allocations []*Allocation
	for _, allocation := range r.store.allocations {
		if allocation.StudentID == studentID {
			a := allocation
			allocations = append(allocations, &a)
		}
	}
	return allocations, nil
}

func (r *fakeAllocationRepo) Create(ctx context.Context, tx *gorm.DB, allocation *Allocation) error {
	// Mirrors the partial unique index on (student_id) WHERE is_active.
	if allocation.IsActive {
		for _, existing := range r.store.allocations {
			if existing.StudentID == allocation.StudentID && existing.IsActive {
				return repositories.ErrActiveAllocationExists
			}
		}
	}
	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	r.store.allocations[allocation.ID] = *allocation
	return nil
}

func (r *fakeAllocationRepo) Deactivate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	checkout time.Time,
) error {
	allocation, ok := r.store.allocations[id]
	if !ok || !allocation.IsActive {
		return gorm.ErrRecordNotFound
	}
	allocation.IsActive = false
	date := datatypes.Date(checkout)
	allocation.ActualCheckout = &date
	r.store.allocations[id] = allocation
	return nil
}

type fakeStaffRepo struct{ store *fakeStore }

func (r *fakeStaffRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MaintenanceStaff, error) {
	if staff, ok := r.store.staff[id]; ok {
		return &staff, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStaffRepo) List(
	ctx context.Context,
	tx *gorm.DB,
	availableOnly bool,
) ([]*MaintenanceStaff, error) {
	var staff []*MaintenanceStaff
	for _, member := range r.store.staff {
		if availableOnly && !member.IsAvailable {
			continue
		}
		m := member
		staff = append(staff, &m)
	}
	return staff, nil
}

func (r *fakeStaffRepo) Create(ctx context.Context, tx *gorm.DB, staff *MaintenanceStaff) error {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	r.store.staff[staff.ID] = *staff
	return nil
}

func (r *fakeStaffRepo) SetAvailability(ctx context.Context, tx *gorm.DB, id uuid.UUID, available bool) error {
	staff, ok := r.store.staff[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	staff.IsAvailable = available
	r.store.staff[id] = staff
	return nil
}

type fakeComplaintRepo struct{ store *fakeStore }

func (r *fakeComplaintRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Complaint, error) {
	if complaint, ok := r.store.complaints[id]; ok {
		return &complaint, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeComplaintRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Complaint, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *fakeComplaintRepo) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.ComplaintFilter,
) ([]*Complaint, error) {
	var complaints []*Complaint
	for _, complaint := range r.store.complaints {
		if filter.StudentID != nil && complaint.StudentID != *filter.StudentID {
			continue
		}
		if filter.RoomID != nil && complaint.RoomID != *filter.RoomID {
			continue
		}
		if filter.Status != nil && complaint.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && complaint.Category != *filter.Category {
			continue
		}
		c := complaint
		complaints = append(complaints, &c)
	}
	return complaints, nil
}

func (r *fakeComplaintRepo) ListStaleActive(
	ctx context.Context,
	tx *gorm.DB,
	olderThan time.Time,
) ([]*Complaint, error) {
	var complaints []*Complaint
	for _, complaint := range r.store.complaints {
		if complaint.Status != StatusOpen && complaint.Status != StatusAssigned {
			continue
		}
		if !complaint.CreatedAt.Before(olderThan) {
			continue
		}
		if complaint.Priority <= PriorityHighest {
			continue
		}
		c := complaint
		complaints = append(complaints, &c)
	}
	return complaints, nil
}

func (r *fakeComplaintRepo) Create(ctx context.Context, tx *gorm.DB, complaint *Complaint) error {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	r.store.complaints[complaint.ID] = *complaint
	return nil
}

func (r *fakeComplaintRepo) Save(ctx context.Context, tx *gorm.DB, complaint *Complaint) error {
	if _, ok := r.store.complaints[complaint.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.complaints[complaint.ID] = *complaint
	return nil
}

type fakeComplaintLogRepo struct{ store *fakeStore }

func (r *fakeComplaintLogRepo) Append(ctx context.Context, tx *gorm.DB, entry *ComplaintLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.store.logs = append(r.store.logs, *entry)
	return nil
}

func (r *fakeComplaintLogRepo) ListByComplaint(
	ctx context.Context,
	tx *gorm.DB,
	complaintID uuid.UUID,
) ([]*ComplaintLog, error) {
	var entries []*ComplaintLog
	for i := len(r.store.logs) - 1; i >= 0; i-- {
		if r.store.logs[i].ComplaintID == complaintID {
			entry := r.store.logs[i]
			entries = append(entries, &entry)
		}
	}
	return entries, nil
}

type fakePaymentRepo struct{ store *fakeStore }

func (r *fakePaymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *FeePayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.store.payments[payment.ID] = *payment
	return nil
}

func (r *fakePaymentRepo) ListByStudent(
	ctx context.Context,
	tx *gorm.DB,
	studentID uuid.UUID,
) ([]*FeePayment, error) {
	var payments []*FeePayment
	for _, payment := range r.store.payments {
		if payment.StudentID == studentID {
			p := payment
			payments = append(payments, &p)
		}
	}
	return payments, nil
}

func newFakeRepos(store *fakeStore) repositories.Repository {
	return repositories.Repository{
		Hostel:       &fakeHostelRepo{store},
		Room:         &fakeRoomRepo{store},
		Student:      &fakeStudentRepo{store},
		Allocation:   &fakeAllocationRepo{store},
		Staff:        &fakeStaffRepo{store},
		Complaint:    &fakeComplaintRepo{store},
		ComplaintLog: &fakeComplaintLogRepo{store},
		Payment:      &fakePaymentRepo{store},
	}
}

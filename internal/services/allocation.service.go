package services

import (
	"context"
	"errors"
	"hosteldesk/internal/events"
	. "hosteldesk/internal/models"
	"hosteldesk/internal/repositories"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AllocationService is the only component allowed to create or deactivate
// allocation rows and the only caller of the room ledger's ReserveSlot and
// ReleaseSlot. Every mutation runs in a single transaction: after a
// successful call the student holds exactly one active allocation and room
// occupancy reflects it; after a failed call nothing changed.
type AllocationService struct {
	tx          TransactionExecutor
	students    repositories.StudentRepository
	rooms       repositories.RoomRepository
	hostels     repositories.HostelRepository
	allocations repositories.AllocationRepository
	eventBus    *events.EventBus
	log         logger.Logger
}

func NewAllocationService(
	tx TransactionExecutor,
	repos repositories.Repository,
	eventBus *events.EventBus,
) *AllocationService {
	return &AllocationService{
		tx:          tx,
		students:    repos.Student,
		rooms:       repos.Room,
		hostels:     repos.Hostel,
		allocations: repos.Allocation,
		eventBus:    eventBus,
		log:         logger.New("AllocationService"),
	}
}

// Assign places a student in a room, releasing any room they currently hold.
// The room row is locked for the duration of the transaction, so the
// check-then-increment on occupancy cannot race with a concurrent Assign:
// the loser of the lock sees the updated counter. If the reservation fails
// the whole transaction rolls back, including the deactivation of the
// student's previous allocation.
func (s *AllocationService) Assign(
	ctx context.Context,
	studentID uuid.UUID,
	roomID uuid.UUID,
	expectedCheckout *time.Time,
) (*Allocation, error) {
	log := s.log.Function("Assign")

	var created *Allocation
	var previousRoomID *uuid.UUID

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		student, err := s.students.GetByID(ctx, tx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return InternalError("failed to load student", err)
		}
		if !student.IsActive {
			return ErrStudentInactive
		}

		room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return InternalError("failed to lock room", err)
		}
		if !room.IsAvailable {
			return ErrRoomUnavailable
		}

		hostel, err := s.hostels.GetByID(ctx, tx, room.HostelID)
		if err != nil {
			return InternalError("failed to load hostel for room", err)
		}
		if !hostel.GenderAllowed.Admits(student.Gender) {
			return ErrGenderMismatch
		}

		// Release the student's current room first; if the new reservation
		// fails below, the rollback undoes this too, so no observer ever
		// sees the student without a room.
		now := time.Now()
		current, err := s.allocations.GetActiveByStudent(ctx, tx, studentID, true)
		switch {
		case err == nil:
			if err := s.allocations.Deactivate(ctx, tx, current.ID, now); err != nil {
				return InternalError("failed to deactivate current allocation", err)
			}
			if err := s.rooms.ReleaseSlot(ctx, tx, current.RoomID); err != nil {
				return InternalError("failed to release previous room slot", err)
			}
			previousRoomID = &current.RoomID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first allocation for this student
		default:
			return InternalError("failed to look up active allocation", err)
		}

		reserved, err := s.rooms.ReserveSlot(ctx, tx, roomID)
		if err != nil {
			return InternalError("failed to reserve room slot", err)
		}
		if !reserved {
			// Existence and availability were verified under the row lock,
			// so a missed reservation means the room is full.
			return ErrRoomFull
		}

		allocation := &Allocation{
			StudentID:      studentID,
			RoomID:         roomID,
			IsActive:       true,
			AllocationDate: datatypes.Date(now),
		}
		if expectedCheckout != nil {
			expected := datatypes.Date(*expectedCheckout)
			allocation.ExpectedCheckout = &expected
		}

		if err := s.allocations.Create(ctx, tx, allocation); err != nil {
			if errors.Is(err, repositories.ErrActiveAllocationExists) {
				return ErrAllocationConflict
			}
			return InternalError("failed to create allocation", err)
		}

		created = allocation
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("student assigned to room",
		"studentID", studentID, "roomID", roomID, "allocationID", created.ID)
	s.publishAllocationEvent(events.ROOM_ASSIGNED, created, previousRoomID)

	return created, nil
}

// Checkout ends an allocation. Repeating a checkout is not a silent success:
// the second call reports the allocation as already inactive and the room
// slot is released exactly once.
func (s *AllocationService) Checkout(ctx context.Context, allocationID uuid.UUID) (*Allocation, error) {
	log := s.log.Function("Checkout")

	var checked *Allocation

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		allocation, err := s.allocations.GetByID(ctx, tx, allocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllocationNotFound
			}
			return InternalError("failed to load allocation", err)
		}
		if !allocation.IsActive {
			return ErrAlreadyInactive
		}

		now := time.Now()
		if err := s.allocations.Deactivate(ctx, tx, allocation.ID, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// lost a race with a concurrent checkout
				return ErrAlreadyInactive
			}
			return InternalError("failed to deactivate allocation", err)
		}
		if err := s.rooms.ReleaseSlot(ctx, tx, allocation.RoomID); err != nil {
			return InternalError("failed to release room slot", err)
		}

		allocation.IsActive = false
		checkout := datatypes.Date(now)
		allocation.ActualCheckout = &checkout
		checked = allocation
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("allocation checked out", "allocationID", allocationID, "roomID", checked.RoomID)
	s.publishAllocationEvent(events.ROOM_CHECKED_OUT, checked, nil)

	return checked, nil
}

// DeactivateForStudent ends the student's active allocation, if any. Used
// when a student is deactivated system-wide; no error when there is nothing
// to end.
func (s *AllocationService) DeactivateForStudent(ctx context.Context, studentID uuid.UUID) error {
	return s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.DeactivateForStudentTx(ctx, tx, studentID)
	})
}

// DeactivateForStudentTx is the transaction-scoped variant for callers that
// need the deactivation to ride in their own transaction.
func (s *AllocationService) DeactivateForStudentTx(
	ctx context.Context,
	tx *gorm.DB,
	studentID uuid.UUID,
) error {
	current, err := s.allocations.GetActiveByStudent(ctx, tx, studentID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return InternalError("failed to look up active allocation", err)
	}

	if err := s.allocations.Deactivate(ctx, tx, current.ID, time.Now()); err != nil {
		return InternalError("failed to deactivate allocation", err)
	}
	if err := s.rooms.ReleaseSlot(ctx, tx, current.RoomID); err != nil {
		return InternalError("failed to release room slot", err)
	}

	return nil
}

func (s *AllocationService) GetActiveForStudent(
	ctx context.Context,
	studentID uuid.UUID,
) (*Allocation, error) {
	allocation, err := s.allocations.GetActiveByStudent(ctx, s.tx.DB(ctx), studentID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, InternalError("failed to load active allocation", err)
	}
	return allocation, nil
}

func (s *AllocationService) ListForStudent(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*Allocation, error) {
	allocations, err := s.allocations.ListByStudent(ctx, s.tx.DB(ctx), studentID)
	if err != nil {
		return nil, InternalError("failed to list allocations", err)
	}
	return allocations, nil
}

func (s *AllocationService) publishAllocationEvent(
	messageType events.MessageType,
	allocation *Allocation,
	previousRoomID *uuid.UUID,
) {
	if s.eventBus == nil {
		return
	}

	data := map[string]any{
		"allocationId": allocation.ID.String(),
		"studentId":    allocation.StudentID.String(),
		"roomId":       allocation.RoomID.String(),
	}
	if previousRoomID != nil {
		data["previousRoomId"] = previousRoomID.String()
	}

	if err := s.eventBus.Publish(events.ALLOCATIONS_CHANNEL, events.Event{
		Type: messageType,
		Data: data,
	}); err != nil {
		s.log.Warn("failed to publish allocation event", "type", messageType, "error", err)
	}
}

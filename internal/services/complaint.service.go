package services

import (
	"context"
	"errors"
	"fmt"
	"hosteldesk/internal/events"
	. "hosteldesk/internal/models"
	"hosteldesk/internal/repositories"
	"hosteldesk/internal/utils"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintCreateInput struct {
	StudentID   uuid.UUID         `json:"studentId"`
	RoomID      uuid.UUID         `json:"roomId"`
	Category    ComplaintCategory `json:"category"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    int               `json:"priority"`
	Actor       string            `json:"-"`
}

type ComplaintUpdateInput struct {
	Status          *ComplaintStatus `json:"status"`
	AssignedStaffID *uuid.UUID       `json:"assignedStaffId"`
	ResolutionNotes *string          `json:"resolutionNotes"`
	Priority        *int             `json:"priority"`
	Actor           string           `json:"-"`
}

// ComplaintService drives the ticket lifecycle and is the sole writer of the
// complaint audit log. Transitions are permissive: any status may be set
// from any other, the one hard rule being that "assigned" requires staff.
// Each actual status change appends exactly one log row and stamps the
// matching lifecycle timestamp the first time that status is reached.
type ComplaintService struct {
	tx            TransactionExecutor
	students      repositories.StudentRepository
	rooms         repositories.RoomRepository
	staff         repositories.StaffRepository
	complaints    repositories.ComplaintRepository
	complaintLogs repositories.ComplaintLogRepository
	eventBus      *events.EventBus
	log           logger.Logger
}

func NewComplaintService(
	tx TransactionExecutor,
	repos repositories.Repository,
	eventBus *events.EventBus,
) *ComplaintService {
	return &ComplaintService{
		tx:            tx,
		students:      repos.Student,
		rooms:         repos.Room,
		staff:         repos.Staff,
		complaints:    repos.Complaint,
		complaintLogs: repos.ComplaintLog,
		eventBus:      eventBus,
		log:           logger.New("ComplaintService"),
	}
}

func (s *ComplaintService) Create(
	ctx context.Context,
	input ComplaintCreateInput,
) (*Complaint, error) {
	log := s.log.Function("Create")

	// Input shape is rejected before any database round-trip.
	if !input.Category.Valid() {
		return nil, ValidationError(fmt.Sprintf("invalid complaint category %q", input.Category))
	}
	if input.Priority == 0 {
		input.Priority = PriorityDefault
	}
	if !ValidPriority(input.Priority) {
		return nil, ValidationError(fmt.Sprintf("priority must be between %d and %d", PriorityHighest, PriorityLowest))
	}
	input.Title, _ = utils.CleanUTF8(input.Title)
	input.Description, _ = utils.CleanUTF8(input.Description)
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" {
		return nil, ValidationError("title is required")
	}
	if input.Actor == "" {
		input.Actor = "student"
	}

	var created *Complaint

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

		if _, err := s.rooms.GetByID(ctx, tx, input.RoomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return InternalError("failed to load room", err)
		}

		complaint := &Complaint{
			StudentID:   input.StudentID,
			RoomID:      input.RoomID,
			Category:    input.Category,
			Status:      StatusOpen,
			Priority:    input.Priority,
			Title:       input.Title,
			Description: input.Description,
		}
		if err := s.complaints.Create(ctx, tx, complaint); err != nil {
			return InternalError("failed to create complaint", err)
		}

		// The creation transition is audited like any other: old status nil.
		entry := &ComplaintLog{
			ComplaintID: complaint.ID,
			OldStatus:   nil,
			NewStatus:   StatusOpen,
			ChangedBy:   input.Actor,
			Note:        "Complaint created",
		}
		if err := s.complaintLogs.Append(ctx, tx, entry); err != nil {
			return InternalError("failed to append complaint log", err)
		}

		created = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("complaint created", "complaintID", created.ID, "category", created.Category)
	s.publishComplaintEvent(events.COMPLAINT_CREATED, created)

	return created, nil
}

// Update applies field changes and, when the status actually moves, stamps
// the one-time lifecycle timestamp and appends an audit row. Field-only
// updates leave the audit log untouched.
func (s *ComplaintService) Update(
	ctx context.Context,
	complaintID uuid.UUID,
	input ComplaintUpdateInput,
) (*Complaint, error) {
	log := s.log.Function("Update")

	if input.Status != nil && !input.Status.Valid() {
		return nil, ValidationError(fmt.Sprintf("invalid complaint status %q", *input.Status))
	}
	if input.Priority != nil && !ValidPriority(*input.Priority) {
		return nil, ValidationError(fmt.Sprintf("priority must be between %d and %d", PriorityHighest, PriorityLowest))
	}
	if input.Actor == "" {
		input.Actor = "admin"
	}

	var updated *Complaint
	var statusChanged bool

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		complaint, err := s.complaints.GetByIDForUpdate(ctx, tx, complaintID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return InternalError("failed to load complaint", err)
		}

		oldStatus := complaint.Status
		staffNewlyAssigned := false

		if input.AssignedStaffID != nil {
			staff, err := s.staff.GetByID(ctx, tx, *input.AssignedStaffID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStaffNotFound
				}
				return InternalError("failed to load staff", err)
			}
			if !staff.IsAvailable {
				return ErrStaffUnavailable
			}
			complaint.AssignedStaffID = input.AssignedStaffID
			staffNewlyAssigned = true
		}

		newStatus := oldStatus
		switch {
		case input.Status != nil:
			newStatus = *input.Status
		case staffNewlyAssigned && oldStatus == StatusOpen:
			// Assigning staff to an open ticket advances it implicitly.
			newStatus = StatusAssigned
		}

		if newStatus == StatusAssigned && complaint.AssignedStaffID == nil {
			return ErrMissingAssignment
		}

		if input.Priority != nil {
			complaint.Priority = *input.Priority
		}
		if input.ResolutionNotes != nil {
			complaint.ResolutionNotes = input.ResolutionNotes
		}

		statusChanged = newStatus != oldStatus
		if statusChanged {
			complaint.Status = newStatus
			stampStatusTimestamp(complaint, newStatus, time.Now())
		}

		if err := s.complaints.Save(ctx, tx, complaint); err != nil {
			return InternalError("failed to save complaint", err)
		}

		if statusChanged {
			entry := &ComplaintLog{
				ComplaintID: complaint.ID,
				OldStatus:   &oldStatus,
				NewStatus:   newStatus,
				ChangedBy:   input.Actor,
				Note:        transitionNote(complaint, input, staffNewlyAssigned),
			}
			if err := s.complaintLogs.Append(ctx, tx, entry); err != nil {
				return InternalError("failed to append complaint log", err)
			}
		}

		updated = complaint
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		log.Info("complaint status changed",
			"complaintID", complaintID, "status", updated.Status)
		s.publishComplaintEvent(events.COMPLAINT_UPDATED, updated)
	}

	return updated, nil
}

// stampStatusTimestamp sets the lifecycle timestamp matching the status,
// only if it has never been set. Re-entering a status later does not move
// the original stamp.
func stampStatusTimestamp(complaint *Complaint, status ComplaintStatus, now time.Time) {
	switch status {
	case StatusAssigned:
		if complaint.AssignedAt == nil {
			complaint.AssignedAt = &now
		}
	case StatusResolved:
		if complaint.ResolvedAt == nil {
			complaint.ResolvedAt = &now
		}
	case StatusClosed:
		if complaint.ClosedAt == nil {
			complaint.ClosedAt = &now
		}
	}
}

func transitionNote(
	complaint *Complaint,
	input ComplaintUpdateInput,
	staffNewlyAssigned bool,
) string {
	if staffNewlyAssigned && complaint.AssignedStaffID != nil {
		return fmt.Sprintf("Assigned to staff ID: %s", complaint.AssignedStaffID)
	}
	if input.ResolutionNotes != nil && *input.ResolutionNotes != "" {
		return fmt.Sprintf("Resolution: %s", *input.ResolutionNotes)
	}
	return fmt.Sprintf("Status changed to %s", complaint.Status)
}

func (s *ComplaintService) GetByID(ctx context.Context, complaintID uuid.UUID) (*Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, s.tx.DB(ctx), complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, InternalError("failed to load complaint", err)
	}
	return complaint, nil
}

func (s *ComplaintService) List(
	ctx context.Context,
	filter repositories.ComplaintFilter,
) ([]*Complaint, error) {
	complaints, err := s.complaints.List(ctx, s.tx.DB(ctx), filter)
	if err != nil {
		return nil, InternalError("failed to list complaints", err)
	}
	return complaints, nil
}

// Logs returns the audit trail for one complaint, newest first.
func (s *ComplaintService) Logs(ctx context.Context, complaintID uuid.UUID) ([]*ComplaintLog, error) {
	entries, err := s.complaintLogs.ListByComplaint(ctx, s.tx.DB(ctx), complaintID)
	if err != nil {
		return nil, InternalError("failed to list complaint logs", err)
	}
	return entries, nil
}

func (s *ComplaintService) ListStaff(
	ctx context.Context,
	availableOnly bool,
) ([]*MaintenanceStaff, error) {
	staff, err := s.staff.List(ctx, s.tx.DB(ctx), availableOnly)
	if err != nil {
		return nil, InternalError("failed to list staff", err)
	}
	return staff, nil
}

func (s *ComplaintService) publishComplaintEvent(messageType events.MessageType, complaint *Complaint) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(events.COMPLAINTS_CHANNEL, events.Event{
		Type: messageType,
		Data: map[string]any{
			"complaintId": complaint.ID.String(),
			"status":      string(complaint.Status),
			"category":    string(complaint.Category),
			"priority":    complaint.Priority,
		},
	}); err != nil {
		s.log.Warn("failed to publish complaint event", "type", messageType, "error", err)
	}
}

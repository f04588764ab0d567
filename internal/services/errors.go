package services

import "fmt"

// ErrorKind buckets expected failures so handlers can pick a status code
// without string matching. Anything outside the first three kinds is an
// infrastructure failure and surfaces as internal.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so errors.Is works against the shared sentinels below
// even when an error was wrapped with extra context.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && other.Code == e.Code
}

var (
	ErrStudentNotFound    = &AppError{Kind: KindNotFound, Code: "student_not_found", Message: "student not found"}
	ErrStudentInactive    = &AppError{Kind: KindConflict, Code: "student_inactive", Message: "student is not active"}
	ErrRoomNotFound       = &AppError{Kind: KindNotFound, Code: "room_not_found", Message: "room not found"}
	ErrRoomUnavailable    = &AppError{Kind: KindConflict, Code: "room_unavailable", Message: "room is not available for allocation"}
	ErrRoomFull           = &AppError{Kind: KindConflict, Code: "room_full", Message: "room is at full capacity"}
	ErrGenderMismatch     = &AppError{Kind: KindConflict, Code: "gender_mismatch", Message: "hostel gender policy does not admit this student"}
	ErrHostelNotFound     = &AppError{Kind: KindNotFound, Code: "hostel_not_found", Message: "hostel not found"}
	ErrAllocationNotFound = &AppError{Kind: KindNotFound, Code: "allocation_not_found", Message: "allocation not found"}
	ErrAlreadyInactive    = &AppError{Kind: KindConflict, Code: "already_inactive", Message: "allocation is already inactive"}
	ErrAllocationConflict = &AppError{Kind: KindConflict, Code: "allocation_conflict", Message: "student already has an active allocation"}
	ErrComplaintNotFound  = &AppError{Kind: KindNotFound, Code: "complaint_not_found", Message: "complaint not found"}
	ErrStaffNotFound      = &AppError{Kind: KindNotFound, Code: "staff_not_found", Message: "maintenance staff not found"}
	ErrStaffUnavailable   = &AppError{Kind: KindConflict, Code: "staff_unavailable", Message: "maintenance staff is not available"}
	ErrMissingAssignment  = &AppError{Kind: KindValidation, Code: "missing_assignment", Message: "status 'assigned' requires an assigned staff member"}
	ErrNoActiveAllocation = &AppError{Kind: KindConflict, Code: "no_active_allocation", Message: "student has no active room allocation"}
	ErrDuplicateStudent   = &AppError{Kind: KindConflict, Code: "duplicate_student", Message: "registration number or email already in use"}
)

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Code: "validation", Message: message}
}

func InternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "internal", Message: message, Err: err}
}

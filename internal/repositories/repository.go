package repositories

type Repository struct {
	Hostel       HostelRepository
	Room         RoomRepository
	Student      StudentRepository
	Allocation   AllocationRepository
	Staff        StaffRepository
	Complaint    ComplaintRepository
	ComplaintLog ComplaintLogRepository
	Payment      PaymentRepository
	Analytics    AnalyticsRepository
}

func New() Repository {
	return Repository{
		Hostel:       NewHostelRepository(),
		Room:         NewRoomRepository(),
		Student:      NewStudentRepository(),
		Allocation:   NewAllocationRepository(),
		Staff:        NewStaffRepository(),
		Complaint:    NewComplaintRepository(),
		ComplaintLog: NewComplaintLogRepository(),
		Payment:      NewPaymentRepository(),
		Analytics:    NewAnalyticsRepository(),
	}
}

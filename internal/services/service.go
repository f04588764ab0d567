package services

import (
	"hosteldesk/config"
	"hosteldesk/internal/database"
	"hosteldesk/internal/events"
	"hosteldesk/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Allocation  *AllocationService
	Student     *StudentService
	Room        *RoomService
	Complaint   *ComplaintService
	Payment     *PaymentService
	Analytics   *AnalyticsService
	Scheduler   *SchedulerService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New()

	allocationService := NewAllocationService(transactionService, repos, eventBus)
	studentService := NewStudentService(transactionService, repos, allocationService)
	roomService := NewRoomService(transactionService, repos)
	complaintService := NewComplaintService(transactionService, repos, eventBus)
	paymentService := NewPaymentService(transactionService, repos)
	analyticsService := NewAnalyticsService(transactionService, repos, db.Cache.Analytics)
	schedulerService := NewSchedulerService()

	return Service{
		Transaction: transactionService,
		Allocation:  allocationService,
		Student:     studentService,
		Room:        roomService,
		Complaint:   complaintService,
		Payment:     paymentService,
		Analytics:   analyticsService,
		Scheduler:   schedulerService,
	}, nil
}

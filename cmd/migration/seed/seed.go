package seed

import (
	"hosteldesk/config"
	"time"

	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

// Seed loads a small consistent development dataset: two hostels, a handful
// of rooms with occupancy counters matching their active allocations, and a
// few complaints in different lifecycle states.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	north := Hostel{
		Name:          "North Wing",
		GenderAllowed: GenderPolicyMale,
		WardenName:    stringPtr("R. Okafor"),
		Address:       stringPtr("1 Campus Drive"),
	}
	south := Hostel{
		Name:          "South Wing",
		GenderAllowed: GenderPolicyAny,
		WardenName:    stringPtr("T. Mensah"),
		Address:       stringPtr("2 Campus Drive"),
	}
	for _, hostel := range []*Hostel{&north, &south} {
		if err := db.Create(hostel).Error; err != nil {
			return log.Err("failed to seed hostel", err, "name", hostel.Name)
		}
	}

	rooms := []*Room{
		{HostelID: north.ID, RoomNumber: "N-101", Capacity: 2, Floor: intPtr(1)},
		{HostelID: north.ID, RoomNumber: "N-102", Capacity: 4, Floor: intPtr(1)},
		{HostelID: north.ID, RoomNumber: "N-201", Capacity: 1, Floor: intPtr(2)},
		{HostelID: south.ID, RoomNumber: "S-101", Capacity: 3, Floor: intPtr(1)},
		{HostelID: south.ID, RoomNumber: "S-102", Capacity: 2, Floor: intPtr(1)},
	}
	for _, room := range rooms {
		room.IsAvailable = true
		if err := db.Create(room).Error; err != nil {
			return log.Err("failed to seed room", err, "roomNumber", room.RoomNumber)
		}
	}
	for _, hostel := range []*Hostel{&north, &south} {
		var count int64
		if err := db.Model(&Room{}).Where("hostel_id = ?", hostel.ID).Count(&count).Error; err != nil {
			return log.Err("failed to count seeded rooms", err)
		}
		if err := db.Model(hostel).Update("total_rooms", count).Error; err != nil {
			return log.Err("failed to set hostel room count", err, "name", hostel.Name)
		}
	}

	students := []*Student{
		{RegistrationNo: "HD-2025-001", FullName: "Kwame Asante", Email: "kwame.asante@example.edu", Gender: GenderMale},
		{RegistrationNo: "HD-2025-002", FullName: "Amara Diallo", Email: "amara.diallo@example.edu", Gender: GenderFemale},
		{RegistrationNo: "HD-2025-003", FullName: "Jordan Lee", Email: "jordan.lee@example.edu", Gender: GenderOther},
		{RegistrationNo: "HD-2025-004", FullName: "Tunde Bello", Email: "tunde.bello@example.edu", Gender: GenderMale},
	}
	for _, student := range students {
		student.IsActive = true
		if err := db.Create(student).Error; err != nil {
			return log.Err("failed to seed student", err, "registrationNo", student.RegistrationNo)
		}
	}

	staff := []*MaintenanceStaff{
		{FullName: "E. Carter", Specialization: CategoryElectrical, IsAvailable: true, HostelID: &north.ID},
		{FullName: "P. Nwosu", Specialization: CategoryPlumbing, IsAvailable: true},
		{FullName: "C. Reyes", Specialization: CategoryCleaning, IsAvailable: false, HostelID: &south.ID},
	}
	for _, member := range staff {
		if err := db.Create(member).Error; err != nil {
			return log.Err("failed to seed staff", err, "fullName", member.FullName)
		}
	}

	// Active allocations; the occupancy bump rides with each row so the
	// counters match the allocation table from the first query.
	today := datatypes.Date(time.Now())
	allocations := []*Allocation{
		{StudentID: students[0].ID, RoomID: rooms[0].ID, IsActive: true, AllocationDate: today},
		{StudentID: students[1].ID, RoomID: rooms[3].ID, IsActive: true, AllocationDate: today},
		{StudentID: students[2].ID, RoomID: rooms[3].ID, IsActive: true, AllocationDate: today},
	}
	for _, allocation := range allocations {
		if err := db.Create(allocation).Error; err != nil {
			return log.Err("failed to seed allocation", err)
		}
		err := db.Model(&Room{}).
			Where("id = ?", allocation.RoomID).
			Update("current_occupancy", gorm.Expr("current_occupancy + 1")).Error
		if err != nil {
			return log.Err("failed to bump seeded occupancy", err)
		}
	}

	complaints := []*Complaint{
		{
			StudentID:   students[0].ID,
			RoomID:      rooms[0].ID,
			Category:    CategoryElectrical,
			Status:      StatusOpen,
			Priority:    PriorityDefault,
			Title:       "Ceiling fan not working",
			Description: "Fan stopped spinning two days ago.",
		},
		{
			StudentID:       students[1].ID,
			RoomID:          rooms[3].ID,
			Category:        CategoryPlumbing,
			Status:          StatusAssigned,
			Priority:        2,
			Title:           "Leaking tap",
			Description:     "Bathroom tap drips constantly.",
			AssignedStaffID: &staff[1].ID,
		},
	}
	for _, complaint := range complaints {
		if err := db.Create(complaint).Error; err != nil {
			return log.Err("failed to seed complaint", err, "title", complaint.Title)
		}
		entry := ComplaintLog{
			ComplaintID: complaint.ID,
			NewStatus:   StatusOpen,
			ChangedBy:   "seed",
			Note:        "Complaint created",
		}
		if err := db.Create(&entry).Error; err != nil {
			return log.Err("failed to seed complaint log", err)
		}
	}

	payment := FeePayment{
		StudentID:    students[0].ID,
		AllocationID: &allocations[0].ID,
		Amount:       decimal.NewFromInt(250),
		Method:       PaymentMethodTransfer,
		PaidOn:       today,
		Reference:    stringPtr("SEED-0001"),
	}
	if err := db.Create(&payment).Error; err != nil {
		return log.Err("failed to seed payment", err)
	}

	log.Info("Seed complete")
	return nil
}

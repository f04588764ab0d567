package initialize

import (
	"hosteldesk/config"

	. "hosteldesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := reconcileHostelRoomCounts(db, log); err != nil {
		return log.Err("failed to reconcile hostel room counts", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// reconcileHostelRoomCounts recomputes each hostel's total_rooms from the
// rooms table. Runs once per migration so a counter that drifted while the
// schema was mid-change starts correct again.
func reconcileHostelRoomCounts(db *gorm.DB, log logger.Logger) error {
	log.Info("Reconciling hostel room counters")

	var hostels []Hostel
	if err := db.Find(&hostels).Error; err != nil {
		return err
	}

	for _, hostel := range hostels {
		var count int64
		if err := db.Model(&Room{}).Where("hostel_id = ?", hostel.ID).Count(&count).Error; err != nil {
			return err
		}

		if int64(hostel.TotalRooms) == count {
			continue
		}

		log.Warn("Correcting hostel room counter",
			"hostel", hostel.Name, "stored", hostel.TotalRooms, "actual", count)
		err := db.Model(&Hostel{}).
			Where("id = ?", hostel.ID).
			Update("total_rooms", count).Error
		if err != nil {
			return err
		}
	}

	log.Info("Hostel room counters reconciled", "hostels", len(hostels))
	return nil
}

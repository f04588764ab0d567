package jobs

import (
	"context"
	"hosteldesk/internal/repositories"
	"hosteldesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// OccupancyAuditJob recounts active allocations per room and compares the
// result against the stored occupancy counter. Drift is logged for an
// operator to investigate, never auto-corrected: a silent fix would hide
// whatever bug caused the counter to slip.
type OccupancyAuditJob struct {
	tx       services.TransactionExecutor
	rooms    repositories.RoomRepository
	log      logger.Logger
	schedule services.Schedule
}

func NewOccupancyAuditJob(
	tx services.TransactionExecutor,
	repos repositories.Repository,
	schedule services.Schedule,
) *OccupancyAuditJob {
	return &OccupancyAuditJob{
		tx:       tx,
		rooms:    repos.Room,
		log:      logger.New("occupancyAuditJob"),
		schedule: schedule,
	}
}

func (j *OccupancyAuditJob) Name() string {
	return "RoomOccupancyAudit"
}

func (j *OccupancyAuditJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *OccupancyAuditJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	db := j.tx.DB(ctx)

	rooms, err := j.rooms.List(ctx, db, nil)
	if err != nil {
		return log.Err("failed to list rooms for audit", err)
	}

	var drifted int
	for _, room := range rooms {
		actual, err := j.rooms.CountActiveAllocations(ctx, db, room.ID)
		if err != nil {
			return log.Err("failed to recount allocations", err, "roomID", room.ID)
		}

		if int64(room.CurrentOccupancy) != actual {
			drifted++
			log.Warn("occupancy counter drift detected",
				"roomID", room.ID,
				"roomNumber", room.RoomNumber,
				"counter", room.CurrentOccupancy,
				"actual", actual)
		}
	}

	log.Info("occupancy audit completed", "rooms", len(rooms), "drifted", drifted)
	return nil
}

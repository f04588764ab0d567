package jobs

import (
	"context"
	"hosteldesk/internal/models"
	"hosteldesk/internal/repositories"
	"hosteldesk/internal/services"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// EscalationAge is how long a complaint may sit in open or assigned before
// its priority is raised one step.
const EscalationAge = 48 * time.Hour

// SLAEscalationJob bumps the priority of complaints that have sat unworked
// past the escalation age. Each pass raises priority by one step at most, so
// a ticket climbs gradually rather than jumping straight to the top.
type SLAEscalationJob struct {
	tx         services.TransactionExecutor
	complaints repositories.ComplaintRepository
	log        logger.Logger
	schedule   services.Schedule
}

func NewSLAEscalationJob(
	tx services.TransactionExecutor,
	repos repositories.Repository,
	schedule services.Schedule,
) *SLAEscalationJob {
	return &SLAEscalationJob{
		tx:         tx,
		complaints: repos.Complaint,
		log:        logger.New("slaEscalationJob"),
		schedule:   schedule,
	}
}

func (j *SLAEscalationJob) Name() string {
	return "ComplaintSLAEscalation"
}

func (j *SLAEscalationJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *SLAEscalationJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	cutoff := time.Now().Add(-EscalationAge)

	stale, err := j.complaints.ListStaleActive(ctx, j.tx.DB(ctx), cutoff)
	if err != nil {
		return log.Err("failed to list stale complaints", err)
	}

	if len(stale) == 0 {
		log.Info("no complaints to escalate")
		return nil
	}

	var escalated int
	for _, complaint := range stale {
		err := j.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			locked, err := j.complaints.GetByIDForUpdate(ctx, tx, complaint.ID)
			if err != nil {
				return err
			}
			// Re-check under the lock; an admin may have worked the ticket
			// between the list and now.
			if locked.Status != models.StatusOpen && locked.Status != models.StatusAssigned {
				return nil
			}
			if locked.Priority <= models.PriorityHighest {
				return nil
			}

			locked.Priority--
			return j.complaints.Save(ctx, tx, locked)
		})
		if err != nil {
			_ = log.Err("failed to escalate complaint", err, "complaintID", complaint.ID)
			continue
		}
		escalated++
	}

	log.Info("SLA escalation completed", "candidates", len(stale), "escalated", escalated)
	return nil
}

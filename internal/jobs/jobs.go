package jobs

import (
	"hosteldesk/config"
	"hosteldesk/internal/repositories"
	"hosteldesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	svc services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	occupancyAuditJob := NewOccupancyAuditJob(svc.Transaction, repos, Hourly)
	if err := schedulerService.AddJob(occupancyAuditJob); err != nil {
		return log.Err("failed to register occupancy audit job", err)
	}
	log.Info("Registered occupancy audit job", "schedule", "hourly")

	slaEscalationJob := NewSLAEscalationJob(svc.Transaction, repos, Daily)
	if err := schedulerService.AddJob(slaEscalationJob); err != nil {
		return log.Err("failed to register SLA escalation job", err)
	}
	log.Info("Registered SLA escalation job", "schedule", "daily")

	return nil
}

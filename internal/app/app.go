package app

import (
	"context"
	"hosteldesk/config"
	"hosteldesk/internal/database"
	"hosteldesk/internal/events"
	"hosteldesk/internal/handlers/middleware"
	"hosteldesk/internal/jobs"
	"hosteldesk/internal/repositories"
	"hosteldesk/internal/services"
	"hosteldesk/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config
	Services   services.Service
	Repos      repositories.Repository
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)
	repos := repositories.New()

	svc, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config)

	// Every allocation or complaint write stales the cached reports.
	invalidate := func(event events.Event) error {
		svc.Analytics.Invalidate(context.Background())
		return nil
	}
	for _, channel := range []events.Channel{events.ALLOCATIONS_CHANNEL, events.COMPLAINTS_CHANNEL} {
		if err := eventBus.Subscribe(channel, invalidate); err != nil {
			return &App{}, log.Err("failed to subscribe analytics invalidation", err, "channel", channel)
		}
	}

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(svc.Scheduler, config, svc, repos); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
	}

	return &App{
		Database:   db,
		Middleware: middleware,
		Websocket:  websocket,
		EventBus:   eventBus,
		Config:     config,
		Services:   svc,
		Repos:      repos,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	log := logger.New("app").Function("Start")

	if a.Config.SchedulerEnabled {
		if err := a.Services.Scheduler.Start(ctx); err != nil {
			return log.Err("failed to start scheduler", err)
		}
	}

	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	log := logger.New("app").Function("Shutdown")
	log.Info("Shutting down application")

	if err := a.Services.Scheduler.Stop(ctx); err != nil {
		_ = log.Err("failed to stop scheduler", err)
	}

	if err := a.EventBus.Close(); err != nil {
		_ = log.Err("failed to close event bus", err)
	}

	if err := a.Database.Close(); err != nil {
		return log.Err("failed to close database", err)
	}

	log.Info("Application shutdown complete")
	return nil
}

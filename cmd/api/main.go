package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/evcal/event-lifecycle-service/internal/bus"
	"github.com/evcal/event-lifecycle-service/internal/clock"
	"github.com/evcal/event-lifecycle-service/internal/config"
	"github.com/evcal/event-lifecycle-service/internal/handler"
	"github.com/evcal/event-lifecycle-service/internal/logger"
	"github.com/evcal/event-lifecycle-service/internal/parser"
	"github.com/evcal/event-lifecycle-service/internal/repository/memory"
	"github.com/evcal/event-lifecycle-service/internal/scheduler"
	"github.com/evcal/event-lifecycle-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting event lifecycle service",
		zap.String("environment", cfg.ServiceEnvironment),
		zap.String("port", cfg.ServiceAPIPort))

	// Initialize repositories
	proposalRepo := memory.NewParseResponseRepository()
	eventRepo := memory.NewEventRepository()
	reminderRepo := memory.NewReminderRepository()
	timelineRepo := memory.NewTimelineRepository()

	// Initialize the bus and simulated clock. The clock starts at process
	// start and only moves when /tick is called.
	eventBus := bus.New()
	simClock := clock.NewSimulated(time.Now().UTC())

	// Initialize the reminder scheduler and audit recorder. Registration
	// order matters: the scheduler must attach reminders before the audit
	// recorder snapshots them into the timeline.
	reminderScheduler := scheduler.New(reminderRepo, eventRepo, eventBus, simClock, cfg.ReminderOffsets(), log)
	reminderScheduler.Register(eventBus)
	audit := service.NewAuditRecorder(timelineRepo, eventRepo, simClock, log)
	audit.Register(eventBus)

	// Initialize the lifecycle engine
	lifecycle := service.NewLifecycleService(
		proposalRepo,
		eventRepo,
		timelineRepo,
		eventBus,
		simClock,
		reminderScheduler,
		parser.NewRuleBased(),
		log,
		service.WithRecurrenceHorizon(cfg.RecurrenceHorizon()),
		service.WithMaxOccurrences(cfg.MaxOccurrencesPerSeries),
	)

	// Initialize handler
	h := handler.NewHandler(lifecycle, log)

	addr := fmt.Sprintf(":%s", cfg.ServiceAPIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}

package bootstrap

import (
	"context"
	"log"

	"exam-proctoring-be/internal/config"
	"exam-proctoring-be/internal/controller"
	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/internal/repository/implementation"
	"exam-proctoring-be/internal/repository/unitofwork"
	"exam-proctoring-be/internal/service"
	internalWS "exam-proctoring-be/internal/websocket"
	"exam-proctoring-be/pkg/aggregator"
	"exam-proctoring-be/pkg/detector"
	"exam-proctoring-be/pkg/evidence"
	"exam-proctoring-be/pkg/sensor"
	"exam-proctoring-be/pkg/session"

	pkgNats "exam-proctoring-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const evidenceTopic = "evidence_capture"

type Container struct {
	// Controllers
	ProctoringController controller.IProctoringController
	ConsoleController    controller.IConsoleController
	ExamController       controller.IExamController
	StudentController    controller.IStudentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *internalWS.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Console fan-out is instance-local", err)
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/console.log")
	wsHub := internalWS.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Detector adapters
	objects := detector.NewHTTPObjectProvider(cfg.Detector.ObjectURL, cfg.Detector.ConfidenceThreshold, cfg.Detector.CallTimeout)
	gaze := detector.NewHTTPGazeProvider(cfg.Detector.GazeURL, cfg.Detector.CallTimeout)
	faces := detector.NewHTTPFaceProvider(cfg.Detector.FaceURL, cfg.Detector.CallTimeout)

	// 3.5 Proctoring pipeline
	feeds := sensor.NewHub()
	eventRepo := implementation.NewCheatingEventRepository(db)
	evidenceRepo := implementation.NewEvidenceRepository(db)
	recorder := evidence.NewRecorder(evidenceRepo, cfg.Proctor.ImageCap, cfg.Proctor.AudioCap, cfg.Proctor.SampleRate)

	publisherService := service.NewPublisherService(evidenceTopic, pubSub)
	evidencePublisher := service.NewEvidencePublisher(publisherService)
	consumerService := service.NewConsumerService(pubSub, evidenceTopic, recorder, sysLogger)

	mailbox := aggregator.NewMailbox(cfg.Proctor.WarningDecay)

	// The registry factory and stop hook close over the aggregator,
	// which itself terminates through the registry. Both are only
	// invoked after NewContainer finishes wiring.
	var agg *aggregator.Aggregator
	var registry *session.Registry

	sessionCfg := session.Config{
		FrameInterval:     cfg.Proctor.FrameInterval,
		DetectEveryNth:    cfg.Proctor.DetectEveryNth,
		AudioPollInterval: cfg.Proctor.AudioPollInterval,
		AudioThreshold:    cfg.Proctor.AudioThreshold,
		AudioQuiet:        cfg.Proctor.AudioQuiet,
		DetectorTimeout:   cfg.Detector.CallTimeout,
	}

	factory := func(studentId, attemptId uuid.UUID) *session.Controller {
		key := attemptId.String()
		return session.NewController(
			studentId, attemptId,
			feeds.OpenVideo(key), feeds.OpenAudio(key),
			objects, gaze, agg, sessionCfg, sysLogger,
		)
	}
	stopHook := func(studentId, attemptId uuid.UUID, status session.Status) {
		feeds.Drop(attemptId.String())
		if status == session.StatusTerminated {
			// Keep the terminated marker so findings still draining
			// out of the loops are rejected instead of reopening
			// events for a dead attempt.
			agg.MarkTerminated(studentId, attemptId)
			agg.Warnings().Clear(attemptId.String())
		} else {
			agg.Release(studentId, attemptId)
		}
		sysLogger.Info("Bootstrap", "Session ended", map[string]interface{}{
			"attempt_id": attemptId.String(),
			"status":     string(status),
		})
	}
	registry = session.NewRegistry(cfg.Proctor.SessionTTL, factory, stopHook)

	terminator := service.NewTerminationHandler(uowFactory, registry, sysLogger)

	var eventPublisher aggregator.Publisher
	if natsPub != nil {
		eventPublisher = natsPub
	}
	agg = aggregator.New(eventRepo, evidencePublisher, terminator, eventPublisher, mailbox, cfg.Proctor.TabSwitchLimit, sysLogger)

	// 3.75 Proctor console feed (event bus -> websocket)
	proctorFeed := service.NewProctorFeedService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go proctorFeed.Start()
	}

	// 4. Services
	proctoringService := service.NewProctoringService(uowFactory, registry, agg, feeds, sysLogger)
	examService := service.NewExamService(uowFactory, registry, sysLogger)
	studentService := service.NewStudentService(uowFactory, faces, sysLogger)

	// 5. Controllers
	return &Container{
		ProctoringController: controller.NewProctoringController(proctoringService),
		ConsoleController:    controller.NewConsoleController(proctoringService, wsHub, wsLogger),
		ExamController:       controller.NewExamController(examService),
		StudentController:    controller.NewStudentController(studentService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}

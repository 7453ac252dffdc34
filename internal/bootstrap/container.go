package bootstrap

import (
	"context"
	"log"

	"notehub-be/internal/config"
	"notehub-be/internal/controller"
	"notehub-be/internal/pkg/logger"
	"notehub-be/internal/pkg/mailer"
	"notehub-be/internal/pkg/serverutils"
	"notehub-be/internal/repository/unitofwork"
	"notehub-be/internal/service"
	pktNats "notehub-be/pkg/nats"
	"notehub-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	NoteController controller.INoteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	} else {
		log.Println("[WARN] SMTP not configured, welcome emails disabled")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (optional fan-out of activity events)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (optional shared-note cache)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	var sharedCache service.SharedNoteCache
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Shared-note cache disabled", err)
	} else {
		sharedCache = service.NewRedisSharedNoteCache(rdb)
	}

	// Object storage: attachments are core, fail hard when unavailable
	storageClient, err := storage.NewClient(context.Background(), cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.PublicBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}

	// 3. Services
	publisherService := service.NewPublisherService(cfg.App.ActivityTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.ActivityTopic,
		sysLogger,
		natsPub,
	)

	attachmentService := service.NewAttachmentService(storageClient, cfg.Storage)
	authService := service.NewAuthService(uowFactory, emailService, publisherService, cfg.JWT)
	noteService := service.NewNoteService(
		uowFactory,
		attachmentService,
		publisherService,
		sysLogger,
		sharedCache,
		cfg.App.BaseURL,
		cfg.Storage.MaxUploadFiles,
	)

	// 4. Controllers
	authGuard := serverutils.NewJwtMiddleware(cfg.JWT.Secret)
	return &Container{
		AuthController: controller.NewAuthController(authService, cfg, authGuard),
		NoteController: controller.NewNoteController(noteService, authGuard),

		ConsumerService: consumerService,
		SysLogger:       sysLogger,
	}
}

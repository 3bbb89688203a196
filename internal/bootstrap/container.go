package bootstrap

import (
	"context"
	"log"
	"time"

	"doceasy-be/internal/client/ragclient"
	"doceasy-be/internal/config"
	"doceasy-be/internal/controller"
	"doceasy-be/internal/pkg/logger"
	"doceasy-be/internal/pkg/mailer"
	"doceasy-be/internal/repository/memory"
	"doceasy-be/internal/repository/unitofwork"
	"doceasy-be/internal/service"
	"doceasy-be/internal/websocket"
	"doceasy-be/pkg/csvcache"
	"doceasy-be/pkg/drive"
	"doceasy-be/pkg/events"
	"doceasy-be/pkg/storage"

	pktNats "doceasy-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// processDocumentTopic is the in-process queue feeding the document
// processing worker.
const processDocumentTopic = "PROCESS_DOCUMENT"

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	OAuthController      controller.IOAuthController
	UserController       controller.IUserController
	ProjectController    controller.IProjectController
	DocumentController   controller.IDocumentController
	AnalysisController   controller.IAnalysisController
	WorkspaceController  controller.IWorkspaceController
	MarketDataController controller.IMarketDataController
	WsController         controller.IWsController

	// Background services, exposed for main.go to run
	ConsumerService   service.IConsumerService
	RetentionService  service.IRetentionService
	MarketDataService service.IMarketDataService

	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. In-process event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Expiry warnings reach connected clients through the hub. Published
	// on NATS so any instance's retention sweep can notify users anywhere.
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		err := natsSub.Subscribe("events."+events.TypeProjectExpiring, "ws-project-expiring",
			func(ctx context.Context, evt events.Event) error {
				payload := evt.Payload()
				uidStr, _ := payload["user_id"].(string)
				uid, err := uuid.Parse(uidStr)
				if err != nil {
					return nil
				}
				wsHub.PushProjectExpiring(uid, payload)
				return nil
			})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to expiry events: %v", err)
		}
	}

	objectStore, err := storage.New(
		context.Background(),
		cfg.Storage.Endpoint,
		cfg.Storage.Bucket,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}

	ragClient := ragclient.NewRagClient(cfg.Rag.BaseURL, cfg.Rag.Timeout)

	loc, err := time.LoadLocation(cfg.Drive.Timezone)
	if err != nil {
		log.Printf("[WARN] Unknown timezone %q, using UTC", cfg.Drive.Timezone)
		loc = time.UTC
	}
	csvCache, err := csvcache.NewCache(cfg.Drive.CacheDir, csvcache.DefaultSchedule(loc))
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize CSV cache: %v", err)
	}

	marketDataService := newMarketDataService(cfg, csvCache, sysLogger)

	// In-memory per-user workspace stores
	registry := memory.NewWorkspaceRepository()

	// 3. Services
	publisherService := service.NewPublisherService(processDocumentTopic, pubSub)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, cfg.Auth)
	oauthService := service.NewOAuthService(uowFactory, cfg.Auth, sysLogger)
	userService := service.NewUserService(uowFactory)

	projectService := service.NewProjectService(uowFactory, natsPub)
	documentService := service.NewDocumentService(
		uowFactory,
		projectService,
		publisherService,
		objectStore,
		natsPub,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		processDocumentTopic,
		uowFactory,
		objectStore,
		wsHub,
		sysLogger,
	)

	workspaceService := service.NewWorkspaceService(uowFactory, registry, sysLogger)
	analysisService := service.NewAnalysisService(uowFactory, ragClient, registry, sysLogger)
	retentionService := service.NewRetentionService(uowFactory, projectService, emailService, natsPub, sysLogger)

	// 4. Controllers
	return &Container{
		AuthController:       controller.NewAuthController(authService),
		OAuthController:      controller.NewOAuthController(oauthService),
		UserController:       controller.NewUserController(userService),
		ProjectController:    controller.NewProjectController(projectService),
		DocumentController:   controller.NewDocumentController(documentService, wsHub),
		AnalysisController:   controller.NewAnalysisController(analysisService),
		WorkspaceController:  controller.NewWorkspaceController(workspaceService),
		MarketDataController: controller.NewMarketDataController(marketDataService),
		WsController:         controller.NewWsController(wsHub, wsLogger),

		ConsumerService:   consumerService,
		RetentionService:  retentionService,
		MarketDataService: marketDataService,

		WebSocketHub: wsHub,
	}
}

// newMarketDataService wires the Drive-backed CSV sync. Missing
// credentials disable the sync instead of failing startup.
func newMarketDataService(cfg *config.Config, cache *csvcache.Cache, log logger.ILogger) service.IMarketDataService {
	if cfg.Drive.CredentialsFile == "" {
		return service.NewMarketDataService(nil, cache, cfg.Drive.FolderID, log)
	}

	driveClient, err := drive.NewClient(context.Background(), cfg.Drive.CredentialsFile)
	if err != nil {
		log.Warn("Bootstrap", "Drive client init failed, sync disabled", map[string]interface{}{"error": err.Error()})
		return service.NewMarketDataService(nil, cache, cfg.Drive.FolderID, log)
	}
	return service.NewMarketDataService(driveClient, cache, cfg.Drive.FolderID, log)
}

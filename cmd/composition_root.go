package cmd

import (
	"log/slog"
	"time"

	httpadapter "courierbridge/internal/adapters/in/http"
	"courierbridge/internal/adapters/out/eventlog"
	"courierbridge/internal/adapters/out/inmemory/orderstore"
	"courierbridge/internal/adapters/out/postgres/kitchenrepo"
	"courierbridge/internal/adapters/out/postgres/orderrepo"
	rediscache "courierbridge/internal/adapters/out/redis"
	"courierbridge/internal/adapters/out/telegram"
	"courierbridge/internal/core/application/usecases/commands"
	"courierbridge/internal/core/application/usecases/queries"
	"courierbridge/internal/core/ports"
	"courierbridge/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	workingSet *orderstore.Store
	store      ports.DurableStore
	notifier   ports.Notifier
	registry   ports.KitchenRegistry
	emitter    ports.EventEmitter
	logger     *slog.Logger

	findTimeout   time.Duration
	notifyTimeout time.Duration
	syncTimeout   time.Duration
	apiKey        string
}

func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	redisClient *goredis.Client,
	logger *slog.Logger,
) (CompositionRoot, error) {
	notifier, err := telegram.NewNotifier(configs.TelegramBotToken)
	if err != nil {
		return CompositionRoot{}, err
	}

	var registry ports.KitchenRegistry = kitchenrepo.NewGormKitchenRegistry(gormDB)
	if redisClient != nil {
		cached, cacheErr := rediscache.NewRegistryCache(
			redisClient, registry, parseDuration(configs.RegistryCacheTTL, 5*time.Minute),
		)
		if cacheErr != nil {
			return CompositionRoot{}, cacheErr
		}
		registry = cached
	}

	return CompositionRoot{
		gormDB:        gormDB,
		workingSet:    orderstore.NewStore(),
		store:         orderrepo.NewGormDurableStore(gormDB),
		notifier:      notifier,
		registry:      registry,
		emitter:       eventlog.NewEmitter(logger),
		logger:        logger,
		findTimeout:   parseDuration(configs.FindTimeout, 3*time.Second),
		notifyTimeout: parseDuration(configs.NotifyTimeout, 5*time.Second),
		syncTimeout:   parseDuration(configs.SyncTimeout, 5*time.Second),
		apiKey:        configs.APIKey,
	}, nil
}

func (c *CompositionRoot) CreateOrderLocator() (commands.OrderLocator, error) {
	return commands.NewOrderLocator(c.workingSet, c.store, c.findTimeout)
}

func (c *CompositionRoot) CreateReconcileStatusCommandHandler() (commands.ReconcileStatusCommandHandler, error) {
	locator, err := c.CreateOrderLocator()
	if err != nil {
		return commands.ReconcileStatusCommandHandler{}, err
	}

	fanout, err := commands.NewNotificationFanout(c.notifier, c.registry, c.notifyTimeout)
	if err != nil {
		return commands.ReconcileStatusCommandHandler{}, err
	}

	return commands.NewReconcileStatusCommandHandler(
		c.workingSet, locator, c.store, fanout, c.emitter, c.syncTimeout,
	)
}

func (c *CompositionRoot) CreateRetryDurableSyncCommandHandler() (commands.RetryDurableSyncCommandHandler, error) {
	return commands.NewRetryDurableSyncCommandHandler(c.workingSet, c.store, c.syncTimeout)
}

func (c *CompositionRoot) CreateGetClientOrdersQueryHandler() queries.GetClientOrdersQueryHandler {
	return queries.NewGetClientOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() (*httpadapter.Server, error) {
	reconcileHandler, err := c.CreateReconcileStatusCommandHandler()
	if err != nil {
		return nil, err
	}

	locator, err := c.CreateOrderLocator()
	if err != nil {
		return nil, err
	}

	return httpadapter.NewServer(
		reconcileHandler,
		locator,
		c.workingSet,
		c.CreateGetClientOrdersQueryHandler(),
		c.apiKey,
	), nil
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	retrySyncHandler, err := c.CreateRetryDurableSyncCommandHandler()
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(retrySyncHandler, c.logger), nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

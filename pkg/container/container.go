package container

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/config"
	"storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/gateway"
	addressHandler "storefront-backend/internal/domains/address/handler"
	addressJob "storefront-backend/internal/domains/address/job"
	addressRepo "storefront-backend/internal/domains/address/repository"
	"storefront-backend/internal/domains/address/store"
	"storefront-backend/internal/domains/session"
	infraCache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/database"
	"storefront-backend/internal/infrastructure/metrics"
	"storefront-backend/internal/infrastructure/queue"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/jwt"
	"storefront-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Thứ tự khởi tạo: Config -> Infrastructure -> Repository -> Gateway/Store -> Handlers
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	Postgres    *database.PostgresDB    // STORE_DRIVER=postgres
	Mongo       *database.MongoDB       // STORE_DRIVER=mongo
	Firestore   *firestore.Client       // STORE_DRIVER=firestore
	Redis       *infraCache.RedisClient // nil khi STORE_CACHE_DRIVER=memory
	Cache       cache.Cache             // snapshot + session
	AsynqClient *asynq.Client           // nil khi không có Redis
	JWTManager  *jwt.Manager

	// ========================================
	// ADDRESS DOMAIN
	// ========================================
	AddressRepo    address.Repository
	AddressGateway *gateway.Gateway
	AddressStore   *store.Store
	AddressHandler *addressHandler.AddressHandler

	// ========================================
	// SESSION
	// ========================================
	SessionService *session.Service
	SessionHandler *session.Handler

	stopMonitor context.CancelFunc
}

// NewContainer tạo và initialize toàn bộ dependency graph
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DOCUMENT STORE
	// ========================================
	if err := c.initRepository(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repository: %w", err)
	}
	logger.Info("✅ Address repository ready", map[string]interface{}{"driver": cfg.Store.Driver})

	// ========================================
	// STEP 2: CACHE + QUEUE
	// ========================================
	if err := c.initCache(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)

	// ========================================
	// STEP 3: GATEWAY, STORE, SESSION
	// ========================================
	c.initServices()

	// ========================================
	// STEP 4: HANDLERS
	// ========================================
	c.AddressHandler = addressHandler.NewAddressHandler(c.AddressStore)
	c.SessionHandler = session.NewHandler(c.SessionService)

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepository(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Store.Driver {
	case config.DriverMongo:
		m := database.NewMongoDB(cfg.MongoDBConfig())
		if err := m.Connect(ctx); err != nil {
			return err
		}
		c.Mongo = m
		if err := m.EnsureUserIndex(ctx, addressRepo.UsersCollection); err != nil {
			log.Warn().Err(err).Msg("[MONGO] could not ensure users.id index")
		}
		c.AddressRepo = addressRepo.NewMongoRepository(m.DB)

	case config.DriverPostgres:
		db := database.NewPostgresDB(cfg.PostgresConfig())

		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.Connect(connectCtx); err != nil {
			return err
		}
		c.Postgres = db

		if period := cfg.Database.HealthCheckPeriod; period > 0 {
			monitorCtx, stop := context.WithCancel(context.Background())
			c.stopMonitor = stop
			go db.MonitorPoolHealth(monitorCtx, period)
		}

		if err := database.EnsureUserDocuments(ctx, db.Pool); err != nil {
			return err
		}
		if len(cfg.Store.SeedUsers) > 0 {
			if err := database.SeedUserDocuments(ctx, db.Pool, cfg.Store.SeedUsers); err != nil {
				return err
			}
		}
		c.AddressRepo = addressRepo.NewPostgresRepository(db.Pool)

	case config.DriverFirestore:
		client, err := database.NewFirestoreClient(ctx, cfg.FirestoreClientConfig())
		if err != nil {
			return err
		}
		c.Firestore = client
		c.AddressRepo = addressRepo.NewFirestoreRepository(client)

	case config.DriverMemory:
		repo := addressRepo.NewMemoryRepository()
		for _, userID := range cfg.Store.SeedUsers {
			repo.Seed(userID)
		}
		c.AddressRepo = repo

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	cfg := c.Config

	if cfg.Store.CacheDriver == "memory" {
		log.Warn().Msg("⚠️  Using in-process cache: snapshots and sessions are not shared between replicas")
		c.Cache = cache.NewMemoryCache()
		logger.Debug("asynq client disabled, default repairs will not be scheduled")
		return nil
	}

	rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		_ = rc.Close()
		return err
	}
	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client, cfg.Redis.KeyPrefix)
	c.AsynqClient = queue.NewClient(cfg.Redis)

	log.Info().Msg("✅ Redis connected")
	return nil
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AddressGateway = gateway.NewGateway(
		c.AddressRepo,
		gateway.WithObserver(metrics.NewGatewayObserver()),
	)

	storeOpts := []store.Option{
		store.WithSnapshotTTL(cfg.Store.SnapshotTTL),
		store.WithNotifier(store.NewLogNotifier()),
	}
	if c.AsynqClient != nil {
		storeOpts = append(storeOpts, store.WithRepairScheduler(
			addressJob.NewRepairEnqueuer(c.AsynqClient, cfg.Worker.RepairDelay),
		))
	}
	c.AddressStore = store.NewStore(c.AddressGateway, c.Cache, storeOpts...)

	c.SessionService = session.NewService(c.Cache, c.JWTManager, c.AddressGateway, cfg.Session.TTL)
}

// HealthCheck pings the document store and the cache
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"repository": "UP", "cache": "UP"}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.AddressRepo.Ping(ctx); err != nil {
		status["repository"] = "DOWN: " + err.Error()
	}
	if err := c.Cache.Ping(ctx); err != nil {
		status["cache"] = "DOWN: " + err.Error()
	}
	return status
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("⚠️  Failed to close asynq client", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("⚠️  Failed to close Redis", err)
		}
	}

	if c.stopMonitor != nil {
		c.stopMonitor()
	}

	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Close(ctx); err != nil {
			logger.Error("⚠️  Failed to disconnect MongoDB", err)
		}
	}

	if c.Firestore != nil {
		if err := c.Firestore.Close(); err != nil {
			logger.Error("⚠️  Failed to close Firestore client", err)
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/mycookbook-api/config"
	"github.com/oksasatya/mycookbook-api/internal/container"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
	"github.com/oksasatya/mycookbook-api/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/mycookbook-api/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/mycookbook-api/internal/infrastructure/postgres"
	"github.com/oksasatya/mycookbook-api/internal/infrastructure/search"
	"github.com/oksasatya/mycookbook-api/internal/infrastructure/storage"
	"github.com/oksasatya/mycookbook-api/internal/interface/middleware"
	"github.com/oksasatya/mycookbook-api/internal/router"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.DBDriver, err)
	}
	defer func() {
		if store.Close != nil {
			_ = store.Close(context.Background())
		}
	}()

	// Redis backs sessions, rate limits and the rating cache
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable; using in-process sessions without rate limits")
		_ = rdb.Close()
	} else {
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	images, closeImages, err := openImageStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init %s image storage: %v", cfg.StorageDriver, err)
	}
	defer closeImages()
	if images != nil {
		container.SetImages(images)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(helpers.ESOptions{
			Addresses: addrs,
			Username:  cfg.ElasticsearchUser,
			Password:  cfg.ElasticsearchPass,
		})
		if err != nil {
			log.Fatalf("failed to init elasticsearch: %v", err)
		}
		if err := helpers.PingES(ctx, es); err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; searching the store directly")
		} else {
			container.SetIndex(search.NewRecipeIndex(es, cfg.ESRecipesIndex))
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; notifications disabled")
		} else {
			defer pub.Close()
			container.SetPublisher(pub)
		}
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetStore(store)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL))

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.MaxMultipartMemory = cfg.MaxImageBytes + 1<<20

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "db": cfg.DBDriver, "storage": cfg.StorageDriver}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// openStore connects the persistence backend named by DB_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return repository.Store{}, err
		}
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return repository.Store{}, fmt.Errorf("migrate: %w", err)
		}
		return pginfra.NewStore(pool), nil
	case "mongo":
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return repository.Store{}, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return repository.Store{}, fmt.Errorf("ensure indexes: %w", err)
		}
		return mongoinfra.NewStore(db), nil
	case "memory":
		logger.Warn("DB_DRIVER=memory; data is lost on restart")
		return memory.NewStore(), nil
	default:
		return repository.Store{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// openImageStore returns nil when STORAGE_DRIVER=none; recipe images are then
// rejected with a 502.
func openImageStore(ctx context.Context, cfg *config.Config) (*storage.ImageStore, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, err
		}
		backend, err := storage.NewGCS(client, cfg.GCSBucket)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return storage.NewImageStore(backend), func() { _ = client.Close() }, nil
	case "minio":
		backend, err := storage.NewMinIO(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			return nil, noop, err
		}
		if err := backend.EnsureBucket(ctx); err != nil {
			return nil, noop, err
		}
		return storage.NewImageStore(backend), noop, nil
	case "none", "":
		return nil, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}

package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mycookbook-api/config"
	"github.com/oksasatya/mycookbook-api/internal/application"
	"github.com/oksasatya/mycookbook-api/internal/domain/repository"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons. Optional collaborators
// stay nil when their backend is not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       repository.Store
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager

	images    application.ImageStore
	index     application.RecipeIndex
	publisher application.JobPublisher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return logger
}

func SetStore(s repository.Store) { store = s }
func GetStore() repository.Store  { return store }
func SetRedis(r *redis.Client)    { redisClient = r }
func GetRedis() *redis.Client     { return redisClient }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTAccessSecret, c.JWTRefreshSecret, c.AccessTTL, c.RefreshTTL)
	}
	return jwtManager
}

func SetImages(s application.ImageStore)      { images = s }
func GetImages() application.ImageStore       { return images }
func SetIndex(x application.RecipeIndex)      { index = x }
func GetIndex() application.RecipeIndex       { return index }
func SetPublisher(p application.JobPublisher) { publisher = p }
func GetPublisher() application.JobPublisher  { return publisher }

// Reset clears every singleton.
func Reset() {
	cfg, logger, store, redisClient, jwtManager = nil, nil, repository.Store{}, nil, nil
	images, index, publisher = nil, nil, nil
}

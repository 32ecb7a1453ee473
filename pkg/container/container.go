package container

import (
	"context"
	"fmt"
	"time"

	"nft-market-backend/internal/config"
	infracache "nft-market-backend/internal/infrastructure/cache"
	"nft-market-backend/internal/infrastructure/database"
	"nft-market-backend/pkg/cache"
	"nft-market-backend/pkg/jwt"
	"nft-market-backend/pkg/logger"

	collectionhandler "nft-market-backend/internal/domains/collection/handler"
	collectionrepo "nft-market-backend/internal/domains/collection/repository"
	collectionservice "nft-market-backend/internal/domains/collection/service"
	nfthandler "nft-market-backend/internal/domains/nft/handler"
	nftrepo "nft-market-backend/internal/domains/nft/repository"
	nftservice "nft-market-backend/internal/domains/nft/service"
	ratinghandler "nft-market-backend/internal/domains/rating/handler"
	ratingrepo "nft-market-backend/internal/domains/rating/repository"
	ratingservice "nft-market-backend/internal/domains/rating/service"
	salehandler "nft-market-backend/internal/domains/sale/handler"
	salerepo "nft-market-backend/internal/domains/sale/repository"
	saleservice "nft-market-backend/internal/domains/sale/service"
	teamhandler "nft-market-backend/internal/domains/team/handler"
	teamrepo "nft-market-backend/internal/domains/team/repository"
	teamservice "nft-market-backend/internal/domains/team/service"
	userhandler "nft-market-backend/internal/domains/user/handler"
	userrepo "nft-market-backend/internal/domains/user/repository"
	userservice "nft-market-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Initialization order
// is config -> infrastructure -> repositories -> services -> handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo       userrepo.UserRepository
	TeamRepo       teamrepo.TeamRepository
	NFTRepo        nftrepo.NFTRepository
	CollectionRepo collectionrepo.CollectionRepository
	RatingRepo     ratingrepo.RatingRepository
	SaleRepo       salerepo.SaleRepository

	UserService       userservice.ServiceInterface
	TeamService       teamservice.ServiceInterface
	NFTService        nftservice.ServiceInterface
	CollectionService collectionservice.ServiceInterface
	RatingService     ratingservice.ServiceInterface
	SaleService       saleservice.ServiceInterface

	UserHandler       *userhandler.UserHandler
	TeamHandler       *teamhandler.TeamHandler
	NFTHandler        *nfthandler.NFTHandler
	CollectionHandler *collectionhandler.CollectionHandler
	RatingHandler     *ratinghandler.RatingHandler
	SaleHandler       *salehandler.SaleHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.New(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	logger.Info("database connected", map[string]interface{}{"host": dbConfig.Host})

	// Redis is optional: a failed ping degrades ranking reads to the
	// database instead of failing startup.
	if cfg.Redis.Enabled {
		redisCache := infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(context.Background()); err != nil {
			logger.Warn("redis unavailable, ranking cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.Cache = redisCache
			logger.Info("redis connected", map[string]interface{}{"host": cfg.Redis.Host})
		}
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userrepo.NewPostgresUserRepository(pool)
	c.TeamRepo = teamrepo.NewPostgresTeamRepository(pool)
	c.NFTRepo = nftrepo.NewPostgresNFTRepository(pool)
	c.CollectionRepo = collectionrepo.NewPostgresCollectionRepository(pool)
	c.RatingRepo = ratingrepo.NewPostgresRatingRepository(pool)
	c.SaleRepo = salerepo.NewPostgresSaleRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userservice.NewUserService(c.UserRepo, c.JWTManager, c.Config.JWT.AccessTokenExpiry)
	c.TeamService = teamservice.NewTeamService(c.TeamRepo, c.UserRepo, c.Cache)
	c.NFTService = nftservice.NewNFTService(c.NFTRepo, c.UserRepo, c.Cache)
	c.CollectionService = collectionservice.NewCollectionService(c.CollectionRepo, c.NFTRepo, c.UserRepo, c.Cache)
	c.RatingService = ratingservice.NewRatingService(c.RatingRepo, c.UserRepo, c.TeamRepo, c.NFTRepo, c.Cache)
	c.SaleService = saleservice.NewSaleService(c.SaleRepo, c.UserRepo, c.NFTRepo, c.TeamRepo, c.Cache)
}

func (c *Container) initHandlers() {
	c.UserHandler = userhandler.NewUserHandler(c.UserService)
	c.TeamHandler = teamhandler.NewTeamHandler(c.TeamService)
	c.NFTHandler = nfthandler.NewNFTHandler(c.NFTService)
	c.CollectionHandler = collectionhandler.NewCollectionHandler(c.CollectionService)
	c.RatingHandler = ratinghandler.NewRatingHandler(c.RatingService)
	c.SaleHandler = salehandler.NewSaleHandler(c.SaleService)
}

// Cleanup releases infrastructure resources, newest first.
func (c *Container) Cleanup() {
	if rc, ok := c.Cache.(*infracache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}
}

package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/boltdb"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/mongodb"

	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application.
// Exactly one of Mongo, Postgres and Bolt is set, depending on the
// DATABASE_URL scheme; the memory driver sets none.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config   *config.Config
	Driver   config.Driver
	Mongo    *mongodb.MongoDB
	Postgres *database.PostgresDB
	Bolt     *boltdb.BoltDB

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	PostRepo postRepo.PostRepository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	PostService postService.PostService

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	PostHandler *postHandler.PostHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer connects the storage selected by cfg and builds the
// repository, service and handler on top of it.
//
// Order matters:
// 1. Storage (depends on Config)
// 2. Repositories (depend on Storage)
// 3. Services (depend on Repositories)
// 4. Handlers (depend on Services)
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	driver, err := cfg.Storage.Driver()
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Driver: driver}
	log.Info().Str("driver", string(driver)).Msg("Initializing container...")

	// ========================================
	// STEP 1: CONNECT STORAGE + REPOSITORY
	// ========================================
	if err := c.initStorage(ctx); err != nil {
		// Release whatever was opened before the failure
		_ = c.Cleanup(context.Background())
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// ========================================
	// STEP 2: INITIALIZE SERVICES
	// ========================================
	c.PostService = postService.NewPostService(c.PostRepo)

	// ========================================
	// STEP 3: INITIALIZE HANDLERS
	// ========================================
	c.PostHandler = postHandler.NewPostHandler(c.PostService, cfg.App.StrictNotFound)

	log.Info().Msg("Container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStorage(ctx context.Context) error {
	timeout := c.Config.Storage.Timeout

	switch c.Driver {
	case config.DriverMongo:
		c.Mongo = mongodb.NewMongoDB(c.Config.MongoConfig())
		if err := c.Mongo.Connect(ctx); err != nil {
			return err
		}
		if err := c.Mongo.Ping(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		c.PostRepo = postRepo.NewMongoPostRepository(c.Mongo.Database, timeout)

	case config.DriverPostgres:
		c.Postgres = database.NewPostgresDB(c.Config.PostgresConfig())
		if err := c.Postgres.Connect(ctx); err != nil {
			return err
		}
		if err := c.Postgres.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		if err := postRepo.EnsureSchema(ctx, c.Postgres.Pool); err != nil {
			return err
		}
		c.PostRepo = postRepo.NewPostgresPostRepository(c.Postgres.Pool, timeout)

	case config.DriverBolt:
		path, err := config.BoltPath(c.Config.Storage.URL)
		if err != nil {
			return err
		}
		c.Bolt, err = boltdb.Open(path, c.Config.Storage.ConnectTimeout)
		if err != nil {
			return err
		}
		c.PostRepo, err = postRepo.NewBoltPostRepository(c.Bolt.DB)
		if err != nil {
			return err
		}

	case config.DriverMemory:
		c.PostRepo = postRepo.NewMemoryPostRepository()

	default:
		return fmt.Errorf("unsupported storage driver %q", c.Driver)
	}

	return nil
}

// Cleanup disconnects the storage. Safe to call more than once.
func (c *Container) Cleanup(ctx context.Context) error {
	var errs []error

	if c.Mongo != nil {
		if err := c.Mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close mongo: %w", err))
		}
	}

	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}

	if c.Bolt != nil {
		if err := c.Bolt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bolt: %w", err))
		}
	}

	return errors.Join(errs...)
}

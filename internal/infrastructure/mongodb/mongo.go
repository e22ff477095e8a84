package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"blog-backend/internal/shared/utils"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "blog-app"

// MongoConfig holds everything needed to open the mongo client.
type MongoConfig struct {
	URI string

	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

// MongoDB wraps the mongo client and the database named in the URI.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *MongoConfig
}

// NewMongoDB creates an unconnected MongoDB; call Connect before use.
func NewMongoDB(config *MongoConfig) *MongoDB {
	return &MongoDB{Config: config}
}

// DatabaseName extracts the database from a mongodb:// URI.
func DatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongo connection string: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// Connect opens the client, retrying with exponential backoff until the
// primary answers a ping.
func (m *MongoDB) Connect(ctx context.Context) error {
	log.Info().Str("uri", utils.RedactDSN(m.Config.URI)).Msg("[MONGO] Connecting to MongoDB...")

	dbName, err := DatabaseName(m.Config.URI)
	if err != nil {
		return err
	}

	clientOpts := options.Client().ApplyURI(m.Config.URI)
	if m.Config.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(m.Config.ConnectTimeout)
		clientOpts.SetServerSelectionTimeout(m.Config.ConnectTimeout)
	}

	retry := utils.RetryConfig{
		MaxRetries:     m.Config.MaxRetries,
		RetryDelay:     m.Config.RetryDelay,
		ConnectTimeout: m.Config.ConnectTimeout,
	}

	err = utils.ConnectWithRetry(ctx, "mongo", retry, func(attemptCtx context.Context) error {
		client, err := mongo.Connect(attemptCtx, clientOpts)
		if err != nil {
			return err
		}
		if err := client.Ping(attemptCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return err
		}
		m.Client = client
		return nil
	})
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	m.Database = m.Client.Database(dbName)
	log.Info().Str("database", dbName).Msg("[MONGO] Connected successfully")
	return nil
}

// Ping checks the primary answers within 5s.
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.Client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

// Close disconnects the client. Safe to call more than once.
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}

	log.Info().Msg("[MONGO] Disconnecting...")
	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect failed: %w", err)
	}
	m.Client = nil
	m.Database = nil
	return nil
}

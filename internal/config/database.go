package config

import (
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/mongodb"
)

// PostgresConfig builds the pool settings for the postgres driver.
func (c *Config) PostgresConfig() *database.DBConfig {
	return &database.DBConfig{
		URL:               c.Storage.URL,
		MaxConns:          int32(c.Database.MaxConns),
		MinConns:          int32(c.Database.MinConns),
		MaxConnLifetime:   c.Database.MaxConnLifetime,
		MaxConnIdleTime:   c.Database.MaxConnIdleTime,
		HealthCheckPeriod: c.Database.HealthCheckPeriod,
		MaxRetries:        c.Storage.MaxRetries,
		RetryDelay:        c.Storage.RetryDelay,
		ConnectTimeout:    c.Storage.ConnectTimeout,
	}
}

// MongoConfig builds the client settings for the mongo driver.
func (c *Config) MongoConfig() *mongodb.MongoConfig {
	return &mongodb.MongoConfig{
		URI:            c.Storage.URL,
		MaxRetries:     c.Storage.MaxRetries,
		RetryDelay:     c.Storage.RetryDelay,
		ConnectTimeout: c.Storage.ConnectTimeout,
	}
}

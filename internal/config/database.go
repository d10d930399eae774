package config

import (
	"storefront-backend/internal/infrastructure/database"
)

// PostgresConfig chuyển DatabaseConfig sang DBConfig của tầng infrastructure
func (c *Config) PostgresConfig() *database.DBConfig {
	return &database.DBConfig{
		Host:              c.Database.Host,
		Port:              c.Database.Port,
		Username:          c.Database.User,
		Password:          c.Database.Password,
		DBName:            c.Database.Database,
		SSLMode:           c.Database.SSLMode,
		MaxConns:          c.Database.MaxConns,
		MinConns:          c.Database.MinConns,
		MaxConnLifetime:   c.Database.MaxConnLifetime,
		MaxConnIdleTime:   c.Database.MaxConnIdleTime,
		HealthCheckPeriod: c.Database.HealthCheckPeriod,
		MaxRetries:        c.Database.MaxRetries,
		RetryDelay:        c.Database.RetryDelay,
		ConnectTimeout:    c.Database.ConnectTimeout,
	}
}

func (c *Config) MongoDBConfig() *database.MongoConfig {
	return &database.MongoConfig{
		URI:            c.Mongo.URI,
		Database:       c.Mongo.Database,
		Username:       c.Mongo.Username,
		Password:       c.Mongo.Password,
		ConnectTimeout: c.Mongo.ConnectTimeout,
	}
}

func (c *Config) FirestoreClientConfig() *database.FirestoreConfig {
	return &database.FirestoreConfig{
		ProjectID:       c.Firestore.ProjectID,
		CredentialsFile: c.Firestore.CredentialsFile,
	}
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig cấu hình kết nối MongoDB
type MongoConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
}

// MongoDB giữ client và database đang dùng
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
	Config *MongoConfig
}

func NewMongoDB(config *MongoConfig) *MongoDB {
	return &MongoDB{Config: config}
}

// Connect mở client, ping primary rồi chọn database
func (m *MongoDB) Connect(ctx context.Context) error {
	log.Info().Msg("[MONGO] Initializing MongoDB connection...")

	clientOpts := options.Client().ApplyURI(m.Config.URI)
	if m.Config.Username != "" {
		clientOpts.SetAuth(options.Credential{
			Username: m.Config.Username,
			Password: m.Config.Password,
		})
	}

	connectCtx, cancel := context.WithTimeout(ctx, m.Config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("mongo ping failed: %w", err)
	}

	m.Client = client
	m.DB = client.Database(m.Config.Database)

	log.Info().Str("database", m.Config.Database).Msg("[MONGO] Connected to MongoDB")
	return nil
}

// EnsureUserIndex tạo unique index trên field "id" của collection users
func (m *MongoDB) EnsureUserIndex(ctx context.Context, collection string) error {
	_, err := m.DB.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_id"),
	})
	if err != nil {
		return fmt.Errorf("create index on %s.id: %w", collection, err)
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	log.Info().Msg("[MONGO] Disconnecting...")
	err := m.Client.Disconnect(ctx)
	m.Client = nil
	return err
}

package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FirestoreConfig: CredentialsFile rỗng thì dùng Application Default Credentials
// (hoặc FIRESTORE_EMULATOR_HOST khi chạy local)
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

func NewFirestoreClient(ctx context.Context, cfg *FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.Info().Str("project", cfg.ProjectID).Msg("[FIRESTORE] Client created")
	return client, nil
}

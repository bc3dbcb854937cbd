package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"locallink/pkg/config"
	"locallink/pkg/logger"
)

// Clients bundles what the service needs from Firebase.
type Clients struct {
	Auth      *FirebaseAuthClient
	Firestore *firestore.Client
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}

// credentials prefers the service account JSON from the environment and
// falls back to the file path for local development. Against the emulator
// no credentials are needed.
func credentials(cfg *config.Config) ([]option.ClientOption, error) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") != "" {
		logger.Info("Using Firestore emulator at %s", os.Getenv("FIRESTORE_EMULATOR_HOST"))
		return nil, nil
	}

	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))}, nil
	}

	if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
		return nil, fmt.Errorf("service account file %s: %w", cfg.FirebaseServiceAccountPath, err)
	}
	logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
	return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)}, nil
}

func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	opts, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &Clients{
		Auth:      NewFirebaseAuthClient(authClient),
		Firestore: firestoreClient,
	}, nil
}

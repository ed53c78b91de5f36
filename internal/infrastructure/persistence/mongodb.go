package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	runLogAppName  = "inboxpert-run-log"
	connectTimeout = 10 * time.Second
)

// RunLogStore is the MongoDB connection and database holding the run log
type RunLogStore struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewRunLogStore connects to MongoDB, checks the connection with a ping and
// selects the run log database. Credentials are applied only when both are set.
func NewRunLogStore(ctx context.Context, uri, username, password, database string) (*RunLogStore, error) {
	if database == "" {
		return nil, errors.New("run log database name is required")
	}

	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName(runLogAppName)

	if username != "" && password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: username,
			Password: password,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &RunLogStore{
		Client:   client,
		Database: client.Database(database),
	}, nil
}

// Close disconnects the client
func (s *RunLogStore) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

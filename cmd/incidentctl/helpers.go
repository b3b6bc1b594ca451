package main

import (
	"context"
	"fmt"

	"github.com/linesmerrill/incident-reports-api/config"
	"github.com/linesmerrill/incident-reports-api/databases"
)

// store is an open database connection plus the config it was opened with
type store struct {
	conf   *config.Config
	client databases.ClientHelper
	db     databases.DatabaseHelper
}

func connect(ctx context.Context) (*store, error) {
	conf, err := config.New()
	if err != nil {
		return nil, err
	}
	client, err := databases.NewClient(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &store{conf: conf, client: client, db: databases.NewDatabase(conf, client)}, nil
}

func (s *store) close(ctx context.Context) {
	_ = s.client.Disconnect(ctx)
}

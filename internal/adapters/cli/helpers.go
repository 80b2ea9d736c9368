package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/config"
)

const callTimeout = 10 * time.Second

// resolveColony resolves the colony from flags or defaults
// Priority: --colony flag > user config default
func resolveColony() (string, error) {
	if colonyName != "" {
		return colonyName, nil
	}
	if prefs := loadPreferences(); prefs != nil && prefs.DefaultColony != "" {
		return prefs.DefaultColony, nil
	}
	return "", fmt.Errorf("no colony specified: use --colony, or set a default with 'overmind-logistics config set-colony'")
}

// loadPreferences returns the stored preferences, or nil when unreadable
func loadPreferences() *config.Preferences {
	store, err := config.OpenPreferences()
	if err != nil {
		return nil
	}
	prefs, err := store.Load()
	if err != nil {
		return nil
	}
	return prefs
}

// withDaemon connects to the daemon and runs fn with a bounded context
func withDaemon(fn func(ctx context.Context, client grpc.DaemonClient) error) error {
	client, err := grpc.NewDaemonClientGRPC(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return fn(ctx, client)
}

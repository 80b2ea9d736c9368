package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and its control plane is serving.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := grpc.NewDaemonClientGRPC(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			status, err := client.HealthCheck(ctx)
			if err != nil {
				return err
			}
			runner, err := client.Runner(ctx)
			if err != nil {
				return err
			}

			fmt.Println("✓ Daemon is healthy")
			fmt.Printf("  Status:    %s\n", status)
			fmt.Printf("  Tick loop: %s\n", runner.Status)
			fmt.Printf("  Ticks:     %d\n", runner.Ticks)
			fmt.Printf("  Uptime:    %s\n", runner.Uptime)
			fmt.Printf("  Colonies:  %v\n", runner.Colonies)

			return nil
		},
	}

	return cmd
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
)

// NewRunnerCommand creates the runner command with subcommands
func NewRunnerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runner",
		Short: "Inspect and control the daemon tick loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runnerCall(func(ctx context.Context, c grpc.DaemonClient) (*grpc.RunnerReply, error) {
				return c.Runner(ctx)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pause",
		Short: "Hold the tick loop before its next tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runnerCall(func(ctx context.Context, c grpc.DaemonClient) (*grpc.RunnerReply, error) {
				return c.Pause(ctx)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "resume",
		Short: "Release a paused tick loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runnerCall(func(ctx context.Context, c grpc.DaemonClient) (*grpc.RunnerReply, error) {
				return c.Resume(ctx)
			})
		},
	})

	return cmd
}

func runnerCall(call func(ctx context.Context, c grpc.DaemonClient) (*grpc.RunnerReply, error)) error {
	return withDaemon(func(ctx context.Context, client grpc.DaemonClient) error {
		reply, err := call(ctx, client)
		if err != nil {
			return err
		}
		printRunner(reply)
		return nil
	})
}

func printRunner(reply *grpc.RunnerReply) {
	fmt.Printf("Tick loop: %s\n", reply.Status)
	fmt.Printf("  Ticks:    %d\n", reply.Ticks)
	fmt.Printf("  Uptime:   %s\n", reply.Uptime)
	fmt.Printf("  Colonies: %v\n", reply.Colonies)
	if reply.LastError != "" {
		fmt.Printf("  Error:    %s\n", reply.LastError)
	}
}

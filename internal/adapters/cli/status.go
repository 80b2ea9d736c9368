package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the transport fleet of a colony",
		Long: `Show the agents of a colony with their current task chains, the open
logistics requests and the pending spawn requests.

Example:
  overmind-logistics status --colony W1N1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			colony, err := resolveColony()
			if err != nil {
				return err
			}

			return withDaemon(func(ctx context.Context, client grpc.DaemonClient) error {
				status, err := client.Status(ctx, colony)
				if err != nil {
					return err
				}
				printStatus(status, NewTreeFormatter(!noColor, !noColor))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors and emojis")
	return cmd
}

func printStatus(status *grpc.StatusReply, formatter *TreeFormatter) {
	fmt.Print(formatter.FormatStatus(status))

	fl := status.Fleet
	fmt.Printf("\nFleet: %d total, %d busy, %d idle, %d spawning, %d evading, %d asleep\n",
		fl.Total, fl.Busy, fl.Idle, fl.Spawning, fl.Evading, fl.Asleep)

	if len(status.Requests) > 0 {
		fmt.Printf("\n%-28s %8s %10s %9s\n", "REQUEST", "AMOUNT", "COMMITTED", "PRIORITY")
		fmt.Println("──────────────────────────────────────────────────────────")
		for _, r := range status.Requests {
			fmt.Printf("%-28s %8d %10d %9d\n", r.ID, r.Amount, r.Committed, r.Priority)
		}
	}

	if len(status.Pending) > 0 {
		fmt.Println("\nPending spawns:")
		for _, s := range status.Pending {
			fmt.Printf("  %s %s x%d (have %d) setup=%s body=%v\n", s.ID, s.Role, s.Count, s.Current, s.Setup, s.Body)
		}
	}
}

// NewRetargetCommand creates the retarget command
func NewRetargetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retarget",
		Short: "Recompute every transporter's plan now",
		Long: `Drop the current task of every transporter in a colony and run the
scheduler over the whole fleet immediately.

Example:
  overmind-logistics retarget --colony W1N1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			colony, err := resolveColony()
			if err != nil {
				return err
			}

			return withDaemon(func(ctx context.Context, client grpc.DaemonClient) error {
				reply, err := client.Retarget(ctx, colony)
				if err != nil {
					return err
				}
				fmt.Print(NewTreeFormatter(true, false).FormatTick(*reply))
				return nil
			})
		},
	}
	return cmd
}

// NewStepCommand creates the step command
func NewStepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Run one tick immediately",
		Long: `Run one full tick across every colony: scheduling, spawning and the world
step. Useful while the tick loop is paused.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client grpc.DaemonClient) error {
				reply, err := client.Step(ctx)
				if err != nil {
					return err
				}
				printStep(reply, NewTreeFormatter(true, false))
				return nil
			})
		},
	}
	return cmd
}

func printStep(reply *grpc.StepReply, formatter *TreeFormatter) {
	fmt.Printf("Tick %d done\n", reply.Ticks)
	for _, r := range reply.Results {
		if verbose {
			fmt.Print(formatter.FormatTick(r))
			continue
		}
		fmt.Println("  " + formatter.FormatTickSummary(r))
	}
}

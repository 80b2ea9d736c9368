package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
)

// NewFleetCommand creates the fleet sizing command
func NewFleetCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Size the transport fleet of a colony",
		Long: `Estimate the transport power a colony needs and derive the target number
of transporters and their body. Without --dry-run a spawn request is queued
when the colony is short of transporters.

Examples:
  overmind-logistics fleet --colony W1N1 --dry-run
  overmind-logistics fleet --colony W1N1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			colony, err := resolveColony()
			if err != nil {
				return err
			}

			return withDaemon(func(ctx context.Context, client grpc.DaemonClient) error {
				reply, err := client.PlanFleet(ctx, colony, dryRun)
				if err != nil {
					return err
				}
				printFleetPlan(reply)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the plan without queueing a spawn request")
	return cmd
}

func printFleetPlan(reply *grpc.FleetReply) {
	fmt.Printf("Fleet plan for %s\n", reply.Colony)
	fmt.Printf("  Needed power: %.2f\n", reply.NeededPower)
	fmt.Printf("  Target:       %d (have %d)\n", reply.Spawn.Count, reply.Spawn.Current)
	fmt.Printf("  Setup:        %s\n", reply.Spawn.Setup)
	fmt.Printf("  Body:         %v\n", reply.Spawn.Body)
	fmt.Printf("  Priority:     %d\n", reply.Spawn.Priority)
	if reply.Submitted {
		fmt.Printf("✓ Spawn request %s queued\n", reply.Spawn.ID)
	} else {
		fmt.Println("  (no spawn request queued)")
	}
}

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent tick summaries of a colony",
		RunE: func(cmd *cobra.Command, args []string) error {
			colony, err := resolveColony()
			if err != nil {
				return err
			}

			return withDaemon(func(ctx context.Context, client grpc.DaemonClient) error {
				reply, err := client.History(ctx, colony, limit)
				if err != nil {
					return err
				}
				if len(reply.Reports) == 0 {
					fmt.Println("No tick reports recorded")
					return nil
				}

				fmt.Printf("%-8s %6s %7s %8s %6s %7s %6s %8s %9s  %s\n",
					"TICK", "AGENTS", "MATCHED", "FALLBACK", "PARKED", "EVADING", "ERRORS", "REQUESTS", "DOWNTIME", "RECORDED")
				fmt.Println("──────────────────────────────────────────────────────────────────────────────────────────────")
				for _, r := range reply.Reports {
					fmt.Printf("%-8d %6d %7d %8d %6d %7d %6d %8d %9.3f  %s\n",
						r.Tick, r.Agents, r.Matched, r.Fallbacks, r.Parked, r.Evading, r.Errors, r.Requests,
						r.Downtime, r.RecordedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of reports to show")
	return cmd
}

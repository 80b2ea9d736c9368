package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Overmind Logistics configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (OL_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default colony, socket) are stored in
~/.overmind-logistics/preferences.yaml

Examples:
  overmind-logistics config show
  overmind-logistics config set-colony W1N1`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetColonyCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			store, err := config.OpenPreferences()
			if err != nil {
				return err
			}
			prefs, err := store.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load preferences: %v\n\n", err)
				prefs = &config.Preferences{}
			}

			fmt.Println("Overmind Logistics Configuration")
			fmt.Println("================================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", store.Path())
			if prefs.DefaultColony != "" {
				fmt.Printf("  Default Colony:   %s\n", prefs.DefaultColony)
			} else {
				fmt.Printf("  Default Colony:   (not set)\n")
			}
			if len(prefs.Recent) > 1 {
				fmt.Printf("  Recent:           %s\n", strings.Join(prefs.Recent[1:], ", "))
			}

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}

			fmt.Println("\nDaemon:")
			fmt.Printf("  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Printf("  Tick Interval:    %s\n", cfg.Daemon.TickInterval)
			fmt.Printf("  Fleet Plan Every: %d ticks\n", cfg.Daemon.FleetPlanEvery)

			fmt.Println("\nLogistics:")
			fmt.Printf("  Epsilon:          %g\n", cfg.Logistics.Epsilon)
			fmt.Printf("  Max Transporters: %d\n", cfg.Logistics.MaxTransporters)
			fmt.Printf("  Danger Timer:     %d ticks\n", cfg.Logistics.DangerTimer)
			fmt.Printf("  Drop On Danger:   %v\n", cfg.Logistics.DropsOnDanger())
			fmt.Printf("  Downtime Window:  %d ticks\n", cfg.Logistics.DowntimeWindow)

			fmt.Println("\nSimulation:")
			fmt.Printf("  World File:       %s\n", cfg.Simulation.WorldFile)
			fmt.Printf("  Max Ticks:        %d\n", cfg.Simulation.MaxTicks)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			if cfg.Metrics.Enabled {
				fmt.Println("\nMetrics:")
				fmt.Printf("  Endpoint:         %s\n", cfg.Metrics.Endpoint())
			}

			return nil
		},
	}

	return cmd
}

// newConfigSetColonyCommand creates the config set-colony subcommand
func newConfigSetColonyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-colony <name>",
		Short: "Set the default colony",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.OpenPreferences()
			if err != nil {
				return err
			}
			if err := store.Update(func(p *config.Preferences) { p.SelectColony(args[0]) }); err != nil {
				return fmt.Errorf("failed to set default colony: %w", err)
			}

			fmt.Printf("✓ Default colony set to %s\n", args[0])
			fmt.Println("Override with --colony.")
			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

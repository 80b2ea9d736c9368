package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	colonyName string
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "overmind-logistics",
		Short: "Overmind Logistics CLI - Inspect and drive the logistics daemon",
		Long: `Overmind Logistics CLI talks to the logistics daemon over its Unix socket.
The daemon runs the transport scheduler of every colony once per tick.

Examples:
  overmind-logistics health
  overmind-logistics status --colony W1N1
  overmind-logistics retarget --colony W1N1
  overmind-logistics fleet --colony W1N1 --dry-run
  overmind-logistics runner pause
  overmind-logistics simulate --world worlds/example.yaml --ticks 50`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVarP(&colonyName, "colony", "c", "",
		"Colony name (defaults to 'config set-colony')")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewRetargetCommand())
	rootCmd.AddCommand(NewStepCommand())
	rootCmd.AddCommand(NewFleetCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewRunnerCommand())
	rootCmd.AddCommand(NewSimulateCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("OL_DAEMON_SOCKET_PATH"); path != "" {
		return path
	}
	if prefs := loadPreferences(); prefs != nil && prefs.SocketPath != "" {
		return prefs.SocketPath
	}
	return "/tmp/overmind-logistics.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/keepalive/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		Long: `Load and validate the configuration without pinging anything.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Environment: %s\n", cfg.Environment)
	fmt.Fprintf(out, "  Log level:   %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Targets:     %d\n", len(cfg.PingTargets))
	for _, t := range cfg.Targets() {
		fmt.Fprintf(out, "    - %s %s (interval %dm)\n", t.Name(), t.Address(), t.IntervalMinutes())
	}

	return nil
}

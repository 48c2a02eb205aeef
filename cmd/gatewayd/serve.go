package main

import (
	"fmt"
	"os"

	"github.com/artpar/gateway/bootstrap"
	"github.com/artpar/gateway/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	Long: `Start the gateway server.

Loads configuration from the file named by --config, or from
gateway.yaml if present, or from built-in defaults otherwise, compiles
the route table, binds the listener, and forwards matching requests to
their upstream targets.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", cfgFile)
		}
	}

	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize gateway: %w", err)
	}

	return a.Run()
}

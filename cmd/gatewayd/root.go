package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gatewayd",
	Short: "Configurable HTTP reverse-proxy gateway",
	Long: `gatewayd accepts inbound HTTP requests, matches each request's path
against an ordered set of configured routes, and forwards matching
requests to the route's upstream target.

Quick start:
  gatewayd serve              # start the proxy server
  gatewayd validate           # check a config file without binding a socket`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}

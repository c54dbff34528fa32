package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	tcpAddr    string
	httpAddr   string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "wirechat-relay",
	Short:         "Multi-room text chat relay",
	Long:          "Accepts line-oriented TCP clients (and WebSocket clients on /ws), keeps nicknames and rooms in memory and relays chat between them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (YAML)")
	rootCmd.Flags().StringVar(&tcpAddr, "tcp-addr", "", "TCP listen address (overrides config)")
	rootCmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP admin/WebSocket listen address (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wirechat-relay/internal/client"
	"github.com/vovakirdan/wirechat-relay/internal/log"
)

var dialTimeout time.Duration

var rootCmd = &cobra.Command{
	Use:           "wirechat-client [addr]",
	Short:         "Terminal client for the wirechat relay",
	Long:          "Connects to a relay (default " + client.DefaultAddr + "), sends each non-empty stdin line and prints whatever the server sends. Type /quit to leave.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var arg string
		if len(args) > 0 {
			arg = args[0]
		}
		addr := client.Addr(arg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dialer := net.Dialer{Timeout: dialTimeout}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("connect %s: %w", addr, err)
		}

		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintf(os.Stderr, "Connected to %s. Type %s to leave.\n", addr, client.QuitCommand)
		}

		return client.Run(ctx, conn, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().DurationVar(&dialTimeout, "dial-timeout", 5*time.Second, "Connection timeout")
}

func main() {
	logger := log.NewWithWriter(os.Stderr, "info")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, client.ErrDisconnected) {
			logger.Error().Msg("server disconnected")
		} else {
			logger.Error().Err(err).Msg("client stopped")
		}
		os.Exit(1)
	}
}

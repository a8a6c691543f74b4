package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/threshold"
	"github.com/aretw0/threshold/internal/cli"
	"github.com/aretw0/threshold/pkg/adapters/mcp"
	"github.com/aretw0/threshold/pkg/session"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes visitor sessions as MCP tools (navigate, inspect, close_session,
journal, list_sessions) so agents can drive and inspect navigations.

Supported Transports:
- stdio (default): Uses Standard Input/Output.
- sse: Uses Server-Sent Events over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := readGlobalFlags(cmd)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		level := g.logLevel
		if level == "" {
			level = "info"
		}
		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger, err := cli.CreateLogger(level, g.debug, false)
		if err != nil {
			return err
		}
		log.SetOutput(os.Stderr)

		site, _, err := cli.LoadSite(g.dir, g.config)
		if err != nil {
			return err
		}
		stack, err := cli.NewStack(site, cli.StackOptions{Logger: logger, Debug: g.debug})
		if err != nil {
			return err
		}
		defer stack.Close()

		sessions := session.NewManager(stack.Navigator, session.WithLogger(stack.Logger))
		defer func() {
			if err := sessions.CloseAll(context.Background()); err != nil {
				stack.Logger.Warn("failed to drain sessions", "err", err)
			}
		}()

		srv := mcp.NewServer(mcp.Config{
			Sessions: sessions,
			Pages:    stack.Pages,
			Journal:  stack.Journal,
			Version:  threshold.Version,
			Logger:   stack.Logger,
		})

		switch transport {
		case "stdio":
			stack.Logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			stack.Logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q; supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}

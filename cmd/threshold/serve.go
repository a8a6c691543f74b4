package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/threshold"
	"github.com/aretw0/threshold/internal/cli"
	httpAdapter "github.com/aretw0/threshold/pkg/adapters/http"
	"github.com/aretw0/threshold/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve visitor sessions over HTTP",
	Long: `Starts an HTTP server holding one orchestrator per visitor session.
Sessions are created on their first navigation and drained on DELETE or shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := readGlobalFlags(cmd)
		port, _ := cmd.Flags().GetString("port")
		maxSessions, _ := cmd.Flags().GetInt("max-sessions")
		origin, _ := cmd.Flags().GetString("origin")

		site, path, err := cli.LoadSite(g.dir, g.config)
		if err != nil {
			return err
		}
		level := g.logLevel
		if level == "" {
			level = site.LogLevel
		}
		logger, err := cli.CreateLogger(level, g.debug, false)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		stack, err := cli.NewStack(site, cli.StackOptions{
			Logger:     logger,
			Debug:      g.debug,
			Registerer: reg,
			Origin:     origin,
		})
		if err != nil {
			return err
		}
		defer stack.Close()

		sessions := session.NewManager(stack.Navigator,
			session.WithLogger(stack.Logger),
			session.WithMaxSessions(maxSessions),
		)
		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(httpAdapter.Config{
				Sessions: sessions,
				Pages:    stack.Pages,
				Journal:  stack.Journal,
				Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				Version:  threshold.Version,
				Logger:   stack.Logger,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			stack.Logger.Info("server listening", "addr", srv.Addr, "site", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", path, srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			stack.Logger.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			stack.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			_ = srv.Close()
		}
		if err := sessions.CloseAll(ctx); err != nil {
			return fmt.Errorf("failed to drain sessions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "threshold server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int("max-sessions", 0, "Maximum live sessions (0 = unlimited)")
	serveCmd.Flags().String("origin", "", "Fetch pages from a running site instead of the site file")
}

// Package mcp exposes visitor sessions as Model Context Protocol tools so agents can
// drive navigations and inspect the lifecycle state.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/threshold/internal/logging"
	"github.com/aretw0/threshold/pkg/adapters/pages"
	"github.com/aretw0/threshold/pkg/domain"
	"github.com/aretw0/threshold/pkg/ports"
	"github.com/aretw0/threshold/pkg/runner"
	"github.com/aretw0/threshold/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// JournalURI names the resource holding the most recent cycle reports.
const JournalURI = "threshold://journal"

// NavigateArgs are the arguments of the navigate tool.
type NavigateArgs struct {
	SessionID string `json:"session_id"`
	Namespace string `json:"namespace,omitempty"`
	URL       string `json:"url,omitempty"`
	HTML      string `json:"html,omitempty"`
}

// SessionArgs identify a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// JournalArgs bound a journal read.
type JournalArgs struct {
	Limit int `json:"limit,omitempty"`
}

// NavigateResult is returned by the navigate tool.
type NavigateResult struct {
	Report   *domain.CycleReport `json:"report" jsonschema_description:"What the cycle ran"`
	Snapshot domain.Snapshot     `json:"snapshot" jsonschema_description:"Session state after the cycle"`
}

// JournalResult wraps journal entries.
type JournalResult struct {
	Reports []domain.CycleReport `json:"reports" jsonschema_description:"Cycle reports, most recent first"`
}

// Config wires the server to its collaborators.
type Config struct {
	Sessions *session.Manager
	Pages    ports.PageSource
	Journal  ports.Journal
	Version  string
	Logger   *slog.Logger
}

// Server exposes a session manager as an MCP server.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools and resources.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    cfg.Logger,
		mcpServer: server.NewMCPServer("threshold-mcp", cfg.Version),
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("navigate",
		mcp.WithDescription("Run a navigation cycle on a session, starting the session on first use. Give a namespace known to the site or inline html."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Visitor session")),
		mcp.WithString("namespace", mcp.Description("Destination namespace")),
		mcp.WithString("url", mcp.Description("URL recorded for inline html")),
		mcp.WithString("html", mcp.Description("Full markup of the destination page")),
		mcp.WithOutputSchema[NavigateResult](),
	), mcp.NewStructuredToolHandler(s.handleNavigate))

	s.mcpServer.AddTool(mcp.NewTool("inspect",
		mcp.WithDescription("Return the lifecycle state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Visitor session")),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleInspect))

	s.mcpServer.AddTool(mcp.NewTool("close_session",
		mcp.WithDescription("Leave the active page of a session, drain its cleanups and forget it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Visitor session")),
		mcp.WithOutputSchema[domain.CycleReport](),
	), mcp.NewStructuredToolHandler(s.handleClose))

	s.mcpServer.AddTool(mcp.NewTool("journal",
		mcp.WithDescription("List recent cycle reports, most recent first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of reports")),
		mcp.WithOutputSchema[JournalResult](),
	), mcp.NewStructuredToolHandler(s.handleJournal))

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List live session IDs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload, _ := json.Marshal(s.cfg.Sessions.List())
		return mcp.NewToolResultText(string(payload)), nil
	})
}

func (s *Server) handleNavigate(ctx context.Context, _ mcp.CallToolRequest, args NavigateArgs) (NavigateResult, error) {
	if args.SessionID == "" {
		return NavigateResult{}, errors.New("session_id is required")
	}
	ns, err := runner.SanitizeInput(args.Namespace)
	if err != nil {
		s.logger.Warn("MCP navigate: input rejected", "err", err, "size", len(args.Namespace))
		return NavigateResult{}, fmt.Errorf("input rejected: %w", err)
	}
	page, err := pages.Resolve(ctx, s.cfg.Pages, ns, args.URL, args.HTML)
	if err != nil {
		return NavigateResult{}, err
	}
	report, err := s.cfg.Sessions.Navigate(context.WithoutCancel(ctx), args.SessionID, domain.NavigationEvent{Next: page})
	if err != nil {
		return NavigateResult{}, fmt.Errorf("navigate failed: %w", err)
	}
	snap, _ := s.cfg.Sessions.Snapshot(args.SessionID)
	return NavigateResult{Report: report, Snapshot: snap}, nil
}

func (s *Server) handleInspect(_ context.Context, _ mcp.CallToolRequest, args SessionArgs) (domain.Snapshot, error) {
	return s.cfg.Sessions.Snapshot(args.SessionID)
}

func (s *Server) handleClose(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (domain.CycleReport, error) {
	report, err := s.cfg.Sessions.Delete(context.WithoutCancel(ctx), args.SessionID)
	if err != nil {
		return domain.CycleReport{}, err
	}
	if report == nil {
		return domain.CycleReport{Kind: domain.CycleClose}, nil
	}
	return *report, nil
}

func (s *Server) handleJournal(ctx context.Context, _ mcp.CallToolRequest, args JournalArgs) (JournalResult, error) {
	if s.cfg.Journal == nil {
		return JournalResult{}, errors.New("journal is disabled")
	}
	limit := args.Limit
	if limit <= 0 {
		limit = runner.DefaultJournalLimit
	}
	reports, err := s.cfg.Journal.List(ctx, limit)
	if err != nil {
		return JournalResult{}, err
	}
	if reports == nil {
		reports = []domain.CycleReport{}
	}
	return JournalResult{Reports: reports}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(JournalURI, "Recent cycle reports",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		result, err := s.handleJournal(ctx, mcp.CallToolRequest{}, JournalArgs{})
		if err != nil {
			return nil, fmt.Errorf("failed to read journal: %w", err)
		}
		payload, _ := json.Marshal(result.Reports)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      JournalURI,
				MIMEType: "application/json",
				Text:     string(payload),
			},
		}, nil
	})
}

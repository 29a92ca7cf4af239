package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/tendero"
	"github.com/aretw0/tendero/internal/logging"
	"github.com/aretw0/tendero/internal/presentation/graph"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/cors"
)

// FlowURI is the resource holding the Mermaid diagram of the flow.
const FlowURI = "tendero://flow"

// Dispatcher is the part of runner.Dispatcher exposed as tools.
type Dispatcher interface {
	Handle(ctx context.Context, in runner.Inbound) ([]string, error)
	Reset(ctx context.Context, identity string) error
}

// FlowInspector lists the transition graph.
type FlowInspector interface {
	States() []domain.Edge
}

// MessageResult is the structured output of send_message.
type MessageResult struct {
	Identity string   `json:"identity" jsonschema_description:"Identity the replies belong to"`
	Replies  []string `json:"replies" jsonschema_description:"Replies to relay to the user, in order"`
}

// Server exposes the dispatcher as an MCP server so an agent can drive
// sales conversations on behalf of a merchant.
type Server struct {
	dispatcher Dispatcher
	flow       FlowInspector
	logger     *slog.Logger
	mcpServer  *server.MCPServer
	origins    []string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowedOrigins enables CORS on the SSE endpoint for the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(d Dispatcher, flow FlowInspector, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		flow:       flow,
		logger:     logging.NewNop(),
		mcpServer: server.NewMCPServer("tendero-mcp", strings.TrimSpace(tendero.Version),
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on Stdin/Stdout until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: send_message
	s.mcpServer.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Send one message of a merchant to the sales assistant and get its replies. Start with \"nueva venta\"."),
		mcp.WithString("identity", mcp.Required(), mcp.Description("Merchant identity, e.g. a phone number")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Message text")),
		mcp.WithOutputSchema[MessageResult](),
	), s.handleSendMessage)

	// TOOL: reset_session
	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Discard the conversation in progress of a merchant."),
		mcp.WithString("identity", mcp.Required(), mcp.Description("Merchant identity")),
	), s.handleResetSession)

	// TOOL: get_flow
	s.mcpServer.AddTool(mcp.NewTool("get_flow",
		mcp.WithDescription("Get the transition graph of the sales flow as JSON."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.flow.States())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal flow: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, err := request.RequireString("identity")
	if err != nil || strings.TrimSpace(identity) == "" {
		return mcp.NewToolResultError("missing required parameter: identity"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	replies, err := s.dispatcher.Handle(ctx, runner.Inbound{Identity: identity, Text: text})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Error("MCP send_message failed", "identity", identity, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("send failed: %v", err)), nil
	}
	if replies == nil {
		replies = []string{}
	}

	result := MessageResult{Identity: identity, Replies: replies}
	return mcp.NewToolResultStructured(result, strings.Join(replies, "\n\n")), nil
}

func (s *Server) handleResetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, err := request.RequireString("identity")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: identity"), nil
	}
	if err := s.dispatcher.Reset(ctx, identity); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) registerResources() {
	// EXPOSE: tendero://flow
	s.mcpServer.AddResource(mcp.NewResource(FlowURI, "Sales Flow Diagram",
		mcp.WithResourceDescription("Mermaid flowchart of the sales and registration flows"),
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FlowURI,
				MIMEType: "text/vnd.mermaid",
				Text:     graph.GenerateMermaid(s.flow.States(), nil),
			},
		}, nil
	})
}

func (s *Server) withCORS(h http.Handler) http.Handler {
	if len(s.origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(h)
}

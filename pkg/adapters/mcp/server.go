package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stockcheck"
	"github.com/aretw0/stockcheck/internal/logging"
	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/report"
	"github.com/aretw0/stockcheck/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs.
const (
	ReportURI  = "stockcheck://report"
	CatalogURI = "stockcheck://catalog"
)

// App is the application surface exposed as MCP tools.
type App interface {
	Handle(ctx context.Context, conversationID, text string) (stockcheck.Reply, error)
	Report(ctx context.Context) (domain.Report, error)
	Catalog() *catalog.Catalog
}

// SendMessageArgs are the arguments of the send_message tool.
type SendMessageArgs struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// MessageResponse aligns with the HTTP reply schema.
type MessageResponse struct {
	Text   string          `json:"text" jsonschema_description:"Reply text as a chat client would show it"`
	State  string          `json:"state" jsonschema_description:"idle or collecting"`
	Done   bool            `json:"done" jsonschema_description:"True on the message that completed a run"`
	Failed bool            `json:"failed" jsonschema_description:"True if the value could not be saved; resend the same answer"`
	Prompt *domain.Prompt  `json:"prompt,omitempty" jsonschema_description:"The pending item prompt while collecting"`
	Report *ReportResponse `json:"report,omitempty" jsonschema_description:"The report when done"`
}

// ReportResponse is a report plus its chat rendering.
type ReportResponse struct {
	Lines     []string `json:"lines"`
	Deficient []string `json:"deficient"`
	Text      string   `json:"text"`
}

// Server wraps the App and exposes it as an MCP Server.
type Server struct {
	app       App
	mcpServer *server.MCPServer
	sanitizer runner.Sanitizer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(app App, opts ...Option) *Server {
	s := &Server{
		app:       app,
		mcpServer: server.NewMCPServer("stockcheck-mcp", strings.TrimSpace(stockcheck.Version)),
		sanitizer: runner.DefaultSanitizer(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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
	// TOOL: send_message
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send one chat message to an inventory conversation. "+
			"Use /count to start a check-in, then answer each prompt with a value or /skip to keep the previous one."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to speak in")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Message text")),
		mcp.WithOutputSchema[MessageResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	// TOOL: get_report
	s.mcpServer.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Build the stock report from the current values, flagging low items."),
		mcp.WithOutputSchema[ReportResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetReport))

	// TOOL: list_catalog
	s.mcpServer.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List the catalog items in the order they are asked."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.app.Catalog().Order())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode catalog: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args SendMessageArgs) (MessageResponse, error) {
	if args.ConversationID == "" {
		return MessageResponse{}, errors.New("conversation_id is required")
	}

	clean, err := s.sanitizer.Clean(args.Text)
	if err != nil {
		s.logger.Warn("MCP send_message: Input rejected", "err", err, "size", len(args.Text))
		return MessageResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	reply, err := s.app.Handle(ctx, args.ConversationID, clean)
	if err != nil {
		return MessageResponse{}, fmt.Errorf("send_message failed: %w", err)
	}

	resp := MessageResponse{
		Text:   reply.Text,
		State:  string(reply.Phase),
		Done:   reply.Done,
		Failed: reply.Failed,
		Prompt: reply.Prompt,
	}
	if reply.Report != nil {
		resp.Report = toReportResponse(*reply.Report)
	}
	return resp, nil
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (ReportResponse, error) {
	r, err := s.app.Report(ctx)
	if err != nil {
		return ReportResponse{}, fmt.Errorf("report failed: %w", err)
	}
	return *toReportResponse(r), nil
}

func (s *Server) registerResources() {
	// EXPOSE: stockcheck://report
	s.mcpServer.AddResource(mcp.NewResource(ReportURI, "Current Stock Report",
		mcp.WithMIMEType("application/json"),
	), s.readReport)

	// EXPOSE: stockcheck://catalog
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Catalog Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.app.Catalog().Order())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) readReport(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	r, err := s.app.Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	jsonBytes, err := json.Marshal(toReportResponse(r))
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ReportURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func toReportResponse(r domain.Report) *ReportResponse {
	return &ReportResponse{
		Lines:     r.Lines,
		Deficient: r.Deficient,
		Text:      report.Text(r),
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/graph"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// GraphURI is the resource exposing the workflow graph.
const GraphURI = "aura://graph"

// Agent defines what the MCP server needs from the agent core.
type Agent interface {
	Ask(ctx context.Context, req domain.AgentRequest) (domain.AgentResponse, error)
	Stream(ctx context.Context, req domain.AgentRequest) (iter.Seq[domain.AgentResponse], error)
	Graph() *graph.Graph
}

// GraphView is the JSON form of the workflow graph.
type GraphView struct {
	Entry   string   `json:"entry"`
	Nodes   []string `json:"nodes"`
	Path    []string `json:"path"`
	Mermaid string   `json:"mermaid"`
}

// Server exposes the Agent as an MCP Server.
type Server struct {
	agent     Agent
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(agent Agent, opts ...Option) *Server {
	s := &Server{
		agent:     agent,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("aura-mcp", aura.Version),
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

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
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
	// TOOL: ask
	askTool := mcp.NewTool("ask",
		mcp.WithDescription("Ask a question and wait for the final answer."),
		mcp.WithString("request", mcp.Required(), mcp.Description("The natural-language question")),
	)
	s.mcpServer.AddTool(askTool, s.HandleAsk)

	// TOOL: stream
	streamTool := mcp.NewTool("stream",
		mcp.WithDescription("Ask a question and return every intermediate frame, ending with the answer or an error frame."),
		mcp.WithString("request", mcp.Required(), mcp.Description("The natural-language question")),
	)
	s.mcpServer.AddTool(streamTool, s.HandleStream)

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the workflow graph for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.graphView())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// HandleAsk runs the workflow and returns the final answer frame as JSON.
func (s *Server) HandleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := decodeRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.agent.Ask(ctx, req)
	if err != nil {
		s.logger.Warn("MCP Ask: failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// HandleStream runs the workflow and returns all frames as a JSON array.
// The result is marked as an error when the last frame is an error frame.
func (s *Server) HandleStream(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := decodeRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	frames, err := s.agent.Stream(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	collected := []domain.AgentResponse{}
	for frame := range frames {
		collected = append(collected, frame)
	}

	jsonBytes, err := json.Marshal(collected)
	if err != nil {
		return nil, err
	}
	result := mcp.NewToolResultText(string(jsonBytes))
	if n := len(collected); n > 0 && collected[n-1].IsError() {
		result.IsError = true
	}
	return result, nil
}

func decodeRequest(request mcp.CallToolRequest) (domain.AgentRequest, error) {
	var req domain.AgentRequest
	if err := mapstructure.Decode(request.GetArguments(), &req); err != nil {
		return req, fmt.Errorf("invalid arguments: %w", err)
	}
	return req, nil
}

func (s *Server) graphView() GraphView {
	g := s.agent.Graph()
	return GraphView{
		Entry:   g.Entry(),
		Nodes:   g.Nodes(),
		Path:    g.Path(),
		Mermaid: g.Mermaid(),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: aura://graph
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Workflow Graph",
		mcp.WithMIMEType("application/json"),
	), s.HandleGraphResource)
}

// HandleGraphResource returns the graph resource contents.
func (s *Server) HandleGraphResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.graphView())
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

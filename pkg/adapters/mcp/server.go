// Package mcp exposes editing sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/registry"
	"github.com/aretw0/flowboard/pkg/session"
	"github.com/aretw0/flowboard/pkg/submit"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSession is used when a tool call names no session.
const DefaultSession = "default"

// TypesURI is the resource holding the node type catalog.
const TypesURI = "flowboard://types"

// TypeSummary is the compact catalog entry returned by list_node_types.
type TypeSummary struct {
	Type        string   `json:"type" jsonschema_description:"Node type identifier used by add_node"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields" jsonschema_description:"Field keys accepted by set_field"`
	Handles     []string `json:"handles,omitempty" jsonschema_description:"Static handle names; empty for text nodes whose handles follow their template"`
}

// TypeList wraps the catalog so the structured result is an object.
type TypeList struct {
	Types []TypeSummary `json:"types"`
}

// SubmitResult is the validator verdict with a human summary.
type SubmitResult struct {
	NumNodes int    `json:"num_nodes"`
	NumEdges int    `json:"num_edges"`
	IsDAG    bool   `json:"is_dag"`
	Summary  string `json:"summary"`
}

type sessionArgs struct {
	Session string `json:"session"`
}

type addNodeArgs struct {
	Session  string  `json:"session"`
	NodeType string  `json:"node_type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type setFieldArgs struct {
	Session string `json:"session"`
	NodeID  string `json:"node_id"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

type connectArgs struct {
	Session      string `json:"session"`
	Source       string `json:"source"`
	SourceHandle string `json:"source_handle"`
	Target       string `json:"target"`
	TargetHandle string `json:"target_handle"`
}

// Server wraps a session manager and exposes it as an MCP server.
type Server struct {
	sessions  *session.Manager
	registry  *registry.Registry
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, reg *registry.Registry, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sessions:  sessions,
		registry:  reg,
		mcpServer: server.NewMCPServer("flowboard-mcp", version),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	withCORS := cors.AllowAll().Handler
	mux := http.NewServeMux()
	mux.Handle("/sse", withCORS(sseServer.SSEHandler()))
	mux.Handle("/message", withCORS(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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

func (s *Server) registerTools() {
	sessionParam := mcp.WithString("session", mcp.Description("Session id (defaults to \""+DefaultSession+"\")"))

	s.mcpServer.AddTool(mcp.NewTool("list_node_types",
		mcp.WithDescription("List the node types that can be added to a pipeline, with their editable fields."),
		mcp.WithOutputSchema[TypeList](),
	), mcp.NewStructuredToolHandler(s.handleListTypes))

	s.mcpServer.AddTool(mcp.NewTool("add_node",
		mcp.WithDescription("Add a node of the given type. Defaults are filled in and the rendered node is returned."),
		sessionParam,
		mcp.WithString("node_type", mcp.Required(), mcp.Description("One of the types from list_node_types")),
		mcp.WithNumber("x", mcp.Description("Canvas x position")),
		mcp.WithNumber("y", mcp.Description("Canvas y position")),
		mcp.WithOutputSchema[editor.RenderedNode](),
	), mcp.NewStructuredToolHandler(s.handleAddNode))

	s.mcpServer.AddTool(mcp.NewTool("set_field",
		mcp.WithDescription("Set one field of a node. JSON literals (numbers, booleans) are decoded; anything else is stored as text."),
		sessionParam,
		mcp.WithString("node_id", mcp.Required()),
		mcp.WithString("key", mcp.Required()),
		mcp.WithString("value", mcp.Required()),
		mcp.WithOutputSchema[editor.RenderedNode](),
	), mcp.NewStructuredToolHandler(s.handleSetField))

	s.mcpServer.AddTool(mcp.NewTool("connect",
		mcp.WithDescription("Connect a source handle to a target handle. Handle ids have the form <nodeId>-<name>."),
		sessionParam,
		mcp.WithString("source", mcp.Required()),
		mcp.WithString("source_handle"),
		mcp.WithString("target", mcp.Required()),
		mcp.WithString("target_handle"),
		mcp.WithOutputSchema[domain.Edge](),
	), mcp.NewStructuredToolHandler(s.handleConnect))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the nodes and edges of a session."),
		sessionParam,
		mcp.WithOutputSchema[domain.Graph](),
	), mcp.NewStructuredToolHandler(s.handleGetGraph))

	s.mcpServer.AddTool(mcp.NewTool("submit_pipeline",
		mcp.WithDescription("Send the pipeline to the validator and report node count, edge count and whether it is a DAG."),
		sessionParam,
		mcp.WithOutputSchema[SubmitResult](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))
}

func (s *Server) open(ctx context.Context, id string) (*editor.Session, error) {
	if id == "" {
		id = DefaultSession
	}
	return s.sessions.Open(ctx, id)
}

func (s *Server) catalog() TypeList {
	defs := s.registry.Types()
	out := TypeList{Types: make([]TypeSummary, len(defs))}
	for i, d := range defs {
		ts := TypeSummary{Type: d.Type, Title: d.Title, Description: d.Description}
		for _, f := range d.Fields {
			ts.Fields = append(ts.Fields, f.Key)
		}
		if !d.Dynamic() {
			for _, h := range d.Handles {
				ts.Handles = append(ts.Handles, string(h.Kind)+":"+h.Name)
			}
		}
		out.Types[i] = ts
	}
	return out
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (TypeList, error) {
	return s.catalog(), nil
}

func (s *Server) handleAddNode(ctx context.Context, request mcp.CallToolRequest, args addNodeArgs) (editor.RenderedNode, error) {
	sess, err := s.open(ctx, args.Session)
	if err != nil {
		return editor.RenderedNode{}, err
	}
	return sess.Drop(domain.DropPayload{NodeType: args.NodeType}, domain.Position{X: args.X, Y: args.Y})
}

// parseValue decodes JSON scalars and falls back to the raw text.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		switch v.(type) {
		case float64, bool:
			return v
		}
	}
	return raw
}

func (s *Server) handleSetField(ctx context.Context, request mcp.CallToolRequest, args setFieldArgs) (editor.RenderedNode, error) {
	sess, err := s.open(ctx, args.Session)
	if err != nil {
		return editor.RenderedNode{}, err
	}
	if err := sess.SetField(args.NodeID, args.Key, parseValue(args.Value)); err != nil {
		return editor.RenderedNode{}, err
	}
	return sess.Render(args.NodeID)
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest, args connectArgs) (domain.Edge, error) {
	sess, err := s.open(ctx, args.Session)
	if err != nil {
		return domain.Edge{}, err
	}
	return sess.Connect(domain.Connection{
		Source:       args.Source,
		SourceHandle: args.SourceHandle,
		Target:       args.Target,
		TargetHandle: args.TargetHandle,
	})
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (domain.Graph, error) {
	sess, err := s.open(ctx, args.Session)
	if err != nil {
		return domain.Graph{}, err
	}
	return sess.Graph(), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args sessionArgs) (SubmitResult, error) {
	sess, err := s.open(ctx, args.Session)
	if err != nil {
		return SubmitResult{}, err
	}
	res, err := sess.Submit(ctx)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit failed: %w", err)
	}
	return SubmitResult{
		NumNodes: res.NumNodes,
		NumEdges: res.NumEdges,
		IsDAG:    res.IsDAG,
		Summary:  submit.Summary(res),
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TypesURI, "Node Type Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.registry.Types())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TypesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

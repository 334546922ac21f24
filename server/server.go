// Package server exposes the dissolution operations as MCP tools over stdio.
package server

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/teranos/watercolor/am"
	"github.com/teranos/watercolor/dissolution"
	"github.com/teranos/watercolor/display"
	"github.com/teranos/watercolor/errors"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/version"
)

// Server wraps an MCP server whose tools run against the current engine.
type Server struct {
	engine       atomic.Pointer[dissolution.Engine]
	defaultSteps atomic.Int64
	mcp          *mcpserver.MCPServer
	handlers     map[string]mcpserver.ToolHandlerFunc
	watcher      *am.ConfigWatcher
	logger       *zap.SugaredLogger
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultSteps sets the trajectory length used when a call omits one.
func WithDefaultSteps(n int) Option {
	return func(s *Server) { s.defaultSteps.Store(int64(n)) }
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates an MCP server named name around engine.
func New(name string, engine *dissolution.Engine, opts ...Option) *Server {
	s := &Server{
		logger:   logger.ComponentLogger("server"),
		handlers: make(map[string]mcpserver.ToolHandlerFunc),
	}
	s.engine.Store(engine)
	s.defaultSteps.Store(am.DefaultSteps)
	for _, opt := range opts {
		opt(s)
	}
	if name == "" {
		name = am.DefaultServerName
	}

	s.mcp = mcpserver.NewMCPServer(
		name,
		version.Get().Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	s.registerTools()
	return s
}

// Engine returns the engine new tool calls run against.
func (s *Server) Engine() *dissolution.Engine {
	return s.engine.Load()
}

// Swap replaces the engine. Calls already running keep the old one.
func (s *Server) Swap(e *dissolution.Engine) {
	s.engine.Store(e)
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Watch rebuilds the engine whenever the config file at path changes.
func (s *Server) Watch(ctx context.Context, path string) error {
	w, err := am.NewConfigWatcher(path)
	if err != nil {
		return err
	}
	w.OnReload(func(cfg *am.Config) error {
		e, err := dissolution.FromConfig(ctx, cfg)
		if err != nil {
			return err
		}
		s.Swap(e)
		s.defaultSteps.Store(int64(cfg.Trajectory.DefaultSteps))
		s.logger.Infow("Engine rebuilt from config",
			logger.FieldFile, path,
			"registry_version", e.Registry().Version())
		return nil
	})
	am.SetGlobalWatcher(w)
	w.Start()
	s.watcher = w
	s.logger.Infow("Config watcher started", logger.FieldFile, path)
	return nil
}

// Serve blocks serving MCP over stdin/stdout.
func (s *Server) Serve() error {
	return mcpserver.ServeStdio(s.mcp)
}

// Close stops the config watcher, if any.
func (s *Server) Close() error {
	if s.watcher == nil {
		return nil
	}
	am.SetGlobalWatcher(nil)
	return s.watcher.Stop()
}

// Tools returns the registered tool names in sorted order.
func (s *Server) Tools() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes a tool directly, as an MCP client request would.
func (s *Server) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, errors.NewUnknownIdentifier("tool", name, s.Tools())
	}
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return h(ctx, req)
}

func (s *Server) addTool(tool mcp.Tool, fn toolFunc) {
	h := s.handle(tool.Name, fn)
	s.handlers[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// toolFunc computes a tool's JSON result against one engine snapshot.
type toolFunc func(ctx context.Context, e *dissolution.Engine, req mcp.CallToolRequest) (interface{}, error)

func (s *Server) handle(name string, fn toolFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = logger.WithRequestID(ctx, uuid.NewString())
		ctx = logger.WithTool(ctx, name)
		log := s.logger.With(logger.FieldsFromContext(ctx)...)

		v, err := fn(ctx, s.Engine(), req)
		if err != nil {
			kind := errors.KindOf(err)
			log.Warnw("Tool call failed",
				logger.FieldErrorKind, string(kind),
				logger.FieldError, err.Error())
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", kind, err)), nil
		}

		data, err := display.MarshalJSON(v)
		if err != nil {
			log.Errorw("Failed to encode tool result", logger.FieldError, err.Error())
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", errors.KindInternal, err)), nil
		}
		log.Debugw("Tool call completed")
		return mcp.NewToolResultText(string(data)), nil
	}
}

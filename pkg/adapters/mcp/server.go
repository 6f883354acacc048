package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/ussdsim"
	"github.com/aretw0/ussdsim/internal/logging"
	"github.com/aretw0/ussdsim/pkg/catalog"
	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/aretw0/ussdsim/pkg/runner"
	"github.com/aretw0/ussdsim/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// Resource URIs.
const (
	CatalogURI = "ussdsim://catalog"
	DevicesURI = "ussdsim://devices"
)

// Browser lists catalog entries. *catalog.Catalog implements it.
type Browser interface {
	Entries() []catalog.Entry
	Search(term string) []catalog.Entry
}

// OperatorResolver maps a device SIM to its operator. *devices.Registry implements it.
type OperatorResolver interface {
	ResolveOperator(deviceID, slot string) (domain.OperatorContext, error)
	List() []domain.Device
}

// StepResult is the screen a tool call leaves the session on.
type StepResult struct {
	SessionID string          `json:"session_id" jsonschema_description:"Session to pass to select_option and close_session"`
	Status    domain.Status   `json:"status" jsonschema_description:"menu_displayed, terminal_displayed or idle"`
	Message   string          `json:"message" jsonschema_description:"Text shown on the handset"`
	Options   []domain.Option `json:"options,omitempty" jsonschema_description:"Selectable menu entries"`
	Depth     int             `json:"depth" jsonschema_description:"Number of screens in the session history"`
	CanGoBack bool            `json:"can_go_back" jsonschema_description:"Whether option 9 returns to the previous screen"`
	Ended     bool            `json:"ended" jsonschema_description:"True once the session has been closed or exited"`
	Reason    string          `json:"reason,omitempty" jsonschema_description:"exit or closed when ended"`
}

// CodeSummary describes one catalog code.
type CodeSummary struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	IsMenu      bool   `json:"is_menu"`
}

// CodesResult is returned by list_codes.
type CodesResult struct {
	Codes []CodeSummary `json:"codes"`
}

type dialArgs struct {
	Code     string `mapstructure:"code"`
	DeviceID string `mapstructure:"device_id"`
	SIMSlot  string `mapstructure:"sim_slot"`
	Operator string `mapstructure:"operator"`
}

type selectArgs struct {
	SessionID string `mapstructure:"session_id"`
	Key       string `mapstructure:"key"`
}

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

type searchArgs struct {
	Search string `mapstructure:"search"`
}

// decodeArgs copies tool arguments into out.
// Weak typing lets clients send option keys as numbers.
func decodeArgs(args map[string]interface{}, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Server exposes the session manager as an MCP server.
type Server struct {
	sessions  *session.Manager
	devices   OperatorResolver
	catalog   Browser
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for rejected calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, devices OperatorResolver, browser Browser, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		devices:   devices,
		catalog:   browser,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("ussdsim-mcp", ussdsim.Version),
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

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

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
	// TOOL: dial
	dialTool := mcp.NewTool("dial",
		mcp.WithDescription("Dial a USSD code (e.g. *123#) and return the first screen. Give device_id and sim_slot, or an operator name."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Dial string starting with * and ending with #")),
		mcp.WithString("device_id", mcp.Description("Device to dial from (see ussdsim://devices)")),
		mcp.WithString("sim_slot", mcp.Description("SIM slot of the device, e.g. 'Slot 1'")),
		mcp.WithString("operator", mcp.Description("Operator name, used when no device is given")),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(dialTool, mcp.NewStructuredToolHandler(s.handleDial))

	// TOOL: select_option
	selectTool := mcp.NewTool("select_option",
		mcp.WithDescription("Answer the displayed menu. 0 exits, 9 goes back when offered. On a terminal screen only 0 is accepted and closes the session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by dial")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Option key shown on the screen")),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(selectTool, mcp.NewStructuredToolHandler(s.handleSelect))

	// TOOL: close_session
	closeTool := mcp.NewTool("close_session",
		mcp.WithDescription("Dismiss a terminal screen and end the session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by dial")),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(closeTool, mcp.NewStructuredToolHandler(s.handleClose))

	// TOOL: get_session
	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Show the current screen of a session without changing it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by dial")),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGet))

	// TOOL: list_codes
	codesTool := mcp.NewTool("list_codes",
		mcp.WithDescription("List the known USSD codes, optionally filtered by code, description or category."),
		mcp.WithString("search", mcp.Description("Filter term")),
		mcp.WithOutputSchema[CodesResult](),
	)
	s.mcpServer.AddTool(codesTool, mcp.NewStructuredToolHandler(s.handleListCodes))
}

func (s *Server) handleDial(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResult, error) {
	var in dialArgs
	if err := decodeArgs(args, &in); err != nil {
		return StepResult{}, err
	}

	code, err := runner.SanitizeInput(in.Code)
	if err != nil {
		s.logger.Warn("MCP dial: input rejected", "err", err, "size", len(in.Code))
		return StepResult{}, fmt.Errorf("input rejected: %w", err)
	}

	var op domain.OperatorContext
	switch {
	case in.DeviceID != "" || in.SIMSlot != "":
		op, err = s.devices.ResolveOperator(in.DeviceID, in.SIMSlot)
		if err != nil {
			return StepResult{}, err
		}
	case in.Operator != "":
		op = domain.OperatorContext{Name: in.Operator}
	default:
		return StepResult{}, errors.New("device_id and sim_slot, or operator, are required")
	}

	next, err := s.sessions.Dial(ctx, code, op)
	if err != nil {
		return StepResult{}, fmt.Errorf("dial failed: %w", err)
	}
	return resultOf(next.ID, next, domain.Outcome{}), nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResult, error) {
	var in selectArgs
	if err := decodeArgs(args, &in); err != nil {
		return StepResult{}, err
	}
	key, err := runner.SanitizeInput(in.Key)
	if err != nil {
		s.logger.Warn("MCP select: input rejected", "err", err, "size", len(in.Key))
		return StepResult{}, fmt.Errorf("input rejected: %w", err)
	}

	next, out, err := s.sessions.Select(ctx, in.SessionID, key)
	if err != nil {
		return StepResult{}, fmt.Errorf("select failed: %w", err)
	}
	return resultOf(in.SessionID, next, out), nil
}

func (s *Server) handleClose(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResult, error) {
	var in sessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return StepResult{}, err
	}
	next, out, err := s.sessions.Close(ctx, in.SessionID)
	if err != nil {
		return StepResult{}, fmt.Errorf("close failed: %w", err)
	}
	return resultOf(in.SessionID, next, out), nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResult, error) {
	var in sessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return StepResult{}, err
	}
	current, err := s.sessions.Load(ctx, in.SessionID)
	if err != nil {
		return StepResult{}, err
	}
	return resultOf(in.SessionID, current, domain.Outcome{}), nil
}

func (s *Server) handleListCodes(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CodesResult, error) {
	var in searchArgs
	if err := decodeArgs(args, &in); err != nil {
		return CodesResult{}, err
	}
	entries := s.catalog.Search(in.Search)
	out := CodesResult{Codes: make([]CodeSummary, 0, len(entries))}
	for _, e := range entries {
		out.Codes = append(out.Codes, CodeSummary{
			Code:        e.Code,
			Description: e.Description,
			Category:    e.Category,
			IsMenu:      len(e.Options) > 0,
		})
	}
	return out, nil
}

// resultOf describes snap. When the step ended the session, the final screen comes from out.
func resultOf(id string, snap *domain.Session, out domain.Outcome) StepResult {
	r := StepResult{
		SessionID: id,
		Status:    snap.Status,
		Depth:     snap.Depth(),
		CanGoBack: snap.CanGoBack(),
		Ended:     out.Ended,
		Reason:    string(out.Reason),
	}
	screen, ok := snap.Current()
	if !ok {
		screen = out.Response
	}
	r.Message = screen.Message
	r.Options = screen.Options
	return r
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "USSD Code Catalog",
		mcp.WithResourceDescription("Known dial codes with their menus"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(CatalogURI, s.catalog.Entries())
	})

	s.mcpServer.AddResource(mcp.NewResource(DevicesURI, "Simulated Devices",
		mcp.WithResourceDescription("Devices and the operator of each SIM slot"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(DevicesURI, s.devices.List())
	})
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

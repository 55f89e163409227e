// Package mcp exposes the quiz engine as a Model Context Protocol server,
// letting AI agents drive quiz runs as tools over stdio or SSE.
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

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunView is the structured result shared by run-mutating tools.
type RunView struct {
	RunID  string                `json:"runId" jsonschema_description:"The run identifier"`
	State  *domain.RunState      `json:"state" jsonschema_description:"The run state after the operation"`
	Node   *domain.Node          `json:"node,omitempty" jsonschema_description:"The current node, when resolvable"`
	Result *domain.AdvanceResult `json:"result,omitempty" jsonschema_description:"Advance outcome, for the advance tool"`
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    *espalier.Engine
	runs      *session.Manager
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server for the given engine and run manager.
func NewServer(engine *espalier.Engine, runs *session.Manager) *Server {
	s := &Server{
		engine:    engine,
		runs:      runs,
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, shutting down
// gracefully when the context is cancelled.
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
		slog.Info("MCP server listening (SSE)", "address", addr)
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
	startTool := mcp.NewTool("start_run",
		mcp.WithDescription("Start a quiz run, or resume it when the id already exists. Generates an id when omitted."),
		mcp.WithString("run_id", mcp.Description("Run identifier (optional)")),
		mcp.WithOutputSchema[RunView](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartRun))

	answerTool := mcp.NewTool("submit_answer",
		mcp.WithDescription("Record an answer to a question in the current node. The response carries the validation verdict."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithString("question_id", mcp.Required(), mcp.Description("Question identifier")),
		mcp.WithString("value", mcp.Required(), mcp.Description("JSON-encoded answer value (plain strings also accepted)")),
		mcp.WithOutputSchema[RunView](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleSubmitAnswer))

	advanceTool := mcp.NewTool("advance",
		mcp.WithDescription("Advance the run along the first matching transition. The result says whether it moved, completed or was blocked."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithOutputSchema[RunView](),
	)
	s.mcpServer.AddTool(advanceTool, mcp.NewStructuredToolHandler(s.handleAdvance))

	backTool := mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previously visited node. Responses are preserved."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithOutputSchema[RunView](),
	)
	s.mcpServer.AddTool(backTool, mcp.NewStructuredToolHandler(s.handleGoBack))

	previewTool := mcp.NewTool("preview_transition",
		mcp.WithDescription("Evaluate a transition against hypothetical responses without touching any run."),
		mcp.WithString("transition", mcp.Required(), mcp.Description("JSON-encoded transition")),
		mcp.WithString("responses", mcp.Description("JSON object mapping question ids to responses")),
	)
	s.mcpServer.AddTool(previewTool, s.handlePreview)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render the quiz structure as a Mermaid flowchart."),
		mcp.WithString("run_id", mcp.Description("Overlay progress of this run (optional)")),
	), s.handleGetGraph)
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunView, error) {
	runID, _ := args["run_id"].(string)
	if runID == "" {
		runID = uuid.NewString()
	}

	state, err := s.runs.LoadOrStart(ctx, runID, s.engine.Quiz())
	if err != nil {
		return RunView{}, fmt.Errorf("start run failed: %w", err)
	}
	return s.view(runID, state, nil), nil
}

func (s *Server) handleSubmitAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunView, error) {
	runID, _ := args["run_id"].(string)
	questionID, _ := args["question_id"].(string)
	raw, _ := args["value"].(string)

	// The value arrives as a string; decode JSON when possible, otherwise
	// treat it as a plain string answer.
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	var state *domain.RunState
	err := s.runs.WithLock(ctx, runID, func(ctx context.Context) error {
		current, err := s.runs.Store().Load(ctx, runID)
		if err != nil {
			return err
		}
		state, _, err = s.engine.SubmitAnswer(ctx, current, questionID, value)
		if err != nil {
			return err
		}
		return s.runs.Store().Save(ctx, runID, state)
	})
	if err != nil {
		return RunView{}, fmt.Errorf("submit answer failed: %w", err)
	}
	return s.view(runID, state, nil), nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunView, error) {
	runID, _ := args["run_id"].(string)

	var (
		state  *domain.RunState
		result domain.AdvanceResult
	)
	err := s.runs.WithLock(ctx, runID, func(ctx context.Context) error {
		current, err := s.runs.Store().Load(ctx, runID)
		if err != nil {
			return err
		}
		state, result, err = s.engine.Advance(ctx, current)
		if err != nil {
			return err
		}
		return s.runs.Store().Save(ctx, runID, state)
	})
	if err != nil {
		return RunView{}, fmt.Errorf("advance failed: %w", err)
	}
	return s.view(runID, state, &result), nil
}

func (s *Server) handleGoBack(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RunView, error) {
	runID, _ := args["run_id"].(string)

	var state *domain.RunState
	err := s.runs.WithLock(ctx, runID, func(ctx context.Context) error {
		current, err := s.runs.Store().Load(ctx, runID)
		if err != nil {
			return err
		}
		state, err = s.engine.GoBack(ctx, current)
		if err != nil {
			return err
		}
		return s.runs.Store().Save(ctx, runID, state)
	})
	if err != nil {
		return RunView{}, fmt.Errorf("go back failed: %w", err)
	}
	return s.view(runID, state, nil), nil
}

func (s *Server) handlePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	rawTransition, _ := args["transition"].(string)
	var transition domain.Transition
	if err := json.Unmarshal([]byte(rawTransition), &transition); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid transition: %v", err)), nil
	}

	responses := make(map[string]domain.Response)
	if rawResponses, ok := args["responses"].(string); ok && rawResponses != "" {
		if err := json.Unmarshal([]byte(rawResponses), &responses); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid responses: %v", err)), nil
		}
	}

	matched := s.engine.EvaluateTransition(transition, responses)
	out, _ := json.Marshal(map[string]bool{"matched": matched})
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var overlay *graph.Overlay
	if runID, ok := request.GetArguments()["run_id"].(string); ok && runID != "" {
		state, err := s.runs.Load(ctx, runID)
		if err != nil {
			if errors.Is(err, domain.ErrRunNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("run not found: %s", runID)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("load run failed: %v", err)), nil
		}
		overlay = &graph.Overlay{
			VisitedNodes: state.VisitedNodes,
			CurrentNode:  state.CurrentNodeID,
		}
	}

	return mcp.NewToolResultText(graph.GenerateMermaid(s.engine.Quiz(), overlay)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("espalier://quiz", "Current Quiz Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Quiz())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal quiz: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://quiz",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) view(runID string, state *domain.RunState, result *domain.AdvanceResult) RunView {
	node, err := s.engine.CurrentNode(state)
	if err != nil {
		node = nil
	}
	return RunView{RunID: runID, State: state, Node: node, Result: result}
}

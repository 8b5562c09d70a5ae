// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/presets"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server *server.MCPServer
	prefs  ports.PreferencesProvider

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(prefs ports.PreferencesProvider, version string) *Server {
	s := &Server{prefs: prefs}

	s.server = server.NewMCPServer(
		"tomato",
		version,
		server.WithLogging(),
	)
	s.registerTools()
	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_preferences",
			mcp.WithDescription("Get the default focus and break durations, the sound toggle and the theme"),
		),
		s.handleGetPreferences,
	)

	durationsTool := mcp.NewTool(
		"set_default_durations",
		mcp.WithDescription("Set the default focus and/or break duration in whole minutes (1-99)"),
		mcp.WithNumber(
			"focus_minutes",
			mcp.Description("Default focus duration in minutes"),
		),
		mcp.WithNumber(
			"break_minutes",
			mcp.Description("Default break duration in minutes"),
		),
	)
	s.server.AddTool(durationsTool, s.handleSetDefaultDurations)

	soundTool := mcp.NewTool(
		"set_sound",
		mcp.WithDescription("Turn the mode switch chime on or off"),
		mcp.WithBoolean(
			"enabled",
			mcp.Required(),
			mcp.Description("Whether the chime plays"),
		),
	)
	s.server.AddTool(soundTool, s.handleSetSound)

	themes := make([]string, len(domain.ValidThemes))
	for i, t := range domain.ValidThemes {
		themes[i] = string(t)
	}
	themeTool := mcp.NewTool(
		"set_theme",
		mcp.WithDescription("Select the visual theme"),
		mcp.WithString(
			"theme",
			mcp.Required(),
			mcp.Description("Theme id"),
			mcp.Enum(themes...),
		),
	)
	s.server.AddTool(themeTool, s.handleSetTheme)

	parseTool := mcp.NewTool(
		"parse_time",
		mcp.WithDescription("Parse timer input (\"MM:SS\" or whole minutes) into seconds"),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The text typed into the timer"),
		),
	)
	s.server.AddTool(parseTool, s.handleParseTime)

	formatTool := mcp.NewTool(
		"format_time",
		mcp.WithDescription("Format a number of seconds as MM:SS"),
		mcp.WithNumber(
			"seconds",
			mcp.Required(),
			mcp.Description("Seconds to format"),
		),
	)
	s.server.AddTool(formatTool, s.handleFormatTime)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

type preferencesResult struct {
	domain.Preferences
	FocusPreset string `json:"focus_preset"`
	BreakPreset string `json:"break_preset"`
	ThemeLabel  string `json:"theme_label"`
}

func (s *Server) preferences(ctx context.Context) preferencesResult {
	p := s.prefs.Load(ctx)
	return preferencesResult{
		Preferences: p,
		FocusPreset: presets.Name(domain.ModeFocus, p.FocusMinutes),
		BreakPreset: presets.Name(domain.ModeBreak, p.BreakMinutes),
		ThemeLabel:  p.Theme.Label(),
	}
}

// handleGetPreferences handles the get_preferences tool.
func (s *Server) handleGetPreferences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.preferences(ctx))
}

// handleSetDefaultDurations handles the set_default_durations tool.
func (s *Server) handleSetDefaultDurations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	_, hasFocus := args["focus_minutes"]
	_, hasBreak := args["break_minutes"]
	if !hasFocus && !hasBreak {
		return mcp.NewToolResultError("focus_minutes or break_minutes is required"), nil
	}

	var focus, brk int
	if hasFocus {
		n, err := wholeMinutes(request.GetFloat("focus_minutes", 0))
		if err != nil {
			return mcp.NewToolResultError("focus_minutes: " + err.Error()), nil
		}
		focus = n
	}
	if hasBreak {
		n, err := wholeMinutes(request.GetFloat("break_minutes", 0))
		if err != nil {
			return mcp.NewToolResultError("break_minutes: " + err.Error()), nil
		}
		brk = n
	}

	if hasFocus {
		if err := s.prefs.SetFocusMinutes(ctx, focus); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to set focus minutes: %v", err)), nil
		}
	}
	if hasBreak {
		if err := s.prefs.SetBreakMinutes(ctx, brk); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to set break minutes: %v", err)), nil
		}
	}
	return jsonResult(s.preferences(ctx))
}

func wholeMinutes(f float64) (int, error) {
	if f != math.Trunc(f) || f < domain.MinPreferenceMinutes || f > domain.MaxPreferenceMinutes {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidMinutes, f)
	}
	return int(f), nil
}

// handleSetSound handles the set_sound tool.
func (s *Server) handleSetSound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	enabled, err := request.RequireBool("enabled")
	if err != nil {
		return mcp.NewToolResultError("enabled is required: " + err.Error()), nil
	}
	if err := s.prefs.SetSoundEnabled(ctx, enabled); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set sound: %v", err)), nil
	}
	return jsonResult(s.preferences(ctx))
}

// handleSetTheme handles the set_theme tool.
func (s *Server) handleSetTheme(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("theme")
	if err != nil {
		return mcp.NewToolResultError("theme is required: " + err.Error()), nil
	}
	theme, err := domain.ValidateTheme(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.prefs.SetTheme(ctx, theme); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set theme: %v", err)), nil
	}
	return jsonResult(s.preferences(ctx))
}

// handleParseTime handles the parse_time tool.
func (s *Server) handleParseTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}
	secs, err := domain.ParseTimeInput(text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"seconds":   secs,
		"formatted": domain.FormatTime(domain.ClampSeconds(secs, 0)),
	})
}

// handleFormatTime handles the format_time tool.
func (s *Server) handleFormatTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	secs, err := request.RequireFloat("seconds")
	if err != nil {
		return mcp.NewToolResultError("seconds is required: " + err.Error()), nil
	}
	secs = math.Max(0, math.Min(secs, domain.MaxSeconds))
	return mcp.NewToolResultText(domain.FormatTime(int(secs))), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

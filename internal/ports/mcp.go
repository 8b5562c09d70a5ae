package ports

import (
	"context"

	"github.com/xvierd/tomato/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error
}

// PreferencesProvider exposes the preference operations served over MCP.
// This is a driven port (implemented by the services layer).
type PreferencesProvider interface {
	// Load returns the current preferences with defaults applied.
	Load(ctx context.Context) domain.Preferences

	// SetFocusMinutes stores the focus default.
	SetFocusMinutes(ctx context.Context, minutes int) error

	// SetBreakMinutes stores the break default.
	SetBreakMinutes(ctx context.Context, minutes int) error

	// SetSoundEnabled stores the sound toggle.
	SetSoundEnabled(ctx context.Context, enabled bool) error

	// SetTheme stores the theme id.
	SetTheme(ctx context.Context, theme domain.ThemeID) error
}

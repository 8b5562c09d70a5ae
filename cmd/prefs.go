package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/presets"
)

var (
	prefsFormat string
	resetForce  bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "View and change timer preferences",
	Long: `View and change the default focus and break durations, the chime and the theme.
Changes are picked up by an idle timer that is already open.`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := app.prefs.Load(cmd.Context())
		return writePreferences(cmd.OutOrStdout(), p, prefsFormat)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <focus|break|sound|theme> <value>",
	Short: "Change one preference",
	Example: `  tomato prefs set focus 40
  tomato prefs set sound off
  tomato prefs set theme retro`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.prefs.Set(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s = %s\n", strings.ToLower(args[0]), args[1])
		return nil
	},
}

var prefsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit preferences interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPreferences(cmd.Context(), cmd.OutOrStdout())
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default preferences",
	Long: `Removes every stored preference so the built-in defaults apply again
(25 minute focus, 5 minute break, chime on, minimal theme).
Use --force to skip the confirmation prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !resetForce {
			fmt.Fprint(out, "Reset all preferences to their defaults? Type 'yes' to confirm: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := app.prefs.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset preferences: %w", err)
		}
		fmt.Fprintln(out, "Preferences reset.")
		return nil
	},
}

func init() {
	prefsShowCmd.Flags().StringVarP(&prefsFormat, "format", "f", "text", "Output format: text, json, yaml, toml")
	prefsResetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsEditCmd)
	prefsCmd.AddCommand(prefsResetCmd)
}

// writePreferences renders p in the requested format.
func writePreferences(w io.Writer, p domain.Preferences, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		sound := "off"
		if p.SoundEnabled {
			sound = "on"
		}
		fmt.Fprintf(w, "Focus:  %d min (%s)\n", p.FocusMinutes, presets.Name(domain.ModeFocus, p.FocusMinutes))
		fmt.Fprintf(w, "Break:  %d min (%s)\n", p.BreakMinutes, presets.Name(domain.ModeBreak, p.BreakMinutes))
		fmt.Fprintf(w, "Sound:  %s\n", sound)
		fmt.Fprintf(w, "Theme:  %s\n", p.Theme.Label())
		if app.store != nil && app.store.Path() != "" {
			fmt.Fprintf(w, "Store:  %s\n", app.store.Path())
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal preferences: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to marshal preferences: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(p); err != nil {
			return fmt.Errorf("failed to marshal preferences: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q: must be one of text, json, yaml, toml", format)
}

// minuteOptions lists the presets of a mode, plus the current value when
// it is a custom one.
func minuteOptions(m domain.Mode, current int) []huh.Option[int] {
	var opts []huh.Option[int]
	found := false
	for _, p := range presets.For(m) {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%d min)", p.Name, p.Minutes), p.Minutes))
		if p.Minutes == current {
			found = true
		}
	}
	if !found {
		opts = append(opts, huh.NewOption(fmt.Sprintf("Custom (%d min)", current), current))
	}
	return opts
}

func editPreferences(ctx context.Context, out io.Writer) error {
	p := app.prefs.Load(ctx)
	focus, brk, sound := p.FocusMinutes, p.BreakMinutes, p.SoundEnabled
	theme := p.Theme

	themeOpts := make([]huh.Option[domain.ThemeID], len(domain.ValidThemes))
	for i, t := range domain.ValidThemes {
		themeOpts[i] = huh.NewOption(t.Label(), t)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Focus duration").
				Options(minuteOptions(domain.ModeFocus, focus)...).
				Value(&focus),
			huh.NewSelect[int]().
				Title("Break duration").
				Options(minuteOptions(domain.ModeBreak, brk)...).
				Value(&brk),
			huh.NewSelect[domain.ThemeID]().
				Title("Theme").
				Options(themeOpts...).
				Value(&theme),
			huh.NewConfirm().
				Title("Play a chime when the mode switches?").
				Affirmative("On").
				Negative("Off").
				Value(&sound),
		),
	).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(os.Stdin.Fd()) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "No changes made.")
			return nil
		}
		return err
	}

	if err := app.prefs.SetFocusMinutes(ctx, focus); err != nil {
		return err
	}
	if err := app.prefs.SetBreakMinutes(ctx, brk); err != nil {
		return err
	}
	if err := app.prefs.SetTheme(ctx, theme); err != nil {
		return err
	}
	if err := app.prefs.SetSoundEnabled(ctx, sound); err != nil {
		return err
	}

	fmt.Fprintln(out, "Saved.")
	return writePreferences(out, app.prefs.Load(ctx), "text")
}

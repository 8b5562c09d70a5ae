// Package plain is a line-oriented front end for terminals without full
// screen support and for piped use. It prints the timer state and reads
// single-letter commands, one per line, from its input.
package plain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
	"golang.org/x/sync/errgroup"

	"github.com/xvierd/tomato/internal/adapters/scheduler"
	"github.com/xvierd/tomato/internal/adapters/tui"
	"github.com/xvierd/tomato/internal/config"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/services"
)

const usage = "commands: s start/pause  r reset  n switch now  m switch  e edit  x cancel edit  + add 5  k skip break  q quit"

// Runner drives a TimerEngine on a scheduler.Loop.
type Runner struct {
	engine *services.TimerEngine
	loop   *scheduler.Loop
	in     io.Reader
	out    io.Writer
	reveal bool

	inPlace bool
	width   int
	last    string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Ensure Runner implements ports.Timer.
var _ ports.Timer = (*Runner)(nil)

// New creates a headless runner reading commands from in and writing
// status to out.
func New(durations ports.DurationSource, cfg *config.Config, chime ports.Chime, in io.Reader, out io.Writer) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	loop := scheduler.NewLoop()
	ecfg := services.EngineConfig{
		TickInterval:      time.Duration(cfg.Timer.TickInterval),
		RenderInterval:    time.Duration(cfg.Timer.RenderInterval),
		IntroStepInterval: time.Duration(cfg.Timer.IntroStepInterval),
		RevealDelay:       time.Duration(cfg.Timer.RevealDelay),
	}
	if !cfg.UI.RevealActions {
		ecfg.RevealDelay = 0
	}
	opts := []services.EngineOption{services.WithEngineConfig(ecfg)}
	if chime != nil {
		opts = append(opts, services.WithChime(chime))
	}

	r := &Runner{
		engine: services.NewTimerEngine(durations, loop, opts...),
		loop:   loop,
		in:     in,
		out:    out,
		reveal: cfg.UI.RevealActions,
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(f.Fd()) {
		r.inPlace = true
		if w, _, err := term.GetSize(f.Fd()); err == nil {
			r.width = w
		}
	}
	r.engine.Subscribe(r.render)
	return r
}

// Run blocks until a quit command, the end of input, or ctx ends.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	lines := make(chan string)
	go readLines(ctx, r.in, lines)

	fmt.Fprintln(r.out, usage)
	r.loop.Post(func() { r.render(r.engine.Snapshot()) })

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.loop.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					// Commands already queued run before the quit.
					lines = nil
					if !r.loop.Post(r.quit) {
						return nil
					}
					continue
				}
				if !r.loop.Post(func() { r.handle(line) }) {
					return nil
				}
			}
		}
	})

	err := g.Wait()
	r.engine.Stop()
	r.loop.Close()
	if r.inPlace {
		fmt.Fprintln(r.out)
	}
	return err
}

// Stop ends Run.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// readLines feeds lines until the input ends or ctx is done. A blocked
// Scan still holds the goroutine until the next line or EOF arrives.
func readLines(ctx context.Context, in io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

// handle runs on the loop goroutine.
func (r *Runner) handle(line string) {
	line = strings.TrimSpace(line)
	cmd, known := ports.ParseTimerCommand(line)
	if line == "" {
		cmd, known = ports.CmdStartPause, true
	}

	if r.engine.Snapshot().Editing {
		switch {
		case known && cmd == ports.CmdQuit:
			r.quit()
		case known && (cmd == ports.CmdCancelEdit || cmd == ports.CmdReset ||
			cmd == ports.CmdAdd5 || cmd == ports.CmdAdd10 || cmd == ports.CmdAdd15):
			r.engine.Dispatch(cmd)
		default:
			if !r.engine.CommitEdit(line) {
				r.println(fmt.Sprintf("ignored %q: use MM:SS or minutes", line))
			}
		}
		return
	}

	switch {
	case !known:
		r.println(fmt.Sprintf("unknown command %q", line))
		r.println(usage)
	case cmd == ports.CmdQuit:
		r.quit()
	default:
		r.engine.Dispatch(cmd)
	}
}

func (r *Runner) quit() {
	r.engine.Stop()
	r.Stop()
}

// render prints a snapshot. Render ticks only repaint in place; piped
// output gets one line per change.
func (r *Runner) render(snap domain.Snapshot) {
	line := StatusLine(snap, r.reveal)
	if r.inPlace {
		if r.width > 0 && len([]rune(line)) > r.width {
			line = string([]rune(line)[:r.width])
		}
		fmt.Fprintf(r.out, "\r\033[K%s", line)
		return
	}
	if snap.Cause == domain.CauseRender || line == r.last {
		return
	}
	r.last = line
	fmt.Fprintln(r.out, line)
}

func (r *Runner) println(s string) {
	if r.inPlace {
		fmt.Fprint(r.out, "\r\033[K")
	}
	fmt.Fprintln(r.out, s)
}

// StatusLine formats a snapshot as one line of text.
func StatusLine(snap domain.Snapshot, revealEnabled bool) string {
	l := tui.Project(snap, revealEnabled)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", l.ModeLabel)
	if l.Editing {
		fmt.Fprintf(&b, "editing %s (enter MM:SS or minutes, x to cancel)", l.Time)
		return b.String()
	}
	b.WriteString(l.Headline + " " + l.Time)
	if l.Suffix != "" {
		b.WriteString(" " + l.Suffix)
	}
	if l.ShowProgress {
		b.WriteString("  " + units(snap.Progress))
	}
	switch snap.Phase() {
	case domain.PhasePaused:
		b.WriteString("  (paused)")
	case domain.PhaseIdle:
		b.WriteString("  (" + l.StartPause + " with s)")
	}
	if l.ShowBreakNow {
		b.WriteString("  n: " + l.BreakNowLabel)
	}
	if l.SkipArmed {
		b.WriteString("  next break skipped")
	}
	return b.String()
}

func units(p domain.Progress) string {
	var b strings.Builder
	for i := 0; i < p.TotalUnits; i++ {
		switch {
		case p.UnitFill(i) >= 1:
			b.WriteByte('#')
		case i == p.PartialIndex && p.PartialFill > 0:
			b.WriteByte('+')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

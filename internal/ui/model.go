package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/system_observer/internal/logger"
	"github.com/Dicklesworthstone/system_observer/internal/model"
	"github.com/Dicklesworthstone/system_observer/internal/telemetry"
)

// DefaultTick is how often the loop wakes without input.
const DefaultTick = 50 * time.Millisecond

// RunState is the top-level lifecycle of the dashboard.
type RunState int

const (
	Running RunState = iota
	Exiting
)

// Sampler produces snapshots. Sample may block for the sampling window.
type Sampler interface {
	Sample() model.Snapshot
	Window() time.Duration
}

// Model is the bubbletea model that owns every piece of mutable dashboard
// state. Samples are taken in commands off the update goroutine, at most one
// at a time, and only applied in Update.
type Model struct {
	sampler Sampler
	killer  telemetry.Terminator
	keys    KeyMap
	log     logger.Logger
	tick    time.Duration

	snap      model.Snapshot
	ready     bool
	screen    Screen
	selection Selection
	notice    Notice
	state     RunState
	width     int
	height    int

	sampling bool // a sample command is in flight
	resample bool // start another sample as soon as the in-flight one lands
}

// Option configures a Model.
type Option func(*Model)

func WithTick(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.tick = d
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(m *Model) { m.log = l }
}

func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// New builds a dashboard on the Processes screen with nothing selected.
func New(s Sampler, killer telemetry.Terminator, opts ...Option) *Model {
	m := &Model{
		sampler: s,
		killer:  killer,
		keys:    DefaultKeyMap(),
		log:     logger.NewEnvLogger("[ui]"),
		tick:    DefaultTick,
		snap:    model.Zero(),
		screen:  ScreenProcesses,
		width:   120,
		height:  40,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Messages
type (
	tickMsg     time.Time
	snapshotMsg model.Snapshot
)

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// sampleCmd marks a sample in flight and returns the command that takes it.
func (m *Model) sampleCmd() tea.Cmd {
	m.sampling = true
	s := m.sampler
	return func() tea.Msg { return snapshotMsg(s.Sample()) }
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.sampleCmd(), m.tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		if m.state == Exiting {
			return m, nil
		}
		if !m.sampling {
			return m, tea.Batch(m.sampleCmd(), m.tickCmd())
		}
		return m, m.tickCmd()
	case snapshotMsg:
		m.apply(model.Snapshot(msg))
		if m.resample && m.state == Running {
			m.resample = false
			return m, m.sampleCmd()
		}
	}
	return m, nil
}

func (m *Model) apply(snap model.Snapshot) {
	m.sampling = false
	m.snap = snap
	m.ready = true
	m.selection = m.selection.Revalidate(snap.Len())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.keys.Action(m.screen, msg) {
	case ActionQuit:
		m.state = Exiting
		return tea.Quit
	case ActionNextScreen:
		m.screen = m.screen.Next()
	case ActionUp:
		m.selection = m.selection.Move(-1, m.snap.Len())
	case ActionDown:
		m.selection = m.selection.Move(+1, m.snap.Len())
	case ActionKill:
		return m.killSelected()
	}
	return nil
}

// killSelected terminates the highlighted process and schedules a re-sample
// when the kill went through.
func (m *Model) killSelected() tea.Cmd {
	target, attempted, err := KillSelected(m.selection, m.snap, m.killer)
	if !attempted {
		return nil
	}
	label := fmt.Sprintf("%s (%d)", target.Name, target.PID)

	switch {
	case err == nil:
		m.log.Info("killed %s", label)
		m.notice = Notice{Text: "sent SIGKILL to " + label}
		if m.sampling {
			m.resample = true
			return nil
		}
		return m.sampleCmd()
	case errors.Is(err, telemetry.ErrNotFound):
		m.log.Warn("kill %s: %v", label, err)
		m.notice = Notice{Text: label + " is no longer running"}
	case errors.Is(err, telemetry.ErrDenied):
		m.log.Warn("kill %s: %v", label, err)
		m.notice = Notice{Text: "permission denied killing " + label, Error: true}
	default:
		m.log.Error("kill %s: %v", label, err)
		m.notice = Notice{Text: err.Error(), Error: true}
	}
	return nil
}

func (m *Model) View() string {
	if m.state == Exiting {
		return ""
	}
	if !m.ready {
		return Placeholder(m.width, m.height, m.sampler.Window())
	}
	return Compose(m.frame())
}

func (m *Model) frame() Frame {
	return Frame{
		Width:     m.width,
		Height:    m.height,
		Screen:    m.screen,
		Snapshot:  m.snap,
		Selection: m.selection,
		Notice:    m.notice,
		Keys:      m.keys,
	}
}

func (m *Model) Screen() Screen { return m.screen }
func (m *Model) Selection() Selection { return m.selection }
func (m *Model) Notice() Notice { return m.notice }
func (m *Model) Snapshot() model.Snapshot { return m.snap }
func (m *Model) State() RunState { return m.state }
func (m *Model) Ready() bool { return m.ready }
func (m *Model) Sampling() bool { return m.sampling }

// Run drives m on the alternate screen until the user quits or ctx is done.
// Bubbletea restores the terminal on every exit path, panics included.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

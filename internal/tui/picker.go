// Package tui implements the interactive window and preset picker.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
)

// Snapper is the slice of snap.Snapper the picker drives.
type Snapper interface {
	Windows() []platform.Window
	Presets() []presets.Preset
	ApplyPreset(h platform.Handle, name string, center bool) (resize.Outcome, error)
	CenterUtility(utility platform.Handle) (platform.Point, bool)
	PlaceUtility(utility platform.Handle, anchor *platform.Window) (platform.Point, bool)
}

type Options struct {
	// Utility is the window hosting the picker, usually the terminal. It is
	// left out of the window list.
	Utility platform.Handle
	// Center moves the Utility window to the middle of the screen on start
	// and over the chosen window once a target is picked.
	Center bool
	// CenterAfterResize re-centers the target on its monitor after resizing.
	// It can be toggled from the picker.
	CenterAfterResize bool
}

type stage int

const (
	stageWindows stage = iota
	stagePresets
)

// appliedMsg carries the result of a preset application.
type appliedMsg struct {
	outcome resize.Outcome
	err     error
}

// model is the root bubbletea model for the picker.
type model struct {
	snap Snapper
	opts Options
	keys keyMap

	stage   stage
	windows list.Model
	presets list.Model
	target  *platform.Window

	centerAfter bool
	applying    bool
	status      string
	statusErr   bool

	outcome *resize.Outcome

	width  int
	height int
}

func newModel(s Snapper, opts Options) model {
	m := model{
		snap:        s,
		opts:        opts,
		keys:        defaultKeyMap(),
		centerAfter: opts.CenterAfterResize,
		windows:     newList("Windows", nil, true),
		presets:     newList("Presets", nil, false),
	}
	if opts.Center && opts.Utility != 0 {
		s.CenterUtility(opts.Utility)
	}
	m.refreshWindows()
	return m
}

func (m *model) refreshWindows() {
	items := buildWindowItems(m.snap.Windows(), m.opts.Utility)
	m.windows.SetItems(items)
	if len(items) == 0 {
		m.setStatus("no resizable windows found", true)
	}
}

func (m *model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// choose moves to the preset step for win.
func (m *model) choose(win platform.Window) {
	m.target = &win
	m.stage = stagePresets
	m.presets.Title = "Presets for " + win.DisplayText()
	m.presets.SetItems(buildPresetItems(m.snap.Presets(), win.Bounds.Size()))
	m.presets.Select(0)
	m.setStatus("", false)
	if m.opts.Center && m.opts.Utility != 0 {
		m.snap.PlaceUtility(m.opts.Utility, m.target)
	}
}

func (m model) apply(p presets.Preset) tea.Cmd {
	h := m.target.Handle
	center := m.centerAfter
	s := m.snap
	return func() tea.Msg {
		out, err := s.ApplyPreset(h, p.Name, center)
		return appliedMsg{outcome: out, err: err}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(m.height-2, 1)
		m.windows.SetSize(m.width, h)
		m.presets.SetSize(m.width, h)
		return m, nil

	case appliedMsg:
		m.applying = false
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		out := msg.outcome
		m.outcome = &out
		if !out.Success {
			m.setStatus(out.DisplayMessage(), true)
			return m, nil
		}
		m.setStatus(out.DisplayMessage(), false)
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.stage == stageWindows && m.windows.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.windows, cmd = m.windows.Update(msg)
			return m, cmd
		}
		if m.applying {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleCenter):
			m.centerAfter = !m.centerAfter
			return m, nil
		}
		if m.stage == stageWindows {
			return m.updateWindows(msg)
		}
		return m.updatePresets(msg)
	}

	return m.delegate(msg)
}

func (m model) updateWindows(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if item, ok := m.windows.SelectedItem().(windowItem); ok {
			m.choose(item.win)
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("", false)
		m.refreshWindows()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.windows.FilterState() == list.FilterApplied {
			m.windows.ResetFilter()
			return m, nil
		}
	}
	return m.delegate(msg)
}

func (m model) updatePresets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.presets.SelectedItem().(presetItem)
		if !ok || m.target == nil {
			return m, nil
		}
		m.applying = true
		m.setStatus(fmt.Sprintf("resizing to %s...", item.preset.Label()), false)
		return m, m.apply(item.preset)
	case key.Matches(msg, m.keys.Back):
		m.stage = stageWindows
		m.target = nil
		m.setStatus("", false)
		return m, nil
	}
	return m.delegate(msg)
}

func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.stage == stageWindows {
		m.windows, cmd = m.windows.Update(msg)
	} else {
		m.presets, cmd = m.presets.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	content := m.windows.View()
	if m.stage == stagePresets {
		content = m.presets.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m model) renderStatus() string {
	center := dimStyle.Render("center: off")
	if m.centerAfter {
		center = okStyle.Render("center: on")
	}
	parts := []string{center}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, errStyle.Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	return statusBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.help(m.stage) {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return helpStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

// ErrNotInteractive is returned by Run when stdin or stdout is not a TTY.
var ErrNotInteractive = errors.New("picker requires an interactive terminal (stdin/stdout must be TTYs)")

// Run shows the picker until a preset is applied or the user quits. It
// returns the last resize outcome, or nil when nothing was applied.
func Run(s Snapper, opts Options) (*resize.Outcome, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, ErrNotInteractive
	}

	p := tea.NewProgram(newModel(s, opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}
	m, ok := final.(model)
	if !ok {
		return nil, nil
	}
	return m.outcome, nil
}

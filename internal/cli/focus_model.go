package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/doone/internal/cli/formatter"
	"github.com/alexanderramin/doone/internal/domain"
	"github.com/alexanderramin/doone/internal/service"
	"github.com/alexanderramin/doone/internal/session"
)

const (
	focusBarWidth = 30
	volumeStep    = 0.1
)

type sessionEventMsg session.Event

type sessionClosedMsg struct{}

type focusKeyMap struct {
	PauseResume key.Binding
	Mute        key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Prolong     key.Binding
	Done        key.Binding
	Quit        key.Binding
}

func newFocusKeyMap() focusKeyMap {
	return focusKeyMap{
		PauseResume: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Mute:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		VolumeUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Prolong:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prolong")),
		Done:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done & exit")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "exit")),
	}
}

// focusModel renders the countdown and translates keys into machine calls.
// The machine stays authoritative: the view always renders machine.State().
type focusModel struct {
	app     *App
	machine *session.Machine
	task    domain.Task
	events  <-chan session.Event
	keys    focusKeyMap

	width   int
	outcome *service.FocusOutcome
}

func newFocusModel(app *App, machine *session.Machine, task domain.Task, events <-chan session.Event) focusModel {
	return focusModel{
		app:     app,
		machine: machine,
		task:    task,
		events:  events,
		keys:    newFocusKeyMap(),
	}
}

func waitForSessionEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return sessionClosedMsg{}
		}
		return sessionEventMsg(event)
	}
}

func (m focusModel) Init() tea.Cmd {
	return waitForSessionEvent(m.events)
}

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sessionEventMsg:
		return m, waitForSessionEvent(m.events)

	case sessionClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m focusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	phase := m.machine.State().Phase

	switch {
	case key.Matches(msg, m.keys.PauseResume):
		switch phase {
		case domain.PhaseRunning:
			_ = m.machine.Pause()
		case domain.PhasePaused:
			_ = m.machine.Resume()
		}
		return m, nil

	case key.Matches(msg, m.keys.Mute):
		m.machine.ToggleMute()
		return m, nil

	case key.Matches(msg, m.keys.VolumeUp):
		m.machine.SetVolume(m.machine.Config().Volume + volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.VolumeDown):
		m.machine.SetVolume(m.machine.Config().Volume - volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.Prolong):
		if phase == domain.PhaseEnded {
			_ = m.machine.Prolong(domain.DefaultProlongMinutes)
		}
		return m, nil

	case key.Matches(msg, m.keys.Done):
		return m.finish(true)

	case key.Matches(msg, m.keys.Quit):
		return m.finish(false)
	}
	return m, nil
}

// finish exits the machine, applies the result and quits the view.
func (m focusModel) finish(markDone bool) (tea.Model, tea.Cmd) {
	result := m.machine.Exit(markDone)
	outcome := m.app.Focus.Finish(context.Background(), m.task, result)
	m.outcome = &outcome
	return m, tea.Quit
}

func (m focusModel) View() string {
	state := m.machine.State()
	config := m.machine.Config()

	title := "Free focus"
	if m.task.Title != "" {
		title = m.task.Title
	}

	var b strings.Builder
	b.WriteString(formatter.Header(title))
	b.WriteString("\n\n")

	clock := formatter.Clock(state.RemainingSeconds)
	clockStyle := formatter.StyleBold
	switch state.Phase {
	case domain.PhasePaused:
		clockStyle = formatter.StyleYellow
	case domain.PhaseEnded:
		clockStyle = formatter.StyleGreen
	}
	b.WriteString(clockStyle.Render("  " + clock))
	b.WriteString("\n\n")
	b.WriteString("  " + formatter.RenderProgress(state.Progress(), focusBarWidth))
	b.WriteString("\n\n")
	b.WriteString("  " + m.soundLine(config))
	b.WriteString("\n\n")

	switch state.Phase {
	case domain.PhasePaused:
		b.WriteString("  " + formatter.StyleYellow.Render("Paused"))
		b.WriteString("\n\n")
	case domain.PhaseEnded:
		b.WriteString("  " + formatter.StyleGreen.Render("Session complete! 🎉"))
		b.WriteString("\n\n")
	}

	b.WriteString("  " + formatter.Dim(m.hints(state.Phase)))
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m focusModel) soundLine(config domain.SessionConfig) string {
	label := m.app.Focus.SoundLabel(config.SoundID)
	if config.SoundID == domain.SoundNone {
		return formatter.Dim("silent session")
	}
	volume := fmt.Sprintf("%.0f%%", config.Volume*100)
	if config.Muted {
		volume = "muted"
	}
	return formatter.Dim(fmt.Sprintf("♪ %s · %s", label, volume))
}

func (m focusModel) hints(phase domain.Phase) string {
	switch phase {
	case domain.PhaseEnded:
		return "p prolong +10m · d done & exit · q exit"
	case domain.PhasePaused:
		return "space resume · d done & exit · q exit"
	default:
		return "space pause · m mute · +/- volume · d done & exit · q exit"
	}
}

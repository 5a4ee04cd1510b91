// Package tui renders a live terminal view of one democratic decision: the
// phase banner, proposal and ballot progress, and the final standings once
// the tally has run.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/quorum/internal/decision"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// StatusFunc fetches the current snapshot of the watched decision.
type StatusFunc func(decisionID string) (*models.Decision, error)

type tickMsg time.Time

type eventMsg decision.Event

// Model is the bubbletea model for the watch view.
type Model struct {
	decisionID string
	status     StatusFunc
	events     <-chan decision.Event
	refresh    time.Duration

	spin      spinner.Model
	d         *models.Decision
	lastEvent string
	err       error
	quitting  bool

	phaseStyle  lipgloss.Style
	headerStyle lipgloss.Style
	labelStyle  lipgloss.Style
	winnerStyle lipgloss.Style
	errStyle    lipgloss.Style
	dimStyle    lipgloss.Style
}

// New creates a watch model. The events channel is optional; without it the
// view still refreshes by polling.
func New(decisionID string, status StatusFunc, events <-chan decision.Event, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = 500 * time.Millisecond
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		decisionID: decisionID,
		status:     status,
		events:     events,
		refresh:    refresh,
		spin:       sp,

		phaseStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		labelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		winnerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		dimStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Init starts the spinner, the poll ticker, and the event pump.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.tick()}
	if m.events != nil {
		cmds = append(cmds, m.nextEvent())
	}
	return tea.Batch(cmds...)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) nextEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

// Update handles key presses, refresh ticks, and engine events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		d, err := m.status(m.decisionID)
		if err != nil {
			m.err = err
		} else {
			m.err = nil
			m.d = d
		}
		if m.d != nil && m.d.CurrentPhase.Terminal() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.tick()

	case eventMsg:
		m.lastEvent = string(msg.Type)
		if msg.Agent != "" {
			m.lastEvent += " (" + msg.Agent + ")"
		}
		return m, m.nextEvent()

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
}

// View renders the current decision snapshot.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerStyle.Render("quorum watch") + " " + m.dimStyle.Render(m.decisionID) + "\n\n")

	if m.err != nil {
		b.WriteString(m.errStyle.Render("error: "+m.err.Error()) + "\n")
		return b.String()
	}
	if m.d == nil {
		b.WriteString(m.spin.View() + " waiting for decision…\n")
		return b.String()
	}

	b.WriteString(m.renderPhases() + "\n\n")

	fmt.Fprintf(&b, "%s %d/%d   %s %d/%d   %s %d\n",
		m.labelStyle.Render("proposals"), len(m.d.Proposals), len(m.d.ParticipatingAgents),
		m.labelStyle.Render("ballots"), len(m.d.Votes), len(m.d.ParticipatingAgents),
		m.labelStyle.Render("options"), len(m.d.VotingOptions))

	if m.d.Result != nil {
		b.WriteString("\n" + m.headerStyle.Render("Standings") + "\n")
		for i, score := range m.d.Result.Scores {
			line := fmt.Sprintf("%d. %s — %d points", i+1, score.Title, score.Points)
			if score.OptionID == m.d.Result.WinningOptionID {
				line = m.winnerStyle.Render(line + "  ★")
			}
			b.WriteString(line + "\n")
		}
	} else if m.d.CurrentPhase == models.PhaseRankedVoting {
		b.WriteString("\n" + m.spin.View() + " collecting ballots…\n")
	}

	if m.lastEvent != "" {
		b.WriteString("\n" + m.dimStyle.Render("last event: "+m.lastEvent) + "\n")
	}
	if !m.quitting {
		b.WriteString(m.dimStyle.Render("\npress q to quit\n"))
	}
	return b.String()
}

// renderPhases draws the five-phase progress strip with the current phase
// highlighted.
func (m Model) renderPhases() string {
	phases := []models.Phase{
		models.PhaseContextLoading,
		models.PhaseIdeaCollection,
		models.PhaseSynthesis,
		models.PhaseRankedVoting,
		models.PhaseCommitment,
	}
	parts := make([]string, len(phases))
	for i, p := range phases {
		label := string(p)
		if p == m.d.CurrentPhase {
			parts[i] = m.phaseStyle.Render("[" + label + "]")
		} else {
			parts[i] = m.dimStyle.Render(label)
		}
	}
	return strings.Join(parts, " → ")
}

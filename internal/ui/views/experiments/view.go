package experiments

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	experimentdto "selflab/internal/modules/experiment/dto"
	insightdto "selflab/internal/modules/insight/dto"
	"selflab/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ExperimentPort interface {
	List(ctx context.Context, userID, status string) ([]experimentdto.ExperimentOutput, error)
	Summary(ctx context.Context, userID, experimentID string) (insightdto.SummaryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ExperimentsLoadedMsg struct {
	Experiments []experimentdto.ExperimentOutput
	Err         error
}

type SummaryLoadedMsg struct {
	Summary insightdto.SummaryOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type experimentItem struct {
	exp experimentdto.ExperimentOutput
}

func (i experimentItem) Title() string { return i.exp.Name }
func (i experimentItem) Description() string {
	return fmt.Sprintf("%s  %s → %s", i.exp.Status, i.exp.StartDate, i.exp.EndDate)
}
func (i experimentItem) FilterValue() string { return i.exp.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    ExperimentPort
	userID  string
	list    list.Model
	detail  viewport.Model
	summary insightdto.SummaryOutput
	width   int
	height  int
}

func New(port ExperimentPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Experiments"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, list: l, detail: vp}
}

// Load fetches the experiments of userID.
func (m *Model) Load(userID string) tea.Cmd {
	m.userID = userID
	return m.loadExperimentsCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ExperimentsLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Experiments: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Experiments"
		items := make([]list.Item, len(msg.Experiments))
		for i, exp := range msg.Experiments {
			items[i] = experimentItem{exp: exp}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if sel, ok := m.Selected(); ok {
			cmds = append(cmds, m.loadSummaryCmd(sel.ID))
		} else {
			m.summary = insightdto.SummaryOutput{}
			m.detail.SetContent(m.renderDetail())
		}
		return m, tea.Batch(cmds...)

	case SummaryLoadedMsg:
		if msg.Err == nil {
			m.summary = msg.Summary
		}
		m.detail.SetContent(m.renderDetail())
		return m, nil
	}

	var lCmd tea.Cmd
	prevIdx := m.list.Index()
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		if sel, ok := m.Selected(); ok {
			cmds = append(cmds, m.loadSummaryCmd(sel.ID))
		}
	}

	var vCmd tea.Cmd
	m.detail, vCmd = m.detail.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width / 2
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Selected returns the highlighted experiment, if any.
func (m Model) Selected() (experimentdto.ExperimentOutput, bool) {
	if item, ok := m.list.SelectedItem().(experimentItem); ok {
		return item.exp, true
	}
	return experimentdto.ExperimentOutput{}, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width / 2
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	exp, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("No experiments yet. Start one from the Library tab.")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(exp.Name) + "  " + theme.Status(exp.Status) + "\n\n")
	if exp.Hypothesis != "" {
		sb.WriteString(exp.Hypothesis + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("dates:      ") + exp.StartDate.String() + " → " + exp.EndDate.String() + "\n")

	s := m.summary
	if s.ExperimentID == exp.ID {
		sb.WriteString(fmt.Sprintf("%s%.1f%%\n", theme.Muted.Render("progress:   "), s.Progress))
		sb.WriteString(fmt.Sprintf("%s%.1f%% (%d/%d days)\n", theme.Muted.Render("compliance: "), s.Compliance, s.CompliantDays, s.CountedDays))
		sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("logged:     "), s.DaysLogged))
		if len(s.Trends) > 0 {
			sb.WriteString("\n" + theme.Hot.Render("Trends") + "\n")
			for _, tr := range s.Trends {
				sb.WriteString(fmt.Sprintf("  %-14s %s\n", tr.Metric, theme.Direction(tr.Metric, tr.Direction, tr.Label)))
			}
		}
	}
	sb.WriteString("\n" + theme.Muted.Render(":experiment:pause  :experiment:complete  :log:today"))
	return sb.String()
}

func (m Model) loadExperimentsCmd() tea.Cmd {
	userID := m.userID
	return func() tea.Msg {
		if m.port == nil || userID == "" {
			return ExperimentsLoadedMsg{}
		}
		exps, err := m.port.List(context.Background(), userID, "")
		return ExperimentsLoadedMsg{Experiments: exps, Err: err}
	}
}

func (m Model) loadSummaryCmd(experimentID string) tea.Cmd {
	userID := m.userID
	return func() tea.Msg {
		if m.port == nil {
			return SummaryLoadedMsg{}
		}
		s, err := m.port.Summary(context.Background(), userID, experimentID)
		return SummaryLoadedMsg{Summary: s, Err: err}
	}
}

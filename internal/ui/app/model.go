package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	accountdto "selflab/internal/modules/account/dto"
	dailylogdto "selflab/internal/modules/dailylog/dto"
	experimentdto "selflab/internal/modules/experiment/dto"
	insightdto "selflab/internal/modules/insight/dto"
	"selflab/internal/platform/date"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/ui/components"
	"selflab/internal/ui/theme"
	dashboardview "selflab/internal/ui/views/dashboard"
	experimentsview "selflab/internal/ui/views/experiments"
	insightsview "selflab/internal/ui/views/insights"
	libraryview "selflab/internal/ui/views/library"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type AccountPort interface {
	Current(ctx context.Context) (accountdto.SessionOutput, error)
}

type ExperimentPort interface {
	List(ctx context.Context, userID, status string) ([]experimentdto.ExperimentOutput, error)
	CreateFromTemplate(ctx context.Context, input experimentdto.FromTemplateInput) (experimentdto.ExperimentOutput, error)
	SetStatus(ctx context.Context, userID, experimentID, status string) (experimentdto.ExperimentOutput, error)
}

type LogPort interface {
	SaveLog(ctx context.Context, input dailylogdto.SaveLogInput) (dailylogdto.LogOutput, error)
}

type InsightPort interface {
	Stats(ctx context.Context, userID string) (insightdto.StatsOutput, error)
	Summary(ctx context.Context, userID, experimentID string) (insightdto.SummaryOutput, error)
	Trend(ctx context.Context, userID, metric, experimentID string) (insightdto.TrendOutput, error)
}

// Handlers groups the inbound adapters the TUI drives. Nil handlers leave
// the matching tab empty.
type Handlers struct {
	Account     AccountPort
	Experiments ExperimentPort
	Logs        LogPort
	Templates   libraryview.TemplatePort
	Insights    InsightPort
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabExperiments
	tabLibrary
	tabInsights
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Experiments", "Library", "Insights",
}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionLoadedMsg struct {
	session accountdto.SessionOutput
	err     error
}

type experimentStartedMsg struct {
	exp experimentdto.ExperimentOutput
	err error
}

type statusChangedMsg struct {
	exp experimentdto.ExperimentOutput
	err error
}

type logSavedMsg struct {
	log dailylogdto.LogOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Pause   key.Binding
	Resume  key.Binding
	Refresh key.Binding
	All     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start template / scope trends")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause experiment")),
		Resume:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume experiment")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "trends for all logs")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Refresh},
		{k.Pause, k.Resume, k.All},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the signed-in
// user, the help overlay and the command palette. Rendering is delegated to
// one sub-view per tab.
type Model struct {
	h Handlers

	dashView    dashboardview.Model
	expView     experimentsview.Model
	libView     libraryview.Model
	insightView insightsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	session   accountdto.SessionOutput
	status    string
	now       func() time.Time
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(h Handlers) Model {
	var expPort experimentsview.ExperimentPort
	if h.Experiments != nil && h.Insights != nil {
		expPort = experimentPortBridge{exp: h.Experiments, insight: h.Insights}
	}
	var statsPort dashboardview.StatsPort
	var trendPort insightsview.TrendPort
	if h.Insights != nil {
		statsPort = h.Insights
		trendPort = h.Insights
	}

	return Model{
		h:           h,
		dashView:    dashboardview.New(statsPort),
		expView:     experimentsview.New(expPort),
		libView:     libraryview.New(h.Templates),
		insightView: insightsview.New(trendPort),
		activeTab:   tabDashboard,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
		now:         time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dashView.Init(),
		m.libView.Init(),
		m.loadSessionCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case sessionLoadedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, apperrors.ErrNotSignedIn) {
				m.status = "not signed in"
			} else {
				m.status = "session: " + msg.err.Error()
			}
			cmds = append(cmds, m.dashView.Load("", ""))
			return m, tea.Batch(cmds...)
		}
		m.session = msg.session
		m.status = "signed in as " + msg.session.Email
		return m, m.reloadCmd()

	case experimentStartedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "started " + msg.exp.Name
		m.activeTab = tabExperiments
		return m, m.reloadCmd()

	case statusChangedMsg:
		if msg.err != nil {
			m.status = "status change failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%s is now %s", msg.exp.Name, msg.exp.Status)
		return m, m.reloadCmd()

	case logSavedMsg:
		if msg.err != nil {
			m.status = "log failed: " + msg.err.Error()
			return m, nil
		}
		verb := "updated"
		if msg.log.Created {
			verb = "saved"
		}
		m.status = fmt.Sprintf("log for %s %s", msg.log.Date, verb)
		return m, m.reloadCmd()

	case spinner.TickMsg:
		var dashCmd, libCmd tea.Cmd
		m.dashView, dashCmd = m.dashView.Update(msg)
		m.libView, libCmd = m.libView.Update(msg)
		return m, tea.Batch(dashCmd, libCmd)

	case dashboardview.StatsLoadedMsg:
		m.dashView, _ = m.dashView.Update(msg)
		return m, nil

	case experimentsview.ExperimentsLoadedMsg, experimentsview.SummaryLoadedMsg:
		var cmd tea.Cmd
		m.expView, cmd = m.expView.Update(msg)
		return m, cmd

	case insightsview.TrendsLoadedMsg:
		m.insightView, _ = m.insightView.Update(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "ctrl+r":
			return m, m.reloadCmd()
		case "enter":
			switch m.activeTab {
			case tabLibrary:
				return m, m.startFromSelectedTemplate()
			case tabInsights:
				if exp, ok := m.expView.Selected(); ok {
					return m, m.insightView.Load(m.session.UserID, exp.ID, exp.Name)
				}
			}
		case "a":
			if m.activeTab == tabInsights {
				return m, m.insightView.Load(m.session.UserID, "", "")
			}
		case "p":
			if m.activeTab == tabExperiments {
				return m, m.setSelectedStatus("paused")
			}
		case "r":
			if m.activeTab == tabExperiments {
				return m, m.setSelectedStatus("active")
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabExperiments:
		m.expView, tabCmd = m.expView.Update(msg)
	case tabLibrary:
		m.libView, tabCmd = m.libView.Update(msg)
	case tabInsights:
		m.insightView, tabCmd = m.insightView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabExperiments:
		return m.expView.View()
	case tabLibrary:
		return m.libView.View()
	case tabInsights:
		return m.insightView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "selflab  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.session.UserID != "" {
		left = theme.Hot.Render("● "+m.session.Name) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "experiment:active":
		return m, m.setSelectedStatus("active")
	case "experiment:pause":
		return m, m.setSelectedStatus("paused")
	case "experiment:complete":
		return m, m.setSelectedStatus("completed")

	case "template:start":
		return m, m.startFromSelectedTemplate()

	case "log:today":
		if len(parts) < 4 {
			m.status = "usage: log:today <mood> <energy> <sleep-hours>"
			return m, nil
		}
		mood, err1 := strconv.Atoi(parts[1])
		energy, err2 := strconv.Atoi(parts[2])
		sleep, err3 := strconv.ParseFloat(parts[3], 64)
		if err := errors.Join(err1, err2, err3); err != nil {
			m.status = "log:today: numbers expected"
			return m, nil
		}
		return m, m.saveTodayCmd(mood, energy, sleep)

	case "trend":
		if len(parts) < 2 {
			m.status = "usage: trend <metric>"
			return m, nil
		}
		if !m.insightView.Focus(parts[1]) {
			m.status = "unknown metric: " + parts[1]
			return m, nil
		}
		m.activeTab = tabInsights
		return m, nil

	case "refresh":
		return m, m.reloadCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabExperiments:
		return m.expView.Filtering()
	case tabLibrary:
		return m.libView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.expView, _ = m.expView.Update(sz)
	m.libView, _ = m.libView.Update(sz)
	m.insightView, _ = m.insightView.Update(sz)
}

func (m *Model) reloadCmd() tea.Cmd {
	userID := m.session.UserID
	return tea.Batch(
		m.dashView.Load(userID, m.session.Name),
		m.expView.Load(userID),
		m.insightView.Load(userID, "", ""),
	)
}

func (m *Model) setSelectedStatus(status string) tea.Cmd {
	exp, ok := m.expView.Selected()
	if !ok || m.h.Experiments == nil {
		m.status = "no experiment selected"
		return nil
	}
	port, userID := m.h.Experiments, m.session.UserID
	return func() tea.Msg {
		out, err := port.SetStatus(context.Background(), userID, exp.ID, status)
		return statusChangedMsg{exp: out, err: err}
	}
}

func (m *Model) startFromSelectedTemplate() tea.Cmd {
	tpl, ok := m.libView.Selected()
	if !ok || m.h.Experiments == nil {
		m.status = "no template selected"
		return nil
	}
	if m.session.UserID == "" {
		m.status = "sign in to start experiments"
		return nil
	}
	port := m.h.Experiments
	input := experimentdto.FromTemplateInput{
		UserID:     m.session.UserID,
		TemplateID: tpl.ID,
		StartDate:  date.Of(m.now()),
	}
	return func() tea.Msg {
		out, err := port.CreateFromTemplate(context.Background(), input)
		return experimentStartedMsg{exp: out, err: err}
	}
}

func (m *Model) saveTodayCmd(mood, energy int, sleep float64) tea.Cmd {
	exp, ok := m.expView.Selected()
	if !ok || m.h.Logs == nil {
		m.status = "no experiment selected"
		return nil
	}
	port := m.h.Logs
	input := dailylogdto.SaveLogInput{
		UserID:       m.session.UserID,
		ExperimentID: exp.ID,
		Date:         date.Of(m.now()),
		Mood:         mood,
		Energy:       energy,
		SleepHours:   sleep,
	}
	return func() tea.Msg {
		out, err := port.SaveLog(context.Background(), input)
		return logSavedMsg{log: out, err: err}
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadSessionCmd() tea.Cmd {
	port := m.h.Account
	return func() tea.Msg {
		if port == nil {
			return sessionLoadedMsg{err: apperrors.ErrNotSignedIn}
		}
		s, err := port.Current(context.Background())
		return sessionLoadedMsg{session: s, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type experimentPortBridge struct {
	exp     ExperimentPort
	insight InsightPort
}

func (b experimentPortBridge) List(ctx context.Context, userID, status string) ([]experimentdto.ExperimentOutput, error) {
	return b.exp.List(ctx, userID, status)
}
func (b experimentPortBridge) Summary(ctx context.Context, userID, experimentID string) (insightdto.SummaryOutput, error) {
	return b.insight.Summary(ctx, userID, experimentID)
}

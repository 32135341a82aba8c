package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "selflab/internal/modules/insight/dto"
	"selflab/internal/ui/theme"
)

type StatsPort interface {
	Stats(ctx context.Context, userID string) (insightdto.StatsOutput, error)
}

type StatsLoadedMsg struct {
	Stats insightdto.StatsOutput
	Err   error
}

// Model shows the signed-in user's headline numbers.
type Model struct {
	port    StatsPort
	name    string
	userID  string
	stats   insightdto.StatsOutput
	err     error
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port StatsPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd { return m.spinner.Tick }

// Load fetches stats for userID; name is shown in the greeting.
func (m *Model) Load(userID, name string) tea.Cmd {
	m.userID = userID
	m.name = name
	m.loading = true
	port := m.port
	return func() tea.Msg {
		if port == nil || userID == "" {
			return StatsLoadedMsg{}
		}
		stats, err := port.Stats(context.Background(), userID)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatsLoadedMsg:
		m.loading = false
		m.stats = msg.Stats
		m.err = msg.Err
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.userID == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Not signed in. Run `selflab login` or `selflab demo` first."))
	}
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading stats…")
	}
	if m.err != nil {
		return theme.Bad.Render("stats: " + m.err.Error())
	}

	s := m.stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Experiments", fmt.Sprintf("%d", s.TotalExperiments),
			fmt.Sprintf("%d active · %d paused · %d done", s.ActiveExperiments, s.PausedExperiments, s.CompletedExperiments)),
		card("Logs", fmt.Sprintf("%d", s.TotalLogs), "daily check-ins"),
		card("Streak", fmt.Sprintf("%d", s.CurrentStreak), "consecutive days"),
	)
	averages := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Mood", fmt.Sprintf("%.1f", s.AvgMood), "last 7 logged days, 1-5"),
		card("Energy", fmt.Sprintf("%.1f", s.AvgEnergy), "last 7 logged days, 1-5"),
		card("Sleep", fmt.Sprintf("%.1fh", s.AvgSleep), "last 7 logged days"),
	)

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Welcome back, "+m.name) + "\n\n")
	sb.WriteString(cards + "\n" + averages)
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func card(title, value, caption string) string {
	body := theme.Muted.Render(title) + "\n" +
		theme.Hot.Render(value) + "\n" +
		theme.Muted.Render(caption)
	return theme.Pane.Width(30).MarginRight(1).Render(body)
}

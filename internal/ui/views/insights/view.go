package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "selflab/internal/modules/insight/dto"
	"selflab/internal/ui/components"
	"selflab/internal/ui/theme"
)

// Metrics lists the series shown, in display order.
var Metrics = []string{"mood", "energy", "sleep", "sleep_quality", "stress", "weight"}

type TrendPort interface {
	Trend(ctx context.Context, userID, metric, experimentID string) (insightdto.TrendOutput, error)
}

type TrendsLoadedMsg struct {
	Scope  string
	Trends []insightdto.TrendOutput
	Err    error
}

// Model renders one sparkline per metric, scoped to a single experiment or
// to every log of the user.
type Model struct {
	port     TrendPort
	scope    string
	trends   []insightdto.TrendOutput
	focus    string
	viewport viewport.Model
	err      error
	width    int
	height   int
}

func New(port TrendPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Padding(1, 2)
	return Model{port: port, viewport: vp, focus: Metrics[0]}
}

// Load fetches every metric's trend. An empty experimentID covers all logs;
// scope is the label shown in the header.
func (m *Model) Load(userID, experimentID, scope string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		if port == nil || userID == "" {
			return TrendsLoadedMsg{Scope: scope}
		}
		out := make([]insightdto.TrendOutput, 0, len(Metrics))
		for _, metric := range Metrics {
			tr, err := port.Trend(context.Background(), userID, metric, experimentID)
			if err != nil {
				return TrendsLoadedMsg{Scope: scope, Err: err}
			}
			out = append(out, tr)
		}
		return TrendsLoadedMsg{Scope: scope, Trends: out}
	}
}

// Focus highlights metric and reports whether it is known.
func (m *Model) Focus(metric string) bool {
	for _, known := range Metrics {
		if known == metric {
			m.focus = metric
			m.viewport.SetContent(m.render())
			return true
		}
	}
	return false
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.viewport.SetContent(m.render())
		return m, nil
	case TrendsLoadedMsg:
		m.scope = msg.Scope
		m.trends = msg.Trends
		m.err = msg.Err
		m.viewport.SetContent(m.render())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.step(-1)
			return m, nil
		case "down", "j":
			m.step(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string { return m.viewport.View() }

func (m *Model) step(delta int) {
	for i, metric := range Metrics {
		if metric == m.focus {
			next := (i + delta + len(Metrics)) % len(Metrics)
			m.focus = Metrics[next]
			break
		}
	}
	m.viewport.SetContent(m.render())
}

func (m Model) render() string {
	var sb strings.Builder
	scope := m.scope
	if scope == "" {
		scope = "all experiments"
	}
	sb.WriteString(theme.Title.Render("Trends") + theme.Muted.Render("  "+scope) + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render(m.err.Error()))
		return sb.String()
	}
	if len(m.trends) == 0 {
		sb.WriteString(theme.Muted.Render("No logs yet."))
		return sb.String()
	}

	sparkW := m.width - 48
	if sparkW < 10 {
		sparkW = 10
	}
	for _, tr := range m.trends {
		name := fmt.Sprintf("%-14s", tr.Metric)
		if tr.Metric == m.focus {
			name = theme.Hot.Render("▸ " + name)
		} else {
			name = "  " + theme.Muted.Render(name)
		}
		spark := theme.Muted.Render("no data")
		if len(tr.Values) > 0 {
			spark = lipgloss.NewStyle().Foreground(theme.Sapphire).Render(components.Sparkline(tr.Values, sparkW))
		}
		fmt.Fprintf(&sb, "%s %s  avg %5.1f  %s\n", name, spark, tr.Average,
			theme.Direction(tr.Metric, tr.Direction, tr.Label))
	}

	for _, tr := range m.trends {
		if tr.Metric != m.focus || len(tr.Values) == 0 {
			continue
		}
		vals := make([]string, len(tr.Values))
		for i, v := range tr.Values {
			vals[i] = fmt.Sprintf("%g", v)
		}
		sb.WriteString("\n" + theme.Muted.Render(tr.Metric+": ") + strings.Join(vals, " ") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("↑/↓: focus metric  enter: scope to selected experiment  a: all"))
	return sb.String()
}

package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	templatedto "selflab/internal/modules/template/dto"
	"selflab/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TemplatePort interface {
	ListTemplates(ctx context.Context) ([]templatedto.TemplateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type TemplatesLoadedMsg struct {
	Templates []templatedto.TemplateOutput
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type templateItem struct {
	tpl templatedto.TemplateOutput
}

func (i templateItem) Title() string { return i.tpl.Name }
func (i templateItem) Description() string {
	return fmt.Sprintf("%s · %s · %d days", i.tpl.Category, i.tpl.Difficulty, i.tpl.DurationDays)
}
func (i templateItem) FilterValue() string { return i.tpl.Name + " " + i.tpl.Category }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     TemplatePort
	list     list.Model
	preview  viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	loading  bool
	width    int
	height   int
}

func New(port TemplatePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Templates"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		list:     l,
		preview:  vp,
		spinner:  sp,
		renderer: r,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTemplatesCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.preview.SetContent(m.renderDetail())

	case TemplatesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Templates: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Templates))
		for i, tpl := range msg.Templates {
			items[i] = templateItem{tpl: tpl}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
			m.preview.GotoTop()
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading templates…")
	}

	listW := m.width * 4 / 10
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
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Selected returns the highlighted template, if any.
func (m Model) Selected() (templatedto.TemplateOutput, bool) {
	if item, ok := m.list.SelectedItem().(templateItem); ok {
		return item.tpl, true
	}
	return templatedto.TemplateOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4

	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.preview.Width-2),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) renderDetail() string {
	tpl, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("No templates")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(tpl.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("category:   ") + tpl.Category + "\n")
	sb.WriteString(theme.Muted.Render("difficulty: ") + tpl.Difficulty + "\n")
	sb.WriteString(fmt.Sprintf("%s%d days\n", theme.Muted.Render("duration:   "), tpl.DurationDays))
	if len(tpl.Metrics) > 0 {
		sb.WriteString(theme.Muted.Render("metrics:    ") + strings.Join(tpl.Metrics, ", ") + "\n")
	}
	if len(tpl.Variables) > 0 {
		sb.WriteString(theme.Muted.Render("variables:  ") + strings.Join(tpl.Variables, ", ") + "\n")
	}
	sb.WriteString("\n" + theme.Hot.Render("Hypothesis") + "\n" + tpl.Hypothesis + "\n")

	if tpl.Protocol != "" {
		body := tpl.Description + "\n\n## Protocol\n\n" + tpl.Protocol
		if m.renderer != nil {
			if out, err := m.renderer.Render(body); err == nil {
				body = out
			}
		}
		sb.WriteString(body)
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: start experiment from template"))
	return sb.String()
}

func (m Model) loadTemplatesCmd() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return TemplatesLoadedMsg{}
		}
		templates, err := m.port.ListTemplates(context.Background())
		return TemplatesLoadedMsg{Templates: templates, Err: err}
	}
}

package surveylist

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smit-tejani/smartassist-portal/internal/keys"
	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/portal"
	"github.com/smit-tejani/smartassist-portal/internal/theme"
)

// LoadedMsg is sent when the survey catalog has been fetched. Submitted is
// the user's completed-survey total; it is best-effort and stays zero when
// its fetch fails.
type LoadedMsg struct {
	Surveys   []model.Survey
	Submitted int
	Err       error
}

// StartSurveyMsg is sent when a survey has been fetched and validated and
// a session should begin.
type StartSurveyMsg struct {
	Survey *model.Survey
}

// StartFailedMsg is sent when a selected survey could not be started.
type StartFailedMsg struct {
	Err error
}

// CloseMsg is sent when the user leaves the survey catalog.
type CloseMsg struct{}

const fetchTimeout = 15 * time.Second

// surveyItem wraps a model.Survey for bubbles/list.
type surveyItem struct {
	s model.Survey
}

func (i surveyItem) FilterValue() string { return i.s.Title }

// itemDelegate renders one catalog line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(surveyItem)
	if !ok {
		return
	}

	marker := "○"
	suffix := ""
	if it.s.AlreadyResponded {
		marker = theme.HelpStyle.Render("✓")
		suffix = theme.HelpStyle.Render("  (submitted)")
	}

	line := fmt.Sprintf("%s %s  (%d questions)%s",
		marker, it.s.Title, len(it.s.Questions), suffix)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the available-surveys catalog view.
type Model struct {
	client    *portal.Client
	keys      *keys.KeyMap
	list      list.Model
	spinner   spinner.Model
	loading   bool
	loadErr   error
	submitted int
	status    string
	width     int
	height    int
}

// New creates a survey catalog view backed by the portal client.
func New(client *portal.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-4)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:  client,
		keys:    k,
		list:    l,
		spinner: sp,
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init loads the catalog when the view opens.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Load(), m.spinner.Tick)
}

// Load returns a command that fetches the available surveys.
func (m Model) Load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		surveys, err := client.AvailableSurveys(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		submitted, _ := client.SubmittedSurveyCount(ctx)
		return LoadedMsg{Surveys: surveys, Submitted: submitted}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Update handles messages for the survey catalog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		m.submitted = msg.Submitted
		items := make([]list.Item, len(msg.Surveys))
		for i, s := range msg.Surveys {
			items[i] = surveyItem{s: s}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case StartFailedMsg:
		m.status = theme.ErrorStyle.Render(msg.Err.Error())
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }

		case "r":
			m.status = ""
			m.loading = true
			return m, tea.Batch(m.Load(), m.spinner.Tick)

		case "enter":
			it, ok := m.list.SelectedItem().(surveyItem)
			if !ok {
				return m, nil
			}
			if it.s.AlreadyResponded {
				m.status = theme.HelpStyle.Render("You have already submitted this survey.")
				return m, nil
			}
			return m, m.startSurvey(it.s.ID)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// startSurvey fetches and validates the full survey before a session
// begins. Malformed surveys surface inline rather than opening the runner.
func (m Model) startSurvey(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		s, err := client.Survey(ctx, id)
		if err != nil {
			return StartFailedMsg{Err: err}
		}
		return StartSurveyMsg{Survey: s}
	}
}

// View renders the survey catalog.
func (m Model) View() string {
	titleText := "Available Surveys"
	if m.submitted > 0 {
		titleText = fmt.Sprintf("Available Surveys (%d completed)", m.submitted)
	}
	title := theme.HeaderStyle.Render(titleText)

	var body string
	switch {
	case m.loading:
		body = m.spinner.View() + " loading surveys..."
	case m.loadErr != nil:
		body = theme.ErrorStyle.Render("Surveys unavailable: could not reach the portal.")
	case len(m.list.Items()) == 0:
		body = theme.EmptyStyle.Render("No surveys are open right now.")
	default:
		body = m.list.View()
	}

	hints := theme.HelpStyle.Render("enter take survey | r refresh | esc back")
	if m.status != "" {
		hints = m.status
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, hints)
}

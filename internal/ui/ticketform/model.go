package ticketform

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/smit-tejani/smartassist-portal/internal/keys"
	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/portal"
	"github.com/smit-tejani/smartassist-portal/internal/theme"
)

// LoadedMsg is sent when the user's tickets have been fetched.
type LoadedMsg struct {
	Tickets []model.Ticket
	Err     error
}

// CreatedMsg is sent after the backend accepted a new ticket.
type CreatedMsg struct {
	TicketID string
}

// CreateFailedMsg is sent when ticket creation failed.
type CreateFailedMsg struct {
	Err error
}

// ClosedMsg is sent after the backend confirmed a ticket close.
type ClosedMsg struct {
	TicketID string
}

// CloseMsg is sent when the user leaves the ticket view.
type CloseMsg struct{}

const fetchTimeout = 15 * time.Second

var categories = []string{
	"IT Support", "Academic", "Facilities", "Financial", "Other",
}

var priorities = []string{"Low", "Medium", "High", "Urgent"}

// formBindings holds form field values on the heap so huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	subject     string
	category    string
	priority    string
	description string
}

// ticketItem wraps a model.Ticket for bubbles/list.
type ticketItem struct {
	t model.Ticket
}

func (i ticketItem) FilterValue() string { return i.t.Subject }

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(ticketItem)
	if !ok {
		return
	}

	status := theme.StatusStyle(it.t.Status).Render(it.t.Status)
	line := fmt.Sprintf("%s  %s  %s", status, it.t.Subject,
		theme.HelpStyle.Render(it.t.Category))

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the support ticket view: the user's tickets plus a creation
// form.
type Model struct {
	client   *portal.Client
	keys     *keys.KeyMap
	list     list.Model
	form     *huh.Form
	fb       *formBindings
	creating bool
	loadErr  error
	status   string
	width    int
	height   int
}

// New creates a ticket view backed by the portal client.
func New(client *portal.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-4)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		client: client,
		keys:   k,
		list:   l,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init loads the ticket list when the view opens.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a command that fetches the user's tickets.
func (m Model) Load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		tickets, err := client.Tickets(ctx, "")
		return LoadedMsg{Tickets: tickets, Err: err}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// startCreate opens a fresh creation form.
func (m *Model) startCreate() tea.Cmd {
	m.fb.subject = ""
	m.fb.category = categories[0]
	m.fb.priority = "Medium"
	m.fb.description = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subject").
				Placeholder("Short summary of the problem").
				Value(&m.fb.subject).
				Validate(requireText("subject")),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(categories...)...).
				Value(&m.fb.category),
			huh.NewSelect[string]().
				Title("Priority").
				Options(huh.NewOptions(priorities...)...).
				Value(&m.fb.priority),
			huh.NewText().
				Title("Description").
				Placeholder("What happened, and what did you expect?").
				Value(&m.fb.description).
				Validate(requireText("description")),
		),
	).WithWidth(m.width - 4).WithHeight(m.height - 6)

	m.creating = true
	return m.form.Init()
}

func requireText(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// Update handles messages for the ticket view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loadErr = msg.Err
		items := make([]list.Item, len(msg.Tickets))
		for i, t := range msg.Tickets {
			items[i] = ticketItem{t: t}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case CreatedMsg:
		m.creating = false
		m.form = nil
		m.status = "ticket " + msg.TicketID + " created"
		return m, m.Load()

	case ClosedMsg:
		m.status = "ticket closed"
		return m, m.Load()

	case CreateFailedMsg:
		m.creating = false
		m.form = nil
		m.status = theme.ErrorStyle.Render(msg.Err.Error())
		return m, m.Load()
	}

	if m.creating {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }
		case "r":
			m.status = ""
			return m, m.Load()
		case "n":
			m.status = ""
			return m, m.startCreate()
		case "x":
			if it, ok := m.list.SelectedItem().(ticketItem); ok {
				return m, m.close(it.t.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// close transitions a ticket to Closed; CreateFailedMsg doubles as the
// generic action-failure message here.
func (m Model) close(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := client.UpdateTicketStatus(ctx, id, "Closed"); err != nil {
			return CreateFailedMsg{Err: err}
		}
		return ClosedMsg{TicketID: id}
	}
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		req := model.TicketRequest{
			Subject:     m.fb.subject,
			Category:    m.fb.category,
			Priority:    m.fb.priority,
			Description: m.fb.description,
		}
		client := m.client
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()

			id, err := client.CreateTicket(ctx, req)
			if err != nil {
				return CreateFailedMsg{Err: err}
			}
			return CreatedMsg{TicketID: id}
		}
	}
	if m.form.State == huh.StateAborted {
		m.creating = false
		m.form = nil
		return m, nil
	}

	return m, cmd
}

// View renders the ticket view.
func (m Model) View() string {
	if m.creating && m.form != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.HeaderStyle.Render("New Support Ticket"),
			m.form.View(),
		)
	}

	title := theme.HeaderStyle.Render("Support Tickets")

	var body string
	switch {
	case m.loadErr != nil:
		body = theme.ErrorStyle.Render("Tickets unavailable: could not reach the portal.")
	case len(m.list.Items()) == 0:
		body = theme.EmptyStyle.Render("No tickets yet.")
	default:
		body = m.list.View()
	}

	hints := theme.HelpStyle.Render("n new ticket | x close | r refresh | esc back")
	if m.status != "" {
		hints = m.status
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, hints)
}

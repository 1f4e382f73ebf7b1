package notifcenter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smit-tejani/smartassist-portal/internal/keys"
	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/notify"
	"github.com/smit-tejani/smartassist-portal/internal/theme"
)

// SnapshotMsg is sent when the agent's cache has been refreshed.
type SnapshotMsg struct {
	Snap notify.Snapshot
}

// ActionResultMsg is sent when a mark-read, delete, or mark-all-read call
// completed.
type ActionResultMsg struct {
	Info string
	Link string
	Err  error
}

// CloseMsg is sent when the user leaves the notification center.
type CloseMsg struct{}

// actionTimeout bounds a single backend round trip from the view.
const actionTimeout = 15 * time.Second

// notifItem wraps a model.Notification for bubbles/list.
type notifItem struct {
	n model.Notification
}

func (i notifItem) FilterValue() string { return i.n.Title }

// itemDelegate renders one notification line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(notifItem)
	if !ok {
		return
	}

	marker := " "
	title := it.n.Title
	if it.n.IsUnread() {
		marker = theme.UnreadStyle.Render("●")
		title = theme.UnreadStyle.Render(title)
	}

	priBadge := theme.PriorityStyle(it.n.Priority).Render(it.n.Priority)

	line := fmt.Sprintf("%s %s %s  %s", marker, priBadge, title, it.n.Message)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the notification center view. It projects the sync agent's
// cache; all mutations go through the agent so the backend stays the
// authority over read/delete state.
type Model struct {
	agent  *notify.Agent
	keys   *keys.KeyMap
	list   list.Model
	snap   notify.Snapshot
	status string
	width  int
	height int
}

// New creates a notification center backed by the given agent.
func New(agent *notify.Agent, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-4)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		agent:  agent,
		keys:   k,
		list:   l,
		width:  width,
		height: height,
	}
}

// Init refreshes the cache when the view opens.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload returns a command that refetches the notification page and
// delivers a fresh snapshot.
func (m Model) Reload() tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		// Failures degrade to the snapshot's placeholder state; the
		// view renders Snap.Err instead of crashing.
		_ = agent.Refresh(ctx)
		return SnapshotMsg{Snap: agent.Snapshot()}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Update handles messages for the notification center.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.snap = msg.Snap
		items := make([]list.Item, len(msg.Snap.Notifications))
		for i, n := range msg.Snap.Notifications {
			items[i] = notifItem{n: n}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case ActionResultMsg:
		switch {
		case msg.Err != nil:
			m.status = theme.ErrorStyle.Render(msg.Err.Error())
		case msg.Link != "":
			m.status = "open in portal: " + msg.Link
		default:
			m.status = msg.Info
		}
		return m, m.Reload()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }

		case "r":
			m.status = ""
			return m, m.Reload()

		case "enter":
			if it, ok := m.list.SelectedItem().(notifItem); ok {
				return m, m.markRead(it.n.ID)
			}
			return m, nil

		case "d":
			if it, ok := m.list.SelectedItem().(notifItem); ok {
				return m, m.delete(it.n.ID)
			}
			return m, nil

		case "A":
			return m, m.markAllRead()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// markRead marks the selected notification read on the backend. The
// navigation link, if any, is only surfaced after the backend confirms.
func (m Model) markRead(id string) tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		link, hasLink, err := agent.MarkRead(ctx, id)
		if err != nil {
			return ActionResultMsg{Err: err}
		}
		if hasLink {
			return ActionResultMsg{Info: "marked read", Link: link}
		}
		return ActionResultMsg{Info: "marked read"}
	}
}

func (m Model) delete(id string) tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := agent.Delete(ctx, id); err != nil {
			return ActionResultMsg{Err: err}
		}
		return ActionResultMsg{Info: "notification deleted"}
	}
}

func (m Model) markAllRead() tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		count, err := agent.MarkAllRead(ctx)
		if err != nil {
			return ActionResultMsg{Err: err}
		}
		return ActionResultMsg{Info: fmt.Sprintf("marked %d notifications read", count)}
	}
}

// View renders the notification center.
func (m Model) View() string {
	title := theme.HeaderStyle.Render("Notifications")
	if m.snap.Err == nil && len(m.snap.Notifications) > 0 {
		title = theme.HeaderStyle.Render(
			fmt.Sprintf("Notifications (%d unread on this page)", m.snap.PageUnread),
		)
	}

	var body string
	switch {
	case m.snap.Err != nil:
		// Unknown state, not "no notifications": the fetch failed.
		body = theme.ErrorStyle.Render("Notifications unavailable: could not reach the portal.")
	case len(m.snap.Notifications) == 0:
		body = theme.EmptyStyle.Render("No notifications.")
	default:
		body = m.list.View()
	}

	hints := theme.HelpStyle.Render("enter mark read | d delete | A mark all read | r refresh | esc back")
	if m.status != "" {
		hints = m.status
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, hints)
}

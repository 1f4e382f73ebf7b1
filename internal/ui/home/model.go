package home

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smit-tejani/smartassist-portal/internal/keys"
	"github.com/smit-tejani/smartassist-portal/internal/theme"
)

// Section identifies a portal area reachable from the home menu.
type Section int

const (
	SectionSurveys Section = iota
	SectionNotifications
	SectionTickets
	SectionAppointments
	SectionCourses
	SectionEvents
)

// SectionChosenMsg is sent when the user picks a section.
type SectionChosenMsg struct {
	Section Section
}

// entry pairs a section with its menu labels.
type entry struct {
	section Section
	label   string
	desc    string
}

var entries = []entry{
	{SectionSurveys, "Surveys", "take available feedback surveys"},
	{SectionNotifications, "Notifications", "read and manage your alerts"},
	{SectionTickets, "Support Tickets", "raise and track support requests"},
	{SectionAppointments, "Appointments", "book and manage staff meetings"},
	{SectionCourses, "Course Registration", "browse the catalog and register"},
	{SectionEvents, "Campus Events", "see what's happening on campus"},
}

// Model is the home menu view.
type Model struct {
	keys   *keys.KeyMap
	cursor int
	width  int
	height int
}

// New creates the home menu.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles navigation keys for the menu.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(entries)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			section := entries[m.cursor].section
			return m, func() tea.Msg {
				return SectionChosenMsg{Section: section}
			}
		}
	}
	return m, nil
}

// View renders the menu.
func (m Model) View() string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, theme.HeaderStyle.Render("SmartAssist Campus Portal"), "")

	for i, e := range entries {
		line := e.label + "  " + theme.HelpStyle.Render(e.desc)
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

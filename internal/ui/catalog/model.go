package catalog

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
	"github.com/smit-tejani/smartassist-portal/internal/portal"
	"github.com/smit-tejani/smartassist-portal/internal/store"
	"github.com/smit-tejani/smartassist-portal/internal/theme"
)

// Tab selects which catalog the view shows.
type Tab int

const (
	TabCourses Tab = iota
	TabEvents
	TabRegistered
)

// CoursesLoadedMsg is sent when a course list has been fetched or served
// from the cache. Tab says which course tab requested it so a late
// response cannot land on the wrong one.
type CoursesLoadedMsg struct {
	Tab     Tab
	Courses []model.Course
	Stale   bool
	Err     error
}

// EventsLoadedMsg is sent when the events list has been fetched or served
// from the cache.
type EventsLoadedMsg struct {
	Events []model.Event
	Stale  bool
	Err    error
}

// RegisterResultMsg is sent when a course registration completed.
type RegisterResultMsg struct {
	Info string
	Err  error
}

// CloseMsg is sent when the user leaves the catalog.
type CloseMsg struct{}

const fetchTimeout = 15 * time.Second

type courseItem struct {
	c model.Course
}

func (i courseItem) FilterValue() string { return i.c.Name }

type eventItem struct {
	e model.Event
}

func (i eventItem) FilterValue() string { return i.e.Title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	var line string
	switch it := item.(type) {
	case courseItem:
		line = fmt.Sprintf("%s  %s  %s",
			it.c.Code, it.c.Name,
			theme.HelpStyle.Render(it.c.Schedule))
	case eventItem:
		pri := theme.PriorityStyle(it.e.Priority).Render(it.e.Priority)
		line = fmt.Sprintf("%s %s  %s  %s",
			pri, it.e.EventDate, it.e.Title,
			theme.HelpStyle.Render(it.e.Category))
	default:
		return
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the course catalog and campus events view. Fetched pages are
// written through to the cache store; when the backend is unreachable the
// cached copy is shown with a stale notice.
type Model struct {
	client *portal.Client
	cache  store.CacheStore
	keys   *keys.KeyMap
	email  string
	term   string
	tab    Tab
	list   list.Model
	stale  bool
	errMsg string
	status string
	width  int
	height int
}

// New creates a catalog view for the given term and student email.
func New(client *portal.Client, cache store.CacheStore, k *keys.KeyMap, email, term string, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-4)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		client: client,
		cache:  cache,
		keys:   k,
		email:  email,
		term:   term,
		list:   l,
		width:  width,
		height: height,
	}
}

// Init loads the active tab when the view opens.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// SetTab switches the catalog between courses and events.
func (m *Model) SetTab(tab Tab) tea.Cmd {
	m.tab = tab
	m.status = ""
	return m.load()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

func (m Model) load() tea.Cmd {
	switch m.tab {
	case TabEvents:
		return m.loadEvents()
	case TabRegistered:
		return m.loadRegistered()
	default:
		return m.loadCourses()
	}
}

// loadCourses fetches the course catalog for the term, writing a fresh
// page through to the cache and falling back to the cached copy on error.
func (m Model) loadCourses() tea.Cmd {
	client, cache, term := m.client, m.cache, m.term
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		courses, err := client.Courses(ctx, term)
		if err == nil {
			_ = cache.UpsertCourses(ctx, courses)
			return CoursesLoadedMsg{Tab: TabCourses, Courses: courses}
		}

		cached, cacheErr := cache.GetCourses(ctx, term)
		if cacheErr != nil || len(cached) == 0 {
			return CoursesLoadedMsg{Tab: TabCourses, Err: err}
		}
		return CoursesLoadedMsg{Tab: TabCourses, Courses: cached, Stale: true}
	}
}

// loadRegistered fetches the student's registered courses. There is no
// cache fallback here; registration state belongs to the backend.
func (m Model) loadRegistered() tea.Cmd {
	client, email := m.client, m.email
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		courses, err := client.RegisteredCourses(ctx, email)
		return CoursesLoadedMsg{Tab: TabRegistered, Courses: courses, Err: err}
	}
}

func (m Model) loadEvents() tea.Cmd {
	client, cache := m.client, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		events, err := client.Events(ctx, "upcoming")
		if err == nil {
			_ = cache.UpsertEvents(ctx, events)
			return EventsLoadedMsg{Events: events}
		}

		cached, cacheErr := cache.GetEvents(ctx, "upcoming")
		if cacheErr != nil || len(cached) == 0 {
			return EventsLoadedMsg{Err: err}
		}
		return EventsLoadedMsg{Events: cached, Stale: true}
	}
}

func (m Model) register(courseID string) tea.Cmd {
	client := m.client
	reg := model.CourseRegistration{
		StudentEmail: m.email,
		CourseID:     courseID,
		Term:         m.term,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := client.RegisterCourse(ctx, reg); err != nil {
			return RegisterResultMsg{Err: err}
		}
		return RegisterResultMsg{Info: "registered"}
	}
}

// Update handles messages for the catalog view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CoursesLoadedMsg:
		if m.tab != msg.Tab {
			return m, nil
		}
		m.stale = msg.Stale
		if msg.Err != nil {
			m.errMsg = "Catalog unavailable: could not reach the portal."
			return m, nil
		}
		m.errMsg = ""
		items := make([]list.Item, len(msg.Courses))
		for i, c := range msg.Courses {
			items[i] = courseItem{c: c}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case EventsLoadedMsg:
		if m.tab != TabEvents {
			return m, nil
		}
		m.stale = msg.Stale
		if msg.Err != nil {
			m.errMsg = "Events unavailable: could not reach the portal."
			return m, nil
		}
		m.errMsg = ""
		items := make([]list.Item, len(msg.Events))
		for i, e := range msg.Events {
			items[i] = eventItem{e: e}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case RegisterResultMsg:
		if msg.Err != nil {
			m.status = theme.ErrorStyle.Render(msg.Err.Error())
		} else {
			m.status = msg.Info
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }
		case "r":
			m.status = ""
			return m, m.load()
		case "tab":
			switch m.tab {
			case TabCourses:
				return m, m.SetTab(TabEvents)
			case TabEvents:
				return m, m.SetTab(TabRegistered)
			default:
				return m, m.SetTab(TabCourses)
			}
		case "enter":
			if m.tab != TabCourses {
				return m, nil
			}
			if it, ok := m.list.SelectedItem().(courseItem); ok {
				return m, m.register(it.c.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the catalog view.
func (m Model) View() string {
	titleText := "Course Catalog (" + m.term + ")"
	hintText := "enter register | tab events | r refresh | esc back"
	switch m.tab {
	case TabEvents:
		titleText = "Campus Events"
		hintText = "tab my courses | r refresh | esc back"
	case TabRegistered:
		titleText = "My Courses"
		hintText = "tab catalog | r refresh | esc back"
	}
	title := theme.HeaderStyle.Render(titleText)
	if m.stale {
		title += theme.HelpStyle.Render("  (cached, portal unreachable)")
	}

	var body string
	switch {
	case m.errMsg != "":
		body = theme.ErrorStyle.Render(m.errMsg)
	case len(m.list.Items()) == 0:
		body = theme.EmptyStyle.Render("Nothing to show.")
	default:
		body = m.list.View()
	}

	hints := theme.HelpStyle.Render(hintText)
	if m.status != "" {
		hints = m.status
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, hints)
}

package apptform

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

// LoadedMsg is sent when the user's appointments have been fetched.
type LoadedMsg struct {
	Appointments []model.Appointment
	Err          error
}

// ActionResultMsg is sent when a booking, cancel, or reschedule call
// completed.
type ActionResultMsg struct {
	Info string
	Err  error
}

// CloseMsg is sent when the user leaves the appointment view.
type CloseMsg struct{}

const fetchTimeout = 15 * time.Second

var departments = []string{
	"Academic Advising", "Financial Aid", "Career Services",
	"Registrar", "Counseling",
}

var timeSlots = []string{
	"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00",
}

var meetingModes = []string{"In Person", "Online"}

// formMode distinguishes the booking form from the reschedule form.
type formMode int

const (
	formNone formMode = iota
	formBook
	formReschedule
)

// formBindings holds form field values on the heap so huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	department  string
	staff       string
	subject     string
	date        string
	timeSlot    string
	meetingMode string
	notes       string
}

// apptItem wraps a model.Appointment for bubbles/list.
type apptItem struct {
	a model.Appointment
}

func (i apptItem) FilterValue() string { return i.a.Subject }

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(apptItem)
	if !ok {
		return
	}

	status := theme.StatusStyle(it.a.Status).Render(it.a.Status)
	line := fmt.Sprintf("%s  %s %s  %s  %s",
		status, it.a.Date, it.a.TimeSlot, it.a.Subject,
		theme.HelpStyle.Render(it.a.Department))

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the appointment view: the user's bookings plus forms to book
// and reschedule.
type Model struct {
	client  *portal.Client
	keys    *keys.KeyMap
	email   string
	name    string
	list    list.Model
	form    *huh.Form
	fb      *formBindings
	mode    formMode
	editID  string
	loadErr error
	status  string
	width   int
	height  int
}

// New creates an appointment view backed by the portal client. The
// booking endpoint requires the student's identity, so the signed-in
// user's email and full name come in here.
func New(client *portal.Client, k *keys.KeyMap, email, name string, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-4)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		client: client,
		keys:   k,
		email:  email,
		name:   name,
		list:   l,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init loads the appointment list when the view opens.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a command that fetches the user's appointments.
func (m Model) Load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		appointments, err := client.Appointments(ctx)
		return LoadedMsg{Appointments: appointments, Err: err}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// startBook opens a fresh booking form.
func (m *Model) startBook() tea.Cmd {
	m.fb.department = departments[0]
	m.fb.staff = ""
	m.fb.subject = ""
	m.fb.date = ""
	m.fb.timeSlot = timeSlots[0]
	m.fb.meetingMode = meetingModes[0]
	m.fb.notes = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Department").
				Options(huh.NewOptions(departments...)...).
				Value(&m.fb.department),
			huh.NewInput().
				Title("Staff member").
				Placeholder("Leave empty for any available staff").
				Value(&m.fb.staff),
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject).
				Validate(requireText("subject")),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(validDate),
			huh.NewSelect[string]().
				Title("Time slot").
				Options(huh.NewOptions(timeSlots...)...).
				Value(&m.fb.timeSlot),
			huh.NewSelect[string]().
				Title("Meeting mode").
				Options(huh.NewOptions(meetingModes...)...).
				Value(&m.fb.meetingMode),
			huh.NewText().
				Title("Notes").
				Placeholder("Anything the staff member should know in advance").
				Value(&m.fb.notes),
		),
	).WithWidth(m.width - 4).WithHeight(m.height - 6)

	m.mode = formBook
	return m.form.Init()
}

// startReschedule opens a date/time form for an existing appointment.
func (m *Model) startReschedule(a model.Appointment) tea.Cmd {
	m.editID = a.ID
	m.fb.date = a.Date
	m.fb.timeSlot = a.TimeSlot

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(validDate),
			huh.NewSelect[string]().
				Title("New time slot").
				Options(huh.NewOptions(timeSlots...)...).
				Value(&m.fb.timeSlot),
		),
	).WithWidth(m.width - 4).WithHeight(m.height - 6)

	m.mode = formReschedule
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

func validDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	return nil
}

// Update handles messages for the appointment view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loadErr = msg.Err
		items := make([]list.Item, len(msg.Appointments))
		for i, a := range msg.Appointments {
			items[i] = apptItem{a: a}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case ActionResultMsg:
		if msg.Err != nil {
			m.status = theme.ErrorStyle.Render(msg.Err.Error())
		} else {
			m.status = msg.Info
		}
		return m, m.Load()
	}

	if m.mode != formNone {
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
			return m, m.startBook()
		case "e":
			if it, ok := m.list.SelectedItem().(apptItem); ok {
				m.status = ""
				return m, m.startReschedule(it.a)
			}
			return m, nil
		case "x":
			if it, ok := m.list.SelectedItem().(apptItem); ok {
				return m, m.cancel(it.a.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		mode := m.mode
		m.mode = formNone
		m.form = nil
		if mode == formReschedule {
			return m, m.reschedule(m.editID, m.fb.date, m.fb.timeSlot)
		}
		return m, m.book()
	}
	if m.form.State == huh.StateAborted {
		m.mode = formNone
		m.form = nil
		return m, nil
	}

	return m, cmd
}

func (m Model) book() tea.Cmd {
	req := model.AppointmentRequest{
		StudentEmail: m.email,
		StudentName:  m.name,
		Department:   m.fb.department,
		Staff:        m.fb.staff,
		Subject:      m.fb.subject,
		Date:         m.fb.date,
		TimeSlot:     m.fb.timeSlot,
		MeetingMode:  m.fb.meetingMode,
		Notes:        m.fb.notes,
	}
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		id, err := client.BookAppointment(ctx, req)
		if err != nil {
			return ActionResultMsg{Err: err}
		}
		return ActionResultMsg{Info: "appointment " + id + " booked"}
	}
}

func (m Model) cancel(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := client.CancelAppointment(ctx, id); err != nil {
			return ActionResultMsg{Err: err}
		}
		return ActionResultMsg{Info: "appointment cancelled"}
	}
}

func (m Model) reschedule(id, date, slot string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if err := client.RescheduleAppointment(ctx, id, date, slot); err != nil {
			return ActionResultMsg{Err: err}
		}
		return ActionResultMsg{Info: "appointment rescheduled"}
	}
}

// View renders the appointment view.
func (m Model) View() string {
	if m.mode != formNone && m.form != nil {
		title := "Book Appointment"
		if m.mode == formReschedule {
			title = "Reschedule Appointment"
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			theme.HeaderStyle.Render(title),
			m.form.View(),
		)
	}

	title := theme.HeaderStyle.Render("Appointments")

	var body string
	switch {
	case m.loadErr != nil:
		body = theme.ErrorStyle.Render("Appointments unavailable: could not reach the portal.")
	case len(m.list.Items()) == 0:
		body = theme.EmptyStyle.Render("No appointments booked.")
	default:
		body = m.list.View()
	}

	hints := theme.HelpStyle.Render("n book | e reschedule | x cancel | r refresh | esc back")
	if m.status != "" {
		hints = m.status
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, hints)
}

package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smit-tejani/smartassist-portal/internal/keys"
	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/notify"
	"github.com/smit-tejani/smartassist-portal/internal/portal"
	"github.com/smit-tejani/smartassist-portal/internal/store"
	"github.com/smit-tejani/smartassist-portal/internal/survey"
	"github.com/smit-tejani/smartassist-portal/internal/theme"
	"github.com/smit-tejani/smartassist-portal/internal/ui"
	"github.com/smit-tejani/smartassist-portal/internal/ui/apptform"
	"github.com/smit-tejani/smartassist-portal/internal/ui/catalog"
	"github.com/smit-tejani/smartassist-portal/internal/ui/home"
	"github.com/smit-tejani/smartassist-portal/internal/ui/notifcenter"
	"github.com/smit-tejani/smartassist-portal/internal/ui/surveylist"
	"github.com/smit-tejani/smartassist-portal/internal/ui/surveyrun"
	"github.com/smit-tejani/smartassist-portal/internal/ui/ticketform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewHome ViewState = iota
	ViewSurveyList
	ViewSurveyRun
	ViewNotifications
	ViewTickets
	ViewAppointments
	ViewCatalog
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the notification poller, and the survey session.
type Model struct {
	cfg    *model.AppConfig
	user   *model.User
	layout ui.Layout
	keys   *keys.KeyMap

	client  *portal.Client
	agent   *notify.Agent
	session *survey.Session

	currentView ViewState
	homeView    home.Model
	surveyList  surveylist.Model
	surveyRun   surveyrun.Model
	notifView   notifcenter.Model
	ticketView  ticketform.Model
	apptView    apptform.Model
	catalogView catalog.Model

	badge  notify.BadgeState
	status string
	ready  bool
}

// New creates the root application model.
func New(cfg *model.AppConfig, user *model.User, client *portal.Client, agent *notify.Agent, cache store.CacheStore) Model {
	k := keys.DefaultKeyMap()
	session := survey.NewSession(client)

	return Model{
		cfg:         cfg,
		user:        user,
		keys:        k,
		client:      client,
		agent:       agent,
		session:     session,
		currentView: ViewHome,
		homeView:    home.New(k, 80, 24),
		surveyList:  surveylist.New(client, k, 80, 24),
		surveyRun:   surveyrun.New(session, client, k, 80, 24),
		notifView:   notifcenter.New(agent, k, 80, 24),
		ticketView:  ticketform.New(client, k, 80, 24),
		apptView:    apptform.New(client, k, user.Email, user.FullName, 80, 24),
		catalogView: catalog.New(client, cache, k, user.Email, cfg.Portal.Term, 80, 24),
	}
}

// Init starts the unread-count poller. Its first result arrives as a
// BadgeMsg once the immediate poll completes.
func (m Model) Init() tea.Cmd {
	interval := time.Duration(m.cfg.Portal.UnreadPollSec) * time.Second
	return m.agent.StartPolling(interval)
}

// Update routes messages to the active view and handles global concerns.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.homeView.SetSize(w, h)
		m.surveyList.SetSize(w, h)
		m.surveyRun.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.ticketView.SetSize(w, h)
		m.apptView.SetSize(w, h)
		m.catalogView.SetSize(w, h)
		return m, nil

	case notify.BadgeMsg:
		m.badge = msg.Badge
		return m, m.agent.WaitForNextBadge()

	case home.SectionChosenMsg:
		return m.openSection(msg.Section)

	case surveylist.StartSurveyMsg:
		if err := m.session.Start(msg.Survey); err != nil {
			var cmd tea.Cmd
			m.surveyList, cmd = m.surveyList.Update(surveylist.StartFailedMsg{Err: err})
			return m, cmd
		}
		m.currentView = ViewSurveyRun
		return m, m.surveyRun.Start()

	case surveyrun.SubmittedMsg:
		m.session.FinishSubmit(nil)
		m.currentView = ViewSurveyList
		m.status = fmt.Sprintf("%q submitted. Thank you!", msg.Title)
		return m, m.surveyList.Load()

	case surveyrun.CancelledMsg:
		m.currentView = ViewSurveyList
		return m, nil

	case surveylist.CloseMsg, notifcenter.CloseMsg,
		ticketform.CloseMsg, apptform.CloseMsg, catalog.CloseMsg:
		m.currentView = ViewHome
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.agent.StopPolling()
			return m, tea.Quit
		case "q":
			if m.currentView == ViewHome {
				m.agent.StopPolling()
				return m, tea.Quit
			}
		case "N":
			if m.currentView == ViewHome {
				return m.openSection(home.SectionNotifications)
			}
		}
	}

	return m.routeToView(msg)
}

// openSection switches from the home menu into a portal section and runs
// that view's initial load.
func (m Model) openSection(section home.Section) (tea.Model, tea.Cmd) {
	m.status = ""
	switch section {
	case home.SectionSurveys:
		m.currentView = ViewSurveyList
		return m, m.surveyList.Init()
	case home.SectionNotifications:
		m.currentView = ViewNotifications
		return m, m.notifView.Init()
	case home.SectionTickets:
		m.currentView = ViewTickets
		return m, m.ticketView.Init()
	case home.SectionAppointments:
		m.currentView = ViewAppointments
		return m, m.apptView.Init()
	case home.SectionCourses:
		m.currentView = ViewCatalog
		return m, m.catalogView.SetTab(catalog.TabCourses)
	case home.SectionEvents:
		m.currentView = ViewCatalog
		return m, m.catalogView.SetTab(catalog.TabEvents)
	}
	return m, nil
}

// routeToView forwards a message to the active view's Update.
func (m Model) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewHome:
		m.homeView, cmd = m.homeView.Update(msg)
	case ViewSurveyList:
		m.surveyList, cmd = m.surveyList.Update(msg)
	case ViewSurveyRun:
		m.surveyRun, cmd = m.surveyRun.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewTickets:
		m.ticketView, cmd = m.ticketView.Update(msg)
	case ViewAppointments:
		m.apptView, cmd = m.apptView.Update(msg)
	case ViewCatalog:
		m.catalogView, cmd = m.catalogView.Update(msg)
	}
	return m, cmd
}

// View renders the header, the active view, and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var content string
	switch m.currentView {
	case ViewHome:
		content = m.homeView.View()
	case ViewSurveyList:
		content = m.surveyList.View()
	case ViewSurveyRun:
		content = m.surveyRun.View()
	case ViewNotifications:
		content = m.notifView.View()
	case ViewTickets:
		content = m.ticketView.View()
	case ViewAppointments:
		content = m.apptView.View()
	case ViewCatalog:
		content = m.catalogView.View()
	}

	header := m.layout.RenderHeader("SmartAssist Portal", m.headerRight())

	hints := "q quit | N notifications | ? help"
	if m.status != "" {
		hints = theme.StatusStyle("Confirmed").Render(m.status)
	}
	statusBar := m.layout.RenderStatusBar(hints)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerRight builds the right side of the header: the signed-in user and
// the unread badge. An unknown badge renders no count at all; zero is a
// real, known count and the suffix stays off for it too.
func (m Model) headerRight() string {
	badge := "Notifications"
	if m.badge.Known && m.badge.Count > 0 {
		badge = fmt.Sprintf("Notifications [%d]", m.badge.Count)
	}
	return fmt.Sprintf("%s | %s", badge, m.user.FullName)
}

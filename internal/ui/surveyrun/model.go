package surveyrun

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/smit-tejani/smartassist-portal/internal/keys"
	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/survey"
	"github.com/smit-tejani/smartassist-portal/internal/theme"
)

// SubmittedMsg is sent after the backend confirmed the submission and the
// session closed.
type SubmittedMsg struct {
	Title string
}

// SubmitFailedMsg is sent when submission failed; the session stays active
// so the user can fix or retry.
type SubmitFailedMsg struct {
	Err error
}

// CancelledMsg is sent when the user abandons the survey.
type CancelledMsg struct{}

const submitTimeout = 30 * time.Second

// answerBinding holds the current form value on the heap so huh's Value()
// pointer stays valid across Bubble Tea model copies.
type answerBinding struct {
	value string
}

// Model walks a survey.Session one question at a time. Each question is a
// single-field huh form; completing the field advances the session, and the
// whole-survey required check runs at submit time.
type Model struct {
	session    *survey.Session
	submitter  survey.Submitter
	keys       *keys.KeyMap
	fb         *answerBinding
	form       *huh.Form
	errMsg     string
	submitting bool
	width      int
	height     int
}

// New creates a survey runner for the given session. The submitter carries
// the network call so the session itself is only ever touched from the
// update loop.
func New(session *survey.Session, submitter survey.Submitter, k *keys.KeyMap, width, height int) Model {
	return Model{
		session:   session,
		submitter: submitter,
		keys:      k,
		fb:        &answerBinding{},
		width:     width,
		height:    height,
	}
}

// Start builds the form for the session's current question. Call it after
// the session has been started.
func (m *Model) Start() tea.Cmd {
	m.errMsg = ""
	m.submitting = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// buildForm creates a single-field form for the current question,
// prefilled with any previously recorded answer.
func (m *Model) buildForm() *huh.Form {
	q := m.session.Current()

	if prev, ok := m.session.AnswerFor(q.ID); ok {
		m.fb.value = prev
	} else {
		m.fb.value = ""
	}

	var field huh.Field
	switch q.Type {
	case model.QuestionRating:
		field = huh.NewSelect[string]().
			Title(q.Text).
			Description("1 = poor, 5 = excellent").
			Options(huh.NewOptions("1", "2", "3", "4", "5")...).
			Value(&m.fb.value)

	case model.QuestionYesNo:
		field = huh.NewSelect[string]().
			Title(q.Text).
			Options(
				huh.NewOption("Yes", "yes"),
				huh.NewOption("No", "no"),
			).
			Value(&m.fb.value)

	case model.QuestionMultipleChoice:
		field = huh.NewSelect[string]().
			Title(q.Text).
			Options(huh.NewOptions(q.Options...)...).
			Value(&m.fb.value)

	default: // free_text
		field = huh.NewText().
			Title(q.Text).
			Placeholder("Type your answer...").
			Value(&m.fb.value)
	}

	return huh.NewForm(
		huh.NewGroup(field),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// Update handles messages for the survey runner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SubmitFailedMsg:
		// The outcome is applied here, on the update loop, never from
		// the command goroutine.
		m.session.FinishSubmit(msg.Err)
		m.submitting = false
		m.errMsg = msg.Err.Error()
		m.form = m.buildForm()
		return m, m.form.Init()

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			m.session.Cancel()
			return m, func() tea.Msg { return CancelledMsg{} }

		case "ctrl+b", "shift+tab":
			if !m.session.IsFirst() {
				m.session.Retreat()
				m.errMsg = ""
				m.form = m.buildForm()
				return m, m.form.Init()
			}
			return m, nil
		}
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.handleAnswered()
	}
	if m.form.State == huh.StateAborted {
		m.session.Cancel()
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, cmd
}

// handleAnswered records the confirmed value and either advances to the
// next question or submits the whole survey on the last one.
func (m Model) handleAnswered() (Model, tea.Cmd) {
	q := m.session.Current()

	if strings.TrimSpace(m.fb.value) != "" {
		m.session.Answer(q.ID, m.fb.value)
	}

	if m.session.IsLast() {
		return m.submit()
	}

	if err := m.session.Advance(); err != nil {
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
	}

	m.form = m.buildForm()
	return m, m.form.Init()
}

// submit runs the authoritative whole-survey validation on the update loop
// and, if it passes, sends the prepared payload to the backend from the
// command. The command never touches the session; the Submitting state is
// resolved in Update when the result message arrives.
func (m Model) submit() (Model, tea.Cmd) {
	id, answers, err := m.session.BeginSubmit()
	if err != nil {
		m.errMsg = err.Error()
		if survey.IsValidationError(err) {
			m.errMsg += " (go back with ctrl+b)"
		}
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	title := m.session.Survey().Title
	m.submitting = true
	m.errMsg = ""
	submitter := m.submitter

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		if err := submitter.SubmitSurvey(ctx, id, answers); err != nil {
			return SubmitFailedMsg{Err: err}
		}
		return SubmittedMsg{Title: title}
	}
}

// View renders the current question.
func (m Model) View() string {
	if m.session.State() == survey.StateClosed {
		return ""
	}

	s := m.session.Survey()
	q := m.session.Current()

	header := theme.HeaderStyle.Render("Survey: " + s.Title)

	progress := fmt.Sprintf(
		"Question %d of %d", m.session.Index()+1, len(s.Questions),
	)
	if q.Required {
		progress += theme.ErrorStyle.Render(" *required")
	}
	progressLine := theme.HelpStyle.Render(progress)

	var body string
	switch {
	case m.submitting:
		body = theme.EmptyStyle.Render("Submitting your answers...")
	case m.form != nil:
		body = m.form.View()
	}

	lines := []string{header, progressLine, body}
	if m.errMsg != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.errMsg))
	}

	hint := "enter next | ctrl+b previous | esc cancel"
	if m.session.IsLast() {
		hint = "enter submit | ctrl+b previous | esc cancel"
	}
	lines = append(lines, theme.HelpStyle.Render(hint))

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 8
	if h < 8 {
		h = 8
	}
	return h
}

package surveyrun

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smit-tejani/smartassist-portal/internal/keys"
	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/survey"
)

type fakeSubmitter struct {
	calls int
	err   error
}

func (f *fakeSubmitter) SubmitSurvey(_ context.Context, _ string, _ []model.SurveyAnswer) error {
	f.calls++
	return f.err
}

func startedModel(t *testing.T, sub *fakeSubmitter) (Model, *survey.Session) {
	t.Helper()

	session := survey.NewSession(sub)
	require.NoError(t, session.Start(&model.Survey{
		ID:    "sv-1",
		Title: "Course Feedback",
		Questions: []model.SurveyQuestion{
			{ID: "q1", Text: "Rate the course", Type: model.QuestionRating, Required: true, Order: 1},
		},
	}))
	session.Answer("q1", "5")

	m := New(session, sub, keys.DefaultKeyMap(), 80, 24)
	_ = m.Start()
	return m, session
}

func TestSubmitCmdNeverMutatesSession(t *testing.T) {
	sub := &fakeSubmitter{}
	m, session := startedModel(t, sub)

	m2, cmd := m.submit()
	require.NotNil(t, cmd)

	// The transition to Submitting happened synchronously in submit;
	// the session stays fully readable for concurrent renders.
	assert.Equal(t, survey.StateSubmitting, session.State())
	require.NotNil(t, session.Survey())
	assert.NotEmpty(t, m2.View())

	// Running the command performs only the network call; the session
	// is untouched until the result message reaches Update.
	msg := cmd()
	_, ok := msg.(SubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, survey.StateSubmitting, session.State())
	require.NotNil(t, session.Survey())
	assert.NotEmpty(t, m2.View())
}

func TestSubmittedOutcomeAppliedOnUpdateLoop(t *testing.T) {
	sub := &fakeSubmitter{}
	m, session := startedModel(t, sub)

	_, cmd := m.submit()
	msg := cmd()
	require.IsType(t, SubmittedMsg{}, msg)

	// The root model resolves the success outcome on the update loop.
	session.FinishSubmit(nil)
	assert.Equal(t, survey.StateClosed, session.State())
	assert.Nil(t, session.Survey())
}

func TestSubmitFailureRevertsViaUpdate(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("backend down")}
	m, session := startedModel(t, sub)

	m2, cmd := m.submit()
	require.NotNil(t, cmd)

	msg := cmd()
	failed, ok := msg.(SubmitFailedMsg)
	require.True(t, ok)
	assert.Equal(t, survey.StateSubmitting, session.State())

	m3, _ := m2.Update(failed)

	assert.Equal(t, survey.StateActive, session.State())
	require.NotNil(t, session.Survey())
	assert.NotEmpty(t, m3.View())
}

func TestSubmitBlockedByMissingRequired(t *testing.T) {
	sub := &fakeSubmitter{}
	session := survey.NewSession(sub)
	require.NoError(t, session.Start(&model.Survey{
		ID: "sv-2",
		Questions: []model.SurveyQuestion{
			{ID: "q1", Type: model.QuestionFreeText, Required: true, Order: 1},
		},
	}))

	m := New(session, sub, keys.DefaultKeyMap(), 80, 24)
	_ = m.Start()

	m2, _ := m.submit()

	assert.Equal(t, survey.StateActive, session.State())
	assert.Equal(t, 0, sub.calls)
	assert.Contains(t, m2.errMsg, "q1")
}

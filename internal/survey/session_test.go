package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/portal"
)

// fakeSubmitter records the last submission and fails on demand.
type fakeSubmitter struct {
	surveyID string
	answers  []model.SurveyAnswer
	calls    int
	err      error
}

func (f *fakeSubmitter) SubmitSurvey(_ context.Context, surveyID string, answers []model.SurveyAnswer) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.surveyID = surveyID
	f.answers = answers
	return nil
}

func threeQuestionSurvey() *model.Survey {
	return &model.Survey{
		ID:    "sv-1",
		Title: "Course Feedback",
		Questions: []model.SurveyQuestion{
			{ID: "q1", Text: "Rate the course", Type: model.QuestionRating, Required: true, Order: 1},
			{ID: "q2", Text: "Any comments?", Type: model.QuestionFreeText, Required: false, Order: 2},
			{ID: "q3", Text: "Would you recommend it?", Type: model.QuestionYesNo, Required: true, Order: 3},
		},
	}
}

func TestStartRejectsEmptySurvey(t *testing.T) {
	s := NewSession(&fakeSubmitter{})

	err := s.Start(&model.Survey{ID: "sv-empty"})

	require.Error(t, err)
	assert.True(t, portal.IsInvalidSurvey(err))
	assert.Equal(t, StateClosed, s.State())
}

func TestStartRejectsOptionlessMultipleChoice(t *testing.T) {
	s := NewSession(&fakeSubmitter{})

	err := s.Start(&model.Survey{
		ID: "sv-bad",
		Questions: []model.SurveyQuestion{
			{ID: "q1", Type: model.QuestionMultipleChoice, Required: true},
		},
	})

	require.Error(t, err)
	assert.True(t, portal.IsInvalidSurvey(err))
}

func TestStartResetsToFirstQuestion(t *testing.T) {
	s := NewSession(&fakeSubmitter{})

	require.NoError(t, s.Start(threeQuestionSurvey()))

	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 0, s.Index())
	assert.True(t, s.IsFirst())
	_, ok := s.AnswerFor("q1")
	assert.False(t, ok)
}

func TestAdvanceBlocksOnUnansweredRequired(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	err := s.Advance()

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 0, s.Index())
}

func TestAdvanceSkipsOptionalQuestion(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "5")
	require.NoError(t, s.Advance())

	// q2 is optional: advancing past it without an answer is fine.
	require.NoError(t, s.Advance())
	assert.Equal(t, 2, s.Index())
	assert.True(t, s.IsLast())
}

func TestAdvanceStaysPutOnLastQuestion(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "5")
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	s.Answer("q3", "yes")

	require.NoError(t, s.Advance())
	assert.Equal(t, 2, s.Index())
}

func TestRetreatStopsAtFirstQuestion(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Retreat()
	assert.Equal(t, 0, s.Index())

	s.Answer("q1", "4")
	require.NoError(t, s.Advance())
	s.Retreat()
	assert.Equal(t, 0, s.Index())
}

func TestAnswerOverwritesPreviousValue(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "2")
	s.Answer("q1", "5")

	v, ok := s.AnswerFor("q1")
	require.True(t, ok)
	assert.Equal(t, "5", v)
}

func TestSubmitBlocksWhenRequiredSkipped(t *testing.T) {
	sub := &fakeSubmitter{}
	s := NewSession(sub)
	require.NoError(t, s.Start(threeQuestionSurvey()))

	// Answer q1, skip forward, leave required q3 blank.
	s.Answer("q1", "5")

	err := s.Submit(context.Background())

	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"q3"}, ve.QuestionIDs)
	assert.Equal(t, 0, sub.calls)
	assert.Equal(t, StateActive, s.State())
}

func TestSubmitReportsAllMissingRequiredInOrder(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	err := s.Submit(context.Background())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"q1", "q3"}, ve.QuestionIDs)
}

func TestSubmitSucceedsWithOptionalSkipped(t *testing.T) {
	sub := &fakeSubmitter{}
	s := NewSession(sub)
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q3", "yes")
	s.Answer("q1", "4")

	require.NoError(t, s.Submit(context.Background()))

	assert.Equal(t, "sv-1", sub.surveyID)
	// Answers are ordered by survey question order, not answer order, and
	// the skipped optional question is absent.
	assert.Equal(t, []model.SurveyAnswer{
		{QuestionID: "q1", Answer: "4"},
		{QuestionID: "q3", Answer: "yes"},
	}, sub.answers)
	assert.Equal(t, StateClosed, s.State())
	assert.Nil(t, s.Survey())
}

func TestSubmitFailureKeepsSessionActive(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("boom")}
	s := NewSession(sub)
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "4")
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	s.Answer("q3", "no")

	err := s.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 2, s.Index())

	// Retry after the backend recovers.
	sub.err = nil
	require.NoError(t, s.Submit(context.Background()))
	assert.Equal(t, StateClosed, s.State())
}

func TestBeginSubmitPreparesPayloadWithoutNetwork(t *testing.T) {
	sub := &fakeSubmitter{}
	s := NewSession(sub)
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q3", "yes")
	s.Answer("q1", "4")

	id, answers, err := s.BeginSubmit()

	require.NoError(t, err)
	assert.Equal(t, "sv-1", id)
	assert.Equal(t, []model.SurveyAnswer{
		{QuestionID: "q1", Answer: "4"},
		{QuestionID: "q3", Answer: "yes"},
	}, answers)
	assert.Equal(t, 0, sub.calls)
	assert.Equal(t, StateSubmitting, s.State())
}

func TestSessionStaysReadableWhileSubmitting(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "4")
	require.NoError(t, s.Advance())
	require.NoError(t, s.Advance())
	s.Answer("q3", "yes")

	_, _, err := s.BeginSubmit()
	require.NoError(t, err)

	// Renderers keep reading the session while the call is in flight;
	// nothing is torn down until the outcome lands in FinishSubmit.
	require.NotNil(t, s.Survey())
	assert.Equal(t, "q3", s.Current().ID)
	assert.True(t, s.IsLast())
	assert.Equal(t, 2, s.Index())
}

func TestBeginSubmitValidatesWholeSurvey(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	_, _, err := s.BeginSubmit()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"q1", "q3"}, ve.QuestionIDs)
	assert.Equal(t, StateActive, s.State())
}

func TestFinishSubmitRevertsOnFailure(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "4")
	s.Answer("q3", "yes")
	_, _, err := s.BeginSubmit()
	require.NoError(t, err)

	s.FinishSubmit(errors.New("boom"))

	assert.Equal(t, StateActive, s.State())
	require.NotNil(t, s.Survey())
}

func TestFinishSubmitClosesOnSuccess(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "4")
	s.Answer("q3", "yes")
	_, _, err := s.BeginSubmit()
	require.NoError(t, err)

	s.FinishSubmit(nil)

	assert.Equal(t, StateClosed, s.State())
	assert.Nil(t, s.Survey())
}

func TestFinishSubmitIgnoredOutsideSubmitting(t *testing.T) {
	s := NewSession(&fakeSubmitter{})
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.FinishSubmit(nil)

	assert.Equal(t, StateActive, s.State())
}

func TestSubmitRequiresActiveSession(t *testing.T) {
	s := NewSession(&fakeSubmitter{})

	err := s.Submit(context.Background())

	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestCancelDiscardsSession(t *testing.T) {
	sub := &fakeSubmitter{}
	s := NewSession(sub)
	require.NoError(t, s.Start(threeQuestionSurvey()))

	s.Answer("q1", "3")
	s.Cancel()

	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, 0, sub.calls)

	// A new session starts clean.
	require.NoError(t, s.Start(threeQuestionSurvey()))
	_, ok := s.AnswerFor("q1")
	assert.False(t, ok)
}

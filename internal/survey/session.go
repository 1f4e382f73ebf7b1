package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smit-tejani/smartassist-portal/internal/model"
	"github.com/smit-tejani/smartassist-portal/internal/portal"
)

// State is the lifecycle state of a survey session.
type State int

const (
	// StateClosed means no survey is in progress. A session returns here
	// after a successful submit, a cancel, or before Start is called.
	StateClosed State = iota

	// StateActive means the user is answering questions.
	StateActive

	// StateSubmitting means a submit call is in flight. The session
	// reverts to StateActive if it fails.
	StateSubmitting
)

// ValidationError reports required questions that have no recorded answer.
// It blocks the attempted transition and is shown inline to the user.
type ValidationError struct {
	// QuestionIDs lists the unanswered required questions, in survey
	// question order.
	QuestionIDs []string
}

func (e *ValidationError) Error() string {
	if len(e.QuestionIDs) == 1 {
		return fmt.Sprintf("question %s requires an answer", e.QuestionIDs[0])
	}
	return fmt.Sprintf(
		"required questions unanswered: %s",
		strings.Join(e.QuestionIDs, ", "),
	)
}

// IsValidationError reports whether err (or any error in its chain) is a
// ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Submitter persists a completed response. *portal.Client satisfies it.
type Submitter interface {
	SubmitSurvey(ctx context.Context, surveyID string, answers []model.SurveyAnswer) error
}

// Session drives one user's attempt at a survey: question-by-question
// navigation, answer accumulation, validation, and final submission.
// Answers are stored raw; type conformance (rating range and the like) is
// the input widget's concern. Sessions are not safe for concurrent use.
type Session struct {
	submitter Submitter
	survey    *model.Survey
	state     State
	index     int
	answers   map[string]string
}

// NewSession creates a closed session that will submit through the given
// Submitter.
func NewSession(submitter Submitter) *Session {
	return &Session{submitter: submitter}
}

// Start begins a session for the given survey at its first question with no
// recorded answers. It fails with InvalidSurveyError if the survey has no
// questions or a multiple_choice question carries no options.
func (s *Session) Start(survey *model.Survey) error {
	if len(survey.Questions) == 0 {
		return &portal.InvalidSurveyError{
			SurveyID: survey.ID,
			Reason:   "no questions",
		}
	}
	for _, q := range survey.Questions {
		if q.Type == model.QuestionMultipleChoice && len(q.Options) == 0 {
			return &portal.InvalidSurveyError{
				SurveyID: survey.ID,
				Reason:   fmt.Sprintf("multiple_choice question %q has no options", q.ID),
			}
		}
	}

	s.survey = survey
	s.state = StateActive
	s.index = 0
	s.answers = make(map[string]string, len(survey.Questions))
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Survey returns the survey this session is answering, or nil when closed.
func (s *Session) Survey() *model.Survey {
	return s.survey
}

// Index returns the 0-based current question index.
func (s *Session) Index() int {
	return s.index
}

// Current returns the question at the current index. It must only be
// called while a survey is in progress.
func (s *Session) Current() model.SurveyQuestion {
	return s.survey.Questions[s.index]
}

// Answer records or overwrites the answer for a question. A question id
// maps to exactly one value; answering twice replaces the previous entry.
func (s *Session) Answer(questionID, value string) {
	if s.answers == nil {
		return
	}
	s.answers[questionID] = value
}

// AnswerFor returns the recorded answer for a question, if any.
func (s *Session) AnswerFor(questionID string) (string, bool) {
	v, ok := s.answers[questionID]
	return v, ok
}

// Advance moves to the next question. It fails with ValidationError, leaving
// the index unchanged, when the question being left is required and has no
// recorded answer. On the last question the index stays put; callers should
// gate the "next" control with IsLast.
func (s *Session) Advance() error {
	q := s.Current()
	if q.Required {
		if _, ok := s.answers[q.ID]; !ok {
			return &ValidationError{QuestionIDs: []string{q.ID}}
		}
	}

	if s.index < len(s.survey.Questions)-1 {
		s.index++
	}
	return nil
}

// Retreat moves to the previous question, stopping at the first.
func (s *Session) Retreat() {
	if s.index > 0 {
		s.index--
	}
}

// IsFirst reports whether the current question is the first.
func (s *Session) IsFirst() bool {
	return s.index == 0
}

// IsLast reports whether the current question is the last.
func (s *Session) IsLast() bool {
	return s.index == len(s.survey.Questions)-1
}

// Unanswered returns the ids of required questions with no recorded answer,
// in survey question order.
func (s *Session) Unanswered() []string {
	var missing []string
	for _, q := range s.survey.Questions {
		if !q.Required {
			continue
		}
		if _, ok := s.answers[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// BeginSubmit validates the whole survey and transitions to StateSubmitting.
// Unlike Advance, which only checks the question being left, this is the
// authoritative gate: every required question anywhere in the survey must
// have an answer, so a user who skipped ahead past an optional question is
// still blocked if a required one was left behind.
//
// It returns the survey id and the answers as {question_id, answer} pairs
// ordered by the survey's question order, not by the order they were
// answered in. No network call happens here: the caller sends the payload
// and reports the outcome through FinishSubmit. The session stays readable
// while the call is in flight.
func (s *Session) BeginSubmit() (string, []model.SurveyAnswer, error) {
	if s.state != StateActive {
		return "", nil, fmt.Errorf("no survey in progress")
	}

	if missing := s.Unanswered(); len(missing) > 0 {
		return "", nil, &ValidationError{QuestionIDs: missing}
	}

	ordered := make([]model.SurveyAnswer, 0, len(s.answers))
	for _, q := range s.survey.Questions {
		if v, ok := s.answers[q.ID]; ok {
			ordered = append(ordered, model.SurveyAnswer{
				QuestionID: q.ID,
				Answer:     v,
			})
		}
	}

	s.state = StateSubmitting
	return s.survey.ID, ordered, nil
}

// FinishSubmit applies the backend outcome of an in-flight submission. On
// failure the session reverts to StateActive at the same index so the user
// can retry; on success it closes.
func (s *Session) FinishSubmit(err error) {
	if s.state != StateSubmitting {
		return
	}
	if err != nil {
		s.state = StateActive
		return
	}
	s.reset()
}

// Submit validates, persists, and closes the session in one blocking call.
// Callers that must not mutate the session off their own goroutine use the
// BeginSubmit/FinishSubmit pair instead and run only the network call
// elsewhere.
func (s *Session) Submit(ctx context.Context) error {
	id, answers, err := s.BeginSubmit()
	if err != nil {
		return err
	}

	err = s.submitter.SubmitSurvey(ctx, id, answers)
	s.FinishSubmit(err)
	return err
}

// Cancel discards the session without a network call.
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.survey = nil
	s.state = StateClosed
	s.index = 0
	s.answers = nil
}

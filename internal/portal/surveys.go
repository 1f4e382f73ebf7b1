package portal

import (
	"context"
	"fmt"
	"sort"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// AvailableSurveys fetches the catalog of surveys the current user may
// take, newest first, each carrying the backend's already_responded flag.
func (c *Client) AvailableSurveys(ctx context.Context) ([]model.Survey, error) {
	var surveys []model.Survey
	if err := c.Get(ctx, "/api/surveys/available", &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

// Survey fetches a single survey with its full question list and validates
// it for taking. Questions are ordered by their backend order field so a
// session always walks them in authoring order.
func (c *Client) Survey(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	path := fmt.Sprintf("/api/surveys/%s", id)
	if err := c.Get(ctx, path, &survey); err != nil {
		return nil, err
	}

	sort.SliceStable(survey.Questions, func(i, j int) bool {
		return survey.Questions[i].Order < survey.Questions[j].Order
	})

	if err := validateSurvey(&survey); err != nil {
		return nil, err
	}
	return &survey, nil
}

// validateSurvey enforces the structural invariants a survey must satisfy
// before a session may start: at least one question, unique question ids,
// and options on every multiple_choice question.
func validateSurvey(s *model.Survey) error {
	if len(s.Questions) == 0 {
		return &InvalidSurveyError{SurveyID: s.ID, Reason: "no questions"}
	}

	seen := make(map[string]bool, len(s.Questions))
	for _, q := range s.Questions {
		if q.ID == "" {
			return &InvalidSurveyError{
				SurveyID: s.ID,
				Reason:   "question with empty id",
			}
		}
		if seen[q.ID] {
			return &InvalidSurveyError{
				SurveyID: s.ID,
				Reason:   fmt.Sprintf("duplicate question id %q", q.ID),
			}
		}
		seen[q.ID] = true

		if q.Type == model.QuestionMultipleChoice && len(q.Options) == 0 {
			return &InvalidSurveyError{
				SurveyID: s.ID,
				Reason:   fmt.Sprintf("multiple_choice question %q has no options", q.ID),
			}
		}
	}
	return nil
}

// surveySubmission is the submit request body.
type surveySubmission struct {
	Answers []model.SurveyAnswer `json:"answers"`
}

// SubmitSurvey persists a completed response. The backend rejects repeat
// submissions with a human-readable error that is surfaced as a ServerError.
func (c *Client) SubmitSurvey(ctx context.Context, id string, answers []model.SurveyAnswer) error {
	path := fmt.Sprintf("/api/surveys/%s/submit", id)
	var resp statusResponse
	return c.Post(ctx, path, surveySubmission{Answers: answers}, &resp)
}

// SubmittedSurveyCount returns how many surveys the current user has
// completed.
func (c *Client) SubmittedSurveyCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.Get(ctx, "/api/surveys/submitted/count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

package model

// QuestionType identifies the kind of input a survey question expects.
type QuestionType string

const (
	QuestionRating         QuestionType = "rating"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFreeText       QuestionType = "free_text"
	QuestionYesNo          QuestionType = "yes_no"
)

// SurveyQuestion is a single question within a survey. Question IDs are
// unique within their survey; multiple_choice questions carry a non-empty
// option set.
type SurveyQuestion struct {
	ID       string       `json:"question_id"`
	Text     string       `json:"question_text"`
	Type     QuestionType `json:"question_type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
	Order    int          `json:"order"`
}

// Survey is a feedback survey published by campus staff. It is immutable
// once fetched for a session.
type Survey struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Type is the survey category (e.g., "feedback", "course_evaluation").
	Type string `json:"survey_type"`

	// Status is "active" or "closed".
	Status string `json:"status"`

	IsAnonymous bool   `json:"is_anonymous"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`

	Questions []SurveyQuestion `json:"questions"`

	// AlreadyResponded is set by the backend on catalog and fetch
	// responses when the current user has submitted this survey.
	AlreadyResponded bool `json:"already_responded"`

	TotalResponses int `json:"total_responses"`
}

// SurveyAnswer is one answered question in a submission. Submissions carry
// answers ordered by the survey's question order.
type SurveyAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

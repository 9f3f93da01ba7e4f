package domain

import "time"

// QuestionnaireType distinguishes admission questionnaires, which gate
// attendance, from feedback questionnaires, which never do.
type QuestionnaireType string

const (
	QuestionnaireAdmission QuestionnaireType = "ADMISSION"
	QuestionnaireFeedback  QuestionnaireType = "FEEDBACK"
)

// SubmissionStatus is the state of a questionnaire submission.
type SubmissionStatus string

const (
	SubmissionDraft SubmissionStatus = "DRAFT"
	SubmissionReady SubmissionStatus = "READY"
)

// EvaluationStatus is the terminal state of a submission's review.
type EvaluationStatus string

const (
	EvaluationPending  EvaluationStatus = "PENDING_REVIEW"
	EvaluationApproved EvaluationStatus = "APPROVED"
	EvaluationRejected EvaluationStatus = "REJECTED"
)

// OrgQuestionnaire links a questionnaire to an event, directly or through
// the event's series, and carries the gating policy for it.
type OrgQuestionnaire struct {
	ID              string            `json:"id"`
	QuestionnaireID string            `json:"questionnaire_id"`
	EventID         string            `json:"event_id"`
	Type            QuestionnaireType `json:"questionnaire_type"`

	// MembersExempt exempts active members from this questionnaire.
	MembersExempt bool `json:"members_exempt"`
	// MaxSubmissionAge is the TTL on an approved evaluation; nil means
	// approvals never expire.
	MaxSubmissionAge *time.Duration `json:"max_submission_age,omitempty"`

	// MaxAttempts is the retake limit; 0 means unlimited.
	MaxAttempts int `json:"max_attempts"`
	// CanRetakeAfter is the cooldown before retaking a rejected
	// questionnaire; nil means immediate retry is allowed.
	CanRetakeAfter *time.Duration `json:"can_retake_after,omitempty"`
}

// QuestionnaireSubmission is a user's answer set, with its evaluation if any.
// The engine only reads terminal states; scoring happens elsewhere.
type QuestionnaireSubmission struct {
	ID              string           `json:"id"`
	QuestionnaireID string           `json:"questionnaire_id"`
	UserID          string           `json:"user_id"`
	Status          SubmissionStatus `json:"status"`
	SubmittedAt     time.Time        `json:"submitted_at"`

	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// Evaluation is the review outcome of one submission.
type Evaluation struct {
	ID          string           `json:"id"`
	Status      EvaluationStatus `json:"status"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}

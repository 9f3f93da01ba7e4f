package domain

import "time"

// Reason is a stable machine-readable code for why a user was blocked.
type Reason string

const (
	ReasonBlacklisted               Reason = "BLACKLISTED"
	ReasonVerificationRequired      Reason = "VERIFICATION_REQUIRED"
	ReasonEventEnded                Reason = "EVENT_ENDED"
	ReasonEventNotOpen              Reason = "EVENT_NOT_OPEN"
	ReasonRSVPDeadlinePassed        Reason = "RSVP_DEADLINE_PASSED"
	ReasonApplicationDeadlinePassed Reason = "APPLICATION_DEADLINE_PASSED"
	ReasonRequiresInvitation        Reason = "REQUIRES_INVITATION"
	ReasonMembersOnly               Reason = "MEMBERS_ONLY"
	ReasonMembershipInactive        Reason = "MEMBERSHIP_INACTIVE"
	ReasonQuestionnaireMissing      Reason = "QUESTIONNAIRE_MISSING"
	ReasonQuestionnairePending      Reason = "QUESTIONNAIRE_PENDING_REVIEW"
	ReasonQuestionnaireFailed       Reason = "QUESTIONNAIRE_FAILED"
	ReasonEventIsFull               Reason = "EVENT_IS_FULL"
	ReasonSoldOut                   Reason = "SOLD_OUT"
	ReasonTicketSalesClosed         Reason = "TICKET_SALES_CLOSED"
	ReasonRequiresTicket            Reason = "REQUIRES_TICKET"
	ReasonRequiresPurchase          Reason = "REQUIRES_PURCHASE"
	ReasonMembershipTierRequired    Reason = "MEMBERSHIP_TIER_REQUIRED"
)

var reasonMessages = map[Reason]string{
	ReasonBlacklisted:               "blacklisted",
	ReasonVerificationRequired:      "verification required",
	ReasonEventEnded:                "event has ended",
	ReasonEventNotOpen:              "event is not open",
	ReasonRSVPDeadlinePassed:        "RSVP deadline passed",
	ReasonApplicationDeadlinePassed: "application deadline passed",
	ReasonRequiresInvitation:        "requires an invitation",
	ReasonMembersOnly:               "members only",
	ReasonMembershipInactive:        "membership is inactive",
	ReasonQuestionnaireMissing:      "questionnaire missing",
	ReasonQuestionnairePending:      "questionnaire pending review",
	ReasonQuestionnaireFailed:       "questionnaire failed",
	ReasonEventIsFull:               "event is full",
	ReasonSoldOut:                   "sold out",
	ReasonTicketSalesClosed:         "ticket sales closed",
	ReasonRequiresTicket:            "requires a ticket",
	ReasonRequiresPurchase:          "requires a purchase",
	ReasonMembershipTierRequired:    "membership tier required",
}

// Message returns the human-readable message for the reason.
func (r Reason) Message() string {
	return reasonMessages[r]
}

// NextStep tells a blocked user what corrective action is available.
type NextStep string

const (
	StepRequestInvitation         NextStep = "REQUEST_INVITATION"
	StepWaitForInvitation         NextStep = "WAIT_FOR_INVITATION_APPROVAL"
	StepBecomeMember              NextStep = "BECOME_MEMBER"
	StepCompleteQuestionnaire     NextStep = "COMPLETE_QUESTIONNAIRE"
	StepWaitForEvaluation         NextStep = "WAIT_FOR_QUESTIONNAIRE_EVALUATION"
	StepWaitToRetakeQuestionnaire NextStep = "WAIT_TO_RETAKE_QUESTIONNAIRE"
	StepWaitForEventToOpen        NextStep = "WAIT_FOR_EVENT_TO_OPEN"
	StepJoinWaitlist              NextStep = "JOIN_WAITLIST"
	StepWaitForOpenSpot           NextStep = "WAIT_FOR_OPEN_SPOT"
	StepPurchaseTicket            NextStep = "PURCHASE_TICKET"
	StepRSVP                      NextStep = "RSVP"
	StepUpgradeMembership         NextStep = "UPGRADE_MEMBERSHIP"
	StepRequestWhitelist          NextStep = "REQUEST_WHITELIST"
	StepWaitForWhitelist          NextStep = "WAIT_FOR_WHITELIST_APPROVAL"
	StepCompleteProfile           NextStep = "COMPLETE_PROFILE"
)

// StepPtr returns a pointer to the given step.
func StepPtr(s NextStep) *NextStep {
	return &s
}

// Decision is the sole output of an eligibility check. A nil Reason means
// the user is allowed; a blocked Decision always carries a Reason and,
// when recourse exists, a NextStep.
// swagger:model Decision
type Decision struct {
	Allowed bool   `json:"allowed"`
	EventID string `json:"event_id"`

	Reason   *Reason   `json:"reason,omitempty"`
	Message  string    `json:"message,omitempty"`
	NextStep *NextStep `json:"next_step,omitempty"`

	QuestionnairesMissing       []string `json:"questionnaires_missing,omitempty"`
	QuestionnairesPendingReview []string `json:"questionnaires_pending_review,omitempty"`
	QuestionnairesFailed        []string `json:"questionnaires_failed,omitempty"`

	RetryOn *time.Time `json:"retry_on,omitempty"`

	MissingProfileFields []string `json:"missing_profile_fields,omitempty"`
}

// Allow returns an allowing Decision for the event.
func Allow(eventID string) Decision {
	return Decision{Allowed: true, EventID: eventID}
}

// Block returns a blocking Decision with the reason's message filled in.
func Block(eventID string, reason Reason, step *NextStep) Decision {
	return Decision{
		Allowed:  false,
		EventID:  eventID,
		Reason:   &reason,
		Message:  reason.Message(),
		NextStep: step,
	}
}
